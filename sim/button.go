package sim

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cgxeiji/pulsewear"
)

// KeyButton turns each press into a level held high for a while, the way
// a finger holds the real button down across several control ticks.
type KeyButton struct {
	clock pulsewear.Clock
	hold  uint32 // ms

	mu   sync.Mutex
	down bool
	at   uint32
}

// NewKeyButton returns a released button.
func NewKeyButton(clock pulsewear.Clock, hold time.Duration) *KeyButton {
	return &KeyButton{clock: clock, hold: uint32(hold.Milliseconds())}
}

// Press pushes the button. It may be called from any goroutine.
func (k *KeyButton) Press() {
	k.mu.Lock()
	k.down, k.at = true, k.clock.Millis()
	k.mu.Unlock()
}

// Pressed implements pulsewear.Button.
func (k *KeyButton) Pressed() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.down && k.clock.Millis()-k.at >= k.hold {
		k.down = false
	}
	return k.down
}

// Keys reads commands from r, one per line, until EOF or ctx is done:
// an empty line presses the button and "l" lifts or replaces the finger.
// Other lines are ignored.
func Keys(ctx context.Context, r io.Reader, b *KeyButton, s *Sensor) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch strings.TrimSpace(sc.Text()) {
		case "":
			b.Press()
		case "l":
			s.LiftFinger(!s.Lifted())
		}
	}
	return sc.Err()
}

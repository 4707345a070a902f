// Package button reads the session push-button from a GPIO line.
package button

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/host"
)

// ErrNoPin is returned when the named GPIO does not exist on the host.
var ErrNoPin = errors.New("button: no such pin")

// Button is an active-high push-button with a pull-down.
type Button struct {
	pin gpio.PinIn
}

// Open looks up the pin by name, e.g. "GPIO9", and configures it as an
// input.
func Open(name string) (*Button, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("button: could not init host: %w", err)
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPin, name)
	}
	return New(p)
}

// New configures p as a pulled-down input without edge detection; the
// control loop polls it.
func New(p gpio.PinIn) (*Button, error) {
	if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("button: could not configure %s: %w", p, err)
	}
	return &Button{pin: p}, nil
}

// Pressed implements pulsewear.Button.
func (b *Button) Pressed() bool {
	return b.pin.Read() == gpio.High
}

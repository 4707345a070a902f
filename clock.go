package pulsewear

import "time"

// Clock is the monotonic millisecond counter of the monitor. Millis wraps
// around after about 49 days; callers compare differences only.
type Clock interface {
	Millis() uint32
	// Sleep blocks for ms milliseconds.
	Sleep(ms uint32)
}

type systemClock struct {
	start time.Time
}

// SystemClock returns a Clock counting from the moment it was created.
func SystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

func (c *systemClock) Sleep(ms uint32) {
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

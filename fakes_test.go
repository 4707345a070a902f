package pulsewear

import (
	"errors"
	"strings"
)

type fakeClock struct {
	now    uint32
	sleeps int
}

func (c *fakeClock) Millis() uint32 { return c.now }

func (c *fakeClock) Sleep(ms uint32) {
	c.sleeps++
	c.now += ms
}

// fakeButton is pressed whenever the clock is inside one of the held
// windows [from, to).
type fakeButton struct {
	clock *fakeClock
	held  [][2]uint32
}

func (b *fakeButton) Pressed() bool {
	for _, w := range b.held {
		if b.clock.now >= w[0] && b.clock.now < w[1] {
			return true
		}
	}
	return false
}

type fakeSensor struct {
	queue   []Sample
	awake   bool
	wakes   int
	sleeps  int
	configs []SensorConfig
	pollErr error
	wakeErr error
}

func (s *fakeSensor) Configure(cfg SensorConfig) error {
	s.configs = append(s.configs, cfg)
	return nil
}

func (s *fakeSensor) Wake() error {
	s.wakes++
	s.awake = true
	return s.wakeErr
}

func (s *fakeSensor) Sleep() error {
	s.sleeps++
	s.awake = false
	return nil
}

func (s *fakeSensor) Available() (bool, error) {
	if s.pollErr != nil {
		return false, s.pollErr
	}
	return len(s.queue) > 0, nil
}

func (s *fakeSensor) ReadSample() (Sample, error) {
	if len(s.queue) == 0 {
		return Sample{}, errors.New("fifo empty")
	}
	v := s.queue[0]
	s.queue = s.queue[1:]
	return v, nil
}

func (s *fakeSensor) push(samples ...Sample) {
	s.queue = append(s.queue, samples...)
}

// oddBeats reports a beat on every sample whose red intensity is odd.
type oddBeats struct{}

func (oddBeats) BeatDetected(red uint32) bool { return red%2 == 1 }

var (
	plain = Sample{Red: 100000, IR: 100000}
	pulse = Sample{Red: 100001, IR: 100000}
)

type drawing struct {
	texts   []string
	bitmaps []string
}

func (d *drawing) Text(x, y int, f Font, s string) { d.texts = append(d.texts, s) }
func (d *drawing) Bitmap(x, y int, b Bitmap)       { d.bitmaps = append(d.bitmaps, b.Name) }

func (d *drawing) has(s string) bool {
	for _, t := range d.texts {
		if t == s {
			return true
		}
	}
	return false
}

type fakeDisplay struct {
	frames []*drawing
}

func (d *fakeDisplay) Frame(draw func(Canvas)) error {
	f := &drawing{}
	draw(f)
	d.frames = append(d.frames, f)
	return nil
}

func (d *fakeDisplay) last() *drawing {
	if len(d.frames) == 0 {
		return &drawing{}
	}
	return d.frames[len(d.frames)-1]
}

type lineLink struct {
	lines []string
}

func (l *lineLink) Write(p []byte) (int, error) {
	l.lines = append(l.lines, strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

func (l *lineLink) count(s string) int {
	n := 0
	for _, line := range l.lines {
		if line == s {
			n++
		}
	}
	return n
}

type rig struct {
	clock   *fakeClock
	button  *fakeButton
	sensor  *fakeSensor
	display *fakeDisplay
	link    *lineLink
	c       *Controller
}

func newRig(options ...Option) *rig {
	r := &rig{
		clock:   &fakeClock{},
		sensor:  &fakeSensor{},
		display: &fakeDisplay{},
		link:    &lineLink{},
	}
	r.button = &fakeButton{clock: r.clock}
	opts := append([]Option{
		WithClock(r.clock),
		WithButton(r.button),
		WithDisplay(r.display),
		WithTransport(r.link),
		WithBeatDetector(oddBeats{}),
	}, options...)
	r.c = New(r.sensor, opts...)
	return r
}

// runUntil ticks once per ms until the clock reaches end.
func (r *rig) runUntil(end uint32) {
	for r.clock.now < end {
		r.c.Tick()
		r.clock.now++
	}
}

// at advances the clock to now and ticks once.
func (r *rig) at(now uint32) {
	r.clock.now = now
	r.c.Tick()
}

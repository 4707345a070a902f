// Package receiver is the companion side of the telemetry link. It labels
// every reading, averages the instantaneous heart rate over a fixed window
// and reports one summary per window.
package receiver

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/cgxeiji/pulsewear/telemetry"
)

// Status classifies a heart rate.
type Status int

// Statuses.
const (
	Normal Status = iota
	Low
	High
)

const (
	lowBelow  = 50
	highAbove = 100
	// Readings at or below this are treated as noise and not averaged.
	noiseFloor = 30
)

func (s Status) String() string {
	switch s {
	case Low:
		return "Low"
	case High:
		return "High"
	}
	return "Normal"
}

// PulseStatus labels a heart rate.
func PulseStatus(bpm int) Status {
	switch {
	case bpm < lowBelow:
		return Low
	case bpm > highAbove:
		return High
	}
	return Normal
}

// Summary is the outcome of one averaging window.
type Summary struct {
	At      time.Time
	Mean    float64
	Samples int
	Status  Status
}

// Window accumulates instantaneous heart rates.
type Window struct {
	span  time.Duration
	start time.Time
	sum   int
	n     int
}

// NewWindow returns a window of the given span opened at now.
func NewWindow(span time.Duration, now time.Time) *Window {
	return &Window{span: span, start: now}
}

// Add records bpm if it is above the noise floor.
func (w *Window) Add(bpm int) {
	if bpm <= noiseFloor {
		return
	}
	w.sum += bpm
	w.n++
}

// Len returns the number of readings held.
func (w *Window) Len() int { return w.n }

// Flush closes the window if its span has elapsed at now. A summary is
// returned only if the window held readings; the window restarts at now
// either way.
func (w *Window) Flush(now time.Time) (Summary, bool) {
	if now.Sub(w.start) < w.span {
		return Summary{}, false
	}
	w.start = now
	if w.n == 0 {
		return Summary{}, false
	}
	mean := float64(w.sum) / float64(w.n)
	s := Summary{At: now, Mean: mean, Samples: w.n, Status: PulseStatus(int(mean))}
	w.sum, w.n = 0, 0
	return s, true
}

// Reset empties the window and restarts it at now.
func (w *Window) Reset(now time.Time) {
	w.sum, w.n = 0, 0
	w.start = now
}

// Receiver consumes telemetry lines from one goroutine.
type Receiver struct {
	window    *Window
	now       func() time.Time
	log       *zap.Logger
	onSummary func(Summary)
	last      telemetry.Reading
}

// New returns a Receiver averaging over span. onSummary may be nil.
func New(span time.Duration, log *zap.Logger, onSummary func(Summary)) *Receiver {
	return newReceiver(span, time.Now, log, onSummary)
}

func newReceiver(span time.Duration, now func() time.Time, log *zap.Logger, onSummary func(Summary)) *Receiver {
	if onSummary == nil {
		onSummary = func(Summary) {}
	}
	return &Receiver{
		window:    NewWindow(span, now()),
		now:       now,
		log:       log,
		onSummary: onSummary,
	}
}

// Last returns the most recent reading.
func (r *Receiver) Last() telemetry.Reading { return r.last }

// Handle processes one line.
func (r *Receiver) Handle(line string) {
	reading, err := telemetry.Parse(line)
	switch {
	case errors.Is(err, telemetry.ErrControl):
		r.window.Reset(r.now())
		r.log.Info("session", zap.String("event", line))
		return
	case err != nil:
		r.log.Debug("skipping line", zap.Error(err))
		return
	}

	r.last = reading
	r.log.Debug("reading",
		zap.Int("bpm", reading.BPM),
		zap.Int("avg_bpm", reading.AverageBPM),
		zap.Stringer("status", PulseStatus(reading.BPM)),
	)
	r.window.Add(reading.BPM)
	if s, ok := r.window.Flush(r.now()); ok {
		r.log.Info("window",
			zap.Float64("mean_bpm", s.Mean),
			zap.Int("samples", s.Samples),
			zap.Stringer("status", s.Status),
		)
		r.onSummary(s)
	}
}

// Run handles lines until ctx is done or lines is closed.
func (r *Receiver) Run(ctx context.Context, lines <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return nil
			}
			r.Handle(l)
		}
	}
}

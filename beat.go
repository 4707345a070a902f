package pulsewear

// fullScale is the largest reading of the 18-bit sensor ADC.
const fullScale = 1<<18 - 1

// Pulse amplitude window, in filter output units, for an edge to count as
// a beat.
const (
	minPulse = 1
	maxPulse = 50
)

// PulseDetector finds beats in the red channel. The DC level is removed
// with a short moving average, the remainder is smoothed by a low-pass FIR
// and a beat is reported on each rising zero crossing whose preceding swing
// falls inside the pulse window.
//
// PulseDetector implements BeatDetector.
type PulseDetector struct {
	lowPass fir
	dc      float64

	max, min float64
	prev     float64
	rising   bool
}

// NewPulseDetector returns a detector with empty filter state.
func NewPulseDetector() *PulseDetector {
	return &PulseDetector{}
}

// BeatDetected feeds one raw red intensity and reports whether it completed
// a beat.
func (p *PulseDetector) BeatDetected(red uint32) bool {
	signal := float64(red) / fullScale

	p.dc += (signal - p.dc) / 4
	ac := p.lowPass.filter(signal - p.dc)

	beat := false

	if p.prev < 0 && ac >= 0 {
		swing := p.max - p.min
		if swing > minPulse && swing < maxPulse {
			beat = true
		}
		p.rising = true
		p.max = 0
	}

	if p.prev > 0 && ac <= 0 {
		p.rising = false
		p.min = 0
	}

	if p.rising {
		if ac > p.prev {
			p.max = ac
		}
	} else if ac < p.prev {
		p.min = ac
	}

	p.prev = ac
	return beat
}

// Reset clears the filter state, e.g. after the sensor was powered down.
func (p *PulseDetector) Reset() {
	*p = PulseDetector{}
}

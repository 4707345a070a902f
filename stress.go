package pulsewear

// StressLevel is a coarse stress label derived from beat interval
// variability.
type StressLevel int

// Stress levels.
const (
	StressLow StressLevel = iota
	StressMed
	StressHigh
)

func (s StressLevel) String() string {
	switch s {
	case StressLow:
		return "Low"
	case StressMed:
		return "Med"
	case StressHigh:
		return "High"
	}
	return "?"
}

// ClassifyStress compares the intervals held in slots 0 and 1 of the
// history. Those are fixed slots, not the two newest intervals. A wider
// difference means more variability, which reads as lower stress.
func ClassifyStress(h *IntervalHistory) StressLevel {
	a, b := h.At(0), h.At(1)
	diff := a - b
	if b > a {
		diff = b - a
	}

	switch {
	case diff > stressLowDiff:
		return StressLow
	case diff > stressMedDiff:
		return StressMed
	}
	return StressHigh
}

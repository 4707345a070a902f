package pulsewear

// beatTracker turns beat edges into inter-beat intervals and keeps the
// histories of accepted beats.
type beatTracker struct {
	last      uint32
	bpm       int
	rates     RateHistory
	intervals IntervalHistory
}

// beat records an edge seen at now (ms). It reports whether the beat was
// accepted into the histories. The last edge timestamp is always moved
// forward so that one noisy edge does not skew the next interval.
func (t *beatTracker) beat(now uint32) bool {
	delta := now - t.last
	t.last = now

	if delta == 0 {
		return false
	}
	bpm := int(bpmScale / delta)
	t.bpm = bpm

	if bpm <= minBPM || bpm >= maxBPM {
		return false
	}

	t.rates.push(uint8(bpm))
	t.intervals.push(delta)
	return true
}

// averageRate is the truncated mean over every slot of the rate history,
// including slots not yet filled since power-up.
func averageRate(h *RateHistory) int {
	return int(h.sum() / historySize)
}

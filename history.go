package pulsewear

// history is a fixed ring of the last historySize values. The write index
// wraps and overwrites the oldest slot. Slots that were never written are
// zero.
type history[T uint8 | uint32] struct {
	slots [historySize]T
	idx   int
}

func (h *history[T]) push(v T) {
	h.slots[h.idx] = v
	h.idx++
	h.idx %= historySize
}

// At returns the value stored in slot i.
func (h history[T]) At(i int) T {
	return h.slots[i]
}

// Slots returns a copy of every slot in index order.
func (h history[T]) Slots() [historySize]T {
	return h.slots
}

func (h *history[T]) sum() uint32 {
	var s uint32
	for _, v := range h.slots {
		s += uint32(v)
	}
	return s
}

// RateHistory holds the BPM of the last accepted beats.
type RateHistory = history[uint8]

// IntervalHistory holds the raw inter-beat intervals, in ms, of the last
// accepted beats.
type IntervalHistory = history[uint32]

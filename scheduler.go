package pulsewear

// schedule fires at most once per interval. Timestamps are ms from a
// wrapping 32-bit counter, so only differences are compared.
type schedule struct {
	interval uint32
	last     uint32
}

// due reports whether the interval has elapsed since the last firing and,
// if so, marks now as the last firing.
func (s *schedule) due(now uint32) bool {
	if now-s.last < s.interval {
		return false
	}
	s.last = now
	return true
}

// expiry is a cosmetic flag that clears itself ttl ms after being set.
type expiry struct {
	ttl uint32
	on  bool
	set uint32
}

func (e *expiry) start(now uint32) {
	e.on = true
	e.set = now
}

func (e *expiry) clear() {
	e.on = false
}

// expire clears the flag once its ttl has elapsed. It reports whether the
// flag was cleared by this call.
func (e *expiry) expire(now uint32) bool {
	if !e.on || now-e.set < e.ttl {
		return false
	}
	e.on = false
	return true
}

// active reports whether the flag is still set.
func (e *expiry) active() bool {
	return e.on
}

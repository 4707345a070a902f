package pulsewear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeatTracker(t *testing.T) {
	var b beatTracker

	assert.True(t, b.beat(1000))
	assert.Equal(t, 120, b.bpm)
	assert.Equal(t, [4]uint8{120, 0, 0, 0}, b.rates.Slots())
	assert.Equal(t, [4]uint32{1000, 0, 0, 0}, b.intervals.Slots())
	assert.Equal(t, 30, averageRate(&b.rates))

	assert.True(t, b.beat(2000))
	assert.Equal(t, 60, averageRate(&b.rates))

	// 240 bpm is noise, but the edge still moves the reference forward.
	assert.False(t, b.beat(2500))
	assert.Equal(t, 240, b.bpm)
	assert.Equal(t, [4]uint8{120, 120, 0, 0}, b.rates.Slots())

	assert.True(t, b.beat(3500))
	assert.Equal(t, 120, b.bpm)
	assert.Equal(t, [4]uint32{1000, 1000, 1000, 0}, b.intervals.Slots())
}

func TestBeatTrackerBounds(t *testing.T) {
	tests := []struct {
		delta uint32
		want  bool
	}{
		{0, false},
		{599, false},
		{600, false}, // 200 bpm
		{601, true},  // 199 bpm
		{3870, true}, // 31 bpm
		{3999, false},
		{4000, false}, // 30 bpm
		{60000, false},
	}
	for _, tt := range tests {
		b := beatTracker{last: 10000}
		assert.Equal(t, tt.want, b.beat(10000+tt.delta), "delta %d", tt.delta)
		assert.Equal(t, uint32(10000+tt.delta), b.last)
	}
}

func TestBeatTrackerWrap(t *testing.T) {
	b := beatTracker{last: 0xFFFFFE00}
	assert.True(t, b.beat(0x000001F4)) // 1012 ms later
	assert.Equal(t, 118, b.bpm)
}

func TestRateHistoryOnlyHoldsPlausibleBeats(t *testing.T) {
	var b beatTracker
	now := uint32(0)
	for delta := uint32(1); delta < 5000; delta += 7 {
		now += delta
		accepted := b.beat(now)
		if accepted {
			assert.Greater(t, b.bpm, 30)
			assert.Less(t, b.bpm, 200)
		}
		for _, v := range b.rates.Slots() {
			if v != 0 {
				assert.Greater(t, int(v), 30)
				assert.Less(t, int(v), 200)
			}
		}
		s := b.rates.Slots()
		want := (int(s[0]) + int(s[1]) + int(s[2]) + int(s[3])) / 4
		assert.Equal(t, want, averageRate(&b.rates))
	}
}

func TestHistoryWraps(t *testing.T) {
	var h IntervalHistory
	for i := uint32(1); i <= 6; i++ {
		h.push(i * 100)
	}
	assert.Equal(t, [4]uint32{500, 600, 300, 400}, h.Slots())
	assert.Equal(t, uint32(500), h.At(0))
}

func TestAverageRateTruncates(t *testing.T) {
	var h RateHistory
	for _, v := range []uint8{61, 62, 62, 62} {
		h.push(v)
	}
	assert.Equal(t, 61, averageRate(&h))
}

func TestHistoryReadFromCopy(t *testing.T) {
	var tr beatTracker
	require.True(t, tr.beat(1000))

	snapshot := func() RateHistory { return tr.rates }
	assert.Equal(t, uint8(120), snapshot().At(0))
	assert.Equal(t, [4]uint8{120, 0, 0, 0}, snapshot().Slots())
}

// Package telemetry encodes and decodes the line protocol spoken over the
// monitor's serial link.
//
// The monitor writes "START" and "STOP" when a session begins and ends, and
// one "<ir>,<bpm>,<avgBpm>" reading every 200 ms while active. Every line is
// terminated by a single '\n'.
package telemetry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Control lines.
const (
	Start = "START"
	Stop  = "STOP"
)

var (
	// ErrControl is returned by Parse for START and STOP lines.
	ErrControl = errors.New("control line")
	// ErrMalformed is returned by Parse for lines that are not readings.
	ErrMalformed = errors.New("malformed line")
)

// Reading is one telemetry sample.
type Reading struct {
	IR         uint32
	BPM        int
	AverageBPM int
}

// Append appends the encoded reading, newline included, to dst.
func Append(dst []byte, r Reading) []byte {
	dst = strconv.AppendUint(dst, uint64(r.IR), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(r.BPM), 10)
	dst = append(dst, ',')
	dst = strconv.AppendInt(dst, int64(r.AverageBPM), 10)
	return append(dst, '\n')
}

// Format returns the encoded reading, newline included.
func Format(r Reading) string {
	return string(Append(nil, r))
}

// IsControl reports whether line is a session START or STOP.
func IsControl(line string) bool {
	l := strings.TrimSpace(line)
	return l == Start || l == Stop
}

// Parse decodes a reading. It is lenient the way the companion app is:
// surrounding spaces are trimmed, the IR field may be empty or garbage, and
// the average may be missing. The BPM field must be a number; fractional
// values are truncated.
func Parse(line string) (Reading, error) {
	l := strings.TrimSpace(line)
	if l == Start || l == Stop {
		return Reading{}, fmt.Errorf("telemetry: %q: %w", l, ErrControl)
	}

	parts := strings.Split(l, ",")
	if len(parts) < 2 {
		return Reading{}, fmt.Errorf("telemetry: %q: %w", l, ErrMalformed)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var r Reading
	bpm, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Reading{}, fmt.Errorf("telemetry: could not parse bpm %q: %w", parts[1], ErrMalformed)
	}
	r.BPM = int(bpm)

	if ir, err := strconv.ParseUint(parts[0], 10, 32); err == nil {
		r.IR = uint32(ir)
	}
	if len(parts) > 2 {
		if avg, err := strconv.Atoi(parts[2]); err == nil {
			r.AverageBPM = avg
		}
	}

	return r, nil
}

package pulsewear

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDetected is returned when a sample carries no usable signal,
	// either because nothing is touching the sensor or because the infrared
	// channel reads zero.
	ErrNotDetected = errors.New("nothing detected on the sensor")
	// ErrSensorInit is returned when the sensor cannot be brought up at
	// startup. It is not recoverable.
	ErrSensorInit = errors.New("sensor initialization failed")
)

// Sample is one red/infrared intensity pair read from the sensor FIFO.
type Sample struct {
	Red uint32
	IR  uint32
}

// CheckSample validates a sample before it reaches the estimators. A red
// intensity under the contact floor means the sensor is not on skin.
func CheckSample(s Sample) error {
	if s.Red < contactFloor {
		return fmt.Errorf("pulsewear: red %d under contact floor: %w", s.Red, ErrNotDetected)
	}
	if s.IR == 0 {
		return fmt.Errorf("pulsewear: infrared channel is zero: %w", ErrNotDetected)
	}
	return nil
}

// EstimateSpO2 maps the red/infrared ratio of a sample to a coarse SpO2
// percentage. It is a fixed lookup, not a calibrated model.
func EstimateSpO2(s Sample) (int, error) {
	if s.IR == 0 {
		return 0, fmt.Errorf("pulsewear: could not get SpO2: %w", ErrNotDetected)
	}

	ratio := float64(s.Red) / float64(s.IR)
	return spo2Band(ratio), nil
}

func spo2Band(ratio float64) int {
	switch {
	case ratio > 1.0:
		return 99
	case ratio > 0.95:
		return 98
	case ratio > 0.90:
		return 96
	}
	return 92
}

package max30102

import "fmt"

// Settings are the acquisition parameters in physical units.
type Settings struct {
	RedCurrent    float64 // mA
	IRCurrent     float64 // mA
	SampleAverage int     // 1, 2, 4, 8, 16 or 32
	SampleRate    int     // Hz
	PulseWidth    int     // us
	ADCRange      int     // nA
}

var (
	averages = map[int]byte{1: SMPAve1, 2: SMPAve2, 4: SMPAve4, 8: SMPAve8, 16: SMPAve16, 32: SMPAve32}
	rates    = map[int]byte{50: SR50, 100: SR100, 200: SR200, 400: SR400, 800: SR800, 1000: SR1000, 1600: SR1600, 3200: SR3200}
	widths   = map[int]byte{69: PW69, 118: PW118, 215: PW215, 411: PW411}
	ranges   = map[int]byte{2048: ADC2048, 4096: ADC4096, 8192: ADC8192, 16384: ADC16384}
)

// Options converts s into device options. The mode is always SpO2 so that
// the FIFO carries red and IR pairs.
func (s Settings) Options() ([]Option, error) {
	avg, ok := averages[s.SampleAverage]
	if !ok {
		return nil, fmt.Errorf("sample average %d: %w", s.SampleAverage, ErrUnsupported)
	}
	sr, ok := rates[s.SampleRate]
	if !ok {
		return nil, fmt.Errorf("sample rate %d Hz: %w", s.SampleRate, ErrUnsupported)
	}
	pw, ok := widths[s.PulseWidth]
	if !ok {
		return nil, fmt.Errorf("pulse width %d us: %w", s.PulseWidth, ErrUnsupported)
	}
	adc, ok := ranges[s.ADCRange]
	if !ok {
		return nil, fmt.Errorf("ADC range %d nA: %w", s.ADCRange, ErrUnsupported)
	}

	return []Option{
		SampleAverage(avg),
		FIFORollover(true),
		Mode(ModeSpO2),
		ADCRange(adc),
		SampleRate(sr),
		PulseWidth(pw),
		RedPulseAmp(s.RedCurrent),
		IRPulseAmp(s.IRCurrent),
	}, nil
}

// Setup resets the device and applies s.
func (d *Device) Setup(s Settings) error {
	opts, err := s.Options()
	if err != nil {
		return err
	}
	if err := d.Reset(); err != nil {
		return err
	}
	if _, err := d.Options(opts...); err != nil {
		return fmt.Errorf("max30102: could not set up device: %w", err)
	}
	return nil
}

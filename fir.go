package pulsewear

// Symmetric low-pass kernel; firCoeff[11] is the centre tap.
var firCoeff = [12]float64{21.5, 40.125, 72.375, 115.875, 170.0, 232.25, 298.75, 364.5, 423.875, 471.0, 501.5, 512.0}

const (
	firSize = 32
	firMask = firSize - 1
)

// fir is a fixed 32-slot delay line.
type fir struct {
	buf [firSize]float64
	idx int
}

func (f *fir) filter(v float64) float64 {
	f.buf[f.idx] = v

	z := firCoeff[11] * f.buf[(f.idx-11)&firMask]
	for i := 0; i < 11; i++ {
		z += firCoeff[i] * (f.buf[(f.idx-i)&firMask] + f.buf[(f.idx-22+i)&firMask])
	}

	f.idx = (f.idx + 1) & firMask
	return z
}

package pulsewear

import "strconv"

// Font selects one of the two typefaces of the display.
type Font int

// Fonts.
const (
	// FontSmall is a 6x10 cell font used for readouts and alerts.
	FontSmall Font = iota
	// FontLarge is an 8x16 cell font used for the BPM figure.
	FontLarge
)

// Bitmap is a 1-bit image stored row by row, most significant bit first,
// each row padded to whole bytes.
type Bitmap struct {
	Name          string
	Width, Height int
	Data          []byte
}

// Bit reports whether the pixel at (x, y) is set.
func (b Bitmap) Bit(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	stride := (b.Width + 7) / 8
	i := y*stride + x/8
	if i >= len(b.Data) {
		return false
	}
	return b.Data[i]&(0x80>>uint(x%8)) != 0
}

// Canvas is the drawing surface handed out for one frame. Text positions
// are the left end of the baseline; bitmap positions are the top-left
// corner.
type Canvas interface {
	Text(x, y int, f Font, s string)
	Bitmap(x, y int, b Bitmap)
}

// Display is a double-buffered screen. Frame clears the back buffer, calls
// draw and flushes the result, even if draw drew nothing.
type Display interface {
	Frame(draw func(Canvas)) error
}

// Glyphs.
var (
	HeartBitmap = Bitmap{Name: "heart", Width: 16, Height: 13, Data: []byte{
		0x00, 0x00, 0x1C, 0x38, 0x3E, 0x7C, 0x7F, 0xFE,
		0x7F, 0xFE, 0x7F, 0xFE, 0x3F, 0xFC, 0x1F, 0xF8,
		0x0F, 0xF0, 0x07, 0xE0, 0x03, 0xC0, 0x01, 0x80, 0x00, 0x00,
	}}
	SmileBitmap = Bitmap{Name: "smile", Width: 16, Height: 14, Data: []byte{
		0x03, 0xC0, 0x0C, 0x30, 0x10, 0x08, 0x20, 0x04,
		0x40, 0x02, 0x46, 0x62, 0x46, 0x62, 0x40, 0x02,
		0x40, 0x02, 0x48, 0x12, 0x24, 0x24, 0x13, 0xC8,
		0x0C, 0x30, 0x03, 0xC0,
	}}
	PulseBitmap = Bitmap{Name: "pulse", Width: 24, Height: 24, Data: []byte{
		0x00, 0x00, 0x00, 0x0f, 0xc1, 0xe0, 0x1f, 0xf7, 0xf8, 0x3f, 0xff, 0xfc,
		0x7f, 0xff, 0xfe, 0x7f, 0xff, 0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xe7, 0xff, 0xff, 0xc7, 0x0f, 0xf8, 0x12, 0x0f, 0x78, 0x3a, 0x7e,
		0x7f, 0xf8, 0xfe, 0x3f, 0xfc, 0xfc, 0x1f, 0xff, 0xf8, 0x0f, 0xff, 0xf0,
		0x07, 0xff, 0xe0, 0x03, 0xff, 0xc0, 0x01, 0xff, 0x80, 0x00, 0xff, 0x00,
		0x00, 0x7e, 0x00, 0x00, 0x3c, 0x00, 0x00, 0x18, 0x00, 0x00, 0x00, 0x00,
	}}
)

// Alert is the health alert shown in place of the readout.
type Alert int

// Alerts.
const (
	AlertNone Alert = iota
	// AlertRest is raised when the average heart rate is high.
	AlertRest
	// AlertStandUp is raised when the average heart rate is low but not
	// zero.
	AlertStandUp
)

// HealthAlert picks the alert for an average heart rate. A high rate wins
// over a low one.
func HealthAlert(avg int) Alert {
	switch {
	case avg > restAbove:
		return AlertRest
	case avg > standUpAbove && avg < standUpBelow:
		return AlertStandUp
	}
	return AlertNone
}

func drawMain(c Canvas, m Metrics, flash bool) {
	switch HealthAlert(m.AverageBPM) {
	case AlertRest:
		c.Text(2, 10, FontSmall, "HR HIGH! REST")
		c.Text(2, 22, FontSmall, "Please rest.")
	case AlertStandUp:
		c.Text(2, 10, FontSmall, "HR LOW! WALK")
		c.Text(2, 22, FontSmall, "Please stand up.")
	default:
		c.Text(2, 12, FontSmall, "SpO2:")
		c.Text(33, 12, FontSmall, strconv.Itoa(m.SpO2)+"%")
		c.Text(60, 12, FontSmall, "Stress:")
		c.Text(105, 12, FontSmall, m.Stress.String())
	}

	c.Bitmap(2, 32, PulseBitmap)
	c.Text(32, 50, FontLarge, strconv.Itoa(m.AverageBPM)+" BPM")

	if flash {
		c.Bitmap(105, 35, HeartBitmap)
	}
}

func drawGreeting(c Canvas) {
	c.Text(10, 35, FontSmall, `\ Merhaba /`)
	c.Bitmap(100, 22, SmileBitmap)
}

func drawPaused(c Canvas) {
	c.Text(30, 40, FontLarge, "PAUSED")
}

// SplashFrames is the number of frames of the startup animation.
const SplashFrames = 6

const splashText = "iclothes"

// DrawSplash draws frame f of the startup animation: the letters of the
// banner slide in from the top and bottom edges until they meet on the
// baseline.
func DrawSplash(c Canvas, f int) {
	const target = 40
	for i := 0; i < len(splashText); i++ {
		x := 15 + i*12
		var y int
		if i%2 == 0 {
			y = f * 10
			if y > target {
				y = target
			}
		} else {
			y = 64 - f*10
			if y < target {
				y = target
			}
		}
		c.Text(x, y, FontLarge, splashText[i:i+1])
	}
}

// DrawFault draws the sensor fault screen.
func DrawFault(c Canvas) {
	c.Text(2, 30, FontLarge, "SENSOR FAULT")
	c.Text(2, 50, FontSmall, "check wiring")
}

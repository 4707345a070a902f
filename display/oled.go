// Package display renders pulsewear frames on the SSD1306 OLED or as text
// on a terminal.
package display

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/devices/ssd1306"
	"periph.io/x/periph/devices/ssd1306/image1bit"

	"github.com/cgxeiji/pulsewear"
)

// Panel is the part of a 1-bit panel driver a frame is flushed to.
// *ssd1306.Dev satisfies it.
type Panel interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Halt() error
}

// OLED is a pulsewear.Display backed by a monochrome panel. The back buffer
// lives in memory; Frame pushes it to the panel in one transfer.
type OLED struct {
	panel Panel
	buf   *image1bit.VerticalLSB
	pen   font.Drawer
}

// OpenOLED initializes a 128x64 SSD1306 on bus.
func OpenOLED(bus i2c.Bus) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("display: could not open ssd1306: %w", err)
	}
	return NewOLED(dev), nil
}

// NewOLED wraps an initialized panel.
func NewOLED(p Panel) *OLED {
	buf := image1bit.NewVerticalLSB(p.Bounds())
	return &OLED{
		panel: p,
		buf:   buf,
		pen: font.Drawer{
			Dst:  buf,
			Src:  &image.Uniform{C: image1bit.On},
			Face: basicfont.Face7x13,
		},
	}
}

// Frame implements pulsewear.Display.
func (o *OLED) Frame(draw func(pulsewear.Canvas)) error {
	for i := range o.buf.Pix {
		o.buf.Pix[i] = 0
	}
	draw(o)
	if err := o.panel.Draw(o.buf.Bounds(), o.buf, image.Point{}); err != nil {
		return fmt.Errorf("display: could not flush frame: %w", err)
	}
	return nil
}

// Text implements pulsewear.Canvas. The large font is the small one
// overstruck one pixel to the right.
func (o *OLED) Text(x, y int, f pulsewear.Font, s string) {
	o.pen.Dot = fixed.P(x, y)
	o.pen.DrawString(s)
	if f == pulsewear.FontLarge {
		o.pen.Dot = fixed.P(x+1, y)
		o.pen.DrawString(s)
	}
}

// Bitmap implements pulsewear.Canvas.
func (o *OLED) Bitmap(x, y int, b pulsewear.Bitmap) {
	for j := 0; j < b.Height; j++ {
		for i := 0; i < b.Width; i++ {
			if b.Bit(i, j) {
				o.buf.SetBit(x+i, y+j, image1bit.On)
			}
		}
	}
}

// Close blanks and halts the panel.
func (o *OLED) Close() error {
	return o.panel.Halt()
}

package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cgxeiji/pulsewear"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(28)
	largeStyle  = lipgloss.NewStyle().Bold(true)
	bitmapStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// Terminal is a pulsewear.Display that prints every frame as a framed text
// box. Drawing calls are grouped into rows by their y coordinate and ordered
// by x within a row; bitmaps show as their name.
type Terminal struct {
	w     io.Writer
	marks []mark
}

type mark struct {
	x, y int
	text string
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

// Frame implements pulsewear.Display.
func (t *Terminal) Frame(draw func(pulsewear.Canvas)) error {
	t.marks = t.marks[:0]
	draw(t)
	if _, err := fmt.Fprintln(t.w, frameStyle.Render(t.render())); err != nil {
		return fmt.Errorf("display: could not write frame: %w", err)
	}
	return nil
}

// Text implements pulsewear.Canvas.
func (t *Terminal) Text(x, y int, f pulsewear.Font, s string) {
	if f == pulsewear.FontLarge {
		s = largeStyle.Render(s)
	}
	t.marks = append(t.marks, mark{x: x, y: y, text: s})
}

// Bitmap implements pulsewear.Canvas. Bitmaps are anchored at their top
// edge; they are placed on the row of text sharing their vertical span.
func (t *Terminal) Bitmap(x, y int, b pulsewear.Bitmap) {
	t.marks = append(t.marks, mark{x: x, y: y + b.Height, text: bitmapStyle.Render("<" + b.Name + ">")})
}

func (t *Terminal) render() string {
	if len(t.marks) == 0 {
		return ""
	}
	sort.SliceStable(t.marks, func(i, j int) bool {
		if t.marks[i].y != t.marks[j].y {
			return t.marks[i].y < t.marks[j].y
		}
		return t.marks[i].x < t.marks[j].x
	})
	var rows []string
	var row []string
	y := t.marks[0].y
	for _, m := range t.marks {
		if m.y != y {
			rows = append(rows, strings.Join(row, " "))
			row, y = row[:0], m.y
		}
		row = append(row, m.text)
	}
	rows = append(rows, strings.Join(row, " "))
	return strings.Join(rows, "\n")
}

package app

import (
	"image/color"
	"unicode/utf8"

	"opcview/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// textFont is the overlay font. Glyphs are 4 px wide on a 6 px line.
var textFont = &tinyfont.TomThumb

const (
	textLineHeight = 6
	textBaseline   = 5
)

// fbDisplayer exposes an RGBA framebuffer as a drivers.Displayer for
// tinyfont.
type fbDisplayer struct {
	fb hal.Framebuffer
}

var _ drivers.Displayer = fbDisplayer{}

func (d fbDisplayer) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGBA8888 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}

	w := d.fb.Width()
	h := d.fb.Height()
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= w || iy < 0 || iy >= h {
		return
	}

	off := iy*d.fb.StrideBytes() + ix*4
	if off < 0 || off+3 >= len(buf) {
		return
	}
	buf[off] = c.R
	buf[off+1] = c.G
	buf[off+2] = c.B
	buf[off+3] = 0xFF
}

func (d fbDisplayer) Display() error { return nil }

// drawText writes one line with its top-left corner at (x, y).
func drawText(fb hal.Framebuffer, x, y int, s string, c color.RGBA) {
	if fb == nil || fb.Format() != hal.PixelFormatRGBA8888 {
		return
	}
	tinyfont.WriteLine(fbDisplayer{fb: fb}, textFont, int16(x), int16(y+textBaseline), s, c)
}

// textColumns returns how many glyphs fit across width pixels.
func textColumns(width int) int {
	_, w := tinyfont.LineWidth(textFont, "0")
	if w == 0 {
		return 1
	}
	n := width / int(w)
	if n <= 0 {
		return 1
	}
	return n
}

func takeRunes(s string, n int) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if len(s) <= n {
		return s, ""
	}
	var i, count int
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}

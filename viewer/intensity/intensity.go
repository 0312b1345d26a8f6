// Package intensity maps OPC byte channels to fractional display intensity.
//
// The mapping is linear with a floor so that an unlit pixel is still visible
// as a dim shape: t(i) = 0.1 + i*0.9/256. The top entry stays below 1.0.
package intensity

// Floor is the intensity of a zero channel.
const Floor = 0.1

// Table is a 256-entry byte to intensity lookup table.
type Table [256]float64

// NewTable builds the transform table.
func NewTable() *Table {
	var t Table
	for i := range t {
		t[i] = Floor + float64(i)*(1-Floor)/256
	}
	return &t
}

// At returns the intensity for a channel byte.
func (t *Table) At(b uint8) float64 { return t[b] }

// RGB transforms a byte triple.
func (t *Table) RGB(r, g, b uint8) (float64, float64, float64) {
	return t[r], t[g], t[b]
}

// Byte converts an intensity in [0,1] back to an 8-bit display channel.
func Byte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xFF
	}
	return uint8(v*255 + 0.5)
}

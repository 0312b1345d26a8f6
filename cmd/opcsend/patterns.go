package main

import "opcview/viewer/opc"

// pattern fills px for frame number f.
type pattern func(f int, px []opc.Pixel)

var patterns = map[string]pattern{
	"solid":   solid,
	"chase":   chase,
	"fade":    fade,
	"rainbow": rainbow,
}

func solid(_ int, px []opc.Pixel) {
	for i := range px {
		px[i] = opc.Pixel{R: 0xFF, G: 0xFF, B: 0xFF}
	}
}

// chase lights one pixel that walks along the strip.
func chase(f int, px []opc.Pixel) {
	for i := range px {
		px[i] = opc.Pixel{}
	}
	if len(px) > 0 {
		px[f%len(px)] = opc.Pixel{R: 0xFF, G: 0x80}
	}
}

// fade ramps every pixel up and down over 256 frames.
func fade(f int, px []opc.Pixel) {
	v := uint8(f)
	if (f/256)%2 == 1 {
		v = 0xFF - v
	}
	for i := range px {
		px[i] = opc.Pixel{R: v, G: v, B: v}
	}
}

// rainbow cycles hue along the strip.
func rainbow(f int, px []opc.Pixel) {
	for i := range px {
		px[i] = wheel(uint8(i*256/len(px) + f))
	}
}

func wheel(pos uint8) opc.Pixel {
	switch {
	case pos < 85:
		return opc.Pixel{R: 255 - pos*3, G: pos * 3}
	case pos < 170:
		pos -= 85
		return opc.Pixel{G: 255 - pos*3, B: pos * 3}
	default:
		pos -= 170
		return opc.Pixel{R: pos * 3, B: 255 - pos*3}
	}
}

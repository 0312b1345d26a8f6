package app

import (
	"fmt"
	"image/color"

	"opcview/viewer/button"
)

var (
	hudText = color.RGBA{R: 0x90, G: 0xA0, B: 0xB8, A: 0xFF}
	hudLive = color.RGBA{R: 0xFF, G: 0xD0, B: 0x40, A: 0xFF}
)

// hudLine summarises the viewer state in one line.
func (v *Viewer) hudLine() string {
	st := v.sched.Stats()
	return fmt.Sprintf("%d shapes  port %d  frames %d  skipped %d",
		v.model.Len(), v.port, st.Applied, st.Skipped)
}

func (v *Viewer) drawHUD() {
	if v.cfg.NoHUD {
		return
	}
	drawText(v.fb, 4, 4, v.hudLine(), hudText)

	// Live buttons get a marker in the top-right corner.
	x := v.fb.Width() - 20
	for _, id := range []button.ID{button.A, button.B} {
		if v.buttons.Live(id) {
			drawText(v.fb, x, 4, id.String(), hudLive)
		}
		x += 8
	}
}

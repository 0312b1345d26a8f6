package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"runtime/debug"
	"strings"

	"opcview/hal"
)

// guardStep turns a panic inside step into a returned error. The panic and
// its stack are logged and painted over the framebuffer so a windowed run
// shows what happened before it exits.
func guardStep(h hal.HAL, log *slog.Logger, step func() error) func() error {
	return func() (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stack := debug.Stack()
			log.Error("viewer panic", "panic", fmt.Sprint(r))
			if l := h.Logger(); l != nil {
				for _, line := range strings.Split(string(stack), "\n") {
					if line == "" {
						continue
					}
					l.WriteLineString(line)
				}
			}
			paintPanic(h, r, stack)
			err = fmt.Errorf("viewer panic: %v", r)
		}()
		return step()
	}
}

func paintPanic(h hal.HAL, value any, stack []byte) {
	disp := h.Display()
	if disp == nil {
		return
	}
	fb := disp.Framebuffer()
	if fb == nil {
		return
	}

	fb.ClearRGB(255, 255, 255)

	lines := []string{
		"opcview panic:",
		fmt.Sprintf("panic: %v", value),
	}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	fg := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	cols := textColumns(fb.Width())
	y := 0
	maxH := fb.Height()

paint:
	for _, line := range lines {
		for len(line) > 0 {
			if y+textLineHeight > maxH {
				break paint
			}
			chunk, rest := takeRunes(line, cols)
			drawText(fb, 0, y, chunk, fg)
			y += textLineHeight
			line = strings.TrimLeft(rest, " ")
		}
	}

	_ = fb.Present()
}

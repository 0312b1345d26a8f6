//go:build cgo

package hal

import (
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"opcview/internal/buildinfo"
)

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Title string
	Size  Size
	TPS   int
}

// RunWindow starts a resizable desktop window that displays the framebuffer
// and forwards keyboard and pointer input. It blocks until the window closes
// or the step function returns ErrQuit.
func RunWindow(cfg WindowConfig, newApp func(HAL) (func() error, error)) error {
	if cfg.Size.Width <= 0 || cfg.Size.Height <= 0 {
		cfg.Size = Size{Width: 800, Height: 600}
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	if cfg.Title == "" {
		cfg.Title = "opcview"
	}

	h := New(cfg.Size).(*hostHAL)
	step, err := newApp(h)
	if err != nil {
		return err
	}

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Size.Width, cfg.Size.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	slog.Debug("window open", "width", cfg.Size.Width, "height", cfg.Size.Height, "tps", cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.fb.applyPending()
	g.h.kbd.poll()
	g.h.ptr.poll()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrQuit) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	fb.mu.Lock()
	w, h, n := fb.width, fb.height, len(fb.buf)
	fb.mu.Unlock()

	if g.fbImg == nil || g.fbImg.Bounds().Dx() != w || g.fbImg.Bounds().Dy() != h {
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
		g.scratch = make([]byte, n)
		fb.Present()
	}
	if fb.snapshot(g.scratch) {
		g.fbImg.WritePixels(g.scratch)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.h.fb.requestSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

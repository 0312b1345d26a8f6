// Package app wires the viewer: protocol sources, scene model, camera,
// buttons and renderer, driven by one step function per host tick.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"opcview/hal"
	"opcview/internal/buildinfo"
	"opcview/internal/logging"
	"opcview/viewer/button"
	"opcview/viewer/camera"
	"opcview/viewer/frame"
	"opcview/viewer/intensity"
	"opcview/viewer/opc"
	"opcview/viewer/quarkgl"
	"opcview/viewer/scene"
	"opcview/viewer/stl"
)

// Config holds resolved command-line settings.
type Config struct {
	ScenePath string
	Port      int    // OPC TCP port; 0 picks a free port
	MeshPath  string // optional STL overlay
	JSONColor bool   // color shapes from the document instead of pixels

	WebsocketAddr string // empty disables the WebSocket source
	ButtonA       string
	ButtonB       string

	Verbose bool
	NoHUD   bool
}

func (c *Config) defaults() {
	if c.ButtonA == "" {
		c.ButtonA = button.DefaultPathA
	}
	if c.ButtonB == "" {
		c.ButtonB = button.DefaultPathB
	}
}

// Viewer is the running viewer. All methods run on the host loop goroutine.
type Viewer struct {
	h   hal.HAL
	fb  hal.Framebuffer
	cfg Config
	log *slog.Logger

	table  *intensity.Table
	pixels *opc.Buffer
	model  *scene.Model
	colors scene.Colorer

	queue *opc.Queue
	tcp   *opc.Server
	ws    *opc.WebsocketServer
	port  int
	sched *frame.Scheduler

	nav     *camera.Navigator
	buttons *button.Set

	world    *quarkgl.Scene
	renderer *quarkgl.Renderer
	target   quarkgl.RGBATarget

	dirty   bool
	renders uint64
}

// NewLogger returns the viewer logger writing to the host line sink.
func NewLogger(h hal.HAL, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(logging.NewLineHandler(h.Logger(), level))
}

// New loads the scene, opens the protocol sources and prepares the first
// frame. Any error is fatal to startup.
func New(h hal.HAL, cfg Config) (*Viewer, error) {
	cfg.defaults()
	if cfg.ScenePath == "" {
		return nil, errors.New("app: no scene document")
	}
	disp := h.Display()
	if disp == nil || disp.Framebuffer() == nil {
		return nil, errors.New("app: host has no framebuffer")
	}

	v := &Viewer{
		h:     h,
		fb:    disp.Framebuffer(),
		cfg:   cfg,
		log:   NewLogger(h, cfg.Verbose),
		table: intensity.NewTable(),
		nav:   camera.New(),
		dirty: true,
	}

	v.log.Info("opcview starting", "version", buildinfo.Short())
	if err := v.loadScene(); err != nil {
		return nil, err
	}
	v.pixels = opc.NewBuffer(opc.DefaultCapacity)
	v.colors = pixelColors{pixels: v.pixels, table: v.table}
	if cfg.JSONColor {
		v.colors = scene.DocumentColors
	}

	v.world = quarkgl.CreateScene(1)
	v.renderer = quarkgl.NewRenderer(v.fb.Width(), v.fb.Height(), true)
	v.renderer.LineWidth = axisLineWidth
	if cfg.MeshPath != "" {
		v.loadMesh(cfg.MeshPath)
	}

	v.buttons = button.NewFileSet(cfg.ButtonA, cfg.ButtonB, v.log)
	v.buttons.Reset()

	if err := v.listen(); err != nil {
		return nil, err
	}
	v.sched = frame.New(v.queue, v.apply)
	v.sched.MaxBurst = frame.DefaultMaxBurst
	return v, nil
}

// NewWithConfig returns the host step function for a new viewer.
func NewWithConfig(h hal.HAL, cfg Config) (func() error, error) {
	v, err := New(h, cfg)
	if err != nil {
		return nil, err
	}
	return guardStep(h, v.log, v.Step), nil
}

func (v *Viewer) loadScene() error {
	data, err := os.ReadFile(v.cfg.ScenePath)
	if err != nil {
		return fmt.Errorf("app: read scene: %w", err)
	}
	doc, err := scene.Parse(data)
	if err != nil {
		return fmt.Errorf("app: %s: %w", v.cfg.ScenePath, err)
	}
	m, err := scene.Build(doc, scene.Options{
		MaxIndex: opc.DefaultCapacity,
		Logger:   v.log,
	})
	if err != nil {
		return fmt.Errorf("app: %s: %w", v.cfg.ScenePath, err)
	}
	v.model = m
	v.log.Info("scene loaded", "path", v.cfg.ScenePath, "shapes", m.Len(), "pixels", m.Span(), "rejected", m.Rejected())
	return nil
}

// loadMesh adds the overlay. Failures only drop the overlay.
func (v *Viewer) loadMesh(path string) {
	tris, err := stl.Load(path)
	if err != nil {
		v.log.Warn("mesh overlay skipped", "path", path, "err", err)
		return
	}
	if id := v.world.AddMesh(stl.Mesh(tris)); id < 0 {
		v.log.Warn("mesh overlay skipped", "path", path, "err", "scene full")
		return
	}
	v.log.Info("mesh loaded", "path", path, "triangles", len(tris))
}

func (v *Viewer) listen() error {
	v.queue = opc.NewQueue(opc.DefaultQueueSize)
	srv, err := opc.Listen(v.cfg.Port, v.queue, v.log)
	if err != nil {
		return err
	}
	v.tcp = srv
	v.port = v.cfg.Port
	if a, ok := srv.Addr().(*net.TCPAddr); ok {
		v.port = a.Port
	}
	v.log.Info("listening for OPC", "port", v.port)

	if v.cfg.WebsocketAddr != "" {
		ws, err := opc.ListenWebsocket(v.cfg.WebsocketAddr, v.queue, v.log)
		if err != nil {
			srv.Close()
			return err
		}
		v.ws = ws
		v.log.Info("listening for OPC over websocket", "addr", ws.Addr().String())
	}
	return nil
}

// apply is the scheduler hook: it logs the message when verbose and writes
// it into the pixel buffer.
func (v *Viewer) apply(m opc.Message) bool {
	if v.log.Enabled(context.Background(), slog.LevelDebug) {
		v.log.Debug(m.String())
	}
	applied, dropped := v.pixels.Apply(m)
	if dropped > 0 {
		v.log.Warn("frame exceeds pixel capacity", "channel", m.Channel, "pixels", len(m.Pixels), "dropped", dropped)
	}
	if !applied {
		v.log.Debug("ignoring command", "channel", m.Channel, "command", m.Command)
	}
	return applied
}

// Step runs one loop iteration: input, protocol drain, button expiry and,
// when anything visible changed, a redraw. It returns hal.ErrQuit on q or
// Escape.
func (v *Viewer) Step() error {
	if v.nav.Resize(v.fb.Width(), v.fb.Height()) {
		v.dirty = true
	}
	if err := v.handleKeys(); err != nil {
		v.Close()
		return err
	}
	v.handlePointer()

	if v.sched.Tick() {
		v.dirty = true
	}
	if v.buttons.Tick(v.h.Time().Now()) > 0 {
		v.dirty = true
	}

	if v.dirty {
		v.render()
		v.dirty = false
	}
	return nil
}

// Close stops the protocol sources.
func (v *Viewer) Close() error {
	var errs []error
	if v.ws != nil {
		errs = append(errs, v.ws.Close())
		v.ws = nil
	}
	if v.tcp != nil {
		errs = append(errs, v.tcp.Close())
		v.tcp = nil
	}
	return errors.Join(errs...)
}

// Port returns the bound OPC TCP port.
func (v *Viewer) Port() int { return v.port }

// Stats returns the frame scheduler counters.
func (v *Viewer) Stats() frame.Stats { return v.sched.Stats() }

// Renders returns how many frames were drawn.
func (v *Viewer) Renders() uint64 { return v.renders }

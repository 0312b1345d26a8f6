package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"opcview/app"
	"opcview/hal"
	"opcview/viewer/button"
	"opcview/viewer/opc"
)

type options struct {
	app      app.Config
	headless hal.HeadlessConfig
	size     hal.Size
}

var errUsage = errors.New("usage")

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("opcview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: opcview [flags] <scene.json> [port] [mesh.stl] [jsoncolor]")
		fs.PrintDefaults()
	}
	fs.BoolVar(&o.headless.Enabled, "headless", false, "Run without a window.")
	fs.IntVar(&o.headless.Hz, "hz", 60, "Tick rate in headless mode.")
	fs.Uint64Var(&o.headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	fs.BoolVar(&o.app.Verbose, "v", false, "Log every received frame.")
	fs.StringVar(&o.app.WebsocketAddr, "ws", "", "Also accept OPC over WebSocket on this address (e.g. :7891).")
	fs.StringVar(&o.app.ButtonA, "button-a", button.DefaultPathA, "Sentinel file for button A.")
	fs.StringVar(&o.app.ButtonB, "button-b", button.DefaultPathB, "Sentinel file for button B.")
	fs.IntVar(&o.size.Width, "width", 800, "Initial window width.")
	fs.IntVar(&o.size.Height, "height", 600, "Initial window height.")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fs.Usage()
		return o, errUsage
	}
	o.app.ScenePath = rest[0]
	o.app.Port = opc.DefaultPort
	if len(rest) > 1 {
		if p, err := strconv.Atoi(rest[1]); err == nil && p > 0 && p <= 0xFFFF {
			o.app.Port = p
		}
	}
	if len(rest) > 2 {
		o.app.MeshPath = rest[2]
	}
	if len(rest) > 3 {
		o.app.JSONColor = strings.EqualFold(rest[3], "jsoncolor")
	}
	o.headless.Size = o.size
	return o, nil
}

func main() {
	o, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		os.Exit(1)
	}

	newApp := func(h hal.HAL) (func() error, error) {
		slog.SetDefault(app.NewLogger(h, o.app.Verbose))
		return app.NewWithConfig(h, o.app)
	}

	if o.headless.Enabled {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, o.headless); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(hal.WindowConfig{Title: "opcview", Size: o.size}, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"opcview/viewer/opc"
)

func main() {
	var (
		addr    = flag.String("addr", fmt.Sprintf("localhost:%d", opc.DefaultPort), "OPC TCP address.")
		wsURL   = flag.String("ws", "", "Send over WebSocket to this URL instead (e.g. ws://localhost:7891/).")
		pattern = flag.String("pattern", "chase", "solid|chase|fade|rainbow.")
		n       = flag.Int("n", 60, "Pixels per frame.")
		channel = flag.Int("channel", 0, "OPC channel.")
		fps     = flag.Int("fps", 30, "Frames per second.")
		frames  = flag.Int("frames", 0, "Stop after N frames (0 = run until interrupted).")
	)
	flag.Parse()

	gen, ok := patterns[*pattern]
	if !ok {
		fatalf("unknown pattern: %s", *pattern)
	}
	if *n <= 0 || *n*3 > opc.MaxPayload {
		fatalf("pixel count out of range: %d", *n)
	}
	if *fps <= 0 {
		fatalf("fps must be positive: %d", *fps)
	}

	var (
		send      func([]byte) error
		closeConn func() error
	)
	if *wsURL != "" {
		c, _, err := websocket.DefaultDialer.Dial(*wsURL, nil)
		if err != nil {
			fatalf("dial %s: %v", *wsURL, err)
		}
		send = func(b []byte) error { return c.WriteMessage(websocket.BinaryMessage, b) }
		closeConn = c.Close
	} else {
		c, err := dialTCP(*addr)
		if err != nil {
			fatalf("dial %s: %v", *addr, err)
		}
		send = func(b []byte) error { return writeFull(c, b) }
		closeConn = c.Close
	}
	defer closeConn()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, send, gen, uint8(*channel), *n, *fps, *frames); err != nil && err != context.Canceled {
		fatalf("send: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

func writeFull(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// run sends frames at fps until ctx is done or limit frames were sent.
func run(ctx context.Context, send func([]byte) error, gen pattern, channel uint8, n, fps, limit int) error {
	t := time.NewTicker(time.Second / time.Duration(fps))
	defer t.Stop()

	px := make([]opc.Pixel, n)
	for frame := 0; limit <= 0 || frame < limit; frame++ {
		gen(frame, px)
		b, err := opc.Encode(opc.Message{Channel: channel, Command: opc.CmdSetPixels, Pixels: px})
		if err != nil {
			return err
		}
		if err := send(b); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

func dialTCP(addr string) (net.Conn, error) {
	return net.DialTimeout("tcp", addr, 5*time.Second)
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// record is one scene document entry.
type record struct {
	Point []float64 `json:"point" yaml:"point,flow"`
}

func main() {
	var (
		shape   = flag.String("shape", "strip", "strip|grid|ring.")
		n       = flag.Int("n", 60, "Number of pixels.")
		cols    = flag.Int("cols", 10, "Columns (grid only).")
		spacing = flag.Float64("spacing", 0.1, "Distance between neighbouring pixels, metres.")
		format  = flag.String("format", "json", "json|yaml.")
		outPath = flag.String("out", "", "Output file (default stdout).")
	)
	flag.Parse()

	recs, err := layout(*shape, *n, *cols, *spacing)
	if err != nil {
		fatalf("layout: %v", err)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fatalf("create %q: %v", *outPath, err)
		}
		defer f.Close()
		out = f
	}
	if err := write(out, *format, recs); err != nil {
		fatalf("write: %v", err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// layout places n pixels in the XZ plane, facing the default camera.
func layout(shape string, n, cols int, spacing float64) ([]record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("pixel count must be positive, got %d", n)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("spacing must be positive, got %v", spacing)
	}
	recs := make([]record, n)
	switch strings.ToLower(shape) {
	case "strip":
		x0 := -spacing * float64(n-1) / 2
		for i := range recs {
			recs[i] = pointAt(x0+spacing*float64(i), 0, 0)
		}
	case "grid":
		if cols <= 0 {
			return nil, fmt.Errorf("cols must be positive, got %d", cols)
		}
		rows := (n + cols - 1) / cols
		x0 := -spacing * float64(cols-1) / 2
		z0 := spacing * float64(rows-1) / 2
		for i := range recs {
			r, c := i/cols, i%cols
			// Serpentine wiring: odd rows run right to left.
			if r%2 == 1 {
				c = cols - 1 - c
			}
			recs[i] = pointAt(x0+spacing*float64(c), 0, z0-spacing*float64(r))
		}
	case "ring":
		radius := spacing * float64(n) / (2 * math.Pi)
		for i := range recs {
			a := 2 * math.Pi * float64(i) / float64(n)
			recs[i] = pointAt(radius*math.Cos(a), 0, radius*math.Sin(a))
		}
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}
	return recs, nil
}

func pointAt(x, y, z float64) record {
	return record{Point: []float64{round(x), round(y), round(z)}}
}

func round(v float64) float64 { return math.Round(v*1e4) / 1e4 }

func write(w io.Writer, format string, recs []record) error {
	switch strings.ToLower(format) {
	case "json":
		b, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return err
		}
		b = append(b, '\n')
		_, err = w.Write(b)
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

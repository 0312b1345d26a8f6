package main

import (
	"bytes"
	"testing"

	"opcview/viewer/scene"
)

func TestLayoutsParseAsScenes(t *testing.T) {
	for _, shape := range []string{"strip", "grid", "ring"} {
		for _, format := range []string{"json", "yaml"} {
			recs, err := layout(shape, 25, 5, 0.1)
			if err != nil {
				t.Fatalf("layout(%s): %v", shape, err)
			}
			var buf bytes.Buffer
			if err := write(&buf, format, recs); err != nil {
				t.Fatalf("write(%s): %v", format, err)
			}
			doc, err := scene.Parse(buf.Bytes())
			if err != nil {
				t.Fatalf("%s/%s: Parse: %v", shape, format, err)
			}
			m, err := scene.Build(doc, scene.Options{})
			if err != nil {
				t.Fatalf("%s/%s: Build: %v", shape, format, err)
			}
			if m.Len() != 25 || m.At(24).Index != 24 {
				t.Fatalf("%s/%s: %d shapes", shape, format, m.Len())
			}
		}
	}
}

func TestGridSerpentine(t *testing.T) {
	recs, err := layout("grid", 4, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	// Row 1 runs right to left.
	if recs[2].Point[0] != 0.5 || recs[3].Point[0] != -0.5 {
		t.Fatalf("row 1 = %v, %v", recs[2].Point, recs[3].Point)
	}
}

func TestLayoutErrors(t *testing.T) {
	if _, err := layout("cube", 1, 1, 1); err == nil {
		t.Error("unknown shape accepted")
	}
	if _, err := layout("strip", 0, 1, 1); err == nil {
		t.Error("zero pixels accepted")
	}
	if _, err := layout("grid", 4, 0, 1); err == nil {
		t.Error("zero cols accepted")
	}
}

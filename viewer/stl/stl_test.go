package stl

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"opcview/viewer/quarkgl"
)

var unitTri = Triangle{quarkgl.V3(0, 0, 0), quarkgl.V3(1, 0, 0), quarkgl.V3(0, 1, 2.5)}

func TestDecode(t *testing.T) {
	b := Encode([]Triangle{unitTri, unitTri})
	if len(b) != 80+4+2*50 {
		t.Fatalf("encoded %d bytes", len(b))
	}
	tris, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(tris) != 2 || tris[1] != unitTri {
		t.Fatalf("tris = %+v", tris)
	}
}

func TestDecodeIgnoresNormalAndAttribute(t *testing.T) {
	b := Encode([]Triangle{unitTri})
	for i := 84; i < 84+12; i++ {
		b[i] = 0x7F
	}
	b[len(b)-1], b[len(b)-2] = 0xFF, 0xFF
	tris, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if tris[0] != unitTri {
		t.Fatalf("tri = %+v", tris[0])
	}
}

func TestDecodeTruncated(t *testing.T) {
	b := Encode([]Triangle{unitTri})
	for _, n := range []int{0, 50, 83, len(b) - 1} {
		if _, err := Decode(b[:n]); !errors.Is(err, ErrTruncated) {
			t.Errorf("Decode(%d bytes) err = %v, want ErrTruncated", n, err)
		}
	}
}

func TestDecodeEmpty(t *testing.T) {
	tris, err := Decode(Encode(nil))
	if err != nil || len(tris) != 0 {
		t.Fatalf("Decode(empty) = %v, %v", tris, err)
	}
}

func TestLoadExtension(t *testing.T) {
	dir := t.TempDir()
	data := Encode([]Triangle{unitTri})

	upper := filepath.Join(dir, "part.STL")
	if err := os.WriteFile(upper, data, 0o644); err != nil {
		t.Fatal(err)
	}
	if tris, err := Load(upper); err != nil || len(tris) != 1 {
		t.Fatalf("Load(.STL) = %v, %v", tris, err)
	}

	// Rejected before any read: the file does not exist.
	if _, err := Load(filepath.Join(dir, "part.obj")); !errors.Is(err, ErrExtension) {
		t.Fatalf("Load(.obj) err = %v, want ErrExtension", err)
	}
	if _, err := Load(filepath.Join(dir, "stl")); !errors.Is(err, ErrExtension) {
		t.Fatalf("Load(no ext) err = %v, want ErrExtension", err)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "gone.stl"))
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestMesh(t *testing.T) {
	m := Mesh([]Triangle{unitTri, unitTri})
	if len(m.Vertices) != 6 || len(m.Indices) != 6 {
		t.Fatalf("mesh sizes = %d, %d", len(m.Vertices), len(m.Indices))
	}
	if m.Indices[5] != 5 || m.Vertices[5] != unitTri[2] {
		t.Fatalf("mesh = %+v", m)
	}
	if m.Color != quarkgl.RGB(102, 102, 102) {
		t.Fatalf("color = %+v", m.Color)
	}
}

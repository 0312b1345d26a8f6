// Package stl loads binary STL files as static overlay meshes.
package stl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"opcview/viewer/quarkgl"
)

const (
	headerLen   = 80
	countLen    = 4
	triangleLen = 12*4 + 2 // normal, three vertices, attribute byte count
)

// Grey is the overlay color (0.4 on each channel).
var Grey = quarkgl.Unit(0.4, 0.4, 0.4)

var (
	ErrExtension = errors.New("stl: file extension is not .stl")
	ErrTruncated = errors.New("stl: truncated file")
)

// Triangle is three vertices; the stored normal is not kept.
type Triangle [3]quarkgl.Vec3

// Decode parses a binary STL image.
func Decode(b []byte) ([]Triangle, error) {
	if len(b) < headerLen+countLen {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrTruncated, len(b), headerLen+countLen)
	}
	n := binary.LittleEndian.Uint32(b[headerLen:])
	body := b[headerLen+countLen:]
	if uint64(len(body)) < uint64(n)*triangleLen {
		return nil, fmt.Errorf("%w: %d triangles need %d bytes, have %d", ErrTruncated, n, uint64(n)*triangleLen, len(body))
	}

	tris := make([]Triangle, n)
	for i := range tris {
		rec := body[i*triangleLen:]
		// Skip the 3 normal floats.
		off := 12
		for v := 0; v < 3; v++ {
			tris[i][v] = quarkgl.V3(f32(rec[off:]), f32(rec[off+4:]), f32(rec[off+8:]))
			off += 12
		}
	}
	return tris, nil
}

func f32(b []byte) quarkgl.Scalar {
	return quarkgl.Scalar(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}

// Load reads path, which must carry a .stl extension in any case. Files with
// another extension are rejected without being opened.
func Load(path string) ([]Triangle, error) {
	if !strings.EqualFold(filepath.Ext(path), ".stl") {
		return nil, fmt.Errorf("%w: %s", ErrExtension, path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("stl: %w", err)
	}
	tris, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tris, nil
}

// Mesh converts triangles into an unindexed flat mesh in the overlay color.
func Mesh(tris []Triangle) quarkgl.Mesh {
	m := quarkgl.Mesh{
		Vertices: make([]quarkgl.Vec3, 0, len(tris)*3),
		Indices:  make([]uint32, 0, len(tris)*3),
		Color:    Grey,
	}
	for _, t := range tris {
		for _, v := range t {
			m.Indices = append(m.Indices, uint32(len(m.Vertices)))
			m.Vertices = append(m.Vertices, v)
		}
	}
	return m
}

// Encode writes triangles as a binary STL image with zero normals. It is the
// inverse of Decode and is used to produce fixtures.
func Encode(tris []Triangle) []byte {
	b := make([]byte, headerLen+countLen+len(tris)*triangleLen)
	copy(b, "opcview")
	binary.LittleEndian.PutUint32(b[headerLen:], uint32(len(tris)))
	off := headerLen + countLen
	for _, t := range tris {
		off += 12
		for _, v := range t {
			binary.LittleEndian.PutUint32(b[off:], math.Float32bits(float32(v.X)))
			binary.LittleEndian.PutUint32(b[off+4:], math.Float32bits(float32(v.Y)))
			binary.LittleEndian.PutUint32(b[off+8:], math.Float32bits(float32(v.Z)))
			off += 12
		}
		off += 2
	}
	return b
}

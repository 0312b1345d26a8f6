package opc

import (
	"errors"
	"testing"
)

func TestEncodeUnmarshal(t *testing.T) {
	m := Message{Channel: 2, Command: CmdSetPixels, Pixels: []Pixel{{1, 2, 3}, {0xFF, 0, 0x80}}}
	b, err := Encode(m)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{2, 0, 0, 6, 1, 2, 3, 0xFF, 0, 0x80}
	if string(b) != string(want) {
		t.Fatalf("Encode = % x, want % x", b, want)
	}

	got, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Channel != 2 || len(got.Pixels) != 2 || got.Pixels[1] != (Pixel{0xFF, 0, 0x80}) {
		t.Fatalf("Unmarshal = %+v", got)
	}
}

func TestEncodeTooLarge(t *testing.T) {
	m := Message{Pixels: make([]Pixel, MaxPayload/3+1)}
	if _, err := Encode(m); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("Encode err = %v, want ErrTooLarge", err)
	}
}

func TestUnmarshalShort(t *testing.T) {
	tests := [][]byte{
		nil,
		{0, 0, 0},
		{0, 0, 0, 6, 1, 2, 3},
	}
	for _, b := range tests {
		if _, err := Unmarshal(b); !errors.Is(err, ErrShortMessage) {
			t.Errorf("Unmarshal(% x) err = %v, want ErrShortMessage", b, err)
		}
	}
}

func TestUnmarshalPartialTriple(t *testing.T) {
	m, err := Unmarshal([]byte{0, 0, 0, 5, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(m.Pixels) != 1 {
		t.Fatalf("len(Pixels) = %d, want 1", len(m.Pixels))
	}
}

func TestDecoderFragmented(t *testing.T) {
	a, _ := Encode(Message{Channel: 0, Pixels: []Pixel{{1, 1, 1}, {2, 2, 2}}})
	b, _ := Encode(Message{Channel: 1, Command: 7})
	c, _ := Encode(Message{Channel: 0, Pixels: []Pixel{{3, 3, 3}}})
	stream := append(append(append([]byte(nil), a...), b...), c...)

	var d Decoder
	var got []Message
	for i := 0; i < len(stream); i++ {
		d.Feed(stream[i : i+1])
		for {
			m, ok := d.Next()
			if !ok {
				break
			}
			got = append(got, m)
		}
	}
	if len(got) != 3 {
		t.Fatalf("decoded %d messages, want 3", len(got))
	}
	if got[0].Pixels[1] != (Pixel{2, 2, 2}) || got[1].Command != 7 || got[2].Pixels[0] != (Pixel{3, 3, 3}) {
		t.Fatalf("decoded = %+v", got)
	}
	if d.Pending() != 0 {
		t.Fatalf("Pending() = %d, want 0", d.Pending())
	}

	d.Feed([]byte{0, 0, 0})
	if _, ok := d.Next(); ok {
		t.Fatal("Next() on partial header ok = true")
	}
	d.Reset()
	if d.Pending() != 0 {
		t.Fatal("Reset did not clear pending bytes")
	}
}

func TestDecoderCompactsOncePerFeed(t *testing.T) {
	msg, _ := Encode(Message{Pixels: []Pixel{{9, 8, 7}}})
	const count = 1000
	chunk := make([]byte, 0, count*len(msg))
	for i := 0; i < count; i++ {
		chunk = append(chunk, msg...)
	}

	var d Decoder
	d.Feed(chunk)
	start := &d.buf[0]
	for i := 0; i < count-1; i++ {
		if _, ok := d.Next(); !ok {
			t.Fatalf("Next() %d ok = false", i)
		}
	}
	if &d.buf[0] != start || d.buf[0] != msg[0] || len(d.buf) != len(chunk) {
		t.Fatal("Next moved buffered bytes")
	}
	if d.Pending() != len(msg) {
		t.Fatalf("Pending() = %d, want %d", d.Pending(), len(msg))
	}

	d.Feed(msg[:2])
	if d.off != 0 || len(d.buf) != len(msg)+2 {
		t.Fatalf("after Feed off = %d len = %d, want 0 and %d", d.off, len(d.buf), len(msg)+2)
	}
	m, ok := d.Next()
	if !ok || m.Pixels[0] != (Pixel{9, 8, 7}) {
		t.Fatalf("Next() = %+v, %v", m, ok)
	}
	if d.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", d.Pending())
	}
}

func TestMessageString(t *testing.T) {
	tests := []struct {
		m    Message
		want string
	}{
		{Message{Channel: 0}, "channel 0: 0 pixels"},
		{Message{Channel: 1, Pixels: []Pixel{{0xAB, 0, 1}}}, "channel 1: 1 pixel = ab 00 01"},
		{
			Message{Channel: 0, Pixels: []Pixel{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {4, 4, 4}, {5, 5, 5}}},
			"channel 0: 5 pixels = 01 01 01, 02 02 02, 03 03 03, 04 04 04, ...",
		},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestBufferApply(t *testing.T) {
	b := NewBuffer(3)
	for i := 0; i < b.Len(); i++ {
		if b.At(i) != Idle {
			t.Fatalf("At(%d) = %+v, want Idle", i, b.At(i))
		}
	}

	applied, dropped := b.Apply(Message{Channel: 5, Pixels: []Pixel{{9, 9, 9}, {8, 8, 8}}})
	if !applied || dropped != 0 {
		t.Fatalf("Apply = %v, %d", applied, dropped)
	}
	if b.At(0) != (Pixel{9, 9, 9}) || b.At(1) != (Pixel{8, 8, 8}) || b.At(2) != Idle {
		t.Fatalf("buffer after apply: %+v %+v %+v", b.At(0), b.At(1), b.At(2))
	}

	applied, dropped = b.Apply(Message{Pixels: []Pixel{{1, 1, 1}, {2, 2, 2}, {3, 3, 3}, {4, 4, 4}, {5, 5, 5}}})
	if !applied || dropped != 2 {
		t.Fatalf("overflow Apply = %v, %d; want true, 2", applied, dropped)
	}
	if b.At(2) != (Pixel{3, 3, 3}) {
		t.Fatalf("At(2) = %+v", b.At(2))
	}

	applied, _ = b.Apply(Message{Command: CmdSystemExclusive, Pixels: []Pixel{{0, 0, 0}}})
	if applied {
		t.Fatal("system exclusive message was applied")
	}
	if b.At(0) != (Pixel{1, 1, 1}) {
		t.Fatal("system exclusive message changed the buffer")
	}
	if b.At(-1) != Idle || b.At(99) != Idle {
		t.Fatal("out of range At should return Idle")
	}
}

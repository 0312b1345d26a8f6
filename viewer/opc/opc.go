// Package opc implements the receiving side of Open Pixel Control.
//
// Wire layout of one message (big-endian length):
//
//	u8   channel
//	u8   command (0 = set pixels)
//	u16  payload length in bytes
//	...  payload: length/3 RGB triples
//
// Messages are read off the socket by a reader goroutine and handed to the
// event loop through a bounded Queue. All Buffer mutation happens on the loop.
package opc

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// DefaultPort is the well-known OPC port.
const DefaultPort = 7890

// HeaderLen is the size of a message header.
const HeaderLen = 4

// MaxPayload is the largest payload the length field can express.
const MaxPayload = 0xFFFF

// Commands.
const (
	CmdSetPixels       uint8 = 0
	CmdSystemExclusive uint8 = 0xFF
)

var (
	ErrShortMessage = errors.New("opc: short message")
	ErrTooLarge     = errors.New("opc: payload too large")
)

// Pixel is one RGB triple as sent on the wire.
type Pixel struct {
	R, G, B uint8
}

// Message is one decoded OPC message.
type Message struct {
	Channel uint8
	Command uint8
	Pixels  []Pixel
}

// String renders the message the way the verbose frame log prints it: the
// channel, the pixel count and up to four leading pixels in hex.
func (m Message) String() string {
	var b strings.Builder
	n := len(m.Pixels)
	fmt.Fprintf(&b, "channel %d: %d pixel", m.Channel, n)
	if n != 1 {
		b.WriteByte('s')
	}
	sep := " ="
	for i, p := range m.Pixels {
		if i >= 4 {
			b.WriteString(", ...")
			break
		}
		fmt.Fprintf(&b, "%s %02x %02x %02x", sep, p.R, p.G, p.B)
		sep = ","
	}
	return b.String()
}

// Encode serializes a message.
func Encode(m Message) ([]byte, error) {
	n := len(m.Pixels) * 3
	if n > MaxPayload {
		return nil, ErrTooLarge
	}
	buf := make([]byte, HeaderLen+n)
	buf[0] = m.Channel
	buf[1] = m.Command
	binary.BigEndian.PutUint16(buf[2:4], uint16(n))
	for i, p := range m.Pixels {
		off := HeaderLen + i*3
		buf[off] = p.R
		buf[off+1] = p.G
		buf[off+2] = p.B
	}
	return buf, nil
}

// Unmarshal decodes exactly one message from b. Bytes past the declared
// payload are ignored.
func Unmarshal(b []byte) (Message, error) {
	if len(b) < HeaderLen {
		return Message{}, ErrShortMessage
	}
	n := int(binary.BigEndian.Uint16(b[2:4]))
	if len(b) < HeaderLen+n {
		return Message{}, fmt.Errorf("%w: have %d of %d payload bytes", ErrShortMessage, len(b)-HeaderLen, n)
	}
	return decodeBody(b[0], b[1], b[HeaderLen:HeaderLen+n]), nil
}

func decodeBody(channel, command uint8, payload []byte) Message {
	px := make([]Pixel, len(payload)/3)
	for i := range px {
		px[i] = Pixel{R: payload[i*3], G: payload[i*3+1], B: payload[i*3+2]}
	}
	return Message{Channel: channel, Command: command, Pixels: px}
}

// Decoder reassembles messages from an arbitrarily fragmented byte stream.
type Decoder struct {
	buf []byte
	off int // start of the undecoded bytes in buf
}

// Feed appends stream bytes, first dropping what Next already consumed.
func (d *Decoder) Feed(p []byte) {
	if d.off > 0 {
		n := copy(d.buf, d.buf[d.off:])
		d.buf = d.buf[:n]
		d.off = 0
	}
	d.buf = append(d.buf, p...)
}

// Next pops the next complete message, if one is buffered.
func (d *Decoder) Next() (Message, bool) {
	b := d.buf[d.off:]
	if len(b) < HeaderLen {
		return Message{}, false
	}
	n := int(binary.BigEndian.Uint16(b[2:4]))
	if len(b) < HeaderLen+n {
		return Message{}, false
	}
	m := decodeBody(b[0], b[1], b[HeaderLen:HeaderLen+n])
	d.off += HeaderLen + n
	return m, true
}

// Pending returns the number of buffered bytes not yet decoded.
func (d *Decoder) Pending() int { return len(d.buf) - d.off }

// Reset drops any partial message.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
	d.off = 0
}

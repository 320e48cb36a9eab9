package wire

import (
	"io"
	"math"
)

// ByteSource is the capability surface typed decoders need: exact reads,
// a one-byte peek, and Pos/Seek so a multi-step decoder (tag, then
// length prefix, then payload) can checkpoint before it starts
// consuming and rewind to that checkpoint if a later step fails,
// keeping the whole decode transactional rather than leaving the
// reader advanced partway through a value. *Reader and *HostReader
// both implement it.
type ByteSource interface {
	ReadExact(n int) ([]byte, error)
	PeekByte() (byte, error)
	Len() int
	Rest() []byte
	Pos() int
	Seek(pos int)
}

// ByteSink is the capability surface typed encoders need. *Writer and
// *HostWriter both implement it.
type ByteSink interface {
	WriteSlice(b []byte) error
	WriteByte(b byte) error
	Written() int
	Remaining() int
}

// CheckCapacity fails with NoCapacity if w has less than total bytes of
// room left, without writing anything. Multi-step encoders that must
// compute a length-prefixed header before writing the payload use this
// to reserve room for header-plus-payload up front, so a payload that
// doesn't fit is rejected before the header is ever written.
func CheckCapacity(w ByteSink, total int) error {
	if w.Remaining() < total {
		return NoCapacity(total, w.Remaining())
	}
	return nil
}

var (
	_ ByteSource = (*Reader)(nil)
	_ ByteSink   = (*Writer)(nil)
)

// HostReader adapts a blocking io.Reader to the ByteSource contract for
// hosts that have one (§6.3). Unlike the slice-backed Reader, it
// allocates: it grows an internal buffer as the caller asks for more
// bytes than have been read from the stream yet. Omit this type in a
// heap-free build; it exists only for hosts that already provide a
// blocking stream.
type HostReader struct {
	src io.Reader
	buf []byte // all bytes read from src so far
	pos int    // read position within buf
}

// FromReader returns a ByteSource that pulls from r as needed.
func FromReader(r io.Reader) *HostReader {
	return &HostReader{src: r}
}

// fill ensures at least n unread bytes are buffered, reading from the
// underlying stream as needed.
func (h *HostReader) fill(n int) error {
	have := len(h.buf) - h.pos
	if have >= n {
		return nil
	}
	need := n - have
	grown := make([]byte, len(h.buf)+need)
	copy(grown, h.buf)
	if _, err := io.ReadFull(h.src, grown[len(h.buf):]); err != nil {
		return HostIO(err)
	}
	h.buf = grown
	return nil
}

func (h *HostReader) ReadExact(n int) ([]byte, error) {
	if err := h.fill(n); err != nil {
		return nil, err
	}
	out := h.buf[h.pos : h.pos+n]
	h.pos += n
	return out, nil
}

func (h *HostReader) PeekByte() (byte, error) {
	if err := h.fill(1); err != nil {
		return 0, err
	}
	return h.buf[h.pos], nil
}

func (h *HostReader) Len() int {
	return len(h.buf) - h.pos
}

func (h *HostReader) Rest() []byte {
	return h.buf[h.pos:]
}

// Pos returns the current read offset, for callers implementing
// transactional (rewind-on-failure) decode semantics.
func (h *HostReader) Pos() int {
	return h.pos
}

// Seek moves the read position to an offset previously returned by
// Pos. h.buf retains every byte ever pulled from the underlying
// stream, so rewinding never needs to re-read anything. Seeking outside
// the bytes buffered so far is a programmer error and panics, mirroring
// Reader.Seek.
func (h *HostReader) Seek(pos int) {
	if pos < 0 || pos > len(h.buf) {
		panic("wire: HostReader.Seek out of range")
	}
	h.pos = pos
}

// HostWriter adapts a blocking io.Writer to the ByteSink contract. It has
// no fixed capacity — Remaining reports math.MaxInt since the
// underlying stream is assumed unbounded — so NoCapacity never occurs;
// stream failures surface as HostIO instead.
type HostWriter struct {
	dst     io.Writer
	written int
}

// ToWriter returns a ByteSink that flushes directly to w.
func ToWriter(w io.Writer) *HostWriter {
	return &HostWriter{dst: w}
}

func (h *HostWriter) WriteSlice(b []byte) error {
	if _, err := h.dst.Write(b); err != nil {
		return HostIO(err)
	}
	h.written += len(b)
	return nil
}

func (h *HostWriter) WriteByte(b byte) error {
	return h.WriteSlice([]byte{b})
}

func (h *HostWriter) Written() int {
	return h.written
}

func (h *HostWriter) Remaining() int {
	return math.MaxInt
}

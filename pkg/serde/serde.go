package serde

import (
	"bytes"
	"io"
	"reflect"

	"github.com/packlite/msgpack/pkg/msgpack"
	"github.com/packlite/msgpack/pkg/wire"
)

// Marshaler is implemented by a type that encodes itself to MessagePack
// bytes directly, bypassing the reflect-driven walk.
type Marshaler interface {
	MarshalMsgpack() ([]byte, error)
}

// Unmarshaler is implemented by a type that decodes itself from the
// MessagePack bytes spanning exactly one value.
type Unmarshaler interface {
	UnmarshalMsgpack([]byte) error
}

// Option configures a Marshal/Unmarshal call or an Encoder/Decoder.
type Option func(*options)

type options struct {
	serialize   msgpack.SerializePolicy
	deserialize msgpack.DeserializePolicy
}

func defaultOptions() options {
	return options{serialize: msgpack.Exact, deserialize: msgpack.DeserializeExact}
}

// WithSerializePolicy selects the number policy Marshal/Encoder uses.
// The default is msgpack.Exact.
func WithSerializePolicy(p msgpack.SerializePolicy) Option {
	return func(o *options) { o.serialize = p }
}

// WithDeserializePolicy selects the number policy Unmarshal/Decoder
// uses. The default is msgpack.DeserializeExact.
func WithDeserializePolicy(p msgpack.DeserializePolicy) Option {
	return func(o *options) { o.deserialize = p }
}

func resolve(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Marshal encodes v as a single MessagePack value.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, opts...).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes exactly one MessagePack value from data into v,
// which must be a non-nil pointer.
func Unmarshal(data []byte, v any, opts ...Option) error {
	return NewDecoder(bytes.NewReader(data), opts...).Decode(v)
}

// Encoder writes a stream of MessagePack values, one Encode call per
// value, to an underlying io.Writer.
type Encoder struct {
	w    wire.ByteSink
	opts options
}

// NewEncoder returns an Encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: wire.ToWriter(w), opts: resolve(opts)}
}

// Encode writes v as one MessagePack value.
func (e *Encoder) Encode(v any) error {
	if m, ok := v.(Marshaler); ok {
		data, err := m.MarshalMsgpack()
		if err != nil {
			return err
		}
		return e.w.WriteSlice(data)
	}
	return encodeValue(e.w, reflect.ValueOf(v), e.opts)
}

// Decoder reads a stream of MessagePack values, one Decode call per
// value, from an underlying io.Reader.
type Decoder struct {
	r    wire.ByteSource
	opts options
}

// NewDecoder returns a Decoder that reads from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: wire.FromReader(r), opts: resolve(opts)}
}

// Decode reads one MessagePack value into v, which must be a non-nil
// pointer.
func (d *Decoder) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidTargetError{Type: reflect.TypeOf(v)}
	}
	if rv.Type().Implements(unmarshalerType) {
		raw, err := captureRaw(d.r)
		if err != nil {
			return err
		}
		return rv.Interface().(Unmarshaler).UnmarshalMsgpack(raw)
	}
	return decodeValue(d.r, rv.Elem(), d.opts)
}

var unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()

// captureRaw skips exactly one value on r and returns the bytes it
// spanned: it notes Pos before the skip, seeks back to it afterwards and
// reads the span again, so it works over both the no-heap Reader and the
// allocating HostReader (which keeps every byte it has pulled).
func captureRaw(r wire.ByteSource) ([]byte, error) {
	start := r.Pos()
	if err := msgpack.Skip(r); err != nil {
		return nil, err
	}
	n := r.Pos() - start
	r.Seek(start)
	return r.ReadExact(n)
}

// RawMessage holds an undecoded MessagePack value, letting a caller
// defer decoding part of a larger value or re-emit bytes verbatim.
type RawMessage []byte

// MarshalMsgpack returns m unchanged, or an encoded nil if m is empty.
func (m RawMessage) MarshalMsgpack() ([]byte, error) {
	if len(m) == 0 {
		return []byte{msgpack.MarkerNil}, nil
	}
	return []byte(m), nil
}

// UnmarshalMsgpack stores the bytes spanning one MessagePack value
// verbatim, without decoding them.
func (m *RawMessage) UnmarshalMsgpack(data []byte) error {
	*m = append((*m)[:0], data...)
	return nil
}

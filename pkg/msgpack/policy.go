package msgpack

import "github.com/packlite/msgpack/pkg/wire"

// SerializePolicy selects how a typed numeric value is written to the
// wire. It is a value-type runtime enum rather than a type parameter:
// every Encoder/Decoder call site in this module takes the same
// concrete types regardless of which policy is active.
type SerializePolicy int

const (
	// Exact writes the wire form matching the source's declared width —
	// a uint16 is always a Uint16 tag, even when its value would fit in
	// a fixint. This is the default.
	Exact SerializePolicy = iota
	// LosslessMinimize always picks the narrowest wire form that
	// round-trips the value exactly.
	LosslessMinimize
	// AggressiveMinimize behaves like LosslessMinimize for integers. For
	// floats, it additionally encodes as an integer when the value has
	// no fractional part, trading a decoder that expects a float for a
	// smaller encoding.
	AggressiveMinimize
)

// EncodeUint8 writes v per p.
func (p SerializePolicy) EncodeUint8(w wire.ByteSink, v uint8) error {
	if p == Exact {
		return EncodeUint8(w, v)
	}
	return encodeMinimalUint(w, uint64(v))
}

// EncodeUint16 writes v per p.
func (p SerializePolicy) EncodeUint16(w wire.ByteSink, v uint16) error {
	if p == Exact {
		return EncodeUint16(w, v)
	}
	return encodeMinimalUint(w, uint64(v))
}

// EncodeUint32 writes v per p.
func (p SerializePolicy) EncodeUint32(w wire.ByteSink, v uint32) error {
	if p == Exact {
		return EncodeUint32(w, v)
	}
	return encodeMinimalUint(w, uint64(v))
}

// EncodeUint64 writes v per p.
func (p SerializePolicy) EncodeUint64(w wire.ByteSink, v uint64) error {
	if p == Exact {
		return EncodeUint64(w, v)
	}
	return encodeMinimalUint(w, v)
}

// EncodeInt8 writes v per p.
func (p SerializePolicy) EncodeInt8(w wire.ByteSink, v int8) error {
	if p == Exact {
		return EncodeInt8(w, v)
	}
	return encodeMinimalInt(w, int64(v))
}

// EncodeInt16 writes v per p.
func (p SerializePolicy) EncodeInt16(w wire.ByteSink, v int16) error {
	if p == Exact {
		return EncodeInt16(w, v)
	}
	return encodeMinimalInt(w, int64(v))
}

// EncodeInt32 writes v per p.
func (p SerializePolicy) EncodeInt32(w wire.ByteSink, v int32) error {
	if p == Exact {
		return EncodeInt32(w, v)
	}
	return encodeMinimalInt(w, int64(v))
}

// EncodeInt64 writes v per p.
func (p SerializePolicy) EncodeInt64(w wire.ByteSink, v int64) error {
	if p == Exact {
		return EncodeInt64(w, v)
	}
	return encodeMinimalInt(w, v)
}

// EncodeFloat32 writes v per p. Float32 has no narrower float form, so
// Exact and LosslessMinimize always write it as Float32; AggressiveMinimize
// writes an integral v as an integer, the same way EncodeFloat64 does.
func (p SerializePolicy) EncodeFloat32(w wire.ByteSink, v float32) error {
	if p == AggressiveMinimize && isIntegral(float64(v)) {
		return p.EncodeFloat64(w, float64(v))
	}
	return EncodeFloat32(w, v)
}

// EncodeFloat64 writes v per p.
func (p SerializePolicy) EncodeFloat64(w wire.ByteSink, v float64) error {
	switch p {
	case Exact:
		return EncodeFloat64(w, v)
	case AggressiveMinimize:
		if isIntegral(v) {
			if v >= 0 && v <= 1<<63-1 {
				return encodeMinimalUint(w, uint64(v))
			}
			if v < 0 && v >= -(1 << 63) {
				return encodeMinimalInt(w, int64(v))
			}
		}
		return encodeMinimalFloat64(w, v)
	default: // LosslessMinimize
		return encodeMinimalFloat64(w, v)
	}
}

// DeserializePolicy selects how leniently a numeric value is accepted
// while decoding.
type DeserializePolicy int

const (
	// DeserializeExact requires the wire tag to match the target width
	// exactly, mirroring SerializePolicy's Exact encoding. This is the
	// default.
	DeserializeExact DeserializePolicy = iota
	// DeserializeLenient accepts any integer tag for an integer target
	// (or any float tag for a float target), narrowing or widening with
	// an Overflow error if the value doesn't fit.
	DeserializeLenient
	// DeserializeAggressiveLenient additionally crosses the int/float
	// boundary: an integer target accepts a float tag if the value is
	// integral and in range, and a float target accepts any integer tag.
	DeserializeAggressiveLenient
)

// DecodeUint8 reads a value per p, narrowing with Overflow if needed.
func (p DeserializePolicy) DecodeUint8(r wire.ByteSource) (uint8, error) {
	if p == DeserializeExact {
		return DecodeUint8(r)
	}
	v, err := p.decodeUnsigned(r)
	if err != nil {
		return 0, err
	}
	if v > 0xff {
		return 0, wire.Overflow()
	}
	return uint8(v), nil
}

// DecodeUint16 reads a value per p.
func (p DeserializePolicy) DecodeUint16(r wire.ByteSource) (uint16, error) {
	if p == DeserializeExact {
		return DecodeUint16(r)
	}
	v, err := p.decodeUnsigned(r)
	if err != nil {
		return 0, err
	}
	if v > 0xffff {
		return 0, wire.Overflow()
	}
	return uint16(v), nil
}

// DecodeUint32 reads a value per p.
func (p DeserializePolicy) DecodeUint32(r wire.ByteSource) (uint32, error) {
	if p == DeserializeExact {
		return DecodeUint32(r)
	}
	v, err := p.decodeUnsigned(r)
	if err != nil {
		return 0, err
	}
	if v > 0xffffffff {
		return 0, wire.Overflow()
	}
	return uint32(v), nil
}

// DecodeUint64 reads a value per p.
func (p DeserializePolicy) DecodeUint64(r wire.ByteSource) (uint64, error) {
	if p == DeserializeExact {
		return DecodeUint64(r)
	}
	return p.decodeUnsigned(r)
}

// DecodeInt8 reads a value per p.
func (p DeserializePolicy) DecodeInt8(r wire.ByteSource) (int8, error) {
	if p == DeserializeExact {
		return DecodeInt8(r)
	}
	v, err := p.decodeSigned(r)
	if err != nil {
		return 0, err
	}
	if v < -128 || v > 127 {
		return 0, wire.Overflow()
	}
	return int8(v), nil
}

// DecodeInt16 reads a value per p.
func (p DeserializePolicy) DecodeInt16(r wire.ByteSource) (int16, error) {
	if p == DeserializeExact {
		return DecodeInt16(r)
	}
	v, err := p.decodeSigned(r)
	if err != nil {
		return 0, err
	}
	if v < -32768 || v > 32767 {
		return 0, wire.Overflow()
	}
	return int16(v), nil
}

// DecodeInt32 reads a value per p.
func (p DeserializePolicy) DecodeInt32(r wire.ByteSource) (int32, error) {
	if p == DeserializeExact {
		return DecodeInt32(r)
	}
	v, err := p.decodeSigned(r)
	if err != nil {
		return 0, err
	}
	if v < -2147483648 || v > 2147483647 {
		return 0, wire.Overflow()
	}
	return int32(v), nil
}

// DecodeInt64 reads a value per p.
func (p DeserializePolicy) DecodeInt64(r wire.ByteSource) (int64, error) {
	if p == DeserializeExact {
		return DecodeInt64(r)
	}
	return p.decodeSigned(r)
}

// DecodeFloat32 reads a value per p.
func (p DeserializePolicy) DecodeFloat32(r wire.ByteSource) (float32, error) {
	if p == DeserializeExact {
		return DecodeFloat32(r)
	}
	v, err := p.decodeFloat(r)
	if err != nil {
		return 0, err
	}
	if !floatExactlyRepresentable(v) {
		return 0, wire.Overflow()
	}
	return float32(v), nil
}

// DecodeFloat64 reads a value per p.
func (p DeserializePolicy) DecodeFloat64(r wire.ByteSource) (float64, error) {
	if p == DeserializeExact {
		return DecodeFloat64(r)
	}
	return p.decodeFloat(r)
}

func (p DeserializePolicy) decodeUnsigned(r wire.ByteSource) (uint64, error) {
	_, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	if p == DeserializeAggressiveLenient && (tag == TagFloat32 || tag == TagFloat64) {
		f, err := decodeRawFloat64(r)
		if err != nil {
			return 0, err
		}
		if !isIntegral(f) || f < 0 || f >= 1<<64 {
			return 0, wire.Overflow()
		}
		return uint64(f), nil
	}
	switch tag {
	case TagNegativeFixInt, TagInt8, TagInt16, TagInt32, TagInt64:
		v, err := decodeRawInt64(r)
		if err != nil {
			return 0, err
		}
		if v < 0 {
			return 0, wire.Overflow()
		}
		return uint64(v), nil
	}
	return decodeRawUint64(r)
}

func (p DeserializePolicy) decodeSigned(r wire.ByteSource) (int64, error) {
	_, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	if p == DeserializeAggressiveLenient && (tag == TagFloat32 || tag == TagFloat64) {
		f, err := decodeRawFloat64(r)
		if err != nil {
			return 0, err
		}
		if !isIntegral(f) || f < -(1<<63) || f >= 1<<63 {
			return 0, wire.Overflow()
		}
		return int64(f), nil
	}
	return decodeRawInt64(r)
}

func (p DeserializePolicy) decodeFloat(r wire.ByteSource) (float64, error) {
	_, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	if p == DeserializeAggressiveLenient {
		switch tag {
		case TagPositiveFixInt, TagUint8, TagUint16, TagUint32, TagUint64:
			v, err := decodeRawUint64(r)
			return float64(v), err
		case TagNegativeFixInt, TagInt8, TagInt16, TagInt32, TagInt64:
			v, err := decodeRawInt64(r)
			return float64(v), err
		}
	}
	return decodeRawFloat64(r)
}

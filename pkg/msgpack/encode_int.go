package msgpack

import (
	"encoding/binary"

	"github.com/packlite/msgpack/pkg/wire"
)

// EncodeUint8 writes v as a positive fixint when it fits in 7 bits,
// otherwise as a Uint8. This is the source-width-exact form: the caller
// declared an 8-bit value, so no wider tag is ever produced.
func EncodeUint8(w wire.ByteSink, v uint8) error {
	if v <= 0x7f {
		return w.WriteByte(markerPositiveFixInt | v)
	}
	var buf [2]byte
	buf[0] = MarkerUint8
	buf[1] = v
	return w.WriteSlice(buf[:])
}

// EncodeUint16 always writes the full Uint16 form — the source width is
// 16 bits, so the wire form matches it regardless of magnitude.
func EncodeUint16(w wire.ByteSink, v uint16) error {
	var buf [3]byte
	buf[0] = MarkerUint16
	binary.BigEndian.PutUint16(buf[1:], v)
	return w.WriteSlice(buf[:])
}

// EncodeUint32 always writes the full Uint32 form.
func EncodeUint32(w wire.ByteSink, v uint32) error {
	var buf [5]byte
	buf[0] = MarkerUint32
	binary.BigEndian.PutUint32(buf[1:], v)
	return w.WriteSlice(buf[:])
}

// EncodeUint64 always writes the full Uint64 form.
func EncodeUint64(w wire.ByteSink, v uint64) error {
	var buf [9]byte
	buf[0] = MarkerUint64
	binary.BigEndian.PutUint64(buf[1:], v)
	return w.WriteSlice(buf[:])
}

// EncodeInt8 writes v as a negative fixint when it fits the 5-bit
// negative range, otherwise as an Int8. Unlike EncodeUint8, the
// non-negative branch does not fall back to positive fixint: a value
// decoded as Int8 must stay distinguishable from an unsigned source, so
// 0..127 also takes the Int8 tag.
func EncodeInt8(w wire.ByteSink, v int8) error {
	if v >= -32 && v < 0 {
		return w.WriteByte(markerNegativeFixInt | byte(v))
	}
	var buf [2]byte
	buf[0] = MarkerInt8
	buf[1] = byte(v)
	return w.WriteSlice(buf[:])
}

// EncodeInt16 always writes the full Int16 form.
func EncodeInt16(w wire.ByteSink, v int16) error {
	var buf [3]byte
	buf[0] = MarkerInt16
	binary.BigEndian.PutUint16(buf[1:], uint16(v))
	return w.WriteSlice(buf[:])
}

// EncodeInt32 always writes the full Int32 form.
func EncodeInt32(w wire.ByteSink, v int32) error {
	var buf [5]byte
	buf[0] = MarkerInt32
	binary.BigEndian.PutUint32(buf[1:], uint32(v))
	return w.WriteSlice(buf[:])
}

// EncodeInt64 always writes the full Int64 form.
func EncodeInt64(w wire.ByteSink, v int64) error {
	var buf [9]byte
	buf[0] = MarkerInt64
	binary.BigEndian.PutUint64(buf[1:], uint64(v))
	return w.WriteSlice(buf[:])
}

// encodeMinimalUint writes v using the narrowest unsigned form that
// round-trips it exactly.
func encodeMinimalUint(w wire.ByteSink, v uint64) error {
	switch {
	case v <= 0xff:
		return EncodeUint8(w, uint8(v))
	case v <= 0xffff:
		return EncodeUint16(w, uint16(v))
	case v <= 0xffffffff:
		return EncodeUint32(w, uint32(v))
	default:
		return EncodeUint64(w, v)
	}
}

// encodeMinimalInt writes v using the narrowest form that round-trips
// it exactly, preferring an unsigned tag for non-negative values (so a
// minimized 0 is a one-byte positive fixint, matching encodeMinimalUint).
func encodeMinimalInt(w wire.ByteSink, v int64) error {
	if v >= 0 {
		return encodeMinimalUint(w, uint64(v))
	}
	switch {
	case v >= -128:
		return EncodeInt8(w, int8(v))
	case v >= -32768:
		return EncodeInt16(w, int16(v))
	case v >= -2147483648:
		return EncodeInt32(w, int32(v))
	default:
		return EncodeInt64(w, v)
	}
}

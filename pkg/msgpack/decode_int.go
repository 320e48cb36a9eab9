package msgpack

import (
	"encoding/binary"

	"github.com/packlite/msgpack/pkg/wire"
)

// DecodeUint8 accepts a positive fixint or a Uint8 tag — the two forms
// an 8-bit unsigned value can have been written in. Any other tag is
// UnexpectedTag; this mirrors the source's per-width Decode impls,
// which never widen or narrow.
func DecodeUint8(r wire.ByteSource) (uint8, error) {
	start := r.Pos()
	b, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	switch tag {
	case TagPositiveFixInt:
		_, _ = r.ReadExact(1)
		return FixIntValue(b), nil
	case TagUint8:
		if _, err := r.ReadExact(1); err != nil {
			return 0, err
		}
		data, err := r.ReadExact(1)
		if err != nil {
			r.Seek(start)
			return 0, err
		}
		return data[0], nil
	default:
		return 0, wire.UnexpectedTag(b, "uint8")
	}
}

// DecodeUint16 accepts only the Uint16 tag.
func DecodeUint16(r wire.ByteSource) (uint16, error) {
	start := r.Pos()
	if err := expectTag(r, TagUint16, "uint16"); err != nil {
		return 0, err
	}
	data, err := r.ReadExact(2)
	if err != nil {
		r.Seek(start)
		return 0, err
	}
	return binary.BigEndian.Uint16(data), nil
}

// DecodeUint32 accepts only the Uint32 tag.
func DecodeUint32(r wire.ByteSource) (uint32, error) {
	start := r.Pos()
	if err := expectTag(r, TagUint32, "uint32"); err != nil {
		return 0, err
	}
	data, err := r.ReadExact(4)
	if err != nil {
		r.Seek(start)
		return 0, err
	}
	return binary.BigEndian.Uint32(data), nil
}

// DecodeUint64 accepts only the Uint64 tag.
func DecodeUint64(r wire.ByteSource) (uint64, error) {
	start := r.Pos()
	if err := expectTag(r, TagUint64, "uint64"); err != nil {
		return 0, err
	}
	data, err := r.ReadExact(8)
	if err != nil {
		r.Seek(start)
		return 0, err
	}
	return binary.BigEndian.Uint64(data), nil
}

// DecodeInt8 accepts a negative fixint or an Int8 tag.
func DecodeInt8(r wire.ByteSource) (int8, error) {
	start := r.Pos()
	b, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	switch tag {
	case TagNegativeFixInt:
		_, _ = r.ReadExact(1)
		return NegativeFixIntValue(b), nil
	case TagInt8:
		if _, err := r.ReadExact(1); err != nil {
			return 0, err
		}
		data, err := r.ReadExact(1)
		if err != nil {
			r.Seek(start)
			return 0, err
		}
		return int8(data[0]), nil
	default:
		return 0, wire.UnexpectedTag(b, "int8")
	}
}

// DecodeInt16 accepts only the Int16 tag.
func DecodeInt16(r wire.ByteSource) (int16, error) {
	start := r.Pos()
	if err := expectTag(r, TagInt16, "int16"); err != nil {
		return 0, err
	}
	data, err := r.ReadExact(2)
	if err != nil {
		r.Seek(start)
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(data)), nil
}

// DecodeInt32 accepts only the Int32 tag.
func DecodeInt32(r wire.ByteSource) (int32, error) {
	start := r.Pos()
	if err := expectTag(r, TagInt32, "int32"); err != nil {
		return 0, err
	}
	data, err := r.ReadExact(4)
	if err != nil {
		r.Seek(start)
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(data)), nil
}

// DecodeInt64 accepts only the Int64 tag.
func DecodeInt64(r wire.ByteSource) (int64, error) {
	start := r.Pos()
	if err := expectTag(r, TagInt64, "int64"); err != nil {
		return 0, err
	}
	data, err := r.ReadExact(8)
	if err != nil {
		r.Seek(start)
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}

// expectTag consumes the tag byte if it matches want, leaving the
// reader untouched (peekTag never advances it) if it does not.
func expectTag(r wire.ByteSource, want Tag, name string) error {
	b, tag, err := peekTag(r)
	if err != nil {
		return err
	}
	if tag != want {
		return wire.UnexpectedTag(b, name)
	}
	_, err = r.ReadExact(1)
	return err
}

// decodeRawUint64 accepts any unsigned-producing integer tag (positive
// fixint or uint8/16/32/64) and widens it to uint64. It underlies the
// Lenient/AggressiveLenient deserialize policies.
func decodeRawUint64(r wire.ByteSource) (uint64, error) {
	b, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	switch tag {
	case TagPositiveFixInt:
		_, _ = r.ReadExact(1)
		return uint64(FixIntValue(b)), nil
	case TagUint8:
		v, err := DecodeUint8(r)
		return uint64(v), err
	case TagUint16:
		v, err := DecodeUint16(r)
		return uint64(v), err
	case TagUint32:
		v, err := DecodeUint32(r)
		return uint64(v), err
	case TagUint64:
		return DecodeUint64(r)
	default:
		return 0, wire.UnexpectedTag(b, "integer")
	}
}

// decodeRawInt64 accepts any integer tag — signed or unsigned — and
// widens or converts it to int64, failing with Overflow if an unsigned
// value doesn't fit.
func decodeRawInt64(r wire.ByteSource) (int64, error) {
	b, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	switch tag {
	case TagNegativeFixInt:
		_, _ = r.ReadExact(1)
		return int64(NegativeFixIntValue(b)), nil
	case TagInt8:
		v, err := DecodeInt8(r)
		return int64(v), err
	case TagInt16:
		v, err := DecodeInt16(r)
		return int64(v), err
	case TagInt32:
		v, err := DecodeInt32(r)
		return int64(v), err
	case TagInt64:
		return DecodeInt64(r)
	case TagPositiveFixInt, TagUint8, TagUint16, TagUint32, TagUint64:
		v, err := decodeRawUint64(r)
		if err != nil {
			return 0, err
		}
		if v > 1<<63-1 {
			return 0, wire.Overflow()
		}
		return int64(v), nil
	default:
		return 0, wire.UnexpectedTag(b, "integer")
	}
}

package msgpack

import (
	"encoding/binary"
	"math"

	"github.com/packlite/msgpack/pkg/wire"
)

// DecodeFloat32 accepts only the Float32 tag.
func DecodeFloat32(r wire.ByteSource) (float32, error) {
	start := r.Pos()
	if err := expectTag(r, TagFloat32, "float32"); err != nil {
		return 0, err
	}
	data, err := r.ReadExact(4)
	if err != nil {
		r.Seek(start)
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(data)), nil
}

// DecodeFloat64 accepts only the Float64 tag.
func DecodeFloat64(r wire.ByteSource) (float64, error) {
	start := r.Pos()
	if err := expectTag(r, TagFloat64, "float64"); err != nil {
		return 0, err
	}
	data, err := r.ReadExact(8)
	if err != nil {
		r.Seek(start)
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(data)), nil
}

// decodeRawFloat64 accepts Float32 or Float64 and widens to float64. It
// underlies the AggressiveLenient deserialize policy, which also allows
// a float-tagged value where an integer was requested (and vice versa).
func decodeRawFloat64(r wire.ByteSource) (float64, error) {
	b, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	switch tag {
	case TagFloat32:
		v, err := DecodeFloat32(r)
		return float64(v), err
	case TagFloat64:
		return DecodeFloat64(r)
	default:
		return 0, wire.UnexpectedTag(b, "float")
	}
}

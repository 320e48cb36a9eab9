package msgpack

import (
	"encoding/binary"

	"github.com/packlite/msgpack/pkg/wire"
)

// DecodeArrayHeader reads an array header and returns its element count.
// The caller then decodes that many values itself.
func DecodeArrayHeader(r wire.ByteSource) (int, error) {
	start := r.Pos()
	b, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	switch tag {
	case TagFixArray:
		if _, err := r.ReadExact(1); err != nil {
			return 0, err
		}
		return FixArrayLen(b), nil
	case TagArray16:
		if _, err := r.ReadExact(1); err != nil {
			return 0, err
		}
		lb, err := r.ReadExact(2)
		if err != nil {
			r.Seek(start)
			return 0, err
		}
		return int(binary.BigEndian.Uint16(lb)), nil
	case TagArray32:
		if _, err := r.ReadExact(1); err != nil {
			return 0, err
		}
		lb, err := r.ReadExact(4)
		if err != nil {
			r.Seek(start)
			return 0, err
		}
		return int(binary.BigEndian.Uint32(lb)), nil
	default:
		return 0, wire.UnexpectedTag(b, "array")
	}
}

// DecodeMapHeader reads a map header and returns its pair count. The
// caller then decodes that many key/value pairs itself, key then value,
// for each pair.
func DecodeMapHeader(r wire.ByteSource) (int, error) {
	start := r.Pos()
	b, tag, err := peekTag(r)
	if err != nil {
		return 0, err
	}
	switch tag {
	case TagFixMap:
		if _, err := r.ReadExact(1); err != nil {
			return 0, err
		}
		return FixMapLen(b), nil
	case TagMap16:
		if _, err := r.ReadExact(1); err != nil {
			return 0, err
		}
		lb, err := r.ReadExact(2)
		if err != nil {
			r.Seek(start)
			return 0, err
		}
		return int(binary.BigEndian.Uint16(lb)), nil
	case TagMap32:
		if _, err := r.ReadExact(1); err != nil {
			return 0, err
		}
		lb, err := r.ReadExact(4)
		if err != nil {
			r.Seek(start)
			return 0, err
		}
		return int(binary.BigEndian.Uint32(lb)), nil
	default:
		return 0, wire.UnexpectedTag(b, "map")
	}
}

package msgpack

import (
	"encoding/binary"

	"github.com/packlite/msgpack/pkg/wire"
)

// Extension is an application-defined value: a signed 8-bit type tag
// plus a raw payload. Type -1 is reserved for the Timestamp sub-formats
// (see timestamp.go); application code may use any other value.
type Extension struct {
	Type int8
	Data []byte
}

// EncodeExtension writes e, selecting fixext1/2/4/8/16 when the payload
// length matches one of those fixed sizes exactly, otherwise ext8/16/32.
// The header and payload are two separate WriteSlice calls, so capacity
// for both is reserved up front: a payload that wouldn't fit fails with
// NoCapacity before the header is written, rather than after.
func EncodeExtension(w wire.ByteSink, e Extension) error {
	n := len(e.Data)
	typeByte := byte(e.Type)

	if marker, ok := fixExtMarker(n); ok {
		if err := wire.CheckCapacity(w, 2+n); err != nil {
			return err
		}
		if err := w.WriteSlice([]byte{marker, typeByte}); err != nil {
			return err
		}
		return w.WriteSlice(e.Data)
	}

	switch {
	case n <= 0xff:
		if err := wire.CheckCapacity(w, 3+n); err != nil {
			return err
		}
		if err := w.WriteSlice([]byte{MarkerExt8, byte(n), typeByte}); err != nil {
			return err
		}
	case n <= 0xffff:
		if err := wire.CheckCapacity(w, 4+n); err != nil {
			return err
		}
		var buf [4]byte
		buf[0] = MarkerExt16
		binary.BigEndian.PutUint16(buf[1:3], uint16(n))
		buf[3] = typeByte
		if err := w.WriteSlice(buf[:]); err != nil {
			return err
		}
	case n <= 0xffffffff:
		if err := wire.CheckCapacity(w, 6+n); err != nil {
			return err
		}
		var buf [6]byte
		buf[0] = MarkerExt32
		binary.BigEndian.PutUint32(buf[1:5], uint32(n))
		buf[5] = typeByte
		if err := w.WriteSlice(buf[:]); err != nil {
			return err
		}
	default:
		return wire.TooLong()
	}
	return w.WriteSlice(e.Data)
}

func fixExtMarker(n int) (byte, bool) {
	switch n {
	case 1:
		return MarkerFixExt1, true
	case 2:
		return MarkerFixExt2, true
	case 4:
		return MarkerFixExt4, true
	case 8:
		return MarkerFixExt8, true
	case 16:
		return MarkerFixExt16, true
	default:
		return 0, false
	}
}

// DecodeExtension reads the next value, which must be one of the
// fixext/ext8/16/32 forms.
func DecodeExtension(r wire.ByteSource) (Extension, error) {
	start := r.Pos()
	b, tag, err := peekTag(r)
	if err != nil {
		return Extension{}, err
	}
	var n int
	switch tag {
	case TagFixExt1:
		n = 1
	case TagFixExt2:
		n = 2
	case TagFixExt4:
		n = 4
	case TagFixExt8:
		n = 8
	case TagFixExt16:
		n = 16
	case TagExt8, TagExt16, TagExt32:
		// length prefix handled below
	default:
		return Extension{}, wire.UnexpectedTag(b, "extension")
	}

	if _, err := r.ReadExact(1); err != nil { // consume marker
		return Extension{}, err
	}

	switch tag {
	case TagExt8:
		lb, err := r.ReadExact(1)
		if err != nil {
			r.Seek(start)
			return Extension{}, err
		}
		n = int(lb[0])
	case TagExt16:
		lb, err := r.ReadExact(2)
		if err != nil {
			r.Seek(start)
			return Extension{}, err
		}
		n = int(binary.BigEndian.Uint16(lb))
	case TagExt32:
		lb, err := r.ReadExact(4)
		if err != nil {
			r.Seek(start)
			return Extension{}, err
		}
		n = int(binary.BigEndian.Uint32(lb))
	}

	typeByte, err := r.ReadExact(1)
	if err != nil {
		r.Seek(start)
		return Extension{}, err
	}
	data, err := r.ReadExact(n)
	if err != nil {
		r.Seek(start)
		return Extension{}, err
	}
	return Extension{Type: int8(typeByte[0]), Data: data}, nil
}

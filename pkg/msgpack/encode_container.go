package msgpack

import (
	"encoding/binary"

	"github.com/packlite/msgpack/pkg/wire"
)

// EncodeArrayHeader writes only the array header for n upcoming
// elements. Callers encode the n elements themselves immediately after.
func EncodeArrayHeader(w wire.ByteSink, n int) error {
	switch {
	case n <= 0xf:
		return w.WriteByte(markerFixArray | byte(n))
	case n <= 0xffff:
		var buf [3]byte
		buf[0] = MarkerArray16
		binary.BigEndian.PutUint16(buf[1:], uint16(n))
		return w.WriteSlice(buf[:])
	case n <= 0xffffffff:
		var buf [5]byte
		buf[0] = MarkerArray32
		binary.BigEndian.PutUint32(buf[1:], uint32(n))
		return w.WriteSlice(buf[:])
	default:
		return wire.TooLong()
	}
}

// EncodeMapHeader writes only the map header for n upcoming key-value
// pairs. Callers encode the 2n key/value values themselves immediately
// after, key then value, for each pair.
func EncodeMapHeader(w wire.ByteSink, n int) error {
	switch {
	case n <= 0xf:
		return w.WriteByte(markerFixMap | byte(n))
	case n <= 0xffff:
		var buf [3]byte
		buf[0] = MarkerMap16
		binary.BigEndian.PutUint16(buf[1:], uint16(n))
		return w.WriteSlice(buf[:])
	case n <= 0xffffffff:
		var buf [5]byte
		buf[0] = MarkerMap32
		binary.BigEndian.PutUint32(buf[1:], uint32(n))
		return w.WriteSlice(buf[:])
	default:
		return wire.TooLong()
	}
}

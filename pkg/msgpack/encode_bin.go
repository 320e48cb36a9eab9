package msgpack

import (
	"encoding/binary"

	"github.com/packlite/msgpack/pkg/wire"
)

// EncodeBin writes b as a binary blob, selecting the shortest header
// that fits its length (bin8/16/32 — there is no fixbin form).
func EncodeBin(w wire.ByteSink, b []byte) error {
	n := len(b)
	var headerLen int
	switch {
	case n <= 0xff:
		headerLen = 2
	case n <= 0xffff:
		headerLen = 3
	case n <= 0xffffffff:
		headerLen = 5
	default:
		return wire.TooLong()
	}
	if err := wire.CheckCapacity(w, headerLen+n); err != nil {
		return err
	}

	switch {
	case n <= 0xff:
		if err := w.WriteSlice([]byte{MarkerBin8, byte(n)}); err != nil {
			return err
		}
	case n <= 0xffff:
		var buf [3]byte
		buf[0] = MarkerBin16
		binary.BigEndian.PutUint16(buf[1:], uint16(n))
		if err := w.WriteSlice(buf[:]); err != nil {
			return err
		}
	default:
		var buf [5]byte
		buf[0] = MarkerBin32
		binary.BigEndian.PutUint32(buf[1:], uint32(n))
		if err := w.WriteSlice(buf[:]); err != nil {
			return err
		}
	}
	return w.WriteSlice(b)
}

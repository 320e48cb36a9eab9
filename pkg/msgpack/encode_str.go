package msgpack

import (
	"encoding/binary"

	"github.com/packlite/msgpack/pkg/wire"
)

// EncodeStr writes s as a UTF-8 string value, selecting the shortest
// header that fits its byte length (fixstr, then str8/16/32). Callers
// are responsible for ensuring s is valid UTF-8; this package never
// validates on encode, matching spec.md's decode-only UTF-8 check.
func EncodeStr(w wire.ByteSink, s string) error {
	headerLen, err := strHeaderLen(len(s))
	if err != nil {
		return err
	}
	if err := wire.CheckCapacity(w, headerLen+len(s)); err != nil {
		return err
	}
	if err := encodeStrHeader(w, len(s)); err != nil {
		return err
	}
	return w.WriteSlice([]byte(s))
}

// strHeaderLen returns the header width EncodeStr will use for an
// n-byte payload, without writing anything.
func strHeaderLen(n int) (int, error) {
	switch {
	case n <= 31:
		return 1, nil
	case n <= 0xff:
		return 2, nil
	case n <= 0xffff:
		return 3, nil
	case n <= 0xffffffff:
		return 5, nil
	default:
		return 0, wire.TooLong()
	}
}

func encodeStrHeader(w wire.ByteSink, n int) error {
	switch {
	case n <= 31:
		return w.WriteByte(markerFixStr | byte(n))
	case n <= 0xff:
		return w.WriteSlice([]byte{MarkerStr8, byte(n)})
	case n <= 0xffff:
		var buf [3]byte
		buf[0] = MarkerStr16
		binary.BigEndian.PutUint16(buf[1:], uint16(n))
		return w.WriteSlice(buf[:])
	case n <= 0xffffffff:
		var buf [5]byte
		buf[0] = MarkerStr32
		binary.BigEndian.PutUint32(buf[1:], uint32(n))
		return w.WriteSlice(buf[:])
	default:
		return wire.TooLong()
	}
}

package msgpack

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/packlite/msgpack/pkg/wire"
)

// DecodeStr reads a string value. The payload is copied into the
// returned Go string, so the result does not borrow the reader's
// backing buffer. Payloads that are not valid UTF-8 fail with InvalidUTF8.
func DecodeStr(r wire.ByteSource) (string, error) {
	b, err := decodeStrBytes(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", wire.InvalidUTF8()
	}
	return string(b), nil
}

func decodeStrBytes(r wire.ByteSource) ([]byte, error) {
	start := r.Pos()
	b, tag, err := peekTag(r)
	if err != nil {
		return nil, err
	}
	var n int
	switch tag {
	case TagFixStr:
		if _, err := r.ReadExact(1); err != nil {
			return nil, err
		}
		n = FixStrLen(b)
	case TagStr8:
		if _, err := r.ReadExact(1); err != nil {
			return nil, err
		}
		lb, err := r.ReadExact(1)
		if err != nil {
			r.Seek(start)
			return nil, err
		}
		n = int(lb[0])
	case TagStr16:
		if _, err := r.ReadExact(1); err != nil {
			return nil, err
		}
		lb, err := r.ReadExact(2)
		if err != nil {
			r.Seek(start)
			return nil, err
		}
		n = int(binary.BigEndian.Uint16(lb))
	case TagStr32:
		if _, err := r.ReadExact(1); err != nil {
			return nil, err
		}
		lb, err := r.ReadExact(4)
		if err != nil {
			r.Seek(start)
			return nil, err
		}
		n = int(binary.BigEndian.Uint32(lb))
	default:
		return nil, wire.UnexpectedTag(b, "str")
	}
	data, err := r.ReadExact(n)
	if err != nil {
		r.Seek(start)
		return nil, err
	}
	return data, nil
}

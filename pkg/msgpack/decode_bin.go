package msgpack

import (
	"encoding/binary"

	"github.com/packlite/msgpack/pkg/wire"
)

// DecodeBin reads a binary value and returns a borrowed view into the
// reader's backing buffer.
func DecodeBin(r wire.ByteSource) ([]byte, error) {
	start := r.Pos()
	b, tag, err := peekTag(r)
	if err != nil {
		return nil, err
	}
	var n int
	switch tag {
	case TagBin8:
		if _, err := r.ReadExact(1); err != nil {
			return nil, err
		}
		lb, err := r.ReadExact(1)
		if err != nil {
			r.Seek(start)
			return nil, err
		}
		n = int(lb[0])
	case TagBin16:
		if _, err := r.ReadExact(1); err != nil {
			return nil, err
		}
		lb, err := r.ReadExact(2)
		if err != nil {
			r.Seek(start)
			return nil, err
		}
		n = int(binary.BigEndian.Uint16(lb))
	case TagBin32:
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
		return nil, wire.UnexpectedTag(b, "bin")
	}
	data, err := r.ReadExact(n)
	if err != nil {
		r.Seek(start)
		return nil, err
	}
	return data, nil
}

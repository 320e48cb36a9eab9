package msgpack

import "github.com/packlite/msgpack/pkg/wire"

// DecodeNil consumes a nil marker or fails with UnexpectedTag.
func DecodeNil(r wire.ByteSource) error {
	return expectTag(r, TagNil, "nil")
}

// IsNil reports whether the next value is nil, without consuming it.
func IsNil(r wire.ByteSource) (bool, error) {
	b, err := r.PeekByte()
	if err != nil {
		return false, err
	}
	return b == MarkerNil, nil
}

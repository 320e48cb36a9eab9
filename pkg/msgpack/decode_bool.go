package msgpack

import "github.com/packlite/msgpack/pkg/wire"

// DecodeBool accepts only the true/false markers.
func DecodeBool(r wire.ByteSource) (bool, error) {
	b, tag, err := peekTag(r)
	if err != nil {
		return false, err
	}
	switch tag {
	case TagTrue:
		_, err := r.ReadExact(1)
		return true, err
	case TagFalse:
		_, err := r.ReadExact(1)
		return false, err
	default:
		return false, wire.UnexpectedTag(b, "bool")
	}
}

package msgpack

import "github.com/packlite/msgpack/pkg/wire"

// EncodeNil writes the one-byte nil marker.
func EncodeNil(w wire.ByteSink) error {
	return w.WriteByte(MarkerNil)
}

package msgpack

import "github.com/packlite/msgpack/pkg/wire"

// EncodeBool writes the one-byte true/false marker.
func EncodeBool(w wire.ByteSink, v bool) error {
	if v {
		return w.WriteByte(MarkerTrue)
	}
	return w.WriteByte(MarkerFalse)
}

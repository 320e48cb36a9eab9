package msgpack

import (
	"encoding/binary"
	"math"

	"github.com/packlite/msgpack/pkg/wire"
)

// EncodeFloat32 always writes the full Float32 form.
func EncodeFloat32(w wire.ByteSink, v float32) error {
	var buf [5]byte
	buf[0] = MarkerFloat32
	binary.BigEndian.PutUint32(buf[1:], math.Float32bits(v))
	return w.WriteSlice(buf[:])
}

// EncodeFloat64 always writes the full Float64 form.
func EncodeFloat64(w wire.ByteSink, v float64) error {
	var buf [9]byte
	buf[0] = MarkerFloat64
	binary.BigEndian.PutUint64(buf[1:], math.Float64bits(v))
	return w.WriteSlice(buf[:])
}

// floatExactlyRepresentable reports whether x survives a round trip
// through float32 without loss — the condition LosslessMinimize and
// AggressiveMinimize use to decide whether a float64 can shrink to
// Float32.
func floatExactlyRepresentable(x float64) bool {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return false
	}
	return float64(float32(x)) == x
}

// encodeMinimalFloat64 writes v as Float32 when that loses no
// precision, otherwise as Float64.
func encodeMinimalFloat64(w wire.ByteSink, v float64) error {
	if floatExactlyRepresentable(v) {
		return EncodeFloat32(w, float32(v))
	}
	return EncodeFloat64(w, v)
}

// isIntegral reports whether v has no fractional part and fits within
// the range explored by aggressive minimization.
func isIntegral(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Trunc(v) == v
}

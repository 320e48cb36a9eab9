package msgpack

import (
	"encoding/binary"
	"time"

	"github.com/packlite/msgpack/pkg/wire"
)

// TimestampExtensionType is the ext type reserved for the Timestamp
// sub-formats (-1, per the MessagePack timestamp extension).
const TimestampExtensionType int8 = -1

// TimestampNanoMax is the largest nanosecond value Timestamp64/96 can
// carry; the MessagePack timestamp extension forbids anything larger.
const TimestampNanoMax = 999999999

// timestampExtensionTypeByte is TimestampExtensionType's wire byte
// representation, computed at runtime (via a function call, so the
// compiler doesn't constant-fold the conversion) to avoid a
// constant-conversion error converting a negative int8 to byte.
var timestampExtensionTypeByte = byte(identityInt8(TimestampExtensionType))

func identityInt8(v int8) int8 { return v }

// Timestamp is a decoded point in time, normalized regardless of which
// of the three wire sub-formats carried it.
type Timestamp struct {
	Seconds     int64
	Nanoseconds uint32
}

// FromTime converts a time.Time to a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanoseconds: uint32(t.Nanosecond())}
}

// ToTime converts a Timestamp to a time.Time in UTC.
func (t Timestamp) ToTime() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanoseconds)).UTC()
}

// EncodeTimestamp writes t using the narrowest of the three sub-formats
// that represents it exactly: Timestamp32 (seconds only, fits in 32
// unsigned bits, no fractional part), Timestamp64 (34-bit seconds,
// 30-bit nanos, both non-negative), or Timestamp96 (everything else).
func EncodeTimestamp(w wire.ByteSink, t Timestamp) error {
	switch {
	case t.Nanoseconds == 0 && t.Seconds >= 0 && t.Seconds <= 0xffffffff:
		return encodeTimestamp32(w, uint32(t.Seconds))
	case t.Seconds >= 0 && t.Seconds < 1<<34 && t.Nanoseconds <= TimestampNanoMax:
		return encodeTimestamp64(w, uint64(t.Seconds), t.Nanoseconds)
	default:
		return encodeTimestamp96(w, t.Seconds, t.Nanoseconds)
	}
}

func encodeTimestamp32(w wire.ByteSink, seconds uint32) error {
	var buf [6]byte
	buf[0] = MarkerFixExt4
	buf[1] = timestampExtensionTypeByte
	binary.BigEndian.PutUint32(buf[2:], seconds)
	return w.WriteSlice(buf[:])
}

// encodeTimestamp64 packs nanos into the top 30 bits and seconds into
// the bottom 34 bits of an 8-byte big-endian payload, per the
// MessagePack timestamp extension's Timestamp64 layout.
func encodeTimestamp64(w wire.ByteSink, seconds uint64, nanos uint32) error {
	var buf [10]byte
	buf[0] = MarkerFixExt8
	buf[1] = timestampExtensionTypeByte
	packed := (uint64(nanos) << 34) | seconds
	binary.BigEndian.PutUint64(buf[2:], packed)
	return w.WriteSlice(buf[:])
}

func encodeTimestamp96(w wire.ByteSink, seconds int64, nanos uint32) error {
	var buf [15]byte
	buf[0] = MarkerExt8
	buf[1] = 12
	buf[2] = timestampExtensionTypeByte
	binary.BigEndian.PutUint32(buf[3:7], nanos)
	binary.BigEndian.PutUint64(buf[7:], uint64(seconds))
	return w.WriteSlice(buf[:])
}

// DecodeTimestamp reads a Timestamp32, Timestamp64, or Timestamp96 and
// normalizes it to a Timestamp. It fails with UnexpectedTag if the
// extension type is not -1, or InvalidTag if the payload length does
// not match one of the three defined layouts.
func DecodeTimestamp(r wire.ByteSource) (Timestamp, error) {
	start := r.Pos()
	ext, err := DecodeExtension(r)
	if err != nil {
		return Timestamp{}, err
	}
	if ext.Type != TimestampExtensionType {
		r.Seek(start)
		return Timestamp{}, wire.UnexpectedTag(byte(ext.Type), "timestamp extension type -1")
	}
	switch len(ext.Data) {
	case 4:
		seconds := binary.BigEndian.Uint32(ext.Data)
		return Timestamp{Seconds: int64(seconds)}, nil
	case 8:
		packed := binary.BigEndian.Uint64(ext.Data)
		seconds := packed & (1<<34 - 1)
		nanos := packed >> 34
		return Timestamp{Seconds: int64(seconds), Nanoseconds: uint32(nanos)}, nil
	case 12:
		nanos := binary.BigEndian.Uint32(ext.Data[:4])
		seconds := int64(binary.BigEndian.Uint64(ext.Data[4:]))
		return Timestamp{Seconds: seconds, Nanoseconds: nanos}, nil
	default:
		r.Seek(start)
		return Timestamp{}, wire.InvalidTag(byte(len(ext.Data)))
	}
}

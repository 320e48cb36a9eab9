// Package msgpack implements the MessagePack wire format directly over
// pkg/wire's no-heap Reader/Writer: one encode/decode function pair per
// value family, a runtime-selectable number policy, iterative skip, and
// the extension/timestamp sub-formats.
package msgpack

import "github.com/packlite/msgpack/pkg/wire"

// Tag classifies a MessagePack marker byte into one of the format
// families defined by the wire spec. PositiveFixInt, FixMap, FixArray,
// FixStr and NegativeFixInt carry their payload length or value in the
// low bits of the marker itself; every other tag is a fixed one-byte
// marker followed by a family-specific payload.
type Tag int

const (
	TagPositiveFixInt Tag = iota
	TagFixMap
	TagFixArray
	TagFixStr
	TagNil
	TagNeverUsed
	TagFalse
	TagTrue
	TagBin8
	TagBin16
	TagBin32
	TagExt8
	TagExt16
	TagExt32
	TagFloat32
	TagFloat64
	TagUint8
	TagUint16
	TagUint32
	TagUint64
	TagInt8
	TagInt16
	TagInt32
	TagInt64
	TagFixExt1
	TagFixExt2
	TagFixExt4
	TagFixExt8
	TagFixExt16
	TagStr8
	TagStr16
	TagStr32
	TagArray16
	TagArray32
	TagMap16
	TagMap32
	TagNegativeFixInt
)

// Marker bytes, named the way nexbuf/types.go names its small byte
// constants. Fixed-form markers (fixmap, fixarray, fixstr, the two
// fixint ranges) are base values ORed with an embedded length or value;
// see FixIntValue, FixMapLen, FixArrayLen, FixStrLen.
const (
	markerPositiveFixInt byte = 0x00
	markerFixMap         byte = 0x80
	markerFixArray       byte = 0x90
	markerFixStr         byte = 0xa0
	markerNegativeFixInt byte = 0xe0

	MarkerNil      byte = 0xc0
	MarkerNeverUsed byte = 0xc1
	MarkerFalse    byte = 0xc2
	MarkerTrue     byte = 0xc3
	MarkerBin8     byte = 0xc4
	MarkerBin16    byte = 0xc5
	MarkerBin32    byte = 0xc6
	MarkerExt8     byte = 0xc7
	MarkerExt16    byte = 0xc8
	MarkerExt32    byte = 0xc9
	MarkerFloat32  byte = 0xca
	MarkerFloat64  byte = 0xcb
	MarkerUint8    byte = 0xcc
	MarkerUint16   byte = 0xcd
	MarkerUint32   byte = 0xce
	MarkerUint64   byte = 0xcf
	MarkerInt8     byte = 0xd0
	MarkerInt16    byte = 0xd1
	MarkerInt32    byte = 0xd2
	MarkerInt64    byte = 0xd3
	MarkerFixExt1  byte = 0xd4
	MarkerFixExt2  byte = 0xd5
	MarkerFixExt4  byte = 0xd6
	MarkerFixExt8  byte = 0xd7
	MarkerFixExt16 byte = 0xd8
	MarkerStr8     byte = 0xd9
	MarkerStr16    byte = 0xda
	MarkerStr32    byte = 0xdb
	MarkerArray16  byte = 0xdc
	MarkerArray32  byte = 0xdd
	MarkerMap16    byte = 0xde
	MarkerMap32    byte = 0xdf
)

// ClassifyTag maps a marker byte to its Tag. Every byte value has a
// valid classification — MarkerNeverUsed (0xc1) classifies as
// TagNeverUsed rather than failing, so callers decide for themselves
// whether to treat it as InvalidTag.
func ClassifyTag(b byte) Tag {
	switch {
	case b <= 0x7f:
		return TagPositiveFixInt
	case b >= 0x80 && b <= 0x8f:
		return TagFixMap
	case b >= 0x90 && b <= 0x9f:
		return TagFixArray
	case b >= 0xa0 && b <= 0xbf:
		return TagFixStr
	case b >= 0xe0:
		return TagNegativeFixInt
	}
	switch b {
	case MarkerNil:
		return TagNil
	case MarkerNeverUsed:
		return TagNeverUsed
	case MarkerFalse:
		return TagFalse
	case MarkerTrue:
		return TagTrue
	case MarkerBin8:
		return TagBin8
	case MarkerBin16:
		return TagBin16
	case MarkerBin32:
		return TagBin32
	case MarkerExt8:
		return TagExt8
	case MarkerExt16:
		return TagExt16
	case MarkerExt32:
		return TagExt32
	case MarkerFloat32:
		return TagFloat32
	case MarkerFloat64:
		return TagFloat64
	case MarkerUint8:
		return TagUint8
	case MarkerUint16:
		return TagUint16
	case MarkerUint32:
		return TagUint32
	case MarkerUint64:
		return TagUint64
	case MarkerInt8:
		return TagInt8
	case MarkerInt16:
		return TagInt16
	case MarkerInt32:
		return TagInt32
	case MarkerInt64:
		return TagInt64
	case MarkerFixExt1:
		return TagFixExt1
	case MarkerFixExt2:
		return TagFixExt2
	case MarkerFixExt4:
		return TagFixExt4
	case MarkerFixExt8:
		return TagFixExt8
	case MarkerFixExt16:
		return TagFixExt16
	case MarkerStr8:
		return TagStr8
	case MarkerStr16:
		return TagStr16
	case MarkerStr32:
		return TagStr32
	case MarkerArray16:
		return TagArray16
	case MarkerArray32:
		return TagArray32
	case MarkerMap16:
		return TagMap16
	case MarkerMap32:
		return TagMap32
	}
	panic("msgpack: unreachable marker classification")
}

// FixIntValue returns the embedded value of a TagPositiveFixInt marker.
func FixIntValue(b byte) uint8 { return b }

// NegativeFixIntValue returns the embedded value of a TagNegativeFixInt
// marker.
func NegativeFixIntValue(b byte) int8 { return int8(b) }

// FixMapLen returns the embedded pair count of a TagFixMap marker.
func FixMapLen(b byte) int { return int(b &^ markerFixMap) }

// FixArrayLen returns the embedded element count of a TagFixArray marker.
func FixArrayLen(b byte) int { return int(b &^ markerFixArray) }

// FixStrLen returns the embedded byte length of a TagFixStr marker.
func FixStrLen(b byte) int { return int(b &^ markerFixStr) }

// peekTag reads the next marker byte without consuming it.
func peekTag(r wire.ByteSource) (byte, Tag, error) {
	b, err := r.PeekByte()
	if err != nil {
		return 0, 0, err
	}
	return b, ClassifyTag(b), nil
}

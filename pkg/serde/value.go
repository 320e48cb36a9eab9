package serde

import (
	"bytes"

	"github.com/packlite/msgpack/pkg/msgpack"
	"github.com/packlite/msgpack/pkg/wire"
)

// ValueKind identifies which field of a Value holds its payload.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindStr
	KindBin
	KindArray
	KindMap
	KindExt
	KindTimestamp
)

// MapEntry is one key/value pair of a decoded Value map. A plain slice
// rather than a Go map, since MessagePack map keys aren't restricted to
// strings and Value needs to hold whatever was actually on the wire.
type MapEntry struct {
	Key   Value
	Value Value
}

// Value is a decoded MessagePack value of unknown shape, the type
// Unmarshal produces when its destination is any or *Value. It mirrors
// the original codec's own "any decoded value" union one-for-one: every
// wire family has exactly one Value field, selected by Kind.
type Value struct {
	Kind ValueKind

	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Bin   []byte
	Array []Value
	Map   []MapEntry
	Ext   msgpack.Extension
	Time  msgpack.Timestamp
}

// MarshalMsgpack re-encodes v in the wire family it was decoded from
// (or constructed with), regardless of any SerializePolicy the caller
// may have set for the surrounding encode. Numbers are written in their
// 64-bit form (Int64, Uint64, Float64) whatever width they had on the
// wire, since a Value records only the family of a number, not its width.
func (v Value) MarshalMsgpack() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(wire.ToWriter(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalMsgpack decodes exactly one MessagePack value of any shape
// into v.
func (v *Value) UnmarshalMsgpack(data []byte) error {
	decoded, err := decodeGenericValue(wire.NewReader(data), msgpack.DeserializeExact, 0)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func (v Value) encode(w wire.ByteSink) error {
	switch v.Kind {
	case KindNil:
		return msgpack.EncodeNil(w)
	case KindBool:
		return msgpack.EncodeBool(w, v.Bool)
	case KindInt:
		return msgpack.EncodeInt64(w, v.Int)
	case KindUint:
		return msgpack.EncodeUint64(w, v.Uint)
	case KindFloat:
		return msgpack.EncodeFloat64(w, v.Float)
	case KindStr:
		return msgpack.EncodeStr(w, v.Str)
	case KindBin:
		return msgpack.EncodeBin(w, v.Bin)
	case KindArray:
		if err := msgpack.EncodeArrayHeader(w, len(v.Array)); err != nil {
			return err
		}
		for _, elem := range v.Array {
			if err := elem.encode(w); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := msgpack.EncodeMapHeader(w, len(v.Map)); err != nil {
			return err
		}
		for _, entry := range v.Map {
			if err := entry.Key.encode(w); err != nil {
				return err
			}
			if err := entry.Value.encode(w); err != nil {
				return err
			}
		}
		return nil
	case KindExt:
		return msgpack.EncodeExtension(w, v.Ext)
	case KindTimestamp:
		return msgpack.EncodeTimestamp(w, v.Time)
	default:
		return msgpack.EncodeNil(w)
	}
}

// decodeGenericValue is pkg/serde's counterpart to pkg/msgpack/debug.go's
// decodeAny: the same dispatch-on-tag walk, producing a typed Value tree
// instead of an any tree, under depth's shared DepthExceeded cap.
func decodeGenericValue(r wire.ByteSource, policy msgpack.DeserializePolicy, depth int) (Value, error) {
	if depth > msgpack.MaxSkipDepth {
		return Value{}, wire.DepthExceeded()
	}
	if policy == msgpack.DeserializeExact {
		// The tag alone picks the Value kind, so every integer or float
		// width on the wire is widened into the 64-bit field that holds it.
		policy = msgpack.DeserializeLenient
	}
	b, err := r.PeekByte()
	if err != nil {
		return Value{}, err
	}
	switch msgpack.ClassifyTag(b) {
	case msgpack.TagNil:
		return Value{Kind: KindNil}, msgpack.DecodeNil(r)

	case msgpack.TagFalse, msgpack.TagTrue:
		v, err := msgpack.DecodeBool(r)
		return Value{Kind: KindBool, Bool: v}, err

	case msgpack.TagPositiveFixInt, msgpack.TagUint8, msgpack.TagUint16, msgpack.TagUint32, msgpack.TagUint64:
		v, err := policy.DecodeUint64(r)
		return Value{Kind: KindUint, Uint: v}, err

	case msgpack.TagNegativeFixInt, msgpack.TagInt8, msgpack.TagInt16, msgpack.TagInt32, msgpack.TagInt64:
		v, err := policy.DecodeInt64(r)
		return Value{Kind: KindInt, Int: v}, err

	case msgpack.TagFloat32, msgpack.TagFloat64:
		v, err := policy.DecodeFloat64(r)
		return Value{Kind: KindFloat, Float: v}, err

	case msgpack.TagFixStr, msgpack.TagStr8, msgpack.TagStr16, msgpack.TagStr32:
		v, err := msgpack.DecodeStr(r)
		return Value{Kind: KindStr, Str: v}, err

	case msgpack.TagBin8, msgpack.TagBin16, msgpack.TagBin32:
		v, err := msgpack.DecodeBin(r)
		return Value{Kind: KindBin, Bin: v}, err

	case msgpack.TagFixExt1, msgpack.TagFixExt2, msgpack.TagFixExt4, msgpack.TagFixExt8, msgpack.TagFixExt16,
		msgpack.TagExt8, msgpack.TagExt16, msgpack.TagExt32:
		if b == msgpack.MarkerFixExt4 || b == msgpack.MarkerFixExt8 {
			if ts, ok := peekTimestampValue(r); ok {
				return Value{Kind: KindTimestamp, Time: ts}, nil
			}
		}
		ext, err := msgpack.DecodeExtension(r)
		return Value{Kind: KindExt, Ext: ext}, err

	case msgpack.TagFixArray, msgpack.TagArray16, msgpack.TagArray32:
		n, err := msgpack.DecodeArrayHeader(r)
		if err != nil {
			return Value{}, err
		}
		arr := make([]Value, n)
		for i := range arr {
			elem, err := decodeGenericValue(r, policy, depth+1)
			if err != nil {
				return Value{}, err
			}
			arr[i] = elem
		}
		return Value{Kind: KindArray, Array: arr}, nil

	case msgpack.TagFixMap, msgpack.TagMap16, msgpack.TagMap32:
		n, err := msgpack.DecodeMapHeader(r)
		if err != nil {
			return Value{}, err
		}
		entries := make([]MapEntry, n)
		for i := range entries {
			k, err := decodeGenericValue(r, policy, depth+1)
			if err != nil {
				return Value{}, err
			}
			v, err := decodeGenericValue(r, policy, depth+1)
			if err != nil {
				return Value{}, err
			}
			entries[i] = MapEntry{Key: k, Value: v}
		}
		return Value{Kind: KindMap, Map: entries}, nil

	default:
		return Value{}, wire.InvalidTag(b)
	}
}

// peekTimestampValue tries to decode the extension at r's current
// position as a Timestamp without disturbing r on failure.
func peekTimestampValue(r wire.ByteSource) (msgpack.Timestamp, bool) {
	pos := r.Pos()
	ts, err := msgpack.DecodeTimestamp(r)
	if err != nil {
		r.Seek(pos)
		return msgpack.Timestamp{}, false
	}
	return ts, true
}

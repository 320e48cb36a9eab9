package msgpack

import (
	"github.com/kr/pretty"

	"github.com/packlite/msgpack/pkg/wire"
)

// Dump renders the first MessagePack value in data as a human-readable
// tree, the way DiagnoseFirst renders one CBOR document for inspection
// in a debugger or test failure message, and returns whatever bytes
// follow it. Calling Dump again on remaining walks a back-to-back
// sequence of values one at a time. It allocates freely — this is
// tooling, not the no-heap encode/decode path — and decodes every value
// it can reach regardless of an application's own struct shapes.
func Dump(data []byte) (rendered string, remaining []byte, err error) {
	r := wire.NewReader(data)
	v, err := decodeAny(r, 0)
	if err != nil {
		return "", nil, err
	}
	return pretty.Sprint(v), r.Rest(), nil
}

func decodeAny(r wire.ByteSource, depth int) (any, error) {
	if depth > MaxSkipDepth {
		return nil, wire.DepthExceeded()
	}
	b, tag, err := peekTag(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagNil:
		return nil, DecodeNil(r)
	case TagFalse, TagTrue:
		return DecodeBool(r)
	case TagPositiveFixInt, TagUint8, TagUint16, TagUint32, TagUint64:
		return decodeRawUint64(r)
	case TagNegativeFixInt, TagInt8, TagInt16, TagInt32, TagInt64:
		return decodeRawInt64(r)
	case TagFloat32, TagFloat64:
		return decodeRawFloat64(r)
	case TagFixStr, TagStr8, TagStr16, TagStr32:
		return DecodeStr(r)
	case TagBin8, TagBin16, TagBin32:
		return DecodeBin(r)
	case TagFixExt1, TagFixExt2, TagFixExt4, TagFixExt8, TagFixExt16,
		TagExt8, TagExt16, TagExt32:
		if b == MarkerFixExt4 || b == MarkerFixExt8 {
			if ts, err := peekTimestamp(r); err == nil {
				return ts, nil
			}
		}
		ext, err := DecodeExtension(r)
		if err != nil {
			return nil, err
		}
		if c, ok := LookupExtensionCodec(ext.Type); ok {
			if v, err := c.Decode(ext.Data); err == nil {
				return v, nil
			}
		}
		return ext, nil
	case TagFixArray, TagArray16, TagArray32:
		n, err := DecodeArrayHeader(r)
		if err != nil {
			return nil, err
		}
		out := make([]any, n)
		for i := range out {
			v, err := decodeAny(r, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case TagFixMap, TagMap16, TagMap32:
		n, err := DecodeMapHeader(r)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, n)
		for i := 0; i < n; i++ {
			k, err := decodeAny(r, depth+1)
			if err != nil {
				return nil, err
			}
			v, err := decodeAny(r, depth+1)
			if err != nil {
				return nil, err
			}
			if ks, ok := k.(string); ok {
				out[ks] = v
			} else {
				out[pretty.Sprint(k)] = v
			}
		}
		return out, nil
	default:
		return nil, wire.InvalidTag(b)
	}
}

// peekTimestamp tries to decode the extension at the reader's current
// position as a Timestamp without disturbing the reader on failure.
func peekTimestamp(r wire.ByteSource) (Timestamp, error) {
	pos := r.Pos()
	ts, err := DecodeTimestamp(r)
	if err != nil {
		r.Seek(pos)
		return Timestamp{}, err
	}
	return ts, nil
}

package msgpack

import "github.com/packlite/msgpack/pkg/wire"

// MaxSkipDepth bounds the nesting skip will descend into before failing
// with DepthExceeded. It is enforced against an explicit worklist
// rather than call-stack recursion, so a maliciously deep input fails
// cleanly instead of exhausting the goroutine stack.
const MaxSkipDepth = 1024

// Skip consumes and discards exactly one MessagePack value, including
// all of its nested elements if it is an array, map, or extension.
func Skip(r wire.ByteSource) error {
	pending := []int{1}
	for len(pending) > 0 {
		if len(pending) > MaxSkipDepth {
			return wire.DepthExceeded()
		}
		top := len(pending) - 1
		if pending[top] == 0 {
			pending = pending[:top]
			continue
		}
		pending[top]--

		b, tag, err := peekTag(r)
		if err != nil {
			return err
		}

		switch tag {
		case TagNil, TagFalse, TagTrue, TagNeverUsed, TagPositiveFixInt, TagNegativeFixInt:
			if _, err := r.ReadExact(1); err != nil {
				return err
			}
		case TagUint8, TagInt8:
			if _, err := r.ReadExact(2); err != nil {
				return err
			}
		case TagUint16, TagInt16:
			if _, err := r.ReadExact(3); err != nil {
				return err
			}
		case TagUint32, TagInt32, TagFloat32:
			if _, err := r.ReadExact(5); err != nil {
				return err
			}
		case TagUint64, TagInt64, TagFloat64:
			if _, err := r.ReadExact(9); err != nil {
				return err
			}
		case TagFixStr, TagStr8, TagStr16, TagStr32:
			if _, err := decodeStrBytes(r); err != nil {
				return err
			}
		case TagBin8, TagBin16, TagBin32:
			if _, err := DecodeBin(r); err != nil {
				return err
			}
		case TagFixExt1, TagFixExt2, TagFixExt4, TagFixExt8, TagFixExt16,
			TagExt8, TagExt16, TagExt32:
			if _, err := DecodeExtension(r); err != nil {
				return err
			}
		case TagFixArray, TagArray16, TagArray32:
			n, err := DecodeArrayHeader(r)
			if err != nil {
				return err
			}
			if n > 0 {
				pending = append(pending, n)
			}
		case TagFixMap, TagMap16, TagMap32:
			n, err := DecodeMapHeader(r)
			if err != nil {
				return err
			}
			if n > 0 {
				pending = append(pending, n*2)
			}
		default:
			return wire.InvalidTag(b)
		}
	}
	return nil
}

package serde

import (
	"reflect"

	"github.com/packlite/msgpack/pkg/msgpack"
	"github.com/packlite/msgpack/pkg/wire"
)

var (
	extUnmarshalerType = reflect.TypeOf((*msgpack.ExtensionUnmarshaler)(nil)).Elem()
	anyType            = reflect.TypeOf((*any)(nil)).Elem()
)

// decodeValue drives the msgpack decoders into rv, the mirror of
// encodeValue: it switches on rv's Go shape and requests the matching
// wire family, the way a deserializer would issue expect_* calls and
// receive got_* callbacks from a structured-data framework (see doc.go).
// rv must be addressable/settable.
func decodeValue(r wire.ByteSource, rv reflect.Value, opts options) error {
	if rv.CanAddr() && rv.Addr().Type().Implements(unmarshalerType) {
		raw, err := captureRaw(r)
		if err != nil {
			return err
		}
		return rv.Addr().Interface().(Unmarshaler).UnmarshalMsgpack(raw)
	}
	if rv.CanAddr() && rv.Addr().Type().Implements(extUnmarshalerType) {
		ext, err := msgpack.DecodeExtension(r)
		if err != nil {
			return err
		}
		return rv.Addr().Interface().(msgpack.ExtensionUnmarshaler).UnmarshalMsgpackExt(ext)
	}
	if rv.Type() == timeType {
		ts, err := msgpack.DecodeTimestamp(r)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(ts.ToTime()))
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		isNil, err := msgpack.IsNil(r)
		if err != nil {
			return err
		}
		if isNil {
			if err := msgpack.DecodeNil(r); err != nil {
				return err
			}
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return decodeValue(r, rv.Elem(), opts)

	case reflect.Interface:
		if reg, ok := registryFor(rv.Type()); ok {
			return decodeUnion(r, reg, rv, opts)
		}
		if rv.Type() == anyType {
			v, err := decodeGenericValue(r, opts.deserialize, 0)
			if err != nil {
				return err
			}
			rv.Set(reflect.ValueOf(v))
			return nil
		}
		return &UnsupportedTypeError{Type: rv.Type()}

	case reflect.Bool:
		v, err := msgpack.DecodeBool(r)
		if err != nil {
			return err
		}
		rv.SetBool(v)
		return nil

	case reflect.Int8:
		v, err := opts.deserialize.DecodeInt8(r)
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
		return nil
	case reflect.Int16:
		v, err := opts.deserialize.DecodeInt16(r)
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
		return nil
	case reflect.Int32:
		v, err := opts.deserialize.DecodeInt32(r)
		if err != nil {
			return err
		}
		rv.SetInt(int64(v))
		return nil
	case reflect.Int, reflect.Int64:
		v, err := opts.deserialize.DecodeInt64(r)
		if err != nil {
			return err
		}
		rv.SetInt(v)
		return nil

	case reflect.Uint8:
		v, err := opts.deserialize.DecodeUint8(r)
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
		return nil
	case reflect.Uint16:
		v, err := opts.deserialize.DecodeUint16(r)
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
		return nil
	case reflect.Uint32:
		v, err := opts.deserialize.DecodeUint32(r)
		if err != nil {
			return err
		}
		rv.SetUint(uint64(v))
		return nil
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		v, err := opts.deserialize.DecodeUint64(r)
		if err != nil {
			return err
		}
		rv.SetUint(v)
		return nil

	case reflect.Float32:
		v, err := opts.deserialize.DecodeFloat32(r)
		if err != nil {
			return err
		}
		rv.SetFloat(float64(v))
		return nil
	case reflect.Float64:
		v, err := opts.deserialize.DecodeFloat64(r)
		if err != nil {
			return err
		}
		rv.SetFloat(v)
		return nil

	case reflect.String:
		v, err := msgpack.DecodeStr(r)
		if err != nil {
			return err
		}
		rv.SetString(v)
		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			data, err := msgpack.DecodeBin(r)
			if err != nil {
				return err
			}
			rv.SetBytes(append([]byte(nil), data...))
			return nil
		}
		return decodeSeq(r, rv, opts)

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			data, err := msgpack.DecodeBin(r)
			if err != nil {
				return err
			}
			reflect.Copy(rv, reflect.ValueOf(data))
			return nil
		}
		return decodeFixedSeq(r, rv, opts)

	case reflect.Map:
		return decodeMap(r, rv, opts)

	case reflect.Struct:
		return decodeStruct(r, rv, opts)

	default:
		return &UnsupportedTypeError{Type: rv.Type()}
	}
}

func decodeSeq(r wire.ByteSource, rv reflect.Value, opts options) error {
	n, err := msgpack.DecodeArrayHeader(r)
	if err != nil {
		return err
	}
	rv.Set(reflect.MakeSlice(rv.Type(), n, n))
	for i := 0; i < n; i++ {
		if err := decodeValue(r, rv.Index(i), opts); err != nil {
			return err
		}
	}
	return nil
}

// decodeFixedSeq fills a fixed-size Go array from an array header,
// skipping any extra wire elements and leaving trailing Go elements at
// their zero value if the wire array is shorter.
func decodeFixedSeq(r wire.ByteSource, rv reflect.Value, opts options) error {
	n, err := msgpack.DecodeArrayHeader(r)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if i < rv.Len() {
			if err := decodeValue(r, rv.Index(i), opts); err != nil {
				return err
			}
			continue
		}
		if err := msgpack.Skip(r); err != nil {
			return err
		}
	}
	return nil
}

func decodeMap(r wire.ByteSource, rv reflect.Value, opts options) error {
	n, err := msgpack.DecodeMapHeader(r)
	if err != nil {
		return err
	}
	rv.Set(reflect.MakeMapWithSize(rv.Type(), n))
	kt, vt := rv.Type().Key(), rv.Type().Elem()
	for i := 0; i < n; i++ {
		k := reflect.New(kt).Elem()
		if err := decodeValue(r, k, opts); err != nil {
			return err
		}
		v := reflect.New(vt).Elem()
		if err := decodeValue(r, v, opts); err != nil {
			return err
		}
		rv.SetMapIndex(k, v)
	}
	return nil
}

// decodeStruct accepts either a map (keys matched to field names) or an
// array (fields filled by declaration order), per the adapter's
// interoperability stance with peers that default to array encoding. A
// struct with no encodable fields also accepts a bare nil.
func decodeStruct(r wire.ByteSource, rv reflect.Value, opts options) error {
	fields := structFields(rv.Type())

	b, err := r.PeekByte()
	if err != nil {
		return err
	}
	tag := msgpack.ClassifyTag(b)

	if tag == msgpack.TagNil && len(fields) == 0 {
		return msgpack.DecodeNil(r)
	}

	switch tag {
	case msgpack.TagFixMap, msgpack.TagMap16, msgpack.TagMap32:
		n, err := msgpack.DecodeMapHeader(r)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, n)
		for i := 0; i < n; i++ {
			key, err := msgpack.DecodeStr(r)
			if err != nil {
				return err
			}
			f, ok := fieldByName(fields, key)
			if !ok {
				if err := msgpack.Skip(r); err != nil {
					return err
				}
				continue
			}
			if err := decodeValue(r, rv.FieldByIndex(f.index), opts); err != nil {
				return err
			}
			seen[f.name] = true
		}
		for _, f := range fields {
			if f.required && !seen[f.name] {
				return wire.MissingField(f.name)
			}
		}
		return nil

	case msgpack.TagFixArray, msgpack.TagArray16, msgpack.TagArray32:
		n, err := msgpack.DecodeArrayHeader(r)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if i < len(fields) {
				if err := decodeValue(r, rv.FieldByIndex(fields[i].index), opts); err != nil {
					return err
				}
				continue
			}
			if err := msgpack.Skip(r); err != nil {
				return err
			}
		}
		if n < len(fields) {
			for _, f := range fields[n:] {
				if f.required {
					return wire.MissingField(f.name)
				}
			}
		}
		return nil

	default:
		return wire.UnexpectedTag(b, "record (map or array)")
	}
}

func fieldByName(fields []fieldInfo, name string) (fieldInfo, bool) {
	for _, f := range fields {
		if f.name == name {
			return f, true
		}
	}
	return fieldInfo{}, false
}

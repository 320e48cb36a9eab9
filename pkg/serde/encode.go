package serde

import (
	"reflect"
	"sort"
	"time"

	"github.com/packlite/msgpack/pkg/msgpack"
	"github.com/packlite/msgpack/pkg/wire"
)

var (
	timeType         = reflect.TypeOf(time.Time{})
	marshalerType    = reflect.TypeOf((*Marshaler)(nil)).Elem()
	extMarshalerType = reflect.TypeOf((*msgpack.ExtensionMarshaler)(nil)).Elem()
)

// encodeValue drives the msgpack encoders from rv the way a serializer
// would drive visit_* calls into a structured-data framework (see
// doc.go): it switches on rv's Go shape and picks the matching wire
// family.
func encodeValue(w wire.ByteSink, rv reflect.Value, opts options) error {
	if !rv.IsValid() {
		return msgpack.EncodeNil(w)
	}

	if rv.Type().Implements(marshalerType) {
		data, err := rv.Interface().(Marshaler).MarshalMsgpack()
		if err != nil {
			return err
		}
		return w.WriteSlice(data)
	}
	if rv.Type().Implements(extMarshalerType) {
		ext, err := rv.Interface().(msgpack.ExtensionMarshaler).MarshalMsgpackExt()
		if err != nil {
			return err
		}
		return msgpack.EncodeExtension(w, ext)
	}
	if rv.Type() == timeType {
		return msgpack.EncodeTimestamp(w, msgpack.FromTime(rv.Interface().(time.Time)))
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return msgpack.EncodeNil(w)
		}
		return encodeValue(w, rv.Elem(), opts)

	case reflect.Interface:
		if rv.IsNil() {
			return msgpack.EncodeNil(w)
		}
		if reg, ok := registryFor(rv.Type()); ok {
			return encodeUnion(w, reg, rv, opts)
		}
		return encodeValue(w, rv.Elem(), opts)

	case reflect.Bool:
		return msgpack.EncodeBool(w, rv.Bool())

	case reflect.Int8:
		return opts.serialize.EncodeInt8(w, int8(rv.Int()))
	case reflect.Int16:
		return opts.serialize.EncodeInt16(w, int16(rv.Int()))
	case reflect.Int32:
		return opts.serialize.EncodeInt32(w, int32(rv.Int()))
	case reflect.Int, reflect.Int64:
		return opts.serialize.EncodeInt64(w, rv.Int())

	case reflect.Uint8:
		return opts.serialize.EncodeUint8(w, uint8(rv.Uint()))
	case reflect.Uint16:
		return opts.serialize.EncodeUint16(w, uint16(rv.Uint()))
	case reflect.Uint32:
		return opts.serialize.EncodeUint32(w, uint32(rv.Uint()))
	case reflect.Uint, reflect.Uint64, reflect.Uintptr:
		return opts.serialize.EncodeUint64(w, rv.Uint())

	case reflect.Float32:
		return opts.serialize.EncodeFloat32(w, float32(rv.Float()))
	case reflect.Float64:
		return opts.serialize.EncodeFloat64(w, rv.Float())

	case reflect.String:
		return msgpack.EncodeStr(w, rv.String())

	case reflect.Slice:
		if rv.IsNil() {
			return msgpack.EncodeNil(w)
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return msgpack.EncodeBin(w, rv.Bytes())
		}
		return encodeSeq(w, rv, opts)

	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			data := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(data), rv)
			return msgpack.EncodeBin(w, data)
		}
		return encodeSeq(w, rv, opts)

	case reflect.Map:
		return encodeMap(w, rv, opts)

	case reflect.Struct:
		return encodeStruct(w, rv, opts)

	default:
		return &UnsupportedTypeError{Type: rv.Type()}
	}
}

func encodeSeq(w wire.ByteSink, rv reflect.Value, opts options) error {
	n := rv.Len()
	if err := msgpack.EncodeArrayHeader(w, n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := encodeValue(w, rv.Index(i), opts); err != nil {
			return err
		}
	}
	return nil
}

func encodeMap(w wire.ByteSink, rv reflect.Value, opts options) error {
	if rv.IsNil() {
		return msgpack.EncodeNil(w)
	}
	keys := rv.MapKeys()
	if err := msgpack.EncodeMapHeader(w, len(keys)); err != nil {
		return err
	}
	if rv.Type().Key().Kind() == reflect.String {
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	}
	for _, k := range keys {
		if err := encodeValue(w, k, opts); err != nil {
			return err
		}
		if err := encodeValue(w, rv.MapIndex(k), opts); err != nil {
			return err
		}
	}
	return nil
}

// encodeStruct writes rv as a record: nil if it has no encodable
// fields, otherwise a map of field name to field value in declaration
// order (spec's binary-compatibility stance — robust to field
// reordering and additions on the decode side).
func encodeStruct(w wire.ByteSink, rv reflect.Value, opts options) error {
	fields := structFields(rv.Type())
	if len(fields) == 0 {
		return msgpack.EncodeNil(w)
	}
	present := make([]fieldInfo, 0, len(fields))
	for _, f := range fields {
		fv := rv.FieldByIndex(f.index)
		if f.omitempty && fv.IsZero() {
			continue
		}
		present = append(present, f)
	}
	if err := msgpack.EncodeMapHeader(w, len(present)); err != nil {
		return err
	}
	for _, f := range present {
		if err := msgpack.EncodeStr(w, f.name); err != nil {
			return err
		}
		if err := encodeValue(w, rv.FieldByIndex(f.index), opts); err != nil {
			return err
		}
	}
	return nil
}

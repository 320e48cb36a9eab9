package serde

import (
	"reflect"

	"github.com/packlite/msgpack/pkg/msgpack"
	"github.com/packlite/msgpack/pkg/wire"
)

// Variant is implemented by a tagged-union payload type that wants a
// wire name other than its bare Go type name.
type Variant interface {
	MsgpackVariant() string
}

// UnionRegistry maps one tagged-union interface to the concrete types
// that can fill it, keyed by the wire variant name each encodes under.
type UnionRegistry struct {
	iface  reflect.Type
	byName map[string]reflect.Type
	byType map[reflect.Type]string
}

var unionRegistries = map[reflect.Type]*UnionRegistry{}

// UnionOf registers prototypes as the closed set of concrete types that
// can fill the interface pointed to by ptr — e.g. UnionOf((*Event)(nil),
// Connected{}, Disconnected{}, Renamed{}). Each prototype's variant name
// comes from MsgpackVariant if it implements Variant, otherwise from its
// own Go type name. Subsequent Marshal/Unmarshal calls whose traversal
// reaches the registered interface type encode/decode it as a tagged
// union per spec.md §4.6.
func UnionOf(ptr any, prototypes ...any) *UnionRegistry {
	iface := reflect.TypeOf(ptr).Elem()
	reg := &UnionRegistry{
		iface:  iface,
		byName: make(map[string]reflect.Type, len(prototypes)),
		byType: make(map[reflect.Type]string, len(prototypes)),
	}
	for _, p := range prototypes {
		t := reflect.TypeOf(p)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		name := variantName(p, t)
		reg.byName[name] = t
		reg.byType[t] = name
	}
	unionRegistries[iface] = reg
	return reg
}

func variantName(p any, t reflect.Type) string {
	if v, ok := p.(Variant); ok {
		return v.MsgpackVariant()
	}
	return t.Name()
}

func registryFor(iface reflect.Type) (*UnionRegistry, bool) {
	reg, ok := unionRegistries[iface]
	return reg, ok
}

// encodeUnion writes rv — an interface value holding a registered
// variant — as the variant name alone if its concrete type is an empty
// struct (a unit variant), otherwise as a one-entry map {name: payload}.
func encodeUnion(w wire.ByteSink, reg *UnionRegistry, rv reflect.Value, opts options) error {
	elem := rv.Elem()
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return msgpack.EncodeNil(w)
		}
		elem = elem.Elem()
	}
	name, ok := reg.byType[elem.Type()]
	if !ok {
		return &UnregisteredVariantError{Type: elem.Type()}
	}
	if elem.Kind() == reflect.Struct && elem.NumField() == 0 {
		return msgpack.EncodeStr(w, name)
	}
	if err := msgpack.EncodeMapHeader(w, 1); err != nil {
		return err
	}
	if err := msgpack.EncodeStr(w, name); err != nil {
		return err
	}
	return encodeValue(w, elem, opts)
}

// decodeUnion reads either a bare variant-name string (a unit variant)
// or a one-entry map {name: payload} and sets rv to a value of the
// registered concrete type implementing reg's interface.
func decodeUnion(r wire.ByteSource, reg *UnionRegistry, rv reflect.Value, opts options) error {
	b, err := r.PeekByte()
	if err != nil {
		return err
	}
	switch msgpack.ClassifyTag(b) {
	case msgpack.TagNil:
		if err := msgpack.DecodeNil(r); err != nil {
			return err
		}
		rv.Set(reflect.Zero(rv.Type()))
		return nil

	case msgpack.TagFixStr, msgpack.TagStr8, msgpack.TagStr16, msgpack.TagStr32:
		name, err := msgpack.DecodeStr(r)
		if err != nil {
			return err
		}
		t, ok := reg.byName[name]
		if !ok {
			return wire.UnknownVariant(name)
		}
		return setUnionValue(rv, t, reflect.New(t).Elem())

	case msgpack.TagFixMap, msgpack.TagMap16, msgpack.TagMap32:
		n, err := msgpack.DecodeMapHeader(r)
		if err != nil {
			return err
		}
		if n != 1 {
			return wire.UnexpectedTag(b, "single-entry tagged-union map")
		}
		name, err := msgpack.DecodeStr(r)
		if err != nil {
			return err
		}
		t, ok := reg.byName[name]
		if !ok {
			return wire.UnknownVariant(name)
		}
		payload := reflect.New(t).Elem()
		if err := decodeValue(r, payload, opts); err != nil {
			return err
		}
		return setUnionValue(rv, t, payload)

	default:
		return wire.UnexpectedTag(b, "tagged union")
	}
}

func setUnionValue(rv reflect.Value, t reflect.Type, payload reflect.Value) error {
	if t.Implements(rv.Type()) {
		rv.Set(payload)
		return nil
	}
	if reflect.PointerTo(t).Implements(rv.Type()) {
		ptr := reflect.New(t)
		ptr.Elem().Set(payload)
		rv.Set(ptr)
		return nil
	}
	return &UnregisteredVariantError{Type: t}
}

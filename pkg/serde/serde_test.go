package serde

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/packlite/msgpack/pkg/msgpack"
	"github.com/packlite/msgpack/pkg/wire"
)

type point struct {
	X int32 `msgpack:"x"`
	Y int32 `msgpack:"y"`
}

func TestMarshalUnmarshalStructRoundTrip(t *testing.T) {
	in := point{X: 3, Y: -7}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out point
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

type withOptions struct {
	Name string `msgpack:"name"`
	Tag  string `msgpack:"tag,omitempty"`
	ID   int64  `msgpack:"id,required"`
}

func TestOmitemptyDropsZeroField(t *testing.T) {
	data, err := Marshal(withOptions{Name: "a", ID: 1})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	rendered, _, err := msgpack.Dump(data)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if bytes.Contains([]byte(rendered), []byte("tag")) {
		t.Errorf("expected omitempty field to be dropped, rendering was %q", rendered)
	}
}

type requiresID struct {
	ID int64 `msgpack:"id,required"`
}

func TestRequiredFieldMissingFails(t *testing.T) {
	buf := make([]byte, 16)
	w := wire.NewWriter(buf)
	if err := msgpack.EncodeMapHeader(w, 0); err != nil {
		t.Fatalf("EncodeMapHeader: %v", err)
	}

	var out requiresID
	err := Unmarshal(w.Bytes(), &out)
	if err == nil {
		t.Fatal("expected MissingField, got nil")
	}
	e, ok := err.(*wire.Error)
	if !ok || e.Kind != wire.KindMissingField {
		t.Errorf("err = %v, want KindMissingField", err)
	}
}

// S1: a record encoded as a map with fields "compact", "schema", "lossy"
// produces a specific 29-byte wire sequence under Exact policy.
type s1Record struct {
	Compact bool  `msgpack:"compact"`
	Schema  int32 `msgpack:"schema"`
	Lossy   bool  `msgpack:"lossy"`
}

func TestS1RecordAsMap(t *testing.T) {
	in := s1Record{Compact: true, Schema: 0, Lossy: false}
	data, err := Marshal(in, WithSerializePolicy(msgpack.Exact))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	wantBuf := make([]byte, 64)
	w := wire.NewWriter(wantBuf)
	mustEncode := func(err error) {
		if err != nil {
			t.Fatalf("building expected wire form: %v", err)
		}
	}
	mustEncode(msgpack.EncodeMapHeader(w, 3))
	mustEncode(msgpack.EncodeStr(w, "compact"))
	mustEncode(msgpack.EncodeBool(w, true))
	mustEncode(msgpack.EncodeStr(w, "schema"))
	mustEncode(msgpack.Exact.EncodeInt32(w, 0))
	mustEncode(msgpack.EncodeStr(w, "lossy"))
	mustEncode(msgpack.EncodeBool(w, false))

	if !bytes.Equal(data, w.Bytes()) {
		t.Errorf("encoding = % x, want % x", data, w.Bytes())
	}

	var out s1Record
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// S2: record-from-array interop — a peer that encodes fields
// positionally (array form) still decodes correctly against a struct
// target, matching field declaration order.
type s2Record struct {
	Flag  bool  `msgpack:"flag"`
	Value uint8 `msgpack:"value"`
}

func TestS2RecordFromArray(t *testing.T) {
	data := []byte{0x92, 0xc3, 0x00} // fixarray(2), true, 0
	var out s2Record
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := s2Record{Flag: true, Value: 0}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("array-form decode mismatch (-want +got):\n%s", diff)
	}
}

// S6: encoding a record into a writer too small to hold it fails with
// NoCapacity, leaving the writer's written count at 0.
func TestS6EncodeIntoShortBuffer(t *testing.T) {
	w := wire.NewWriter(make([]byte, 4))
	err := encodeValue(w, reflect.ValueOf(s1Record{Compact: true}), defaultOptions())
	if err == nil {
		t.Fatal("expected NoCapacity, got nil")
	}
	e, ok := err.(*wire.Error)
	if !ok || e.Kind != wire.KindNoCapacity {
		t.Errorf("err = %v, want KindNoCapacity", err)
	}
}

// S7: decoding a map that contains a key absent from the destination
// struct skips that entry rather than failing.
type s7Record struct {
	Known string `msgpack:"known"`
}

func TestS7UnknownKeySkipped(t *testing.T) {
	buf := make([]byte, 64)
	w := wire.NewWriter(buf)
	if err := msgpack.EncodeMapHeader(w, 2); err != nil {
		t.Fatalf("EncodeMapHeader: %v", err)
	}
	if err := msgpack.EncodeStr(w, "unknown"); err != nil {
		t.Fatalf("EncodeStr: %v", err)
	}
	if err := msgpack.EncodeUint8(w, 9); err != nil {
		t.Fatalf("EncodeUint8: %v", err)
	}
	if err := msgpack.EncodeStr(w, "known"); err != nil {
		t.Fatalf("EncodeStr: %v", err)
	}
	if err := msgpack.EncodeStr(w, "hello"); err != nil {
		t.Fatalf("EncodeStr: %v", err)
	}

	var out s7Record
	if err := Unmarshal(w.Bytes(), &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out.Known != "hello" {
		t.Errorf("Known = %q, want %q", out.Known, "hello")
	}
}

type event interface {
	isEvent()
}

type connected struct {
	Addr string `msgpack:"addr"`
}

func (connected) isEvent() {}

type disconnected struct{}

func (disconnected) isEvent() {}

func (disconnected) MsgpackVariant() string { return "disconnected" }

func init() {
	UnionOf((*event)(nil), connected{}, disconnected{})
}

func TestUnionRoundTripPayloadVariant(t *testing.T) {
	var in event = connected{Addr: "10.0.0.1:9000"}
	// Marshal gets &in so the traversal reaches the event interface type;
	// passing in itself would hand Marshal only the concrete struct.
	data, err := Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var out event
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	got, ok := out.(connected)
	if !ok {
		t.Fatalf("out = %#v (%T), want connected", out, out)
	}
	if got.Addr != "10.0.0.1:9000" {
		t.Errorf("Addr = %q, want %q", got.Addr, "10.0.0.1:9000")
	}
}

func TestUnionRoundTripUnitVariant(t *testing.T) {
	var in event = disconnected{}
	data, err := Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	rendered, _, err := msgpack.Dump(data)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if rendered == "" {
		t.Fatal("expected non-empty rendering")
	}

	var out event
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := out.(disconnected); !ok {
		t.Errorf("out = %#v (%T), want disconnected", out, out)
	}
}

func TestUnionUnknownVariantFails(t *testing.T) {
	buf := make([]byte, 32)
	w := wire.NewWriter(buf)
	if err := msgpack.EncodeStr(w, "never-registered"); err != nil {
		t.Fatalf("EncodeStr: %v", err)
	}
	var out event
	err := Unmarshal(w.Bytes(), &out)
	if err == nil {
		t.Fatal("expected UnknownVariant, got nil")
	}
	e, ok := err.(*wire.Error)
	if !ok || e.Kind != wire.KindUnknownVariant {
		t.Errorf("err = %v, want KindUnknownVariant", err)
	}
}

func TestValueRoundTripArbitraryShape(t *testing.T) {
	in := point{X: 1, Y: 2}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var v Value
	if err := Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal into Value: %v", err)
	}
	if v.Kind != KindMap {
		t.Fatalf("Kind = %v, want KindMap", v.Kind)
	}
	if len(v.Map) != 2 {
		t.Fatalf("len(Map) = %d, want 2", len(v.Map))
	}

	reencoded, err := Marshal(v)
	if err != nil {
		t.Fatalf("re-Marshal of Value: %v", err)
	}
	var out point
	if err := Unmarshal(reencoded, &out); err != nil {
		t.Fatalf("Unmarshal re-encoded Value: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Errorf("round trip through Value mismatch (-want +got):\n%s", diff)
	}
}

func TestRawMessageDefersDecoding(t *testing.T) {
	type wrapper struct {
		Header string     `msgpack:"header"`
		Body   RawMessage `msgpack:"body"`
	}

	inner, err := Marshal(point{X: 9, Y: 10})
	if err != nil {
		t.Fatalf("Marshal inner: %v", err)
	}
	data, err := Marshal(wrapper{Header: "v1", Body: RawMessage(inner)})
	if err != nil {
		t.Fatalf("Marshal wrapper: %v", err)
	}

	var out wrapper
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal wrapper: %v", err)
	}
	if out.Header != "v1" {
		t.Errorf("Header = %q, want v1", out.Header)
	}
	var inner2 point
	if err := Unmarshal(out.Body, &inner2); err != nil {
		t.Fatalf("Unmarshal deferred body: %v", err)
	}
	if diff := cmp.Diff(point{X: 9, Y: 10}, inner2); diff != "" {
		t.Errorf("deferred body mismatch (-want +got):\n%s", diff)
	}
}

type embeddedBase struct {
	ID int64 `msgpack:"id"`
}

type embedder struct {
	embeddedBase
	Name string `msgpack:"name"`
}

func TestEmbeddedStructFieldPromotion(t *testing.T) {
	in := embedder{embeddedBase: embeddedBase{ID: 42}, Name: "x"}
	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out embedder
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out, cmp.AllowUnexported(embedder{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(point{X: 1, Y: 1}); err != nil {
		t.Fatalf("Encode[0]: %v", err)
	}
	if err := enc.Encode(point{X: 2, Y: 2}); err != nil {
		t.Fatalf("Encode[1]: %v", err)
	}

	dec := NewDecoder(&buf)
	var a, b point
	if err := dec.Decode(&a); err != nil {
		t.Fatalf("Decode[0]: %v", err)
	}
	if err := dec.Decode(&b); err != nil {
		t.Fatalf("Decode[1]: %v", err)
	}
	if diff := cmp.Diff(point{X: 1, Y: 1}, a); diff != "" {
		t.Errorf("first value mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(point{X: 2, Y: 2}, b); diff != "" {
		t.Errorf("second value mismatch (-want +got):\n%s", diff)
	}
}

package msgpack

import (
	"bytes"
	"testing"
	"time"

	"github.com/packlite/msgpack/pkg/wire"
)

func TestEncodeDecodeScalarRoundTrip(t *testing.T) {
	buf := make([]byte, 256)
	w := wire.NewWriter(buf)

	if err := EncodeNil(w); err != nil {
		t.Fatalf("EncodeNil: %v", err)
	}
	if err := EncodeBool(w, true); err != nil {
		t.Fatalf("EncodeBool: %v", err)
	}
	if err := EncodeUint8(w, 200); err != nil {
		t.Fatalf("EncodeUint8: %v", err)
	}
	if err := EncodeInt8(w, -10); err != nil {
		t.Fatalf("EncodeInt8: %v", err)
	}
	if err := EncodeFloat64(w, 3.5); err != nil {
		t.Fatalf("EncodeFloat64: %v", err)
	}
	if err := EncodeStr(w, "hello, msgpack"); err != nil {
		t.Fatalf("EncodeStr: %v", err)
	}
	if err := EncodeBin(w, []byte{0xDE, 0xAD, 0xBE, 0xEF}); err != nil {
		t.Fatalf("EncodeBin: %v", err)
	}

	r := wire.NewReader(w.Bytes())

	if err := DecodeNil(r); err != nil {
		t.Fatalf("DecodeNil: %v", err)
	}
	if v, err := DecodeBool(r); err != nil || v != true {
		t.Fatalf("DecodeBool = %v, %v, want true, nil", v, err)
	}
	if v, err := DecodeUint8(r); err != nil || v != 200 {
		t.Fatalf("DecodeUint8 = %v, %v, want 200, nil", v, err)
	}
	if v, err := DecodeInt8(r); err != nil || v != -10 {
		t.Fatalf("DecodeInt8 = %v, %v, want -10, nil", v, err)
	}
	if v, err := DecodeFloat64(r); err != nil || v != 3.5 {
		t.Fatalf("DecodeFloat64 = %v, %v, want 3.5, nil", v, err)
	}
	if v, err := DecodeStr(r); err != nil || v != "hello, msgpack" {
		t.Fatalf("DecodeStr = %q, %v, want %q, nil", v, err, "hello, msgpack")
	}
	if v, err := DecodeBin(r); err != nil || !bytes.Equal(v, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Fatalf("DecodeBin = %v, %v", v, err)
	}
	if r.Len() != 0 {
		t.Errorf("reader has %d unread bytes left", r.Len())
	}
}

func TestArrayMapHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	w := wire.NewWriter(buf)
	if err := EncodeArrayHeader(w, 3); err != nil {
		t.Fatalf("EncodeArrayHeader: %v", err)
	}
	if err := EncodeMapHeader(w, 2); err != nil {
		t.Fatalf("EncodeMapHeader: %v", err)
	}

	r := wire.NewReader(w.Bytes())
	n, err := DecodeArrayHeader(r)
	if err != nil || n != 3 {
		t.Fatalf("DecodeArrayHeader = %d, %v, want 3, nil", n, err)
	}
	m, err := DecodeMapHeader(r)
	if err != nil || m != 2 {
		t.Fatalf("DecodeMapHeader = %d, %v, want 2, nil", m, err)
	}
}

// S3 LosslessMinimize integer: encoding unsigned 1 with width 16 under
// LosslessMinimize yields `01`; under Exact yields `cd 00 01`.
func TestS3LosslessMinimizeInteger(t *testing.T) {
	buf := make([]byte, 8)

	w := wire.NewWriter(buf)
	if err := LosslessMinimize.EncodeUint16(w, 1); err != nil {
		t.Fatalf("EncodeUint16: %v", err)
	}
	if got, want := w.Bytes(), []byte{0x01}; !bytes.Equal(got, want) {
		t.Errorf("LosslessMinimize uint16(1) = % x, want % x", got, want)
	}

	w2 := wire.NewWriter(buf)
	if err := Exact.EncodeUint16(w2, 1); err != nil {
		t.Fatalf("EncodeUint16: %v", err)
	}
	if got, want := w2.Bytes(), []byte{0xcd, 0x00, 0x01}; !bytes.Equal(got, want) {
		t.Errorf("Exact uint16(1) = % x, want % x", got, want)
	}
}

// S4 AggressiveMinimize float: encoding 1.0 under AggressiveMinimize
// yields `01`; decoding `01` under AggressiveLenient into a float
// target yields 1.0.
func TestS4AggressiveMinimizeFloat(t *testing.T) {
	buf := make([]byte, 8)
	w := wire.NewWriter(buf)
	if err := AggressiveMinimize.EncodeFloat64(w, 1.0); err != nil {
		t.Fatalf("EncodeFloat64: %v", err)
	}
	if got, want := w.Bytes(), []byte{0x01}; !bytes.Equal(got, want) {
		t.Errorf("AggressiveMinimize float64(1.0) = % x, want % x", got, want)
	}

	r := wire.NewReader([]byte{0x01})
	v, err := DeserializeAggressiveLenient.DecodeFloat64(r)
	if err != nil {
		t.Fatalf("DecodeFloat64: %v", err)
	}
	if v != 1.0 {
		t.Errorf("AggressiveLenient decode of 01 = %v, want 1.0", v)
	}
}

// S5 timestamp: timestamp (seconds=1, nanos=0) under Exact yields
// `d6 ff 00 00 00 01` (fixext 4, type -1, 4-byte seconds).
func TestS5Timestamp(t *testing.T) {
	buf := make([]byte, 16)
	w := wire.NewWriter(buf)
	ts := Timestamp{Seconds: 1, Nanoseconds: 0}
	if err := EncodeTimestamp(w, ts); err != nil {
		t.Fatalf("EncodeTimestamp: %v", err)
	}
	want := []byte{0xd6, 0xff, 0x00, 0x00, 0x00, 0x01}
	if got := w.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("EncodeTimestamp = % x, want % x", got, want)
	}

	r := wire.NewReader(w.Bytes())
	got, err := DecodeTimestamp(r)
	if err != nil {
		t.Fatalf("DecodeTimestamp: %v", err)
	}
	if got != ts {
		t.Errorf("DecodeTimestamp = %+v, want %+v", got, ts)
	}
}

func TestTimestampRoundTripViaTime(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 123000000, time.UTC)
	ts := FromTime(now)
	buf := make([]byte, 32)
	w := wire.NewWriter(buf)
	if err := EncodeTimestamp(w, ts); err != nil {
		t.Fatalf("EncodeTimestamp: %v", err)
	}
	r := wire.NewReader(w.Bytes())
	got, err := DecodeTimestamp(r)
	if err != nil {
		t.Fatalf("DecodeTimestamp: %v", err)
	}
	if !got.ToTime().Equal(now) {
		t.Errorf("ToTime() = %v, want %v", got.ToTime(), now)
	}
}

// S6 short buffer: attempting to encode into a too-small writer fails
// with NoCapacity and leaves the writer's position unchanged.
func TestS6ShortBuffer(t *testing.T) {
	w := wire.NewWriter(make([]byte, 2))
	err := EncodeStr(w, "too long for two bytes")
	if err == nil {
		t.Fatal("expected NoCapacity, got nil")
	}
	e, ok := err.(*wire.Error)
	if !ok || e.Kind != wire.KindNoCapacity {
		t.Errorf("err = %v, want KindNoCapacity", err)
	}
	if w.Written() != 0 {
		t.Errorf("Written() = %d, want 0", w.Written())
	}
}

// TestDecodeStrTruncatedPayloadRewinds checks that a str16 header whose
// declared length overruns the buffer leaves the reader at the position
// it started from, not advanced past the tag and length prefix.
func TestDecodeStrTruncatedPayloadRewinds(t *testing.T) {
	r := wire.NewReader([]byte{0xDA, 0x00, 0x05, 'h', 'i'}) // str16, len=5, only 2 bytes follow
	start := r.Pos()
	if _, err := DecodeStr(r); err == nil {
		t.Fatal("expected NeedMore, got nil")
	}
	if r.Pos() != start {
		t.Errorf("Pos() after failed DecodeStr = %d, want %d", r.Pos(), start)
	}
}

// S8 depth limit: a sequence of 2000 nested fixarray(1) bytes fed to
// Skip fails with DepthExceeded without unbounded recursion.
func TestS8DepthLimit(t *testing.T) {
	data := bytes.Repeat([]byte{0x91}, 2000)
	r := wire.NewReader(data)
	err := Skip(r)
	if err == nil {
		t.Fatal("expected DepthExceeded, got nil")
	}
	e, ok := err.(*wire.Error)
	if !ok || e.Kind != wire.KindDepthExceeded {
		t.Errorf("err = %v, want KindDepthExceeded", err)
	}
}

func TestSkipMatchesDecodeSpan(t *testing.T) {
	buf := make([]byte, 64)
	w := wire.NewWriter(buf)
	if err := EncodeArrayHeader(w, 2); err != nil {
		t.Fatalf("EncodeArrayHeader: %v", err)
	}
	if err := EncodeStr(w, "x"); err != nil {
		t.Fatalf("EncodeStr: %v", err)
	}
	if err := EncodeUint8(w, 9); err != nil {
		t.Fatalf("EncodeUint8: %v", err)
	}
	if err := EncodeBool(w, true); err != nil { // trailing value, untouched by Skip
		t.Fatalf("EncodeBool: %v", err)
	}

	r1 := wire.NewReader(w.Bytes())
	if err := Skip(r1); err != nil {
		t.Fatalf("Skip: %v", err)
	}

	r2 := wire.NewReader(w.Bytes())
	if _, err := decodeAny(r2, 0); err != nil {
		t.Fatalf("decodeAny: %v", err)
	}

	if r1.Pos() != r2.Pos() {
		t.Errorf("Skip consumed %d bytes, decodeAny consumed %d", r1.Pos(), r2.Pos())
	}
}

func TestDumpRendersAndReturnsRemaining(t *testing.T) {
	buf := make([]byte, 32)
	w := wire.NewWriter(buf)
	if err := EncodeUint8(w, 7); err != nil {
		t.Fatalf("EncodeUint8: %v", err)
	}
	if err := EncodeBool(w, false); err != nil {
		t.Fatalf("EncodeBool: %v", err)
	}

	rendered, remaining, err := Dump(w.Bytes())
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if rendered == "" {
		t.Error("Dump returned empty rendering")
	}
	r := wire.NewReader(remaining)
	b, err := DecodeBool(r)
	if err != nil || b != false {
		t.Errorf("remaining bytes did not decode to the second value: %v, %v", b, err)
	}
}

func TestExtensionCodecRegistration(t *testing.T) {
	const customType int8 = 5
	RegisterExtensionCodec(ExtensionCodec{
		Type: customType,
		Name: "test-custom",
		Decode: func(data []byte) (any, error) {
			return string(data), nil
		},
	})
	c, ok := LookupExtensionCodec(customType)
	if !ok {
		t.Fatal("expected registered codec to be found")
	}
	v, err := c.Decode([]byte("payload"))
	if err != nil || v != "payload" {
		t.Errorf("Decode = %v, %v, want payload, nil", v, err)
	}
}

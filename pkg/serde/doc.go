// Package serde is the data-model adapter that drives pkg/msgpack from
// a reflect.Value tree: it plays the "generic structured-data traversal
// framework" role a format-agnostic serde-style library would normally
// supply, and the codec itself is oblivious to it.
//
// The mapping onto that framework's visit_*/expect_*/got_* vocabulary:
// encodeValue's switch over reflect.Kind is the visitor a serializer
// would drive (visit_bool, visit_seq, visit_record, visit_variant, ...);
// decodeValue's switch over the destination reflect.Value is the
// "expect" side (expect_record, expect_seq, expect_enum, ...), and it
// calls back into the destination via reflect.Value.Set the way a
// deserializer calls back into a framework-supplied visitor's got_*
// methods. There is no separate framework type; the walk functions in
// encode.go and decode.go are both halves at once.
package serde

package serde

import (
	"reflect"
	"strings"
	"sync"
)

// fieldInfo describes one struct field's wire representation, derived
// once per type and cached — the same shape encoding/json's cachedTypeFields
// uses to avoid re-parsing struct tags on every Marshal/Unmarshal call.
type fieldInfo struct {
	name      string
	index     []int
	omitempty bool
	required  bool
}

var fieldCache sync.Map // reflect.Type -> []fieldInfo

// structFields returns t's encodable fields, exported and not tagged
// msgpack:"-", in declaration order.
func structFields(t reflect.Type) []fieldInfo {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]fieldInfo)
	}
	fields := collectFields(t, nil)
	fieldCache.Store(t, fields)
	return fields
}

func collectFields(t reflect.Type, prefix []int) []fieldInfo {
	var fields []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("msgpack") == "" {
			fields = append(fields, collectFields(sf.Type, append(prefix, i))...)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name, omitempty, required, skip := parseTag(sf)
		if skip {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		index := make([]int, len(prefix)+1)
		copy(index, prefix)
		index[len(prefix)] = i
		fields = append(fields, fieldInfo{name: name, index: index, omitempty: omitempty, required: required})
	}
	return fields
}

// parseTag reads the msgpack struct tag: "-" skips the field entirely;
// otherwise it is "name,opt,opt" where opt is "omitempty" or "required".
func parseTag(sf reflect.StructField) (name string, omitempty, required, skip bool) {
	tag, ok := sf.Tag.Lookup("msgpack")
	if !ok {
		return "", false, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", false, false, true
	}
	name = parts[0]
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			omitempty = true
		case "required":
			required = true
		}
	}
	return name, omitempty, required, false
}

package serde

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagKey is the struct tag key read by the default registry.
const TagKey = "bson"

// ParseStructTag parses a struct tag string and returns a map of key-value pairs.
// Handles comma or space separated values: `bson:"field=name,omitempty"`
// Supports quoted values with spaces: `bson:"field='full name'"`
func ParseStructTag(tag string) (map[string]string, error) {
	result := make(map[string]string)
	if tag == "" {
		return result, nil
	}

	var parts []string
	var current strings.Builder
	inSingleQuote := false
	inDoubleQuote := false

	for i := 0; i < len(tag); i++ {
		char := tag[i]
		switch {
		case char == '\'' && !inDoubleQuote:
			inSingleQuote = !inSingleQuote
			current.WriteByte(char)
		case char == '"' && !inSingleQuote:
			inDoubleQuote = !inDoubleQuote
			current.WriteByte(char)
		case (char == ',' || char == ' ') && !inSingleQuote && !inDoubleQuote:
			if part := strings.TrimSpace(current.String()); part != "" {
				parts = append(parts, part)
			}
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}
	if inSingleQuote || inDoubleQuote {
		return nil, fmt.Errorf("invalid tag: unterminated quote in %q", tag)
	}
	if part := strings.TrimSpace(current.String()); part != "" {
		parts = append(parts, part)
	}

	for _, part := range parts {
		if idx := strings.Index(part, "="); idx >= 0 {
			key := strings.TrimSpace(part[:idx])
			if key == "" {
				return nil, fmt.Errorf("invalid tag: empty key in %q", part)
			}
			result[key] = unquoteValue(strings.TrimSpace(part[idx+1:]))
			continue
		}
		result[part] = ""
	}
	return result, nil
}

// unquoteValue removes surrounding single or double quotes from a value.
func unquoteValue(value string) string {
	if len(value) >= 2 {
		if (value[0] == '\'' && value[len(value)-1] == '\'') ||
			(value[0] == '"' && value[len(value)-1] == '"') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// FieldInfo holds field metadata extracted from struct tags
type FieldInfo struct {
	// Name is the struct field name
	Name string
	// Key is the object key the field maps to
	Key string
	// Index is the reflect index path, through flattened embedded structs
	Index []int
	Type  reflect.Type

	OmitEmpty bool
	Required  bool
	Views     []string
}

// StructFields returns the mapped fields of struct type t in declaration
// order, embedded structs flattened in place. Results are cached.
func StructFields(t reflect.Type) ([]FieldInfo, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct", t)
	}
	if fs, ok := structFieldCache.Load(t); ok {
		return fs.([]FieldInfo), nil
	}
	fs, err := structFields(t, nil, map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}
	fs = dedupFields(fs)
	actual, _ := structFieldCache.LoadOrStore(t, fs)
	return actual.([]FieldInfo), nil
}

var structFieldCache sync.Map

func structFields(t reflect.Type, index []int, seen map[reflect.Type]bool) ([]FieldInfo, error) {
	if seen[t] {
		return nil, nil
	}
	seen[t] = true
	defer delete(seen, t)

	var res []FieldInfo
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup(TagKey)
		if tag == "-" {
			continue
		}
		parsed, err := ParseStructTag(tag)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", t, sf.Name, err)
		}
		idx := append(append([]int(nil), index...), i)
		_, renamed := parsed["field"]
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !renamed {
			sub, err := structFields(sf.Type, idx, seen)
			if err != nil {
				return nil, err
			}
			res = append(res, sub...)
			continue
		}
		if !sf.IsExported() {
			continue
		}
		fi := FieldInfo{
			Name:  sf.Name,
			Key:   strings.ToLower(sf.Name),
			Index: idx,
			Type:  sf.Type,
		}
		if hasTag {
			if key := parsed["field"]; key != "" {
				fi.Key = key
			}
			_, fi.OmitEmpty = parsed["omitempty"]
			_, fi.Required = parsed["required"]
			if views := parsed["views"]; views != "" {
				fi.Views = strings.Split(views, "|")
			}
		}
		res = append(res, fi)
	}
	return res, nil
}

// dedupFields drops fields shadowed by a shallower field with the same key.
func dedupFields(fs []FieldInfo) []FieldInfo {
	depth := make(map[string]int, len(fs))
	for _, f := range fs {
		if d, ok := depth[f.Key]; !ok || len(f.Index) < d {
			depth[f.Key] = len(f.Index)
		}
	}
	res := fs[:0:0]
	taken := make(map[string]bool, len(fs))
	for _, f := range fs {
		if len(f.Index) != depth[f.Key] || taken[f.Key] {
			continue
		}
		taken[f.Key] = true
		res = append(res, f)
	}
	return res
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	case reflect.Struct:
		return v.IsZero()
	}
	return false
}

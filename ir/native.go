package ir

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"time"
)

// ToAny converts a node to plain Go values: nil, bool, int64, float64,
// string, []any and map[string]any. Binary and datetime analogs become
// []byte and time.Time; other tagged values keep their tree analog.
func ToAny(node *Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case NullType:
		return nil
	case BoolType:
		return node.Bool
	case NumberType:
		switch {
		case node.Int64 != nil:
			if TagHead(node.Tag) == TagDateTime {
				return time.UnixMilli(*node.Int64).UTC()
			}
			return *node.Int64
		case node.Float64 != nil:
			return *node.Float64
		default:
			return node.Number
		}
	case StringType:
		if TagHead(node.Tag) == TagBinary {
			if d, err := base64.StdEncoding.DecodeString(node.String); err == nil {
				return d
			}
		}
		return node.String
	case ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = ToAny(v)
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i, f := range node.Fields {
			res[f.String] = ToAny(node.Values[i])
		}
		return res
	}
	return nil
}

// FromAny is the inverse of ToAny. Maps produce objects with sorted keys;
// use FromKeyVals directly when field order matters.
func FromAny(v any) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case *Node:
		if x == nil {
			return Null(), nil
		}
		return x, nil
	case Node:
		return &x, nil
	case bool:
		return FromBool(x), nil
	case string:
		return FromString(x), nil
	case []byte:
		return FromString(base64.StdEncoding.EncodeToString(x)).WithTag(TagBinary), nil
	case time.Time:
		return FromInt(x.UnixMilli()).WithTag(TagDateTime), nil
	case int:
		return FromInt(int64(x)), nil
	case int8:
		return FromInt(int64(x)), nil
	case int16:
		return FromInt(int64(x)), nil
	case int32:
		return FromInt(int64(x)), nil
	case int64:
		return FromInt(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return FromInt(int64(x)), nil
	case uint16:
		return FromInt(int64(x)), nil
	case uint32:
		return FromInt(int64(x)), nil
	case uint64:
		return fromUint(x)
	case float32:
		return FromFloat(float64(x)), nil
	case float64:
		return FromFloat(x), nil
	case []any:
		vals := make([]*Node, len(x))
		for i := range x {
			n, err := FromAny(x[i])
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			vals[i] = n
		}
		return FromSlice(vals), nil
	case map[string]any:
		m := make(map[string]*Node, len(x))
		for k, xv := range x {
			n, err := FromAny(xv)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m[k] = n
		}
		return FromMap(m), nil
	}
	return fromAnyReflect(reflect.ValueOf(v))
}

func fromUint(u uint64) (*Node, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, u)
	}
	return FromInt(int64(u)), nil
}

func fromAnyReflect(val reflect.Value) (*Node, error) {
	switch val.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return Null(), nil
		}
		return FromAny(val.Elem().Interface())
	case reflect.Slice, reflect.Array:
		vals := make([]*Node, val.Len())
		for i := range vals {
			n, err := FromAny(val.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			vals[i] = n
		}
		return FromSlice(vals), nil
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			break
		}
		m := make(map[string]*Node, val.Len())
		iter := val.MapRange()
		for iter.Next() {
			n, err := FromAny(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", iter.Key().String(), err)
			}
			m[iter.Key().String()] = n
		}
		return FromMap(m), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedValue, val.Type())
}

package serde

import (
	"cmp"
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"time"

	"github.com/signadot/go-bsonmap/ir"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildSerializer returns the serializer for a type that passed check.
func buildSerializer(rt reflect.Type) Serializer {
	switch rt {
	case typeTime:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			return enc.WriteTime(v.(time.Time))
		})
	case typeObjectID:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			return enc.WriteObjectID(v.(primitive.ObjectID))
		})
	case typeDecimal128:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			d := v.(primitive.Decimal128)
			return enc.WriteNode(ir.FromNumber(d.String()).WithTag(ir.TagDecimal128))
		})
	case typeNode:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			n := v.(ir.Node)
			return enc.WriteNode(&n)
		})
	case typeNodePtr:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			n := v.(*ir.Node)
			if n == nil {
				return enc.WriteNull()
			}
			return enc.WriteNode(n)
		})
	}
	if s := hookSerializer(rt); s != nil {
		return s
	}

	switch rt.Kind() {
	case reflect.Bool:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			return enc.WriteBool(reflect.ValueOf(v).Bool())
		})
	case reflect.String:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			return enc.WriteString(reflect.ValueOf(v).String())
		})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			return enc.WriteInt(reflect.ValueOf(v).Int())
		})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, t Type, v any) error {
			u := reflect.ValueOf(v).Uint()
			if u > math.MaxInt64 {
				return fmt.Errorf("%s value %d overflows int64", t, u)
			}
			return enc.WriteInt(int64(u))
		})
	case reflect.Float32, reflect.Float64:
		return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
			return enc.WriteFloat(reflect.ValueOf(v).Float())
		})
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return SerializerFunc(serializeBytes)
		}
		return SerializerFunc(serializeSlice)
	case reflect.Array:
		if rt.Elem().Kind() == reflect.Uint8 {
			return SerializerFunc(serializeBytes)
		}
		return SerializerFunc(serializeSlice)
	case reflect.Map:
		return SerializerFunc(serializeMap)
	case reflect.Struct:
		return SerializerFunc(serializeStruct)
	case reflect.Pointer:
		return SerializerFunc(serializePointer)
	case reflect.Interface:
		return SerializerFunc(func(enc Encoder, ctx *EncoderContext, _ Type, v any) error {
			return ctx.Serialize(enc, Type{}, v)
		})
	}
	// unreachable for checked types
	return SerializerFunc(func(_ Encoder, _ *EncoderContext, t Type, _ any) error {
		return &UnsupportedTypeError{Type: t}
	})
}

// hookSerializer returns a serializer calling MarshalTree or MarshalText,
// through a pointer copy when only *T implements them.
func hookSerializer(rt reflect.Type) Serializer {
	viaPtr := false
	switch {
	case rt.Implements(typeTreeMarshaler), rt.Implements(typeTextMarshaler):
	case rt.Kind() != reflect.Pointer &&
		(reflect.PointerTo(rt).Implements(typeTreeMarshaler) || reflect.PointerTo(rt).Implements(typeTextMarshaler)):
		viaPtr = true
	default:
		return nil
	}
	return SerializerFunc(func(enc Encoder, _ *EncoderContext, _ Type, v any) error {
		val := reflect.ValueOf(v)
		if val.Kind() == reflect.Pointer && val.IsNil() {
			return enc.WriteNull()
		}
		if viaPtr {
			p := reflect.New(rt)
			p.Elem().Set(val)
			v = p.Interface()
		}
		if tm, ok := v.(TreeMarshaler); ok {
			node, err := tm.MarshalTree()
			if err != nil {
				return err
			}
			if node == nil {
				return enc.WriteNull()
			}
			return enc.WriteNode(node)
		}
		text, err := v.(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return err
		}
		return enc.WriteString(string(text))
	})
}

func serializeBytes(enc Encoder, _ *EncoderContext, _ Type, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Slice {
		if val.IsNil() {
			return enc.WriteNull()
		}
		return enc.WriteBinary(val.Bytes())
	}
	b := make([]byte, val.Len())
	reflect.Copy(reflect.ValueOf(b), val)
	return enc.WriteBinary(b)
}

func serializeSlice(enc Encoder, ctx *EncoderContext, t Type, v any) error {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Slice && val.IsNil() {
		return enc.WriteNull()
	}
	if val.Kind() == reflect.Slice && val.Len() > 0 {
		ref, err := ctx.enter(val)
		if err != nil {
			return err
		}
		defer ctx.leave(ref)
	}
	et := Type{rt: t.rt.Elem()}
	if err := enc.BeginArray(); err != nil {
		return err
	}
	for i := 0; i < val.Len(); i++ {
		if err := ctx.SerializeIndex(enc, i, et, val.Index(i).Interface()); err != nil {
			return err
		}
	}
	return enc.EndArray()
}

// serializeMap writes map entries with keys in sorted order, integer keys
// sorted numerically.
func serializeMap(enc Encoder, ctx *EncoderContext, t Type, v any) error {
	val := reflect.ValueOf(v)
	if val.IsNil() {
		return enc.WriteNull()
	}
	ref, err := ctx.enter(val)
	if err != nil {
		return err
	}
	defer ctx.leave(ref)
	keys := val.MapKeys()
	switch t.rt.Key().Kind() {
	case reflect.String:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.String(), b.String()) })
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) })
	default:
		slices.SortFunc(keys, func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) })
	}
	et := Type{rt: t.rt.Elem()}
	if err := enc.BeginObject(); err != nil {
		return err
	}
	for _, k := range keys {
		key := mapKeyString(k)
		if err := enc.WriteKey(key); err != nil {
			return err
		}
		if err := ctx.SerializeField(enc, key, et, val.MapIndex(k).Interface()); err != nil {
			return err
		}
	}
	return enc.EndObject()
}

func mapKeyString(k reflect.Value) string {
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	}
	return strconv.FormatUint(k.Uint(), 10)
}

func serializeStruct(enc Encoder, ctx *EncoderContext, t Type, v any) error {
	fields, err := StructFields(t.rt)
	if err != nil {
		return err
	}
	val := reflect.ValueOf(v)
	if err := enc.BeginObject(); err != nil {
		return err
	}
	for i := range fields {
		fi := &fields[i]
		if !ctx.View.Includes(fi.Views) {
			continue
		}
		fv := val.FieldByIndex(fi.Index)
		if fi.OmitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := enc.WriteKey(fi.Key); err != nil {
			return err
		}
		if err := ctx.SerializeField(enc, fi.Key, Type{rt: fi.Type}, fv.Interface()); err != nil {
			return err
		}
	}
	return enc.EndObject()
}

func serializePointer(enc Encoder, ctx *EncoderContext, t Type, v any) error {
	val := reflect.ValueOf(v)
	if val.IsNil() {
		return enc.WriteNull()
	}
	ref, err := ctx.enter(val)
	if err != nil {
		return err
	}
	defer ctx.leave(ref)
	return ctx.Serialize(enc, Type{rt: t.rt.Elem()}, val.Elem().Interface())
}

package serde

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/go-bsonmap/ir"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildDeserializer returns the deserializer for a type that passed check.
func buildDeserializer(rt reflect.Type) Deserializer {
	switch rt {
	case typeTime:
		return nullable(func(dec Decoder, _ *DecoderContext, _ Type) (any, error) {
			return dec.DecodeTime()
		})
	case typeObjectID:
		return nullable(func(dec Decoder, _ *DecoderContext, _ Type) (any, error) {
			return dec.DecodeObjectID()
		})
	case typeDecimal128:
		return nullable(deserializeDecimal128)
	case typeNode:
		return DeserializerFunc(func(dec Decoder, _ *DecoderContext, _ Type) (any, error) {
			n, err := dec.DecodeNode()
			if err != nil {
				return nil, err
			}
			return *n, nil
		})
	case typeNodePtr:
		return nullable(func(dec Decoder, _ *DecoderContext, _ Type) (any, error) {
			return dec.DecodeNode()
		})
	}
	if d := hookDeserializer(rt); d != nil {
		return d
	}

	switch rt.Kind() {
	case reflect.Bool:
		return nullable(func(dec Decoder, _ *DecoderContext, t Type) (any, error) {
			b, err := dec.DecodeBool()
			if err != nil {
				return nil, err
			}
			v := reflect.New(t.rt).Elem()
			v.SetBool(b)
			return v.Interface(), nil
		})
	case reflect.String:
		return nullable(func(dec Decoder, _ *DecoderContext, t Type) (any, error) {
			s, err := dec.DecodeString()
			if err != nil {
				return nil, err
			}
			v := reflect.New(t.rt).Elem()
			v.SetString(s)
			return v.Interface(), nil
		})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return nullable(func(dec Decoder, _ *DecoderContext, t Type) (any, error) {
			n, err := dec.DecodeInt()
			if err != nil {
				return nil, err
			}
			v := reflect.New(t.rt).Elem()
			if v.OverflowInt(n) {
				return nil, &TypeError{Message: fmt.Sprintf("value %d overflows %s", n, t)}
			}
			v.SetInt(n)
			return v.Interface(), nil
		})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return nullable(func(dec Decoder, _ *DecoderContext, t Type) (any, error) {
			n, err := dec.DecodeInt()
			if err != nil {
				return nil, err
			}
			v := reflect.New(t.rt).Elem()
			if n < 0 || v.OverflowUint(uint64(n)) {
				return nil, &TypeError{Message: fmt.Sprintf("value %d overflows %s", n, t)}
			}
			v.SetUint(uint64(n))
			return v.Interface(), nil
		})
	case reflect.Float32, reflect.Float64:
		return nullable(func(dec Decoder, _ *DecoderContext, t Type) (any, error) {
			f, err := dec.DecodeFloat()
			if err != nil {
				return nil, err
			}
			v := reflect.New(t.rt).Elem()
			if v.OverflowFloat(f) {
				return nil, &TypeError{Message: fmt.Sprintf("value %g overflows %s", f, t)}
			}
			v.SetFloat(f)
			return v.Interface(), nil
		})
	case reflect.Slice:
		return nullable(deserializeSlice)
	case reflect.Array:
		return nullable(deserializeArray)
	case reflect.Map:
		return nullable(deserializeMap)
	case reflect.Struct:
		return nullable(deserializeStruct)
	case reflect.Pointer:
		return nullable(func(dec Decoder, ctx *DecoderContext, t Type) (any, error) {
			x, err := ctx.Deserialize(dec, Type{rt: t.rt.Elem()})
			if err != nil {
				return nil, err
			}
			p := reflect.New(t.rt.Elem())
			if err := setValue(p.Elem(), x); err != nil {
				return nil, err
			}
			return p.Interface(), nil
		})
	case reflect.Interface:
		return nullable(func(dec Decoder, _ *DecoderContext, _ Type) (any, error) {
			n, err := dec.DecodeNode()
			if err != nil {
				return nil, err
			}
			return ir.ToAny(n), nil
		})
	}
	return DeserializerFunc(func(_ Decoder, _ *DecoderContext, t Type) (any, error) {
		return nil, &UnsupportedTypeError{Type: t}
	})
}

// nullable makes null input yield nil, which DecoderContext turns into
// the zero value of the target type.
func nullable(f DeserializerFunc) DeserializerFunc {
	return func(dec Decoder, ctx *DecoderContext, t Type) (any, error) {
		if dec.Kind() == KindNull {
			return nil, dec.DecodeNull()
		}
		return f(dec, ctx, t)
	}
}

func hookDeserializer(rt reflect.Type) Deserializer {
	if rt.Kind() == reflect.Pointer {
		return nil
	}
	pt := reflect.PointerTo(rt)
	switch {
	case pt.Implements(typeTreeUnmarshaler):
		return DeserializerFunc(func(dec Decoder, _ *DecoderContext, _ Type) (any, error) {
			n, err := dec.DecodeNode()
			if err != nil {
				return nil, err
			}
			p := reflect.New(rt)
			if err := p.Interface().(TreeUnmarshaler).UnmarshalTree(n); err != nil {
				return nil, err
			}
			return p.Elem().Interface(), nil
		})
	case pt.Implements(typeTextUnmarshaler):
		return nullable(func(dec Decoder, _ *DecoderContext, _ Type) (any, error) {
			s, err := dec.DecodeString()
			if err != nil {
				return nil, err
			}
			p := reflect.New(rt)
			if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return nil, err
			}
			return p.Elem().Interface(), nil
		})
	}
	return nil
}

func deserializeDecimal128(dec Decoder, _ *DecoderContext, _ Type) (any, error) {
	n, err := dec.DecodeNode()
	if err != nil {
		return nil, err
	}
	var s string
	switch {
	case n.Type == ir.NumberType && n.Int64 != nil:
		s = strconv.FormatInt(*n.Int64, 10)
	case n.Type == ir.NumberType && n.Float64 != nil:
		s = strconv.FormatFloat(*n.Float64, 'g', -1, 64)
	case n.Type == ir.NumberType:
		s = n.Number
	case n.Type == ir.StringType:
		s = n.String
	default:
		return nil, &TypeError{Expected: "decimal128", Actual: n.Type.String()}
	}
	return primitive.ParseDecimal128(s)
}

func deserializeSlice(dec Decoder, ctx *DecoderContext, t Type) (any, error) {
	if t.rt.Elem().Kind() == reflect.Uint8 && dec.Kind() == KindBinary {
		b, err := dec.DecodeBinary()
		if err != nil {
			return nil, err
		}
		v := reflect.New(t.rt).Elem()
		v.SetBytes(b)
		return v.Interface(), nil
	}
	ad, err := dec.DecodeArray()
	if err != nil {
		return nil, err
	}
	et := Type{rt: t.rt.Elem()}
	res := reflect.MakeSlice(t.rt, 0, 0)
	for i := 0; ; i++ {
		ed, err := ad.NextElement()
		if errors.Is(err, ErrEndOfArray) {
			break
		}
		if err != nil {
			return nil, err
		}
		x, err := ctx.DeserializeIndex(ed, i, et)
		if err != nil {
			return nil, err
		}
		ev := reflect.New(et.rt).Elem()
		if err := setValue(ev, x); err != nil {
			return nil, err
		}
		res = reflect.Append(res, ev)
	}
	return res.Interface(), nil
}

func deserializeArray(dec Decoder, ctx *DecoderContext, t Type) (any, error) {
	res := reflect.New(t.rt).Elem()
	if t.rt.Elem().Kind() == reflect.Uint8 && dec.Kind() == KindBinary {
		b, err := dec.DecodeBinary()
		if err != nil {
			return nil, err
		}
		if len(b) != res.Len() {
			return nil, &TypeError{Message: fmt.Sprintf("binary of length %d does not fit %s", len(b), t)}
		}
		reflect.Copy(res, reflect.ValueOf(b))
		return res.Interface(), nil
	}
	ad, err := dec.DecodeArray()
	if err != nil {
		return nil, err
	}
	et := Type{rt: t.rt.Elem()}
	for i := 0; ; i++ {
		ed, err := ad.NextElement()
		if errors.Is(err, ErrEndOfArray) {
			if i != res.Len() {
				return nil, &TypeError{Message: fmt.Sprintf("array of length %d does not fit %s", i, t)}
			}
			break
		}
		if err != nil {
			return nil, err
		}
		if i >= res.Len() {
			return nil, &TypeError{Message: fmt.Sprintf("array longer than %s", t)}
		}
		x, err := ctx.DeserializeIndex(ed, i, et)
		if err != nil {
			return nil, err
		}
		if err := setValue(res.Index(i), x); err != nil {
			return nil, err
		}
	}
	return res.Interface(), nil
}

func deserializeMap(dec Decoder, ctx *DecoderContext, t Type) (any, error) {
	od, err := dec.DecodeObject()
	if err != nil {
		return nil, err
	}
	res := reflect.MakeMap(t.rt)
	kt := t.rt.Key()
	et := Type{rt: t.rt.Elem()}
	for {
		key, fd, err := od.NextField()
		if errors.Is(err, ErrEndOfObject) {
			break
		}
		if err != nil {
			return nil, err
		}
		kv, err := mapKey(kt, key)
		if err != nil {
			return nil, err
		}
		x, err := ctx.DeserializeField(fd, key, et)
		if err != nil {
			return nil, err
		}
		ev := reflect.New(et.rt).Elem()
		if err := setValue(ev, x); err != nil {
			return nil, err
		}
		res.SetMapIndex(kv, ev)
	}
	return res.Interface(), nil
}

func mapKey(kt reflect.Type, s string) (reflect.Value, error) {
	k := reflect.New(kt).Elem()
	switch kt.Kind() {
	case reflect.String:
		k.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, kt.Bits())
		if err != nil {
			return k, &TypeError{Message: fmt.Sprintf("invalid %s map key %q", kt, s)}
		}
		k.SetInt(n)
	default:
		n, err := strconv.ParseUint(s, 10, kt.Bits())
		if err != nil {
			return k, &TypeError{Message: fmt.Sprintf("invalid %s map key %q", kt, s)}
		}
		k.SetUint(n)
	}
	return k, nil
}

func deserializeStruct(dec Decoder, ctx *DecoderContext, t Type) (any, error) {
	fields, err := StructFields(t.rt)
	if err != nil {
		return nil, err
	}
	od, err := dec.DecodeObject()
	if err != nil {
		return nil, err
	}
	res := reflect.New(t.rt).Elem()
	seen := make([]bool, len(fields))
	for {
		key, fd, err := od.NextField()
		if errors.Is(err, ErrEndOfObject) {
			break
		}
		if err != nil {
			return nil, err
		}
		i := slices.IndexFunc(fields, func(fi FieldInfo) bool { return fi.Key == key })
		if i == -1 || !ctx.View.Includes(fields[i].Views) {
			if err := fd.Skip(); err != nil {
				return nil, err
			}
			continue
		}
		fi := &fields[i]
		x, err := ctx.DeserializeField(fd, key, Type{rt: fi.Type})
		if err != nil {
			return nil, err
		}
		if err := setValue(res.FieldByIndex(fi.Index), x); err != nil {
			return nil, err
		}
		seen[i] = true
	}
	for i := range fields {
		fi := &fields[i]
		if fi.Required && !seen[i] && ctx.View.Includes(fi.Views) {
			p := append(slices.Clone(ctx.path), pathSeg{field: fi.Key})
			return nil, &UnmarshalError{
				FieldPath: p.String(),
				Message:   "missing required field",
			}
		}
	}
	return res.Interface(), nil
}

// setValue stores a deserialized value into dst.
func setValue(dst reflect.Value, x any) error {
	if x == nil {
		dst.SetZero()
		return nil
	}
	xv := reflect.ValueOf(x)
	switch {
	case xv.Type().AssignableTo(dst.Type()):
		dst.Set(xv)
	case xv.Type().ConvertibleTo(dst.Type()) && xv.Kind() == dst.Kind():
		dst.Set(xv.Convert(dst.Type()))
	default:
		return &TypeError{Expected: dst.Type().String(), Actual: xv.Type().String()}
	}
	return nil
}

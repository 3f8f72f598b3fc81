package serde

import (
	"encoding"
	"reflect"
	"sync"
	"time"

	"github.com/signadot/go-bsonmap/ir"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	typeTime            = reflect.TypeFor[time.Time]()
	typeObjectID        = reflect.TypeFor[primitive.ObjectID]()
	typeDecimal128      = reflect.TypeFor[primitive.Decimal128]()
	typeNode            = reflect.TypeFor[ir.Node]()
	typeNodePtr         = reflect.TypeFor[*ir.Node]()
	typeTreeMarshaler   = reflect.TypeFor[TreeMarshaler]()
	typeTreeUnmarshaler = reflect.TypeFor[TreeUnmarshaler]()
	typeTextMarshaler   = reflect.TypeFor[encoding.TextMarshaler]()
	typeTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// TypeRegistry is the default Registry. Lookups are safe for concurrent
// use; registrations are expected to happen before the registry is
// shared.
type TypeRegistry struct {
	sers     sync.Map // reflect.Type -> Serializer, explicit
	desers   sync.Map // reflect.Type -> Deserializer, explicit
	serCache sync.Map
	desCache sync.Map
}

var (
	defaultRegistry     *TypeRegistry
	defaultRegistryOnce sync.Once
)

func NewRegistry() *TypeRegistry {
	return &TypeRegistry{}
}

// Default returns the process wide registry.
func Default() *TypeRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *TypeRegistry) RegisterSerializer(t Type, s Serializer) {
	r.sers.Store(t.rt, s)
	r.serCache.Clear()
}

func (r *TypeRegistry) RegisterDeserializer(t Type, d Deserializer) {
	r.desers.Store(t.rt, d)
	r.desCache.Clear()
}

func (r *TypeRegistry) Register(t Type, s Serializer, d Deserializer) {
	r.RegisterSerializer(t, s)
	r.RegisterDeserializer(t, d)
}

func (r *TypeRegistry) NewEncoderContext(v View) *EncoderContext {
	return NewEncoderContext(r, v)
}

func (r *TypeRegistry) NewDecoderContext(v View) *DecoderContext {
	return NewDecoderContext(r, v)
}

func (r *TypeRegistry) FindSerializer(t Type) (Serializer, error) {
	if t.IsZero() {
		return nil, &UnsupportedTypeError{Type: t, Reason: "no type given"}
	}
	if s, ok := r.sers.Load(t.rt); ok {
		return s.(Serializer), nil
	}
	if s, ok := r.serCache.Load(t.rt); ok {
		return s.(Serializer), nil
	}
	if err := r.check(t.rt, false, map[reflect.Type]bool{}); err != nil {
		return nil, err
	}
	s, _ := r.serCache.LoadOrStore(t.rt, buildSerializer(t.rt))
	return s.(Serializer), nil
}

func (r *TypeRegistry) FindDeserializer(t Type) (Deserializer, error) {
	if t.IsZero() {
		return nil, &UnsupportedTypeError{Type: t, Reason: "no type given"}
	}
	if d, ok := r.desers.Load(t.rt); ok {
		return d.(Deserializer), nil
	}
	if d, ok := r.desCache.Load(t.rt); ok {
		return d.(Deserializer), nil
	}
	if err := r.check(t.rt, true, map[reflect.Type]bool{}); err != nil {
		return nil, err
	}
	d, _ := r.desCache.LoadOrStore(t.rt, buildDeserializer(t.rt))
	return d.(Deserializer), nil
}

// check walks the structure of rt, reporting the first type nothing can
// map.
func (r *TypeRegistry) check(rt reflect.Type, decode bool, seen map[reflect.Type]bool) error {
	if seen[rt] {
		return nil
	}
	seen[rt] = true
	explicit := &r.sers
	if decode {
		explicit = &r.desers
	}
	if _, ok := explicit.Load(rt); ok {
		return nil
	}
	if isBuiltin(rt) || hasHook(rt, decode) {
		return nil
	}
	unsupported := func(reason string) error {
		return &UnsupportedTypeError{Type: ReflectType(rt), Reason: reason}
	}
	switch rt.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Interface:
		if decode && rt.NumMethod() != 0 {
			return unsupported("cannot decode into a non-empty interface")
		}
		return nil
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return r.check(rt.Elem(), decode, seen)
	case reflect.Map:
		if !isMapKeyKind(rt.Key().Kind()) {
			return unsupported("map keys must be strings or integers")
		}
		return r.check(rt.Elem(), decode, seen)
	case reflect.Struct:
		fs, err := StructFields(rt)
		if err != nil {
			return unsupported(err.Error())
		}
		for i := range fs {
			if err := r.check(fs[i].Type, decode, seen); err != nil {
				return err
			}
		}
		return nil
	}
	return unsupported(rt.Kind().String() + " values cannot be mapped")
}

func isBuiltin(rt reflect.Type) bool {
	switch rt {
	case typeTime, typeObjectID, typeDecimal128, typeNode, typeNodePtr:
		return true
	}
	return false
}

func hasHook(rt reflect.Type, decode bool) bool {
	if decode {
		if rt.Kind() == reflect.Pointer {
			return false
		}
		pt := reflect.PointerTo(rt)
		return pt.Implements(typeTreeUnmarshaler) || pt.Implements(typeTextUnmarshaler)
	}
	if rt.Implements(typeTreeMarshaler) || rt.Implements(typeTextMarshaler) {
		return true
	}
	if rt.Kind() == reflect.Pointer {
		return false
	}
	pt := reflect.PointerTo(rt)
	return pt.Implements(typeTreeMarshaler) || pt.Implements(typeTextMarshaler)
}

func isMapKeyKind(k reflect.Kind) bool {
	switch k {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

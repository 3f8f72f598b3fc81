package serde

import "reflect"

// Type describes a Go type, generic instantiations included. The zero
// Type means the type is to be inferred from a value.
type Type struct {
	rt reflect.Type
}

// TypeFor returns the Type of T.
func TypeFor[T any]() Type {
	return Type{rt: reflect.TypeFor[T]()}
}

// TypeOf returns the dynamic Type of v, or the zero Type if v is nil.
func TypeOf(v any) Type {
	return Type{rt: reflect.TypeOf(v)}
}

// ReflectType wraps rt.
func ReflectType(rt reflect.Type) Type {
	return Type{rt: rt}
}

func (t Type) Reflect() reflect.Type {
	return t.rt
}

func (t Type) IsZero() bool {
	return t.rt == nil
}

// Nullable reports whether values of t may be absent.
func (t Type) Nullable() bool {
	if t.rt == nil {
		return true
	}
	switch t.rt.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		return true
	}
	return false
}

func (t Type) String() string {
	if t.rt == nil {
		return "<inferred>"
	}
	return t.rt.String()
}

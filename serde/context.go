package serde

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
)

type pathSeg struct {
	field string
	index int
}

type fieldPath []pathSeg

func (p fieldPath) String() string {
	var b strings.Builder
	for _, seg := range p {
		if seg.field == "" {
			b.WriteString("[" + strconv.Itoa(seg.index) + "]")
			continue
		}
		if b.Len() != 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.field)
	}
	return b.String()
}

// EncoderContext carries the state of one serialization: the view, the
// registry used for nested values, the current field path and the
// references being visited.
type EncoderContext struct {
	View     View
	registry Registry
	path     fieldPath
	visited  map[visit]string
}

// visit identifies a reference on the current serialization path. Slices
// sharing a backing array with different lengths are distinct.
type visit struct {
	ptr uintptr
	len int
}

func NewEncoderContext(r Registry, v View) *EncoderContext {
	return &EncoderContext{
		View:     v,
		registry: r,
		visited:  make(map[visit]string),
	}
}

func (c *EncoderContext) Registry() Registry {
	return c.registry
}

// Path returns the field path of the value being serialized, e.g.
// "person.addresses[1].street".
func (c *EncoderContext) Path() string {
	return c.path.String()
}

// Serialize serializes a nested value. A zero or interface t is replaced
// by the dynamic type of v.
func (c *EncoderContext) Serialize(enc Encoder, t Type, v any) error {
	if v == nil {
		return enc.WriteNull()
	}
	if t.IsZero() || t.rt.Kind() == reflect.Interface {
		t = TypeOf(v)
	}
	s, err := c.registry.FindSerializer(t)
	if err != nil {
		return c.wrap(err)
	}
	if err := s.Serialize(enc, c, t, v); err != nil {
		return c.wrap(err)
	}
	return nil
}

// SerializeField serializes the value of an object field.
func (c *EncoderContext) SerializeField(enc Encoder, name string, t Type, v any) error {
	c.path = append(c.path, pathSeg{field: name})
	defer c.pop()
	return c.Serialize(enc, t, v)
}

// SerializeIndex serializes an array element.
func (c *EncoderContext) SerializeIndex(enc Encoder, i int, t Type, v any) error {
	c.path = append(c.path, pathSeg{index: i})
	defer c.pop()
	return c.Serialize(enc, t, v)
}

func (c *EncoderContext) pop() {
	c.path = c.path[:len(c.path)-1]
}

// enter marks a pointer, map or slice as visited, failing on a circular
// reference.
func (c *EncoderContext) enter(val reflect.Value) (visit, error) {
	key := visit{ptr: val.Pointer()}
	if val.Kind() == reflect.Slice {
		key.len = val.Len()
	}
	path := c.Path()
	if prev, seen := c.visited[key]; seen {
		return visit{}, &MarshalError{
			FieldPath: path,
			Message:   "circular reference detected: " + prev + " -> " + path + " (previously seen at " + prev + ")",
		}
	}
	c.visited[key] = path
	return key, nil
}

func (c *EncoderContext) leave(key visit) {
	delete(c.visited, key)
}

func (c *EncoderContext) wrap(err error) error {
	var me *MarshalError
	if errors.As(err, &me) {
		return err
	}
	return &MarshalError{FieldPath: c.Path(), Message: err.Error(), Err: err}
}

// DecoderContext carries the state of one deserialization.
type DecoderContext struct {
	View     View
	registry Registry
	path     fieldPath
}

func NewDecoderContext(r Registry, v View) *DecoderContext {
	return &DecoderContext{View: v, registry: r}
}

func (c *DecoderContext) Registry() Registry {
	return c.registry
}

func (c *DecoderContext) Path() string {
	return c.path.String()
}

// Deserialize deserializes a nested value of type t. Null input yields
// the zero value of t.
func (c *DecoderContext) Deserialize(dec Decoder, t Type) (any, error) {
	d, err := c.registry.FindDeserializer(t)
	if err != nil {
		return nil, c.wrap(err)
	}
	return c.DeserializeWith(d, dec, t)
}

// DeserializeWith runs a deserializer already resolved for t. A nil
// result becomes the zero value of t.
func (c *DecoderContext) DeserializeWith(d Deserializer, dec Decoder, t Type) (any, error) {
	x, err := d.Deserialize(dec, c, t)
	if err != nil {
		return nil, c.wrap(err)
	}
	if x == nil && t.rt.Kind() != reflect.Interface {
		return reflect.Zero(t.rt).Interface(), nil
	}
	return x, nil
}

func (c *DecoderContext) DeserializeField(dec Decoder, name string, t Type) (any, error) {
	c.path = append(c.path, pathSeg{field: name})
	defer c.pop()
	return c.Deserialize(dec, t)
}

func (c *DecoderContext) DeserializeIndex(dec Decoder, i int, t Type) (any, error) {
	c.path = append(c.path, pathSeg{index: i})
	defer c.pop()
	return c.Deserialize(dec, t)
}

func (c *DecoderContext) pop() {
	c.path = c.path[:len(c.path)-1]
}

func (c *DecoderContext) wrap(err error) error {
	var ue *UnmarshalError
	if errors.As(err, &ue) {
		return err
	}
	return &UnmarshalError{FieldPath: c.Path(), Message: err.Error(), Err: err}
}

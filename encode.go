package bsonmap

import (
	"bytes"
	"io"
	"reflect"

	"github.com/signadot/go-bsonmap/debug"
	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/serde"
	"github.com/signadot/go-bsonmap/treecodec"
)

// Encode encodes v, described by t, as one document. A zero t is
// inferred from v. An absent v (nil, or a nil pointer, map, slice or
// interface) is encoded as the null marker.
func (m *Mapper) Encode(v any, t Type) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := m.EncodeTo(buf, v, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeValue encodes v using its dynamic type.
func (m *Mapper) EncodeValue(v any) ([]byte, error) {
	return m.Encode(v, Type{})
}

// EncodeAs encodes v as a T.
func EncodeAs[T any](m *Mapper, v T) ([]byte, error) {
	return m.Encode(v, TypeFor[T]())
}

// EncodeTo writes the encoding of v to w. Nothing is written to w unless
// the whole document was produced.
func (m *Mapper) EncodeTo(w io.Writer, v any, t Type) error {
	absent := isAbsent(v)
	t, s, err := m.serializer(t, v, absent)
	if err != nil {
		return err
	}

	wr, err := m.factory.NewWriter(w)
	if err != nil {
		return &SerializationError{Type: t, Err: err}
	}
	defer wr.Close()
	enc, err := wr.Encoder()
	if err != nil {
		return &SerializationError{Type: t, Err: err}
	}
	if absent {
		err = enc.WriteNull()
	} else {
		err = s.Serialize(enc, m.registry.NewEncoderContext(m.view), t, v)
	}
	if err == nil {
		err = wr.Flush()
	}
	if err != nil {
		if debug.Encode() {
			m.logger.Debug("encode failed", "type", t, "factory", m.factory.Name(), "error", err)
		}
		return &SerializationError{Type: t, Err: err}
	}
	if debug.Encode() {
		m.logger.Debug("encoded", "type", t, "factory", m.factory.Name(), "absent", absent)
	}
	return nil
}

// EncodeTree maps v, described by t, to a tree. A zero t is inferred
// from v.
func (m *Mapper) EncodeTree(v any, t Type) (*ir.Node, error) {
	absent := isAbsent(v)
	t, s, err := m.serializer(t, v, absent)
	if err != nil {
		return nil, err
	}
	if absent {
		return ir.Null(), nil
	}
	enc := treecodec.NewEncoder()
	if err := s.Serialize(enc, m.registry.NewEncoderContext(m.view), t, v); err != nil {
		return nil, &SerializationError{Type: t, Err: err}
	}
	node, err := enc.Node()
	if err != nil {
		return nil, &SerializationError{Type: t, Err: err}
	}
	if debug.Encode() {
		m.logger.Debug("encoded tree", "type", t, "tree", debug.Node{Node: node})
	}
	return node, nil
}

// serializer resolves the serializer for v described by t. An absent v
// with a zero t needs none. A present v must have exactly type t.
func (m *Mapper) serializer(t Type, v any, absent bool) (Type, serde.Serializer, error) {
	t = resolveType(t, v)
	if absent && t.IsZero() {
		return t, nil, nil
	}
	s, err := m.registry.FindSerializer(t)
	if err != nil {
		return t, nil, err
	}
	if !absent {
		if vt := reflect.TypeOf(v); vt != t.Reflect() {
			return t, nil, &SerializationError{
				Type: t,
				Err:  &serde.TypeError{Expected: t.String(), Actual: vt.String()},
			}
		}
	}
	return t, s, nil
}

// resolveType replaces a zero or interface t by the dynamic type of v.
func resolveType(t Type, v any) Type {
	if v == nil {
		return t
	}
	if t.IsZero() || t.Reflect().Kind() == reflect.Interface {
		return serde.TypeOf(v)
	}
	return t
}

func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

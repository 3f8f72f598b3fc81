package serde

import (
	"time"

	"github.com/signadot/go-bsonmap/ir"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Encoder is the sink serializers write to. Within an object every value
// is preceded by WriteKey.
type Encoder interface {
	BeginObject() error
	WriteKey(key string) error
	EndObject() error
	BeginArray() error
	EndArray() error

	WriteNull() error
	WriteBool(b bool) error
	WriteInt(i int64) error
	WriteFloat(f float64) error
	WriteString(s string) error
	WriteBinary(b []byte) error
	WriteTime(t time.Time) error
	WriteObjectID(id primitive.ObjectID) error

	// WriteNode writes a whole tree, honouring the tags of package ir.
	WriteNode(node *ir.Node) error
}

// Decoder is the source deserializers read from. A Decoder is positioned
// on exactly one value; any of the Decode methods, or Skip, consumes it.
type Decoder interface {
	Kind() Kind

	DecodeNull() error
	DecodeBool() (bool, error)
	DecodeInt() (int64, error)
	DecodeFloat() (float64, error)
	DecodeString() (string, error)
	DecodeBinary() ([]byte, error)
	DecodeTime() (time.Time, error)
	DecodeObjectID() (primitive.ObjectID, error)
	DecodeObject() (ObjectDecoder, error)
	DecodeArray() (ArrayDecoder, error)

	// DecodeNode reads the value generically, whatever its kind.
	DecodeNode() (*ir.Node, error)
	Skip() error
}

// ObjectDecoder iterates the fields of an object. Values left unconsumed
// are skipped by the next call. NextField returns ErrEndOfObject after the
// last field.
type ObjectDecoder interface {
	NextField() (string, Decoder, error)
}

// ArrayDecoder iterates the elements of an array. NextElement returns
// ErrEndOfArray after the last element.
type ArrayDecoder interface {
	NextElement() (Decoder, error)
}

type Serializer interface {
	Serialize(enc Encoder, ctx *EncoderContext, t Type, v any) error
}

// Deserializer returns a value of type t, or nil when the input is null.
type Deserializer interface {
	Deserialize(dec Decoder, ctx *DecoderContext, t Type) (any, error)
}

type SerializerFunc func(enc Encoder, ctx *EncoderContext, t Type, v any) error

func (f SerializerFunc) Serialize(enc Encoder, ctx *EncoderContext, t Type, v any) error {
	return f(enc, ctx, t, v)
}

type DeserializerFunc func(dec Decoder, ctx *DecoderContext, t Type) (any, error)

func (f DeserializerFunc) Deserialize(dec Decoder, ctx *DecoderContext, t Type) (any, error) {
	return f(dec, ctx, t)
}

// Registry resolves serializers and deserializers and creates the
// per-call contexts they run in.
type Registry interface {
	FindSerializer(t Type) (Serializer, error)
	FindDeserializer(t Type) (Deserializer, error)
	NewEncoderContext(v View) *EncoderContext
	NewDecoderContext(v View) *DecoderContext
}

// TreeMarshaler is implemented by types that map themselves to a tree.
type TreeMarshaler interface {
	MarshalTree() (*ir.Node, error)
}

// TreeUnmarshaler is implemented by types that map themselves from a tree.
type TreeUnmarshaler interface {
	UnmarshalTree(node *ir.Node) error
}

// Package serde defines the contracts between bsonmap and the serializers
// and deserializers that map Go values, and a default reflection based
// registry implementing them.
//
// # Contracts
//
// A Registry resolves a Serializer or Deserializer for a Type. Serializers
// drive an Encoder, deserializers pull from a Decoder. Encoders and
// decoders exist for BSON (package wire) and for trees (package
// treecodec); serializers do not know which one they are talking to.
//
// # Default Registry
//
// The default registry handles, in order of precedence:
//
//   - explicit registrations (Register, RegisterSerializer, RegisterDeserializer)
//   - time.Time, primitive.ObjectID, primitive.Decimal128 and ir.Node
//   - types implementing TreeMarshaler / TreeUnmarshaler
//   - types implementing encoding.TextMarshaler / encoding.TextUnmarshaler
//   - reflection over bool, integer, float, string, slice, array, map,
//     struct, pointer and interface kinds
//
// Channels, functions, complex numbers, unsafe pointers and maps whose key
// is not a string or integer are unsupported and yield an
// *UnsupportedTypeError.
//
// # Struct Tags
//
// Struct fields are mapped under their lowercased Go name unless the bson
// struct tag says otherwise:
//
//	type Person struct {
//	    Name   string `bson:"field=full_name required"`
//	    Email  string `bson:"omitempty views=admin|self"`
//	    Secret string `bson:"-"`
//	}
//
// Fields listing views are only mapped when the encoder or decoder context
// carries one of those views, or carries NoView. Embedded structs are
// flattened.
package serde

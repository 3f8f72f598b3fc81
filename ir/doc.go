// Package ir provides the tree representation of documents.
//
// # Overview
//
// Every document handled by bsonmap, whether decoded from BSON, parsed from
// JSON or YAML text, or produced by a serializer, can be represented as an
// ir.Node tree. The tree is format agnostic: it knows nothing of byte
// layouts and carries no position information.
//
// # Node Structure
//
// The IR works as a recursive tagged union, where values are placed in
// fields depending on the node type:
//
//   - NullType: null value
//   - BoolType: boolean, under Bool
//   - NumberType: under Int64, Float64, or Number as a textual fallback
//   - StringType: under String
//   - ArrayType: ordered list of nodes under Values
//   - ObjectType: key/value pairs, keys under Fields, values under Values
//
// For ObjectType nodes, Fields[i] is the key for the value at Values[i].
// Field order is significant and is the order in which fields were
// encoded or decoded.
//
// # Tags
//
// BSON has value types with no direct tree analog (binary data, object
// ids, datetimes, regular expressions, ...). Such values are represented
// by their closest tree analog annotated with a tag:
//
//	ir.FromString("5f1a...").WithTag(ir.TagOID)
//	ir.FromInt(1700000000000).WithTag(ir.TagDateTime)
//
// A tree without tags is always valid; tags only make round trips exact.
//
// # Creating Nodes
//
//	obj := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: ir.FromString("name"), Val: ir.FromString("Ada")},
//	    {Key: ir.FromString("age"), Val: ir.FromInt(42)},
//	})
//
// # Thread Safety
//
// Nodes are not synchronized. Nodes returned by bsonmap are never mutated
// afterwards by bsonmap; use Clone to obtain a private copy before
// modifying a shared tree.
package ir

// Package encode renders trees as text or CBOR.
//
// # Usage
//
//	node := ir.FromKeyVals([]ir.KeyVal{
//	    {Key: ir.FromString("name"), Val: ir.FromString("Ada")},
//	    {Key: ir.FromString("age"), Val: ir.FromInt(42)},
//	})
//	err := encode.Encode(node, os.Stdout)
//
//	// compact JSON
//	err = encode.Encode(node, w, encode.EncodeIndent(0))
//
//	// YAML, or CBOR under core deterministic encoding
//	err = encode.Encode(node, w, encode.EncodeFormat(encode.YAMLFormat))
//	err = encode.Encode(node, w, encode.EncodeFormat(encode.CBORFormat))
//
// JSON output keeps the field order of the tree. Tags are dropped unless
// EncodeTags is given, in which case they precede their value as in
// "!oid "5f1b...", which is no longer JSON.
//
// # Related Packages
//
//   - github.com/signadot/go-bsonmap/ir - tree representation
//   - github.com/signadot/go-bsonmap/parse - text to tree
package encode

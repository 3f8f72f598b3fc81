// Package parse reads JSON or YAML text into trees, keeping the order of
// object keys as written.
//
// YAML tags other than the core schema ones are kept as node tags, so
// the tagged output of package encode with EncodeTags, e.g.
//
//	id: !oid "5f1b2c3d4e5f6a7b8c9d0e1f"
//
// reads back into the tagged tree it came from. Anchors are expanded;
// merge keys are not supported.
package parse

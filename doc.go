// Package bsonmap maps typed Go values to and from BSON documents, going
// through a format neutral tree (package ir) when asked to.
//
// A Mapper ties together a type registry (package serde), which knows how
// to walk Go values, and a document factory (package wire), which knows
// how to read and write one document representation:
//
//	m := bsonmap.New()
//	data, err := m.Encode(Person{Name: "Ada", Age: 42}, bsonmap.TypeFor[Person]())
//	...
//	p, err := bsonmap.DecodeAs[Person](m, data)
//
// Documents of unknown shape are decoded with DecodeArbitrary into an
// *ir.Node, which DecodeTree can later turn into a typed value. Streams of
// concatenated documents are handled by Documents, built on package
// stream.
//
// Every call opens its own reader or writer and releases it before
// returning, so a Mapper may be shared between goroutines. A call either
// returns a complete result or exactly one error: nothing is written to
// the destination of a failed encode.
package bsonmap

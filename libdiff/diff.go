package libdiff

import "github.com/signadot/go-bsonmap/ir"

// DiffFunc diffs two nodes, returning nil when they are equal.
type DiffFunc func(from, to *ir.Node) *ir.Node

// Diff returns the difference between from and to, or nil if they are
// equal, tags included.
func Diff(from, to *ir.Node) *ir.Node {
	if from == nil {
		from = ir.Null()
	}
	if to == nil {
		to = ir.Null()
	}
	if from.Type != to.Type {
		return MakeDiff(from, to)
	}
	switch from.Type {
	case ir.ObjectType:
		return DiffObject(from, to, Diff)
	case ir.ArrayType:
		return DiffArrayByIndex(from, to, Diff)
	case ir.NumberType:
		return DiffNumber(from, to)
	case ir.StringType:
		if from.String != to.String {
			return MakeDiff(from, to)
		}
	case ir.BoolType:
		if from.Bool != to.Bool {
			return MakeDiff(from, to)
		}
	}
	return tagOnly(from, to)
}

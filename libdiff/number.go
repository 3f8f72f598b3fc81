package libdiff

import "github.com/signadot/go-bsonmap/ir"

func DiffNumber(from *ir.Node, to *ir.Node) *ir.Node {
	if (from.Int64 == nil) != (to.Int64 == nil) ||
		(from.Float64 == nil) != (to.Float64 == nil) {
		return MakeDiff(from, to)
	}
	switch {
	case from.Int64 != nil:
		if *from.Int64 != *to.Int64 {
			return MakeDiff(from, to)
		}
	case from.Float64 != nil:
		if *from.Float64 != *to.Float64 {
			return MakeDiff(from, to)
		}
	default:
		if from.Number != to.Number {
			return MakeDiff(from, to)
		}
	}
	return tagOnly(from, to)
}

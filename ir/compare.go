package ir

import (
	"cmp"
	"slices"
	"strings"
)

// typeOrder is the sort position of each Type.
var typeOrder = [...]int{
	NullType:   0,
	BoolType:   1,
	NumberType: 2,
	StringType: 3,
	ArrayType:  4,
	ObjectType: 5,
}

func order(t Type) int {
	if t < 0 || int(t) >= len(typeOrder) {
		return len(typeOrder)
	}
	return typeOrder[t]
}

// Compare orders nodes by type (null, bool, number, string, array,
// object), then by value; nil sorts first. Objects compare field by
// field in order. Tags are ignored.
func Compare(a, b *Node) int {
	switch {
	case a == b:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(order(a.Type), order(b.Type)); c != 0 {
		return c
	}
	switch a.Type {
	case BoolType:
		return cmp.Compare(b2i(a.Bool), b2i(b.Bool))
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case ArrayType:
		return slices.CompareFunc(a.Values, b.Values, Compare)
	case ObjectType:
		return slices.CompareFunc(entries(a), entries(b), Compare)
	}
	return 0
}

// Equal reports whether a and b have the same structure, values and tags.
// Object field order is significant.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || Compare(a, b) != 0 {
		return false
	}
	return slices.EqualFunc(a.Values, b.Values, Equal)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compareNumbers puts integers before floats before numbers kept as
// literals, such as decimal128 values.
func compareNumbers(a, b *Node) int {
	switch {
	case a.Int64 != nil && b.Int64 != nil:
		return cmp.Compare(*a.Int64, *b.Int64)
	case a.Int64 != nil:
		return -1
	case b.Int64 != nil:
		return 1
	case a.Float64 != nil && b.Float64 != nil:
		return cmp.Compare(*a.Float64, *b.Float64)
	case a.Float64 != nil:
		return -1
	case b.Float64 != nil:
		return 1
	}
	return strings.Compare(a.Number, b.Number)
}

// entries interleaves the keys and values of an object.
func entries(n *Node) []*Node {
	res := make([]*Node, 0, 2*len(n.Fields))
	for i, f := range n.Fields {
		res = append(res, f, n.Values[i])
	}
	return res
}

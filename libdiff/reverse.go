package libdiff

import (
	"fmt"
	"slices"

	"github.com/signadot/go-bsonmap/ir"
)

// Reverse turns a diff from a to b into the diff from b to a.
func Reverse(diff *ir.Node) (*ir.Node, error) {
	res := diff.Clone()
	err := res.Visit(func(node *ir.Node, isPost bool) (bool, error) {
		if !isPost {
			return true, nil
		}
		head, args := ir.TagArgs(node.Tag)
		if inv, ok := inverse[head]; ok {
			node.Tag = ir.TagCompose(inv, args)
			return true, nil
		}
		switch head {
		case ReplaceTag:
			return true, swapFromTo(node)
		case TypeReplaceTag:
			if len(args) != 2 {
				return false, fmt.Errorf("%s at %s: want 2 arguments, got %d", TypeReplaceTag, node.Path(), len(args))
			}
			slices.Reverse(args)
			node.Tag = ir.TagCompose(TypeReplaceTag, args)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func swapFromTo(node *ir.Node) error {
	if node.Type != ir.ObjectType {
		return fmt.Errorf("%s at %s: want object, got %s", ReplaceTag, node.Path(), node.Type)
	}
	fi := slices.IndexFunc(node.Fields, func(f *ir.Node) bool { return f.String == "from" })
	ti := slices.IndexFunc(node.Fields, func(f *ir.Node) bool { return f.String == "to" })
	if fi == -1 || ti == -1 {
		return fmt.Errorf("%s at %s: missing from or to", ReplaceTag, node.Path())
	}
	node.Values[fi], node.Values[ti] = node.Values[ti], node.Values[fi]
	node.Values[fi].ParentIndex = fi
	node.Values[ti].ParentIndex = ti
	return nil
}

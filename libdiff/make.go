package libdiff

import "github.com/signadot/go-bsonmap/ir"

// MakeDiff records the change from from to to. A nil from is an
// insertion, a nil to a deletion. The tag of an inserted or deleted
// value moves into the argument of the diff tag.
func MakeDiff(from, to *ir.Node) *ir.Node {
	switch {
	case from == nil:
		if to.Tag == "" {
			return to.Clone().WithTag(InsertTag)
		}
		return to.Clone().WithTag(ir.TagCompose(InsertTag, []string{to.Tag[1:]}))
	case to == nil:
		if from.Tag == "" {
			return from.Clone().WithTag(DeleteTag)
		}
		return from.Clone().WithTag(ir.TagCompose(DeleteTag, []string{from.Tag[1:]}))
	default:
		return ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString("from"), Val: from.Clone()},
			{Key: ir.FromString("to"), Val: to.Clone()},
		}).WithTag(ReplaceTag)
	}
}

// MakeTypeDiff records a change of tag, which for trees decoded from
// BSON is a change of BSON type. The result is a tag.
func MakeTypeDiff(from, to string) string {
	switch {
	case from == "":
		return ir.TagCompose(TypeInsertTag, []string{to[1:]})
	case to == "":
		return ir.TagCompose(TypeDeleteTag, []string{from[1:]})
	}
	return ir.TagCompose(TypeReplaceTag, []string{from[1:], to[1:]})
}

// tagOnly is the diff of two nodes equal but for their tags.
func tagOnly(from, to *ir.Node) *ir.Node {
	if from.Tag == to.Tag {
		return nil
	}
	return ir.Null().WithTag(MakeTypeDiff(from.Tag, to.Tag))
}

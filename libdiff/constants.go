package libdiff

// Diff node tags.
const (
	InsertTag  = "!insert"
	DeleteTag  = "!delete"
	ReplaceTag = "!replace"

	// A null node with one of these records a change of BSON type alone,
	// e.g. int32 5 becoming int64 5 is !addtype(int64).
	TypeInsertTag  = "!addtype"
	TypeDeleteTag  = "!rmtype"
	TypeReplaceTag = "!retype"

	ArrayDiffTag = "!arraydiff"
)

// inverse maps each diff tag to the tag of the reversed diff. Tags
// absent here reverse to themselves.
var inverse = map[string]string{
	InsertTag:     DeleteTag,
	DeleteTag:     InsertTag,
	TypeInsertTag: TypeDeleteTag,
	TypeDeleteTag: TypeInsertTag,
}

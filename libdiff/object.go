package libdiff

import (
	"github.com/signadot/go-bsonmap/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffObject aligns the field names of from and to, records inserted and
// deleted fields and recurses with df on fields present in both. The
// result lists fields deleted from from in their original place.
func DiffObject(from, to *ir.Node, df DiffFunc) *ir.Node {
	fieldMap := map[string]rune{}
	runeMap := map[rune]string{}
	fromRunes := mapFieldsTo(fieldMap, runeMap, from)
	toRunes := mapFieldsTo(fieldMap, runeMap, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	var res []ir.KeyVal
	add := func(r rune, d *ir.Node) {
		res = append(res, ir.KeyVal{Key: ir.FromString(runeMap[r]), Val: d})
	}
	fi, ti := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffDelete:
			for _, r := range diff.Text {
				add(r, MakeDiff(from.Values[fi], nil))
				fi++
			}
		case diffpatch.DiffEqual:
			for _, r := range diff.Text {
				if d := df(from.Values[fi], to.Values[ti]); d != nil {
					add(r, d)
				}
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for _, r := range diff.Text {
				add(r, MakeDiff(nil, to.Values[ti]))
				ti++
			}
		}
	}
	if len(res) == 0 {
		return tagOnly(from, to)
	}
	node := ir.FromKeyVals(res)
	if from.Tag != to.Tag {
		node = node.WithTag(MakeTypeDiff(from.Tag, to.Tag))
	}
	return node
}

// mapFieldsTo assigns each distinct field name a rune. Runes start past
// the surrogate range so every name maps to a valid code point.
func mapFieldsTo(m map[string]rune, im map[rune]string, node *ir.Node) []rune {
	rs := make([]rune, len(node.Fields))
	for i := range node.Fields {
		f := node.Fields[i].String
		r, ok := m[f]
		if !ok {
			r = runeBase + rune(len(m))
			m[f] = r
			im[r] = f
		}
		rs[i] = r
	}
	return rs
}

const runeBase = 0xE000

package libdiff

import (
	"strconv"
	"strings"

	"github.com/signadot/go-bsonmap/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// DiffArrayByIndex aligns array elements by a summary of each value
// (type, and the value itself for scalars), recursing with df on aligned
// containers. The result is tagged !arraydiff and keyed by position in
// the aligned sequence of both arrays. A deletion directly followed by
// an insertion becomes a replacement.
func DiffArrayByIndex(from, to *ir.Node, df DiffFunc) *ir.Node {
	m := map[string]rune{}
	fromRunes := mapValues(m, from)
	toRunes := mapValues(m, to)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(fromRunes, toRunes, false)
	var res []ir.KeyVal
	set := func(i int, d *ir.Node) {
		res = append(res, ir.KeyVal{Key: ir.FromString(strconv.Itoa(i)), Val: d})
	}

	fi, ti, ri := 0, 0, 0
	delIndex := -1
	for i := range diffs {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range diff.Text {
				set(ri, MakeDiff(from.Values[fi], nil))
				delIndex = ri
				ri++
				fi++
			}
		case diffpatch.DiffEqual:
			delIndex = -1
			for range diff.Text {
				if d := df(from.Values[fi], to.Values[ti]); d != nil {
					set(ri, d)
				}
				ri++
				fi++
				ti++
			}
		case diffpatch.DiffInsert:
			for range diff.Text {
				if delIndex != -1 && delIndex == ri-1 {
					last := &res[len(res)-1]
					last.Val = MakeDiff(from.Values[fi-1], to.Values[ti])
				} else {
					set(ri, MakeDiff(nil, to.Values[ti]))
				}
				ri++
				ti++
				delIndex = -1
			}
		}
	}
	if len(res) == 0 {
		return tagOnly(from, to)
	}
	node := ir.FromKeyVals(res).WithTag(ArrayDiffTag)
	if from.Tag != to.Tag {
		node = node.WithTag(ir.TagCompose(ArrayDiffTag, []string{MakeTypeDiff(from.Tag, to.Tag)[1:]}))
	}
	return node
}

func mapValues(m map[string]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Values))
	for i, v := range node.Values {
		sum := summaryStr(v)
		r, ok := m[sum]
		if !ok {
			r = runeBase + rune(len(m))
			m[sum] = r
		}
		rs[i] = r
	}
	return rs
}

func summaryStr(node *ir.Node) string {
	switch node.Type {
	case ir.ObjectType, ir.ArrayType, ir.NullType:
		return node.Type.String()
	case ir.BoolType:
		return node.Type.String() + "-" + strconv.FormatBool(node.Bool)
	case ir.StringType:
		if strings.Contains(node.String, "\n") {
			return node.Type.String() + "/m"
		}
		return node.Type.String() + "-" + node.Tag + "-" + node.String
	case ir.NumberType:
		if node.Int64 != nil {
			return node.Type.String() + "-i-" + strconv.FormatInt(*node.Int64, 10)
		}
		if node.Float64 != nil {
			return node.Type.String() + "-f-" + strconv.FormatFloat(*node.Float64, 'f', -1, 64)
		}
		return node.Type.String() + "-n-" + node.Number
	}
	return "?"
}

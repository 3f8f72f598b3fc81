package libdiff

import (
	"bytes"
	"strings"

	"github.com/signadot/go-bsonmap/encode"
	"github.com/signadot/go-bsonmap/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Text returns a line diff of the indented, tagged JSON renderings of
// from and to. Lines are prefixed with "-", "+" or " ". It returns the
// empty string when the renderings are identical.
func Text(from, to *ir.Node, opts ...encode.EncodeOption) (string, error) {
	opts = append([]encode.EncodeOption{encode.EncodeTags(true)}, opts...)
	a, err := render(from, opts)
	if err != nil {
		return "", err
	}
	b, err := render(to, opts)
	if err != nil {
		return "", err
	}
	if a == b {
		return "", nil
	}
	dmp := diffpatch.New()
	ac, bc, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ac, bc, false), lines)
	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+"
		case diffpatch.DiffDelete:
			prefix = "-"
		}
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			out.WriteString(prefix + ln)
		}
	}
	return out.String(), nil
}

func render(node *ir.Node, opts []encode.EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(node, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package encode

import (
	"bytes"
	"strings"

	"github.com/signadot/go-bsonmap/ir"
)

// MustString renders node as indented JSON, panicking on failure.
func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

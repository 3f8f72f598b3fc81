package debug

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"

	"github.com/signadot/go-bsonmap/encode"
	"github.com/signadot/go-bsonmap/ir"
)

// Node wraps a tree for logging; its log value is the compact JSON
// rendering of the tree, computed only when the record is emitted.
type Node struct{ *ir.Node }

func (y Node) String() string {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(y.Node, buf, encode.EncodeIndent(0)); err != nil {
		return fmt.Sprintf("[raw *ir.Node] %v", y.Node)
	}
	return buf.String()
}

func (y Node) LogValue() slog.Value {
	return slog.StringValue(y.String())
}

func Logf(msg string, args ...any) {
	for i := range args {
		if x, ok := args[i].(*ir.Node); ok {
			args[i] = Node{x}.String()
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

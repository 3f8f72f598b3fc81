package treecodec

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/serde"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type frame struct {
	node *ir.Node
	key  *string
}

// Encoder builds a single tree from serde writes.
type Encoder struct {
	stack []*frame
	root  *ir.Node
}

var _ serde.Encoder = (*Encoder)(nil)

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Node returns the tree written so far; it fails unless exactly one
// complete value has been written.
func (e *Encoder) Node() (*ir.Node, error) {
	if e.root == nil || len(e.stack) != 0 {
		return nil, ErrIncomplete
	}
	return e.root, nil
}

func (e *Encoder) put(n *ir.Node) error {
	if len(e.stack) == 0 {
		if e.root != nil {
			return fmt.Errorf("%w: second top-level value", ErrMisplaced)
		}
		n.Parent = nil
		e.root = n
		return nil
	}
	top := e.stack[len(e.stack)-1]
	switch top.node.Type {
	case ir.ObjectType:
		if top.key == nil {
			return fmt.Errorf("%w: object value without key", ErrMisplaced)
		}
		top.node.Append(top.key, n)
		top.key = nil
	default:
		top.node.Append(nil, n)
	}
	return nil
}

func (e *Encoder) begin(n *ir.Node) error {
	if err := e.put(n); err != nil {
		return err
	}
	e.stack = append(e.stack, &frame{node: n})
	return nil
}

func (e *Encoder) end(t ir.Type) error {
	if len(e.stack) == 0 {
		return fmt.Errorf("%w: end of %s outside any container", ErrMisplaced, t)
	}
	top := e.stack[len(e.stack)-1]
	if top.node.Type != t {
		return fmt.Errorf("%w: end of %s inside %s", ErrMisplaced, t, top.node.Type)
	}
	if top.key != nil {
		return fmt.Errorf("%w: key %q without value", ErrMisplaced, *top.key)
	}
	e.stack = e.stack[:len(e.stack)-1]
	return nil
}

func (e *Encoder) BeginObject() error {
	return e.begin(&ir.Node{Type: ir.ObjectType, Fields: []*ir.Node{}, Values: []*ir.Node{}})
}

func (e *Encoder) WriteKey(key string) error {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].node.Type != ir.ObjectType {
		return fmt.Errorf("%w: key %q outside object", ErrMisplaced, key)
	}
	top := e.stack[len(e.stack)-1]
	if top.key != nil {
		return fmt.Errorf("%w: key %q after key %q", ErrMisplaced, key, *top.key)
	}
	top.key = &key
	return nil
}

func (e *Encoder) EndObject() error {
	return e.end(ir.ObjectType)
}

func (e *Encoder) BeginArray() error {
	return e.begin(&ir.Node{Type: ir.ArrayType, Values: []*ir.Node{}})
}

func (e *Encoder) EndArray() error {
	return e.end(ir.ArrayType)
}

func (e *Encoder) WriteNull() error {
	return e.put(ir.Null())
}

func (e *Encoder) WriteBool(b bool) error {
	return e.put(ir.FromBool(b))
}

func (e *Encoder) WriteInt(i int64) error {
	return e.put(ir.FromInt(i))
}

func (e *Encoder) WriteFloat(f float64) error {
	return e.put(ir.FromFloat(f))
}

func (e *Encoder) WriteString(s string) error {
	return e.put(ir.FromString(s))
}

func (e *Encoder) WriteBinary(b []byte) error {
	return e.put(ir.FromString(base64.StdEncoding.EncodeToString(b)).WithTag(ir.TagBinary))
}

func (e *Encoder) WriteTime(t time.Time) error {
	return e.put(ir.FromInt(t.UnixMilli()).WithTag(ir.TagDateTime))
}

func (e *Encoder) WriteObjectID(id primitive.ObjectID) error {
	return e.put(ir.FromString(id.Hex()).WithTag(ir.TagOID))
}

func (e *Encoder) WriteNode(node *ir.Node) error {
	if node == nil {
		return e.WriteNull()
	}
	return e.put(node.Clone())
}

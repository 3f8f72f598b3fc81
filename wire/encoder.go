package wire

import (
	"fmt"
	"time"

	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/serde"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type encFrame struct {
	dw  bsonrw.DocumentWriter
	aw  bsonrw.ArrayWriter
	key *string
}

// Encoder writes one document through a bsonrw.ValueWriter. The top-level
// value must be an object, or null, which is written as the null marker.
type Encoder struct {
	top      bsonrw.ValueWriter
	writeNil func() error
	stack    []*encFrame
	used     bool
}

var _ serde.Encoder = (*Encoder)(nil)

// Complete reports whether a whole top-level value has been written.
func (e *Encoder) Complete() bool {
	return e.used && len(e.stack) == 0
}

// next returns the writer for the next value; doc tells whether that
// value is a plain document, the only kind allowed at the top level.
func (e *Encoder) next(doc bool) (bsonrw.ValueWriter, error) {
	if len(e.stack) == 0 {
		if e.used {
			return nil, fmt.Errorf("%w: second top-level value", ErrMisplaced)
		}
		if !doc {
			return nil, fmt.Errorf("%w: top-level value must be a document", ErrMisplaced)
		}
		e.used = true
		return e.top, nil
	}
	f := e.stack[len(e.stack)-1]
	if f.dw != nil {
		if f.key == nil {
			return nil, fmt.Errorf("%w: object value without key", ErrMisplaced)
		}
		key := *f.key
		f.key = nil
		return f.dw.WriteDocumentElement(key)
	}
	return f.aw.WriteArrayElement()
}

func (e *Encoder) BeginObject() error {
	vw, err := e.next(true)
	if err != nil {
		return err
	}
	dw, err := vw.WriteDocument()
	if err != nil {
		return err
	}
	e.stack = append(e.stack, &encFrame{dw: dw})
	return nil
}

func (e *Encoder) WriteKey(key string) error {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].dw == nil {
		return fmt.Errorf("%w: key %q outside object", ErrMisplaced, key)
	}
	f := e.stack[len(e.stack)-1]
	if f.key != nil {
		return fmt.Errorf("%w: key %q after key %q", ErrMisplaced, key, *f.key)
	}
	f.key = &key
	return nil
}

func (e *Encoder) EndObject() error {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].dw == nil {
		return fmt.Errorf("%w: end of object outside object", ErrMisplaced)
	}
	f := e.stack[len(e.stack)-1]
	if f.key != nil {
		return fmt.Errorf("%w: key %q without value", ErrMisplaced, *f.key)
	}
	e.stack = e.stack[:len(e.stack)-1]
	return f.dw.WriteDocumentEnd()
}

func (e *Encoder) BeginArray() error {
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	aw, err := vw.WriteArray()
	if err != nil {
		return err
	}
	e.stack = append(e.stack, &encFrame{aw: aw})
	return nil
}

func (e *Encoder) EndArray() error {
	if len(e.stack) == 0 || e.stack[len(e.stack)-1].aw == nil {
		return fmt.Errorf("%w: end of array outside array", ErrMisplaced)
	}
	f := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return f.aw.WriteArrayEnd()
}

func (e *Encoder) WriteNull() error {
	if len(e.stack) == 0 && !e.used {
		e.used = true
		return e.writeNil()
	}
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	return vw.WriteNull()
}

func (e *Encoder) WriteBool(b bool) error {
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	return vw.WriteBoolean(b)
}

func (e *Encoder) WriteInt(i int64) error {
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	return writeInt(vw, i)
}

func (e *Encoder) WriteFloat(f float64) error {
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	return vw.WriteDouble(f)
}

func (e *Encoder) WriteString(s string) error {
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	return vw.WriteString(s)
}

func (e *Encoder) WriteBinary(b []byte) error {
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	return vw.WriteBinary(b)
}

// WriteTime writes a BSON datetime, which has millisecond precision.
func (e *Encoder) WriteTime(t time.Time) error {
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	return vw.WriteDateTime(t.UnixMilli())
}

func (e *Encoder) WriteObjectID(id primitive.ObjectID) error {
	vw, err := e.next(false)
	if err != nil {
		return err
	}
	return vw.WriteObjectID(id)
}

func (e *Encoder) WriteNode(node *ir.Node) error {
	if node == nil || (node.Type == ir.NullType && node.Tag == "" && len(e.stack) == 0) {
		return e.WriteNull()
	}
	vw, err := e.next(node.Type == ir.ObjectType && node.Tag == "")
	if err != nil {
		return err
	}
	return writeNode(vw, node)
}

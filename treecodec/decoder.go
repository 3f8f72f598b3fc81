package treecodec

import (
	"encoding/base64"
	"math"
	"strconv"
	"time"

	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/serde"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decoder reads a tree through the serde Decoder contract. Coercions
// follow those of the BSON decoder: integral floats decode as integers,
// integers as floats, strings as binary (base64), object ids (hex) and
// times (RFC 3339), and integers as times (Unix milliseconds).
type Decoder struct {
	node *ir.Node
}

var _ serde.Decoder = (*Decoder)(nil)

func NewDecoder(node *ir.Node) *Decoder {
	return &Decoder{node: node}
}

func (d *Decoder) Kind() serde.Kind {
	n := d.node
	if n == nil {
		return serde.KindNull
	}
	tag := ir.TagHead(n.Tag)
	switch n.Type {
	case ir.NullType:
		if tag == ir.TagMinKey || tag == ir.TagMaxKey {
			return serde.KindOther
		}
		return serde.KindNull
	case ir.BoolType:
		return serde.KindBool
	case ir.NumberType:
		switch {
		case tag == ir.TagDateTime:
			return serde.KindTime
		case n.Int64 != nil:
			return serde.KindInt
		case n.Float64 != nil:
			return serde.KindFloat
		}
		return serde.KindOther
	case ir.StringType:
		switch tag {
		case ir.TagBinary:
			return serde.KindBinary
		case ir.TagOID:
			return serde.KindObjectID
		}
		return serde.KindString
	case ir.ArrayType:
		return serde.KindArray
	case ir.ObjectType:
		if tag != "" {
			return serde.KindOther
		}
		return serde.KindObject
	}
	return serde.KindInvalid
}

func (d *Decoder) typeError(expected string) error {
	return serde.NewTypeError(expected, d.Kind())
}

func (d *Decoder) DecodeNull() error {
	if d.node != nil && d.node.Type != ir.NullType {
		return d.typeError("null")
	}
	return nil
}

func (d *Decoder) DecodeBool() (bool, error) {
	if d.node == nil || d.node.Type != ir.BoolType {
		return false, d.typeError("bool")
	}
	return d.node.Bool, nil
}

func (d *Decoder) DecodeInt() (int64, error) {
	n := d.node
	if n == nil || n.Type != ir.NumberType {
		return 0, d.typeError("int")
	}
	switch {
	case n.Int64 != nil:
		return *n.Int64, nil
	case n.Float64 != nil:
		f := *n.Float64
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return int64(f), nil
		}
	default:
		if i, err := strconv.ParseInt(n.Number, 10, 64); err == nil {
			return i, nil
		}
	}
	return 0, &serde.TypeError{Message: "number " + numberText(n) + " is not an int64"}
}

func (d *Decoder) DecodeFloat() (float64, error) {
	n := d.node
	if n == nil || n.Type != ir.NumberType {
		return 0, d.typeError("float")
	}
	switch {
	case n.Float64 != nil:
		return *n.Float64, nil
	case n.Int64 != nil:
		return float64(*n.Int64), nil
	}
	f, err := strconv.ParseFloat(n.Number, 64)
	if err != nil {
		return 0, &serde.TypeError{Message: "number " + n.Number + " is not a float64"}
	}
	return f, nil
}

func numberText(n *ir.Node) string {
	switch {
	case n.Int64 != nil:
		return strconv.FormatInt(*n.Int64, 10)
	case n.Float64 != nil:
		return strconv.FormatFloat(*n.Float64, 'g', -1, 64)
	}
	return n.Number
}

func (d *Decoder) DecodeString() (string, error) {
	if d.node == nil || d.node.Type != ir.StringType {
		return "", d.typeError("string")
	}
	return d.node.String, nil
}

func (d *Decoder) DecodeBinary() ([]byte, error) {
	if d.node == nil || d.node.Type != ir.StringType {
		return nil, d.typeError("binary")
	}
	b, err := base64.StdEncoding.DecodeString(d.node.String)
	if err != nil {
		return nil, &serde.TypeError{Message: "invalid base64 binary: " + err.Error()}
	}
	return b, nil
}

func (d *Decoder) DecodeTime() (time.Time, error) {
	n := d.node
	switch {
	case n == nil:
	case n.Type == ir.NumberType && n.Int64 != nil:
		return time.UnixMilli(*n.Int64).UTC(), nil
	case n.Type == ir.StringType:
		t, err := time.Parse(time.RFC3339Nano, n.String)
		if err != nil {
			return time.Time{}, &serde.TypeError{Message: "invalid time: " + err.Error()}
		}
		return t, nil
	}
	return time.Time{}, d.typeError("time")
}

func (d *Decoder) DecodeObjectID() (primitive.ObjectID, error) {
	if d.node == nil || d.node.Type != ir.StringType {
		return primitive.NilObjectID, d.typeError("objectid")
	}
	id, err := primitive.ObjectIDFromHex(d.node.String)
	if err != nil {
		return primitive.NilObjectID, &serde.TypeError{Message: "invalid object id: " + err.Error()}
	}
	return id, nil
}

func (d *Decoder) DecodeObject() (serde.ObjectDecoder, error) {
	if d.node == nil || d.node.Type != ir.ObjectType {
		return nil, d.typeError("object")
	}
	return &objectDecoder{node: d.node}, nil
}

func (d *Decoder) DecodeArray() (serde.ArrayDecoder, error) {
	if d.node == nil || d.node.Type != ir.ArrayType {
		return nil, d.typeError("array")
	}
	return &arrayDecoder{node: d.node}, nil
}

// DecodeNode returns a detached copy of the current node.
func (d *Decoder) DecodeNode() (*ir.Node, error) {
	if d.node == nil {
		return ir.Null(), nil
	}
	res := d.node.Clone()
	res.Parent, res.ParentIndex, res.ParentField = nil, 0, ""
	return res, nil
}

func (d *Decoder) Skip() error {
	return nil
}

type objectDecoder struct {
	node *ir.Node
	i    int
}

func (o *objectDecoder) NextField() (string, serde.Decoder, error) {
	if o.i >= len(o.node.Fields) {
		return "", nil, serde.ErrEndOfObject
	}
	i := o.i
	o.i++
	return o.node.Fields[i].String, NewDecoder(o.node.Values[i]), nil
}

type arrayDecoder struct {
	node *ir.Node
	i    int
}

func (a *arrayDecoder) NextElement() (serde.Decoder, error) {
	if a.i >= len(a.node.Values) {
		return nil, serde.ErrEndOfArray
	}
	i := a.i
	a.i++
	return NewDecoder(a.node.Values[i]), nil
}

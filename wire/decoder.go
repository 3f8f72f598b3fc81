package wire

import (
	"errors"
	"math"
	"time"

	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/serde"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Decoder reads one value through a bsonrw.ValueReader. A Decoder with
// no reader stands for an absent value.
type Decoder struct {
	vr       bsonrw.ValueReader
	consumed bool
}

var _ serde.Decoder = (*Decoder)(nil)

func (d *Decoder) Kind() serde.Kind {
	if d.vr == nil {
		return serde.KindNull
	}
	switch d.vr.Type() {
	case bsontype.Double:
		return serde.KindFloat
	case bsontype.String, bsontype.Symbol, bsontype.JavaScript:
		return serde.KindString
	case bsontype.EmbeddedDocument:
		return serde.KindObject
	case bsontype.Array:
		return serde.KindArray
	case bsontype.Binary:
		return serde.KindBinary
	case bsontype.Undefined, bsontype.Null:
		return serde.KindNull
	case bsontype.ObjectID:
		return serde.KindObjectID
	case bsontype.Boolean:
		return serde.KindBool
	case bsontype.DateTime:
		return serde.KindTime
	case bsontype.Int32, bsontype.Int64:
		return serde.KindInt
	}
	return serde.KindOther
}

func (d *Decoder) typeError(expected string) error {
	return serde.NewTypeError(expected, d.Kind())
}

func (d *Decoder) DecodeNull() error {
	if d.vr == nil {
		return nil
	}
	d.consumed = true
	switch d.vr.Type() {
	case bsontype.Null:
		return d.vr.ReadNull()
	case bsontype.Undefined:
		return d.vr.ReadUndefined()
	}
	return d.typeError("null")
}

func (d *Decoder) DecodeBool() (bool, error) {
	if d.vr == nil || d.vr.Type() != bsontype.Boolean {
		return false, d.typeError("bool")
	}
	d.consumed = true
	return d.vr.ReadBoolean()
}

func (d *Decoder) DecodeInt() (int64, error) {
	if d.vr == nil {
		return 0, d.typeError("int")
	}
	switch d.vr.Type() {
	case bsontype.Int32:
		d.consumed = true
		i, err := d.vr.ReadInt32()
		return int64(i), err
	case bsontype.Int64:
		d.consumed = true
		return d.vr.ReadInt64()
	case bsontype.Double:
		d.consumed = true
		f, err := d.vr.ReadDouble()
		if err != nil {
			return 0, err
		}
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, &serde.TypeError{Expected: "int", Actual: "non-integral double"}
		}
		return int64(f), nil
	}
	return 0, d.typeError("int")
}

func (d *Decoder) DecodeFloat() (float64, error) {
	if d.vr == nil {
		return 0, d.typeError("float")
	}
	switch d.vr.Type() {
	case bsontype.Double:
		d.consumed = true
		return d.vr.ReadDouble()
	case bsontype.Int32:
		d.consumed = true
		i, err := d.vr.ReadInt32()
		return float64(i), err
	case bsontype.Int64:
		d.consumed = true
		i, err := d.vr.ReadInt64()
		return float64(i), err
	}
	return 0, d.typeError("float")
}

func (d *Decoder) DecodeString() (string, error) {
	if d.vr == nil {
		return "", d.typeError("string")
	}
	switch d.vr.Type() {
	case bsontype.String:
		d.consumed = true
		return d.vr.ReadString()
	case bsontype.Symbol:
		d.consumed = true
		return d.vr.ReadSymbol()
	case bsontype.JavaScript:
		d.consumed = true
		return d.vr.ReadJavascript()
	}
	return "", d.typeError("string")
}

func (d *Decoder) DecodeBinary() ([]byte, error) {
	if d.vr == nil || d.vr.Type() != bsontype.Binary {
		return nil, d.typeError("binary")
	}
	d.consumed = true
	b, _, err := d.vr.ReadBinary()
	return b, err
}

func (d *Decoder) DecodeTime() (time.Time, error) {
	if d.vr == nil || d.vr.Type() != bsontype.DateTime {
		return time.Time{}, d.typeError("time")
	}
	d.consumed = true
	ms, err := d.vr.ReadDateTime()
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (d *Decoder) DecodeObjectID() (primitive.ObjectID, error) {
	if d.vr == nil {
		return primitive.NilObjectID, d.typeError("objectid")
	}
	switch d.vr.Type() {
	case bsontype.ObjectID:
		d.consumed = true
		return d.vr.ReadObjectID()
	case bsontype.String:
		d.consumed = true
		s, err := d.vr.ReadString()
		if err != nil {
			return primitive.NilObjectID, err
		}
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return primitive.NilObjectID, &serde.TypeError{Message: "invalid object id: " + err.Error()}
		}
		return id, nil
	}
	return primitive.NilObjectID, d.typeError("objectid")
}

// DecodeObject returns a field iterator which must be drained before the
// enclosing object or array is read further.
func (d *Decoder) DecodeObject() (serde.ObjectDecoder, error) {
	if d.vr == nil || d.vr.Type() != bsontype.EmbeddedDocument {
		return nil, d.typeError("object")
	}
	d.consumed = true
	dr, err := d.vr.ReadDocument()
	if err != nil {
		return nil, err
	}
	return &objectDecoder{dr: dr}, nil
}

func (d *Decoder) DecodeArray() (serde.ArrayDecoder, error) {
	if d.vr == nil || d.vr.Type() != bsontype.Array {
		return nil, d.typeError("array")
	}
	d.consumed = true
	ar, err := d.vr.ReadArray()
	if err != nil {
		return nil, err
	}
	return &arrayDecoder{ar: ar}, nil
}

func (d *Decoder) DecodeNode() (*ir.Node, error) {
	if d.vr == nil {
		return ir.Null(), nil
	}
	d.consumed = true
	return readNode(d.vr)
}

func (d *Decoder) Skip() error {
	if d.vr == nil || d.consumed {
		return nil
	}
	d.consumed = true
	return d.vr.Skip()
}

type objectDecoder struct {
	dr   bsonrw.DocumentReader
	last *Decoder
}

func (o *objectDecoder) NextField() (string, serde.Decoder, error) {
	if o.last != nil {
		if err := o.last.Skip(); err != nil {
			return "", nil, err
		}
	}
	key, vr, err := o.dr.ReadElement()
	if errors.Is(err, bsonrw.ErrEOD) {
		o.last = nil
		return "", nil, serde.ErrEndOfObject
	}
	if err != nil {
		return "", nil, err
	}
	o.last = &Decoder{vr: vr}
	return key, o.last, nil
}

type arrayDecoder struct {
	ar   bsonrw.ArrayReader
	last *Decoder
}

func (a *arrayDecoder) NextElement() (serde.Decoder, error) {
	if a.last != nil {
		if err := a.last.Skip(); err != nil {
			return nil, err
		}
	}
	vr, err := a.ar.ReadValue()
	if errors.Is(err, bsonrw.ErrEOA) {
		a.last = nil
		return nil, serde.ErrEndOfArray
	}
	if err != nil {
		return nil, err
	}
	a.last = &Decoder{vr: vr}
	return a.last, nil
}

package wire

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/signadot/go-bsonmap/ir"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// readNode reads the value vr is positioned on as a tree.
func readNode(vr bsonrw.ValueReader) (*ir.Node, error) {
	switch t := vr.Type(); t {
	case bsontype.Double:
		f, err := vr.ReadDouble()
		if err != nil {
			return nil, err
		}
		return ir.FromFloat(f), nil
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return nil, err
		}
		return ir.FromString(s), nil
	case bsontype.EmbeddedDocument:
		dr, err := vr.ReadDocument()
		if err != nil {
			return nil, err
		}
		return readDocument(dr)
	case bsontype.Array:
		ar, err := vr.ReadArray()
		if err != nil {
			return nil, err
		}
		var vals []*ir.Node
		for {
			evr, err := ar.ReadValue()
			if errors.Is(err, bsonrw.ErrEOA) {
				break
			}
			if err != nil {
				return nil, err
			}
			n, err := readNode(evr)
			if err != nil {
				return nil, err
			}
			vals = append(vals, n)
		}
		return ir.FromSlice(vals), nil
	case bsontype.Binary:
		b, subtype, err := vr.ReadBinary()
		if err != nil {
			return nil, err
		}
		tag := ir.TagBinary
		if subtype != 0 {
			tag = ir.TagCompose(ir.TagBinary, []string{strconv.Itoa(int(subtype))})
		}
		return ir.FromString(base64.StdEncoding.EncodeToString(b)).WithTag(tag), nil
	case bsontype.Undefined:
		if err := vr.ReadUndefined(); err != nil {
			return nil, err
		}
		return ir.Null().WithTag(ir.TagUndefined), nil
	case bsontype.ObjectID:
		oid, err := vr.ReadObjectID()
		if err != nil {
			return nil, err
		}
		return ir.FromString(oid.Hex()).WithTag(ir.TagOID), nil
	case bsontype.Boolean:
		b, err := vr.ReadBoolean()
		if err != nil {
			return nil, err
		}
		return ir.FromBool(b), nil
	case bsontype.DateTime:
		ms, err := vr.ReadDateTime()
		if err != nil {
			return nil, err
		}
		return ir.FromInt(ms).WithTag(ir.TagDateTime), nil
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return nil, err
		}
		return ir.Null(), nil
	case bsontype.Regex:
		pattern, options, err := vr.ReadRegex()
		if err != nil {
			return nil, err
		}
		return ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString("pattern"), Val: ir.FromString(pattern)},
			{Key: ir.FromString("options"), Val: ir.FromString(options)},
		}).WithTag(ir.TagRegex), nil
	case bsontype.DBPointer:
		ns, oid, err := vr.ReadDBPointer()
		if err != nil {
			return nil, err
		}
		return ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString("ns"), Val: ir.FromString(ns)},
			{Key: ir.FromString("id"), Val: ir.FromString(oid.Hex()).WithTag(ir.TagOID)},
		}).WithTag(ir.TagDBPointer), nil
	case bsontype.JavaScript:
		code, err := vr.ReadJavascript()
		if err != nil {
			return nil, err
		}
		return ir.FromString(code).WithTag(ir.TagJavaScript), nil
	case bsontype.Symbol:
		sym, err := vr.ReadSymbol()
		if err != nil {
			return nil, err
		}
		return ir.FromString(sym).WithTag(ir.TagSymbol), nil
	case bsontype.CodeWithScope:
		code, dr, err := vr.ReadCodeWithScope()
		if err != nil {
			return nil, err
		}
		scope, err := readDocument(dr)
		if err != nil {
			return nil, err
		}
		return ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString("code"), Val: ir.FromString(code)},
			{Key: ir.FromString("scope"), Val: scope},
		}).WithTag(ir.TagCodeWithScope), nil
	case bsontype.Int32:
		i, err := vr.ReadInt32()
		if err != nil {
			return nil, err
		}
		return ir.FromInt(int64(i)), nil
	case bsontype.Timestamp:
		ts, inc, err := vr.ReadTimestamp()
		if err != nil {
			return nil, err
		}
		return ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString("t"), Val: ir.FromInt(int64(ts))},
			{Key: ir.FromString("i"), Val: ir.FromInt(int64(inc))},
		}).WithTag(ir.TagTimestamp), nil
	case bsontype.Int64:
		i, err := vr.ReadInt64()
		if err != nil {
			return nil, err
		}
		return ir.FromInt(i).WithTag(ir.TagInt64), nil
	case bsontype.Decimal128:
		d, err := vr.ReadDecimal128()
		if err != nil {
			return nil, err
		}
		return ir.FromNumber(d.String()).WithTag(ir.TagDecimal128), nil
	case bsontype.MinKey:
		if err := vr.ReadMinKey(); err != nil {
			return nil, err
		}
		return ir.Null().WithTag(ir.TagMinKey), nil
	case bsontype.MaxKey:
		if err := vr.ReadMaxKey(); err != nil {
			return nil, err
		}
		return ir.Null().WithTag(ir.TagMaxKey), nil
	default:
		return nil, fmt.Errorf("unknown BSON type %s", t)
	}
}

func readDocument(dr bsonrw.DocumentReader) (*ir.Node, error) {
	var kvs []ir.KeyVal
	for {
		key, evr, err := dr.ReadElement()
		if errors.Is(err, bsonrw.ErrEOD) {
			break
		}
		if err != nil {
			return nil, err
		}
		n, err := readNode(evr)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: n})
	}
	return ir.FromKeyVals(kvs), nil
}

// writeNode writes node to vw, mapping tagged tree values back to their
// BSON types.
func writeNode(vw bsonrw.ValueWriter, node *ir.Node) error {
	tag, args := ir.TagArgs(node.Tag)
	switch node.Type {
	case ir.NullType:
		switch tag {
		case ir.TagUndefined:
			return vw.WriteUndefined()
		case ir.TagMinKey:
			return vw.WriteMinKey()
		case ir.TagMaxKey:
			return vw.WriteMaxKey()
		}
		return vw.WriteNull()
	case ir.BoolType:
		return vw.WriteBoolean(node.Bool)
	case ir.NumberType:
		return writeNumber(vw, node, tag)
	case ir.StringType:
		return writeString(vw, node, tag, args)
	case ir.ArrayType:
		aw, err := vw.WriteArray()
		if err != nil {
			return err
		}
		for _, v := range node.Values {
			evw, err := aw.WriteArrayElement()
			if err != nil {
				return err
			}
			if err := writeNode(evw, v); err != nil {
				return err
			}
		}
		return aw.WriteArrayEnd()
	case ir.ObjectType:
		return writeObject(vw, node, tag)
	}
	return fmt.Errorf("cannot write node of type %s", node.Type)
}

func writeNumber(vw bsonrw.ValueWriter, node *ir.Node, tag string) error {
	switch tag {
	case ir.TagDateTime:
		ms, err := nodeInt(node)
		if err != nil {
			return err
		}
		return vw.WriteDateTime(ms)
	case ir.TagInt64:
		i, err := nodeInt(node)
		if err != nil {
			return err
		}
		return vw.WriteInt64(i)
	case ir.TagDecimal128:
		d, err := primitive.ParseDecimal128(numberText(node))
		if err != nil {
			return fmt.Errorf("at %s: %w", node.Path(), err)
		}
		return vw.WriteDecimal128(d)
	}
	switch {
	case node.Int64 != nil:
		return writeInt(vw, *node.Int64)
	case node.Float64 != nil:
		return vw.WriteDouble(*node.Float64)
	}
	if i, err := strconv.ParseInt(node.Number, 10, 64); err == nil {
		return writeInt(vw, i)
	}
	f, err := strconv.ParseFloat(node.Number, 64)
	if err != nil {
		return fmt.Errorf("at %s: invalid number %q", node.Path(), node.Number)
	}
	return vw.WriteDouble(f)
}

// writeInt writes i as an int32 when it fits.
func writeInt(vw bsonrw.ValueWriter, i int64) error {
	if i >= math.MinInt32 && i <= math.MaxInt32 {
		return vw.WriteInt32(int32(i))
	}
	return vw.WriteInt64(i)
}

func nodeInt(node *ir.Node) (int64, error) {
	switch {
	case node.Int64 != nil:
		return *node.Int64, nil
	case node.Float64 != nil && *node.Float64 == math.Trunc(*node.Float64):
		return int64(*node.Float64), nil
	}
	i, err := strconv.ParseInt(node.Number, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("at %s: %s number %q is not an integer", node.Path(), node.Tag, numberText(node))
	}
	return i, nil
}

func numberText(node *ir.Node) string {
	switch {
	case node.Int64 != nil:
		return strconv.FormatInt(*node.Int64, 10)
	case node.Float64 != nil:
		return strconv.FormatFloat(*node.Float64, 'g', -1, 64)
	}
	return node.Number
}

func writeString(vw bsonrw.ValueWriter, node *ir.Node, tag string, args []string) error {
	switch tag {
	case ir.TagBinary:
		b, err := base64.StdEncoding.DecodeString(node.String)
		if err != nil {
			return fmt.Errorf("at %s: invalid base64: %w", node.Path(), err)
		}
		var subtype byte
		if len(args) == 1 {
			st, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return fmt.Errorf("at %s: invalid binary subtype %q", node.Path(), args[0])
			}
			subtype = byte(st)
		}
		return vw.WriteBinaryWithSubtype(b, subtype)
	case ir.TagOID:
		oid, err := primitive.ObjectIDFromHex(node.String)
		if err != nil {
			return fmt.Errorf("at %s: %w", node.Path(), err)
		}
		return vw.WriteObjectID(oid)
	case ir.TagJavaScript:
		return vw.WriteJavascript(node.String)
	case ir.TagSymbol:
		return vw.WriteSymbol(node.String)
	}
	return vw.WriteString(node.String)
}

func writeObject(vw bsonrw.ValueWriter, node *ir.Node, tag string) error {
	str := func(field string) (string, error) {
		v := ir.Get(node, field)
		if v == nil || v.Type != ir.StringType {
			return "", fmt.Errorf("at %s: %s needs string field %q", node.Path(), tag, field)
		}
		return v.String, nil
	}
	switch tag {
	case ir.TagRegex:
		pattern, err := str("pattern")
		if err != nil {
			return err
		}
		options, err := str("options")
		if err != nil {
			return err
		}
		return vw.WriteRegex(pattern, options)
	case ir.TagDBPointer:
		ns, err := str("ns")
		if err != nil {
			return err
		}
		id, err := str("id")
		if err != nil {
			return err
		}
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return fmt.Errorf("at %s: %w", node.Path(), err)
		}
		return vw.WriteDBPointer(ns, oid)
	case ir.TagCodeWithScope:
		code, err := str("code")
		if err != nil {
			return err
		}
		scope := ir.Get(node, "scope")
		if scope == nil || scope.Type != ir.ObjectType {
			return fmt.Errorf("at %s: %s needs object field \"scope\"", node.Path(), tag)
		}
		dw, err := vw.WriteCodeWithScope(code)
		if err != nil {
			return err
		}
		return writeFields(dw, scope)
	case ir.TagTimestamp:
		ts, err := uint32Field(node, "t")
		if err != nil {
			return err
		}
		inc, err := uint32Field(node, "i")
		if err != nil {
			return err
		}
		return vw.WriteTimestamp(ts, inc)
	}
	dw, err := vw.WriteDocument()
	if err != nil {
		return err
	}
	return writeFields(dw, node)
}

func writeFields(dw bsonrw.DocumentWriter, node *ir.Node) error {
	for i, f := range node.Fields {
		evw, err := dw.WriteDocumentElement(f.String)
		if err != nil {
			return err
		}
		if err := writeNode(evw, node.Values[i]); err != nil {
			return err
		}
	}
	return dw.WriteDocumentEnd()
}

func uint32Field(node *ir.Node, field string) (uint32, error) {
	v := ir.Get(node, field)
	if v == nil || v.Type != ir.NumberType {
		return 0, fmt.Errorf("at %s: %s needs number field %q", node.Path(), node.Tag, field)
	}
	i, err := nodeInt(v)
	if err != nil {
		return 0, err
	}
	if i < 0 || i > math.MaxUint32 {
		return 0, fmt.Errorf("at %s: %d out of range for %s.%s", node.Path(), i, node.Tag, field)
	}
	return uint32(i), nil
}

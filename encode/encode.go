package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/go-bsonmap/ir"
)

type EncState struct {
	depth, indent int
	tags          bool

	format Format

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node to w. Indented text output ends with a newline;
// compact JSON does not.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	if node == nil {
		node = ir.Null()
	}
	switch es.format {
	case YAMLFormat:
		return encodeYAML(node, w, es)
	case CBORFormat:
		return encodeCBOR(node, w)
	case CBORDiagFormat:
		return encodeCBORDiag(node, w)
	case JSONFormat:
	default:
		return fmt.Errorf("%w: unknown format %s", ErrEncoding, es.format)
	}
	if err := encode(node, w, es); err != nil {
		return err
	}
	if es.indent == 0 {
		return nil
	}
	return writeString(w, "\n")
}

func writeString(w io.Writer, s string) error {
	_, err := io.WriteString(w, s)
	return err
}

func writeNL(w io.Writer, es *EncState) error {
	if es.indent == 0 {
		return nil
	}
	return writeString(w, "\n"+strings.Repeat(" ", es.indent*es.depth))
}

func applyColor(es *EncState, t ir.Type, attr ColorAttr, v string) string {
	if es.Color == nil {
		return v
	}
	return es.Color(t, attr, v)
}

func encode(node *ir.Node, w io.Writer, es *EncState) error {
	if err := writeTagIfPresent(node, w, es); err != nil {
		return err
	}
	switch node.Type {
	case ir.ObjectType:
		return encodeObject(node, w, es)
	case ir.ArrayType:
		return encodeArray(node, w, es)
	case ir.StringType:
		return writeString(w, applyColor(es, ir.StringType, ValueColor, quoteString(node.String)))
	case ir.NumberType:
		return writeString(w, applyColor(es, ir.NumberType, ValueColor, numberString(node)))
	case ir.BoolType:
		return writeString(w, applyColor(es, ir.BoolType, ValueColor, strconv.FormatBool(node.Bool)))
	case ir.NullType:
		return writeString(w, applyColor(es, ir.NullType, ValueColor, "null"))
	}
	return fmt.Errorf("%w: unknown node type %d", ErrEncoding, node.Type)
}

func writeTagIfPresent(node *ir.Node, w io.Writer, es *EncState) error {
	if !es.tags || node.Tag == "" {
		return nil
	}
	return writeString(w, applyColor(es, node.Type, TagColor, node.Tag)+" ")
}

func encodeObject(node *ir.Node, w io.Writer, es *EncState) error {
	sep := func(s string) string { return applyColor(es, ir.ObjectType, SepColor, s) }
	if len(node.Fields) == 0 {
		return writeString(w, sep("{}"))
	}
	if err := writeString(w, sep("{")); err != nil {
		return err
	}
	es.depth++
	for i, field := range node.Fields {
		if i > 0 {
			if err := writeString(w, sep(",")); err != nil {
				return err
			}
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
		colon := ":"
		if es.indent > 0 {
			colon = ": "
		}
		key := applyColor(es, ir.ObjectType, FieldColor, quoteString(field.String))
		if err := writeString(w, key+sep(colon)); err != nil {
			return err
		}
		if err := encode(node.Values[i], w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeString(w, sep("}"))
}

func encodeArray(node *ir.Node, w io.Writer, es *EncState) error {
	sep := func(s string) string { return applyColor(es, ir.ArrayType, SepColor, s) }
	if len(node.Values) == 0 {
		return writeString(w, sep("[]"))
	}
	if err := writeString(w, sep("[")); err != nil {
		return err
	}
	es.depth++
	for i, v := range node.Values {
		if i > 0 {
			if err := writeString(w, sep(",")); err != nil {
				return err
			}
		}
		if err := writeNL(w, es); err != nil {
			return err
		}
		if err := encode(v, w, es); err != nil {
			return err
		}
	}
	es.depth--
	if err := writeNL(w, es); err != nil {
		return err
	}
	return writeString(w, sep("]"))
}

func quoteString(v string) string {
	buf := bytes.NewBuffer(nil)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return strconv.Quote(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// numberString renders a number so that it reads back as the same kind:
// floats always carry a fraction or exponent. Values JSON cannot hold
// are quoted.
func numberString(node *ir.Node) string {
	switch {
	case node.Int64 != nil:
		return strconv.FormatInt(*node.Int64, 10)
	case node.Float64 != nil:
		f := *node.Float64
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return quoteString(strconv.FormatFloat(f, 'g', -1, 64))
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	}
	if _, err := strconv.ParseFloat(node.Number, 64); err != nil || !json.Valid([]byte(node.Number)) {
		return quoteString(node.Number)
	}
	return node.Number
}

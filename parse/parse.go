package parse

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/signadot/go-bsonmap/ir"
)

// Parse parses a single document.
func Parse(data []byte, opts ...ParseOption) (*ir.Node, error) {
	docs, err := ParseAll(data, opts...)
	if err != nil {
		return nil, err
	}
	switch len(docs) {
	case 0:
		return nil, ErrNoDocument
	case 1:
		return docs[0], nil
	}
	return nil, fmt.Errorf("%w: %d documents, expected 1", ErrParse, len(docs))
}

// ParseAll parses every document of a YAML stream. Empty documents are
// skipped.
func ParseAll(data []byte, opts ...ParseOption) ([]*ir.Node, error) {
	o := newOpts(opts)
	if o.json && !json.Valid(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrParse)
	}
	f, err := parser.ParseBytes(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	p := &parseState{opts: o, anchors: map[string]ast.Node{}}
	var res []*ir.Node
	for _, doc := range f.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}
		if _, ok := doc.Body.(*ast.CommentGroupNode); ok {
			continue
		}
		node, err := p.node(doc.Body)
		if err != nil {
			return nil, err
		}
		res = append(res, node)
	}
	return res, nil
}

type parseState struct {
	opts    *parseOpts
	anchors map[string]ast.Node
}

func (p *parseState) node(n ast.Node) (*ir.Node, error) {
	switch x := n.(type) {
	case nil, *ast.NullNode:
		return ir.Null(), nil
	case *ast.StringNode:
		return ir.FromString(x.Value), nil
	case *ast.LiteralNode:
		return ir.FromString(x.Value.Value), nil
	case *ast.BoolNode:
		return ir.FromBool(x.Value), nil
	case *ast.IntegerNode:
		return integer(x)
	case *ast.FloatNode:
		return ir.FromFloat(x.Value), nil
	case *ast.InfinityNode:
		return ir.FromFloat(x.Value), nil
	case *ast.NanNode:
		return ir.FromFloat(math.NaN()), nil
	case *ast.TagNode:
		return p.tagged(x)
	case *ast.AnchorNode:
		p.anchors[x.Name.GetToken().Value] = x.Value
		return p.node(x.Value)
	case *ast.AliasNode:
		name := x.Value.GetToken().Value
		target, ok := p.anchors[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown alias %q", ErrParse, name)
		}
		return p.node(target)
	case *ast.MappingNode:
		return p.mapping(x.Values)
	case *ast.MappingValueNode:
		return p.mapping([]*ast.MappingValueNode{x})
	case *ast.SequenceNode:
		vals := make([]*ir.Node, len(x.Values))
		for i, v := range x.Values {
			node, err := p.node(v)
			if err != nil {
				return nil, err
			}
			vals[i] = node
		}
		return ir.FromSlice(vals), nil
	}
	return nil, fmt.Errorf("%w: %s at %s", ErrUnsupported, n.Type(), position(n))
}

func (p *parseState) mapping(values []*ast.MappingValueNode) (*ir.Node, error) {
	kvs := make([]ir.KeyVal, 0, len(values))
	for _, mv := range values {
		if mv.Key.IsMergeKey() {
			return nil, fmt.Errorf("%w: merge key at %s", ErrUnsupported, position(mv))
		}
		key, err := keyString(mv.Key)
		if err != nil {
			return nil, err
		}
		val, err := p.node(mv.Value)
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: val})
	}
	return ir.FromKeyVals(kvs), nil
}

func keyString(k ast.MapKeyNode) (string, error) {
	switch x := ast.Node(k).(type) {
	case *ast.StringNode:
		return x.Value, nil
	case *ast.IntegerNode, *ast.FloatNode, *ast.BoolNode, *ast.NullNode:
		return x.GetToken().Value, nil
	}
	return "", fmt.Errorf("%w: key of type %s at %s", ErrUnsupported, k.Type(), position(k))
}

func (p *parseState) tagged(x *ast.TagNode) (*ir.Node, error) {
	node, err := p.node(x.Value)
	if err != nil {
		return nil, err
	}
	tag := x.Start.Value
	if strings.HasPrefix(tag, "!!") {
		// core schema tags only restate the type
		if tag == "!!binary" && node.Type == ir.StringType && p.opts.tags {
			node.Tag = ir.TagBinary
		}
		return node, nil
	}
	if p.opts.tags {
		node.Tag = tag
	}
	return node, nil
}

func integer(x *ast.IntegerNode) (*ir.Node, error) {
	switch v := x.Value.(type) {
	case int:
		return ir.FromInt(int64(v)), nil
	case int64:
		return ir.FromInt(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return ir.FromNumber(x.GetToken().Value), nil
		}
		return ir.FromInt(int64(v)), nil
	}
	return nil, fmt.Errorf("%w: integer %v at %s", ErrUnsupported, x.Value, position(x))
}

func position(n ast.Node) string {
	tk := n.GetToken()
	if tk == nil || tk.Position == nil {
		return "<unknown>"
	}
	return fmt.Sprintf("%d:%d", tk.Position.Line, tk.Position.Column)
}

package encode

import (
	"github.com/signadot/go-bsonmap/ir"

	"github.com/fatih/color"
)

// Colorable is what a color applies to: one part of the rendering of one
// node type.
type Colorable struct {
	Type ir.Type
	Attr ColorAttr
}

type ColorAttr int

const (
	TagColor ColorAttr = iota
	FieldColor
	ValueColor
	SepColor
)

// Colors maps rendering parts to color functions. Parts with no entry
// use Default.
type Colors struct {
	Default func(string) string
	Map     map[Colorable]func(string) string
}

type paletteEntry struct {
	attr    ColorAttr
	types   []ir.Type // nil: every type
	r, g, b int
}

var palette = []paletteEntry{
	{attr: TagColor, r: 74, g: 92, b: 138},
	{attr: SepColor, r: 255, g: 0, b: 196},
	{attr: SepColor, types: []ir.Type{ir.ObjectType}, r: 196, g: 128, b: 128},
	{attr: FieldColor, types: []ir.Type{ir.ObjectType}, r: 128, g: 168, b: 196},
	{attr: ValueColor, types: []ir.Type{ir.NumberType}, r: 128, g: 216, b: 236},
	{attr: ValueColor, types: []ir.Type{ir.NullType}, r: 168, g: 0, b: 196},
	{attr: ValueColor, types: []ir.Type{ir.BoolType}, r: 0, g: 196, b: 196},
	{attr: ValueColor, types: []ir.Type{ir.StringType}, r: 8, g: 196, b: 16},
}

// NewColors returns the default terminal palette. Later palette entries
// override earlier ones.
func NewColors() *Colors {
	c := &Colors{
		Default: plain,
		Map:     map[Colorable]func(string) string{},
	}
	for _, e := range palette {
		types := e.types
		if types == nil {
			types = ir.Types()
		}
		// Sprint leaves '%' in values alone
		f := color.RGB(e.r, e.g, e.b).Sprint
		for _, t := range types {
			c.Map[Colorable{Type: t, Attr: e.attr}] = func(s string) string { return f(s) }
		}
	}
	return c
}

func plain(s string) string { return s }

func (c *Colors) Color(t ir.Type, a ColorAttr, s string) string {
	return c.Get(t, a)(s)
}

func (c *Colors) Get(t ir.Type, a ColorAttr) func(string) string {
	if f := c.Map[Colorable{Type: t, Attr: a}]; f != nil {
		return f
	}
	if c.Default != nil {
		return c.Default
	}
	return plain
}

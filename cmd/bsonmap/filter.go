package main

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/go-bsonmap/ir"
)

// filter selects documents with a boolean expr expression over the
// document's top-level fields, e.g. `age > 40 && name startsWith "A"`.
type filter struct {
	src  string
	prog *vm.Program
}

func newFilter(src string) (*filter, error) {
	prog, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", src, err)
	}
	return &filter{src: src, prog: prog}, nil
}

func (f *filter) match(node *ir.Node) (bool, error) {
	env, ok := ir.ToAny(node).(map[string]any)
	if !ok {
		env = map[string]any{}
	}
	out, err := expr.Run(f.prog, env)
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.src, err)
	}
	b, _ := out.(bool)
	return b, nil
}

package main

import (
	"io"

	"github.com/signadot/go-bsonmap/encode"
	"github.com/signadot/go-bsonmap/ir"
)

// docWriter writes a sequence of trees in one output format, separating
// them as the format requires.
type docWriter struct {
	w      io.Writer
	format encode.Format
	opts   []encode.EncodeOption
	n      int
}

func (cfg *MainConfig) docWriter(w io.Writer, extra ...encode.EncodeOption) *docWriter {
	return &docWriter{
		w:      w,
		format: cfg.format(),
		opts:   append(cfg.encOpts(w), extra...),
	}
}

func (dw *docWriter) write(node *ir.Node) error {
	if dw.format == encode.YAMLFormat && dw.n > 0 {
		if _, err := io.WriteString(dw.w, "---\n"); err != nil {
			return err
		}
	}
	dw.n++
	if err := encode.Encode(node, dw.w, dw.opts...); err != nil {
		return err
	}
	if dw.format == encode.JSONFormat && encode.IndentFromOpts(dw.opts...) == 0 {
		_, err := io.WriteString(dw.w, "\n")
		return err
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/signadot/go-bsonmap"
	"github.com/signadot/go-bsonmap/encode"
	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: expected 2 files, got %d", cli.ErrUsage, len(args))
	}
	m := bsonmap.New()
	from, err := firstDocument(m, cc.In, args[0], cfg.Zstd)
	if err != nil {
		return err
	}
	to, err := firstDocument(m, cc.In, args[1], cfg.Zstd)
	if err != nil {
		return err
	}
	if cfg.Text {
		if cfg.Reverse {
			from, to = to, from
		}
		s, err := libdiff.Text(from, to)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cc.Out, s)
		return err
	}
	d := libdiff.Diff(from, to)
	if d == nil {
		return nil
	}
	if cfg.Reverse {
		d, err = libdiff.Reverse(d)
		if err != nil {
			return err
		}
	}
	return cfg.docWriter(cc.Out, encode.EncodeTags(true)).write(d)
}

func firstDocument(m *bsonmap.Mapper, in io.Reader, file string, forceZstd bool) (*ir.Node, error) {
	var res *ir.Node
	err := eachFile(in, file, forceZstd, func(name string, r io.Reader) error {
		for node, err := range m.Documents(context.Background(), r) {
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			res = node
			break
		}
		if res == nil {
			return fmt.Errorf("%s: no document", name)
		}
		return nil
	})
	return res, err
}

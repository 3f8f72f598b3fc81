package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"
	"github.com/signadot/go-bsonmap"
	"github.com/signadot/go-bsonmap/parse"
	"github.com/signadot/go-bsonmap/wire"
)

func encodeDocs(cfg *EncodeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Encode.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Canonical && !cfg.X {
		return fmt.Errorf("%w: -canonical requires -x", cli.ErrUsage)
	}
	factory := wire.Binary()
	if cfg.X {
		factory = wire.ExtJSON(cfg.Canonical)
	}
	m := bsonmap.New(bsonmap.WithFactory(factory))
	return eachInput(cc.In, args, false, func(name string, r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", name, err)
		}
		docs, err := parse.ParseAll(data)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		for i, doc := range docs {
			if err := m.EncodeTo(cc.Out, doc, bsonmap.Type{}); err != nil {
				return fmt.Errorf("%s: document %d: %w", name, i, err)
			}
			if cfg.X {
				if _, err := io.WriteString(cc.Out, "\n"); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

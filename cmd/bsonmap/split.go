package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/scott-cotton/cli"
	"github.com/signadot/go-bsonmap"
	"github.com/signadot/go-bsonmap/stream"
)

func split(cfg *SplitConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Split.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			theLog.Warn("gops agent failed", "error", err)
		} else {
			defer agent.Close()
		}
	}
	var keep *filter
	if cfg.Filter != "" {
		keep, err = newFilter(cfg.Filter)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	var sOpts []stream.Option
	if cfg.Max > 0 {
		sOpts = append(sOpts, stream.WithMaxDocumentSize(cfg.Max))
	}
	m := bsonmap.New(bsonmap.WithStreamOptions(sOpts...))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cfg.docWriter(cc.Out)
	seen, printed := 0, 0
	err = eachInput(cc.In, args, cfg.Zstd, func(name string, r io.Reader) error {
		i := 0
		for node, err := range m.Documents(ctx, r) {
			if err != nil {
				return fmt.Errorf("%s: after %d documents: %w", name, i, err)
			}
			i++
			seen++
			if keep != nil {
				ok, err := keep.match(node)
				if err != nil {
					return fmt.Errorf("%s: document %d: %w", name, i-1, err)
				}
				if !ok {
					continue
				}
			}
			if err := out.write(node); err != nil {
				return fmt.Errorf("%s: document %d: %w", name, i-1, err)
			}
			printed++
		}
		return nil
	})
	if cfg.Verbose {
		theLog.Info("split", "documents", seen, "printed", printed)
	}
	return err
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
	"github.com/signadot/go-bsonmap"
	"github.com/signadot/go-bsonmap/encode"
	"github.com/signadot/go-bsonmap/parse"
	"github.com/signadot/go-bsonmap/wire"
)

// patch applies the patch to the relaxed extended JSON form of each
// document, so typed values such as object ids survive as {"$oid": ...}.
func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.P == "" {
		return fmt.Errorf("%w: -p is required", cli.ErrUsage)
	}
	apply, err := loadPatch(cfg.P, cfg.Merge)
	if err != nil {
		return err
	}
	m := bsonmap.New()
	ext := bsonmap.New(bsonmap.WithFactory(wire.ExtJSON(false)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return eachInput(cc.In, args, cfg.Zstd, func(name string, r io.Reader) error {
		i := 0
		for node, err := range m.Documents(ctx, r) {
			if err != nil {
				return fmt.Errorf("%s: after %d documents: %w", name, i, err)
			}
			doc, err := ext.Encode(node, bsonmap.Type{})
			if err != nil {
				return fmt.Errorf("%s: document %d: %w", name, i, err)
			}
			doc, err = apply(doc)
			if err != nil {
				return fmt.Errorf("%s: document %d: patch: %w", name, i, err)
			}
			patched, err := ext.DecodeArbitrary(doc)
			if err != nil {
				return fmt.Errorf("%s: document %d: patch result: %w", name, i, err)
			}
			if err := m.EncodeTo(cc.Out, patched, bsonmap.Type{}); err != nil {
				return fmt.Errorf("%s: document %d: %w", name, i, err)
			}
			i++
		}
		return nil
	})
}

// loadPatch reads a JSON or YAML patch file.
func loadPatch(file string, merge bool) (func([]byte) ([]byte, error), error) {
	d, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	node, err := parse.Parse(d, parse.ParseTags(false))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(node, buf, encode.EncodeIndent(0)); err != nil {
		return nil, err
	}
	pJSON := buf.Bytes()
	if merge {
		return func(doc []byte) ([]byte, error) {
			return jsonpatch.MergePatch(doc, pJSON)
		}, nil
	}
	ops, err := jsonpatch.DecodePatch(pJSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return ops.Apply, nil
}

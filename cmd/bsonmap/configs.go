package main

import (
	"fmt"
	"io"
	"os"

	"github.com/signadot/go-bsonmap/encode"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode with color'"`
	Compact bool `cli:"name=compact desc='one line per document'"`
	Tags    bool `cli:"name=tags desc='show BSON type tags'"`

	J bool `cli:"name=j aliases=json desc='output json'"`
	Y bool `cli:"name=y aliases=yaml desc='output yaml'"`
	C bool `cli:"name=c aliases=cbor desc='output cbor'"`

	OutFormat *encode.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**encode.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := encode.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) format() encode.Format {
	var f encode.Format
	switch {
	case cfg.Y:
		f = encode.YAMLFormat
	case cfg.C:
		f = encode.CBORFormat
	case cfg.J:
		f = encode.JSONFormat
	}
	if cfg.OutFormat != nil {
		f = *cfg.OutFormat
	}
	return f
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.EncodeFormat(cfg.format()),
		encode.EncodeTags(cfg.Tags),
	}
	if cfg.Compact {
		res = append(res, encode.EncodeIndent(0))
	}
	if cfg.format() != encode.JSONFormat {
		return res
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type SplitConfig struct {
	*MainConfig
	Filter  string `cli:"name=filter desc='only print documents for which this expression is true'"`
	Zstd    bool   `cli:"name=zstd desc='input is zstd compressed'"`
	Gops    bool   `cli:"name=gops desc='start a gops diagnostics agent'"`
	Max     int    `cli:"name=max desc='maximum document size in bytes'"`
	Verbose bool   `cli:"name=v desc='log a summary to stderr'"`

	Split *cli.Command
}

type EncodeConfig struct {
	*MainConfig
	X         bool `cli:"name=x desc='output extended JSON instead of BSON'"`
	Canonical bool `cli:"name=canonical desc='canonical extended JSON'"`

	Encode *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Text    bool `cli:"name=text desc='line diff of the JSON renderings'"`
	Zstd    bool `cli:"name=zstd desc='inputs are zstd compressed'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	P     string `cli:"name=p desc='patch file'"`
	Merge bool   `cli:"name=merge desc='the patch is an RFC 7386 merge patch'"`
	Zstd  bool   `cli:"name=zstd desc='input is zstd compressed'"`

	Patch *cli.Command
}

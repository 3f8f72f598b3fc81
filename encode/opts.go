package encode

type EncodeOption func(*EncState)

func EncodeFormat(f Format) EncodeOption {
	return func(es *EncState) { es.format = f }
}

// FormatFromOpts extracts the format from encode options.
func FormatFromOpts(opts ...EncodeOption) Format {
	es := &EncState{}
	for _, opt := range opts {
		opt(es)
	}
	return es.format
}

// IndentFromOpts extracts the indentation width from encode options.
func IndentFromOpts(opts ...EncodeOption) int {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	return es.indent
}

// EncodeIndent sets the indentation width. 0 gives compact single line
// JSON; YAML ignores 0.
func EncodeIndent(n int) EncodeOption {
	return func(es *EncState) {
		if n >= 0 {
			es.indent = n
		}
	}
}

func EncodeTags(v bool) EncodeOption {
	return func(es *EncState) { es.tags = v }
}

// EncodeColors colors JSON output. It implies EncodeTags.
func EncodeColors(c *Colors) EncodeOption {
	return func(es *EncState) {
		if c == nil {
			es.Color = nil
			return
		}
		es.Color = c.Color
		es.tags = true
	}
}

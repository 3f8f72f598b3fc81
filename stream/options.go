package stream

import (
	"log/slog"

	"github.com/signadot/go-bsonmap/debug"
	"github.com/signadot/go-bsonmap/wire"
)

// DefaultChunkSize is the read size used when splitting an io.Reader.
const DefaultChunkSize = 4096

// Option configures a Splitter and the iterators built on it.
type Option func(*options)

type options struct {
	maxDocSize int
	chunkSize  int
	logger     *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		maxDocSize: wire.DefaultMaxDocumentSize,
		chunkSize:  DefaultChunkSize,
		logger:     debug.Logger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMaxDocumentSize bounds the declared length of a document. Longer
// declarations are reported as malformed rather than buffered.
func WithMaxDocumentSize(n int) Option {
	return func(o *options) {
		if n >= wire.MinDocumentSize {
			o.maxDocSize = n
		}
	}
}

// WithChunkSize sets the read size used by ReadChunks based helpers.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

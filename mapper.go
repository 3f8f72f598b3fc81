package bsonmap

import (
	"log/slog"

	"github.com/signadot/go-bsonmap/debug"
	"github.com/signadot/go-bsonmap/serde"
	"github.com/signadot/go-bsonmap/stream"
	"github.com/signadot/go-bsonmap/wire"
)

type (
	Type = serde.Type
	View = serde.View
)

const NoView = serde.NoView

// TypeFor returns the Type of T.
func TypeFor[T any]() Type {
	return serde.TypeFor[T]()
}

// TypeOf returns the dynamic Type of v.
func TypeOf(v any) Type {
	return serde.TypeOf(v)
}

// Mapper encodes and decodes documents. It is immutable once built.
type Mapper struct {
	registry   serde.Registry
	view       View
	factory    wire.Factory
	logger     *slog.Logger
	streamOpts []stream.Option
}

type Option func(*Mapper)

// WithRegistry sets the registry serializers are looked up in. The
// default is serde.Default().
func WithRegistry(r serde.Registry) Option {
	return func(m *Mapper) {
		if r != nil {
			m.registry = r
		}
	}
}

// WithView restricts struct fields to those mapped under v.
func WithView(v View) Option {
	return func(m *Mapper) { m.view = v }
}

// WithFactory sets the document representation. The default is
// wire.Binary().
func WithFactory(f wire.Factory) Option {
	return func(m *Mapper) {
		if f != nil {
			m.factory = f
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithStreamOptions configures the splitter used by Documents.
func WithStreamOptions(opts ...stream.Option) Option {
	return func(m *Mapper) {
		m.streamOpts = append(m.streamOpts, opts...)
	}
}

func New(opts ...Option) *Mapper {
	m := &Mapper{
		registry: serde.Default(),
		factory:  wire.Binary(),
		logger:   debug.Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithView returns a copy of m mapping under view v.
func (m *Mapper) WithView(v View) *Mapper {
	res := *m
	res.view = v
	return &res
}

func (m *Mapper) View() View {
	return m.view
}

func (m *Mapper) Factory() wire.Factory {
	return m.factory
}

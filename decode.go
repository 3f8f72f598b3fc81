package bsonmap

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/signadot/go-bsonmap/debug"
	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/serde"
	"github.com/signadot/go-bsonmap/stream"
	"github.com/signadot/go-bsonmap/treecodec"
	"github.com/signadot/go-bsonmap/wire"
)

var typeNodePtr = serde.TypeFor[*ir.Node]()

// Decode decodes one document into a value of type t. The null marker
// decodes to the zero value of t.
func (m *Mapper) Decode(data []byte, t Type) (any, error) {
	r, err := m.factory.NewReader(data)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	d, err := m.registry.FindDeserializer(t)
	if err != nil {
		return nil, err
	}
	dec, err := r.Decoder()
	if err != nil {
		return nil, &DeserializationError{Type: t, Err: err}
	}
	x, err := m.registry.NewDecoderContext(m.view).DeserializeWith(d, dec, t)
	if err != nil {
		if debug.Decode() {
			m.logger.Debug("decode failed", "type", t, "factory", m.factory.Name(), "error", err)
		}
		return nil, &DeserializationError{Type: t, Err: err}
	}
	if debug.Decode() {
		m.logger.Debug("decoded", "type", t, "factory", m.factory.Name(), "size", len(data))
	}
	return x, nil
}

// DecodeReader reads r to the end and decodes the result as one document.
func (m *Mapper) DecodeReader(r io.Reader, t Type) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return m.Decode(data, t)
}

// DecodeAs decodes one document into a T.
func DecodeAs[T any](m *Mapper, data []byte) (T, error) {
	x, err := m.Decode(data, TypeFor[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := x.(T)
	return v, nil
}

// DecodeTree rebuilds a value of type t from a tree.
func (m *Mapper) DecodeTree(node *ir.Node, t Type) (any, error) {
	d, err := m.registry.FindDeserializer(t)
	if err != nil {
		return nil, err
	}
	x, err := m.registry.NewDecoderContext(m.view).DeserializeWith(d, treecodec.NewDecoder(node), t)
	if err != nil {
		return nil, &DeserializationError{Type: t, Err: err}
	}
	return x, nil
}

func DecodeTreeAs[T any](m *Mapper, node *ir.Node) (T, error) {
	x, err := m.DecodeTree(node, TypeFor[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := x.(T)
	return v, nil
}

// DecodeArbitrary decodes one document without a target type. Each BSON
// value becomes its nearest tree analog; see package wire for the tags
// marking values with no direct analog. The null marker decodes to a
// null node.
func (m *Mapper) DecodeArbitrary(data []byte) (*ir.Node, error) {
	return m.decodeArbitrary(m.factory, data)
}

func (m *Mapper) decodeArbitrary(f wire.Factory, data []byte) (*ir.Node, error) {
	r, err := f.NewReader(data)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	dec, err := r.Decoder()
	if err != nil {
		return nil, &DeserializationError{Type: typeNodePtr, Err: err}
	}
	node, err := dec.DecodeNode()
	if err != nil {
		return nil, &DeserializationError{Type: typeNodePtr, Err: err}
	}
	if debug.Decode() {
		m.logger.Debug("decoded arbitrary", "factory", f.Name(), "tree", debug.Node{Node: node})
	}
	return node, nil
}

// Documents decodes the concatenated binary documents read from r, in
// order. The sequence ends with a *TruncatedStreamError if r ends inside
// a document. Binary framing is assumed whatever the factory of m.
func (m *Mapper) Documents(ctx context.Context, r io.Reader) iter.Seq2[*ir.Node, error] {
	return stream.ReadDocuments(ctx, r, m.binaryDecoder(), m.streamOptions()...)
}

// Split is Documents over a chunk source.
func (m *Mapper) Split(ctx context.Context, chunks iter.Seq2[[]byte, error]) iter.Seq2[*ir.Node, error] {
	return stream.Documents(ctx, chunks, m.binaryDecoder(), m.streamOptions()...)
}

func (m *Mapper) binaryDecoder() stream.ArbitraryDecoder {
	bin := wire.Binary()
	return stream.ArbitraryDecoderFunc(func(data []byte) (*ir.Node, error) {
		return m.decodeArbitrary(bin, data)
	})
}

func (m *Mapper) streamOptions() []stream.Option {
	return append([]stream.Option{stream.WithLogger(m.logger)}, m.streamOpts...)
}

package stream

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/signadot/go-bsonmap/ir"
)

// ArbitraryDecoder decodes one framed document into a tree.
type ArbitraryDecoder interface {
	DecodeArbitrary(data []byte) (*ir.Node, error)
}

type ArbitraryDecoderFunc func(data []byte) (*ir.Node, error)

func (f ArbitraryDecoderFunc) DecodeArbitrary(data []byte) (*ir.Node, error) {
	return f(data)
}

// Split yields the documents contained in the concatenation of chunks.
// Chunk boundaries need not align with documents. An error from chunks,
// cancellation of ctx, a malformed length prefix or a truncated final
// document ends the sequence with that error.
func Split(ctx context.Context, chunks iter.Seq2[[]byte, error], opts ...Option) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		s := NewSplitter(opts...)
		defer s.Close()
		for chunk, err := range chunks {
			if err != nil {
				yield(nil, err)
				return
			}
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			s.Write(chunk)
			for {
				doc, err := s.Next()
				if err != nil {
					yield(nil, err)
					return
				}
				if doc == nil {
					break
				}
				if !yield(doc, nil) {
					return
				}
			}
		}
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		if err := s.Close(); err != nil {
			yield(nil, err)
		}
	}
}

// Documents is Split followed by dec on each document.
func Documents(ctx context.Context, chunks iter.Seq2[[]byte, error], dec ArbitraryDecoder, opts ...Option) iter.Seq2[*ir.Node, error] {
	return func(yield func(*ir.Node, error) bool) {
		for doc, err := range Split(ctx, chunks, opts...) {
			if err != nil {
				yield(nil, err)
				return
			}
			node, err := dec.DecodeArbitrary(doc)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(node, nil) {
				return
			}
		}
	}
}

// SplitReader splits the documents read from r, reading WithChunkSize
// bytes at a time.
func SplitReader(ctx context.Context, r io.Reader, opts ...Option) iter.Seq2[[]byte, error] {
	return Split(ctx, ReadChunks(r, newOptions(opts).chunkSize), opts...)
}

// ReadDocuments decodes the documents read from r.
func ReadDocuments(ctx context.Context, r io.Reader, dec ArbitraryDecoder, opts ...Option) iter.Seq2[*ir.Node, error] {
	return Documents(ctx, ReadChunks(r, newOptions(opts).chunkSize), dec, opts...)
}

// ReadChunks yields the successive reads from r until io.EOF. A chunk is
// only valid until the next iteration.
func ReadChunks(r io.Reader, size int) iter.Seq2[[]byte, error] {
	if size <= 0 {
		size = DefaultChunkSize
	}
	return func(yield func([]byte, error) bool) {
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 && !yield(buf[:n], nil) {
				return
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

// Chunks yields the given chunks in order.
func Chunks(chunks ...[]byte) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

package stream

import (
	"log/slog"

	pool "github.com/libp2p/go-buffer-pool"
	"github.com/signadot/go-bsonmap/debug"
	"github.com/signadot/go-bsonmap/wire"
)

// Splitter accumulates written bytes and hands out whole documents. It is
// not safe for concurrent use.
type Splitter struct {
	buf    []byte // pooled; pending bytes are buf[off:end]
	off    int
	end    int
	max    int
	log    *slog.Logger
	err    error
	closed bool
	docs   int
}

func NewSplitter(opts ...Option) *Splitter {
	o := newOptions(opts)
	return &Splitter{max: o.maxDocSize, log: o.logger}
}

// Write appends p to the pending bytes. It never blocks and only fails
// once the splitter is closed.
func (s *Splitter) Write(p []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	s.reserve(len(p))
	copy(s.buf[s.end:], p)
	s.end += len(p)
	return len(p), nil
}

// reserve makes room for n more bytes after end.
func (s *Splitter) reserve(n int) {
	pending := s.end - s.off
	if s.end+n <= len(s.buf) {
		return
	}
	if pending+n <= len(s.buf) {
		copy(s.buf, s.buf[s.off:s.end])
		s.off, s.end = 0, pending
		return
	}
	size := max(2*len(s.buf), pending+n, 512)
	nb := pool.Get(size)
	copy(nb, s.buf[s.off:s.end])
	if s.buf != nil {
		pool.Put(s.buf)
	}
	s.buf, s.off, s.end = nb, 0, pending
}

// Buffered returns the number of pending bytes.
func (s *Splitter) Buffered() int {
	return s.end - s.off
}

// Next returns the next complete document, or nil and no error when more
// input is needed. The returned slice is owned by the caller. A malformed
// length prefix is reported by every later call until Reset.
func (s *Splitter) Next() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.closed {
		return nil, ErrClosed
	}
	pending := s.buf[s.off:s.end]
	n, ok := wire.ReadLength(pending)
	if !ok {
		return nil, nil
	}
	if n < wire.MinDocumentSize || n > s.max {
		reason := "declared length below minimum"
		if n > s.max {
			reason = "declared length above maximum"
		}
		s.err = &wire.MalformedDocumentError{Declared: n, Actual: len(pending), Reason: reason}
		s.log.Debug("malformed length prefix", "declared", n, "max", s.max, "offset", s.docs)
		return nil, s.err
	}
	if len(pending) < n {
		return nil, nil
	}
	if pending[n-1] != 0 {
		s.err = &wire.MalformedDocumentError{Declared: n, Actual: n, Reason: "missing terminator"}
		return nil, s.err
	}
	doc := make([]byte, n)
	copy(doc, pending)
	s.off += n
	if s.off == s.end {
		s.off, s.end = 0, 0
	}
	s.docs++
	if debug.Split() {
		s.log.Debug("split document", "index", s.docs-1, "size", n, "buffered", s.Buffered())
	}
	return doc, nil
}

// Close releases the pending buffer. It reports a *TruncatedStreamError
// if bytes remain, which happens when the stream ended inside a document
// or when complete documents were never taken out with Next.
func (s *Splitter) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	residual := s.end - s.off
	var err error
	if residual > 0 {
		declared, _ := wire.ReadLength(s.buf[s.off:s.end])
		err = &TruncatedStreamError{Residual: residual, Declared: max(declared, 0)}
		s.log.Debug("stream truncated", "residual", residual, "declared", declared, "documents", s.docs)
	}
	s.release()
	return err
}

// Reset discards pending bytes and any error so the splitter can serve a
// fresh stream.
func (s *Splitter) Reset() {
	s.release()
	s.err = nil
	s.closed = false
	s.docs = 0
}

func (s *Splitter) release() {
	if s.buf != nil {
		pool.Put(s.buf)
	}
	s.buf, s.off, s.end = nil, 0, 0
}

package wire

import (
	"bytes"
	"io"

	pool "github.com/libp2p/go-buffer-pool"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Factory creates readers and writers for one document representation.
type Factory interface {
	Name() string
	NewReader(data []byte) (*Reader, error)
	NewWriter(w io.Writer) (*Writer, error)
}

type binaryFactory struct{}

// Binary returns the factory for binary BSON documents. Readers are only
// handed out for buffers holding exactly one valid document, or the null
// marker.
func Binary() Factory {
	return binaryFactory{}
}

func (binaryFactory) Name() string {
	return "bson"
}

func (binaryFactory) NewReader(data []byte) (*Reader, error) {
	if IsNullMarker(data) {
		return &Reader{}, nil
	}
	if err := CheckFrame(data); err != nil {
		return nil, err
	}
	if err := bsoncore.Document(data).Validate(); err != nil {
		return nil, &MalformedDocumentError{Declared: len(data), Actual: len(data), Reason: err.Error()}
	}
	return &Reader{vr: bsonrw.NewBSONDocumentReader(data)}, nil
}

func (binaryFactory) NewWriter(w io.Writer) (*Writer, error) {
	return newWriter(w, []byte{NullMarker}, func(buf io.Writer) (bsonrw.ValueWriter, error) {
		return bsonrw.NewBSONValueWriter(buf)
	})
}

type extJSONFactory struct {
	canonical bool
}

// ExtJSON returns the factory for MongoDB Extended JSON v2 documents,
// in canonical or relaxed mode. An absent value is written as null.
func ExtJSON(canonical bool) Factory {
	return extJSONFactory{canonical: canonical}
}

func (f extJSONFactory) Name() string {
	if f.canonical {
		return "extjson-canonical"
	}
	return "extjson"
}

var jsonNull = []byte("null")

func (f extJSONFactory) NewReader(data []byte) (*Reader, error) {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		return &Reader{}, nil
	}
	vr, err := bsonrw.NewExtJSONValueReader(bytes.NewReader(data), f.canonical)
	if err != nil {
		return nil, &MalformedDocumentError{Declared: -1, Actual: len(data), Reason: err.Error()}
	}
	if vr.Type() != bsontype.EmbeddedDocument {
		return nil, &MalformedDocumentError{Declared: -1, Actual: len(data), Reason: "top-level value is not a document"}
	}
	return &Reader{vr: vr}, nil
}

func (f extJSONFactory) NewWriter(w io.Writer) (*Writer, error) {
	return newWriter(w, jsonNull, func(buf io.Writer) (bsonrw.ValueWriter, error) {
		return bsonrw.NewExtJSONValueWriter(buf, f.canonical, false)
	})
}

// Reader gives access to one document.
type Reader struct {
	vr     bsonrw.ValueReader
	closed bool
}

// Decoder returns the decoder positioned on the document, or on a null
// value for the null marker.
func (r *Reader) Decoder() (*Decoder, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return &Decoder{vr: r.vr}, nil
}

// Close releases the reader. It is safe to call more than once.
func (r *Reader) Close() error {
	r.closed = true
	r.vr = nil
	return nil
}

// Writer encodes one document into a pooled buffer and copies it to its
// destination only on Flush.
type Writer struct {
	dst    io.Writer
	buf    *pool.Buffer
	enc    *Encoder
	null   []byte
	closed bool
}

func newWriter(dst io.Writer, null []byte, mk func(io.Writer) (bsonrw.ValueWriter, error)) (*Writer, error) {
	w := &Writer{dst: dst, buf: pool.NewBuffer(nil), null: null}
	vw, err := mk(w.buf)
	if err != nil {
		w.buf.Reset()
		return nil, err
	}
	w.enc = &Encoder{top: vw, writeNil: w.writeNull}
	return w, nil
}

func (w *Writer) writeNull() error {
	_, err := w.buf.Write(w.null)
	return err
}

func (w *Writer) Encoder() (*Encoder, error) {
	if w.closed {
		return nil, ErrClosed
	}
	return w.enc, nil
}

// Flush copies the completed document to the destination.
func (w *Writer) Flush() error {
	if w.closed {
		return ErrClosed
	}
	if !w.enc.Complete() {
		return ErrIncompleteDocument
	}
	_, err := w.dst.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}

// Close releases the buffer, discarding anything not flushed. It is safe
// to call more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.buf.Reset()
	return nil
}

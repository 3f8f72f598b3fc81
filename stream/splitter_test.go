package stream

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-bsonmap/wire"
)

// intDoc returns the document {"i": n} with n as an int32.
func intDoc(n byte) []byte {
	return []byte{12, 0, 0, 0, 0x10, 'i', 0, n, 0, 0, 0, 0}
}

var emptyDoc = []byte{5, 0, 0, 0, 0}

func TestSplitterByteAtATime(t *testing.T) {
	stream := bytes.Join([][]byte{intDoc(1), emptyDoc, intDoc(2)}, nil)
	s := NewSplitter()
	var got [][]byte
	for _, b := range stream {
		if _, err := s.Write([]byte{b}); err != nil {
			t.Fatal(err)
		}
		doc, err := s.Next()
		if err != nil {
			t.Fatal(err)
		}
		if doc != nil {
			got = append(got, doc)
		}
	}
	want := [][]byte{intDoc(1), emptyDoc, intDoc(2)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("documents (-want +got):\n%s", diff)
	}
	if err := s.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestSplitterManyPerWrite(t *testing.T) {
	s := NewSplitter()
	s.Write(bytes.Join([][]byte{intDoc(1), intDoc(2), intDoc(3)[:6]}, nil))
	for i := byte(1); i <= 2; i++ {
		doc, err := s.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(doc, intDoc(i)) {
			t.Fatalf("doc %d: got %v", i, doc)
		}
	}
	doc, err := s.Next()
	if doc != nil || err != nil {
		t.Fatalf("expected need-more, got %v, %v", doc, err)
	}
	if s.Buffered() != 6 {
		t.Errorf("buffered: got %d want 6", s.Buffered())
	}
	s.Write(intDoc(3)[6:])
	doc, err = s.Next()
	if err != nil || !bytes.Equal(doc, intDoc(3)) {
		t.Fatalf("got %v, %v", doc, err)
	}
	if s.Buffered() != 0 {
		t.Errorf("buffered: got %d want 0", s.Buffered())
	}
}

func TestSplitterReturnsCopies(t *testing.T) {
	s := NewSplitter()
	s.Write(intDoc(1))
	first, _ := s.Next()
	s.Write(intDoc(2))
	second, _ := s.Next()
	if !bytes.Equal(first, intDoc(1)) || !bytes.Equal(second, intDoc(2)) {
		t.Errorf("documents share storage: %v %v", first, second)
	}
}

func TestSplitterMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		opts  []Option
	}{
		{
			name:  "length below minimum",
			input: []byte{4, 0, 0, 0, 0},
		},
		{
			name:  "length above maximum",
			input: []byte{0, 1, 0, 0},
			opts:  []Option{WithMaxDocumentSize(128)},
		},
		{
			name:  "length above int32",
			input: []byte{0xff, 0xff, 0xff, 0xff},
		},
		{
			name:  "missing terminator",
			input: []byte{5, 0, 0, 0, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplitter(tt.opts...)
			s.Write(tt.input)
			_, err := s.Next()
			if !errors.Is(err, ErrMalformedDocument) {
				t.Fatalf("expected malformed document, got %v", err)
			}
			var me *MalformedDocumentError
			if !errors.As(err, &me) {
				t.Fatalf("expected *MalformedDocumentError, got %T", err)
			}
			s.Write(intDoc(1))
			if _, again := s.Next(); again != err {
				t.Errorf("error not sticky: %v", again)
			}
			s.Reset()
			s.Write(intDoc(1))
			doc, err := s.Next()
			if err != nil || !bytes.Equal(doc, intDoc(1)) {
				t.Errorf("after reset: %v, %v", doc, err)
			}
		})
	}
}

func TestSplitterMaxSizeAccepted(t *testing.T) {
	s := NewSplitter(WithMaxDocumentSize(12))
	s.Write(intDoc(7))
	doc, err := s.Next()
	if err != nil || !bytes.Equal(doc, intDoc(7)) {
		t.Fatalf("got %v, %v", doc, err)
	}
}

func TestSplitterClose(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		residual int
		declared int
	}{
		{name: "partial prefix", input: []byte{12, 0}, residual: 2},
		{name: "partial body", input: intDoc(1)[:9], residual: 9, declared: 12},
		{name: "unread document", input: intDoc(1), residual: 12, declared: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplitter()
			s.Write(tt.input)
			err := s.Close()
			if !errors.Is(err, ErrTruncatedStream) {
				t.Fatalf("expected truncated stream, got %v", err)
			}
			var te *TruncatedStreamError
			errors.As(err, &te)
			if te.Residual != tt.residual || te.Declared != tt.declared {
				t.Errorf("got residual %d declared %d", te.Residual, te.Declared)
			}
			if err := s.Close(); err != nil {
				t.Errorf("second close: %v", err)
			}
			if _, err := s.Write(intDoc(1)); !errors.Is(err, ErrClosed) {
				t.Errorf("write after close: %v", err)
			}
			if _, err := s.Next(); !errors.Is(err, ErrClosed) {
				t.Errorf("next after close: %v", err)
			}
		})
	}
}

func TestSplitterLargeDocument(t *testing.T) {
	// {"s": "<1000 x's>"}
	body := bytes.Repeat([]byte{'x'}, 1000)
	doc := make([]byte, 4)
	doc = append(doc, 0x02, 's', 0)
	doc = append(doc, 0, 0, 0, 0)
	wire.PutLength(doc[len(doc)-4:], len(body)+1)
	doc = append(doc, body...)
	doc = append(doc, 0, 0)
	wire.PutLength(doc, len(doc))
	if err := wire.CheckFrame(doc); err != nil {
		t.Fatal(err)
	}

	s := NewSplitter()
	var got []byte
	for i := 0; i < len(doc); i += 100 {
		s.Write(doc[i:min(i+100, len(doc))])
		d, err := s.Next()
		if err != nil {
			t.Fatal(err)
		}
		if d != nil {
			got = d
		}
	}
	if !bytes.Equal(got, doc) {
		t.Errorf("large document mangled")
	}
}

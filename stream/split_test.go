package stream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/wire"
)

func collect(t *testing.T, seq iter.Seq2[[]byte, error]) ([][]byte, error) {
	t.Helper()
	var docs [][]byte
	for doc, err := range seq {
		if err != nil {
			return docs, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func TestSplit(t *testing.T) {
	all := bytes.Join([][]byte{intDoc(1), intDoc(2), emptyDoc}, nil)
	tests := []struct {
		name   string
		chunks [][]byte
	}{
		{name: "one chunk", chunks: [][]byte{all}},
		{name: "aligned", chunks: [][]byte{intDoc(1), intDoc(2), emptyDoc}},
		{name: "straddling", chunks: [][]byte{all[:3], all[3:17], all[17:]}},
		{name: "empty chunks", chunks: [][]byte{nil, all[:20], {}, all[20:]}},
	}
	want := [][]byte{intDoc(1), intDoc(2), emptyDoc}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := collect(t, Split(context.Background(), Chunks(tt.chunks...)))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("documents (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitTruncated(t *testing.T) {
	got, err := collect(t, Split(context.Background(), Chunks(intDoc(1), intDoc(2)[:7])))
	if !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("expected truncated stream, got %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected the complete document before the error, got %d", len(got))
	}
}

func TestSplitMalformed(t *testing.T) {
	_, err := collect(t, Split(context.Background(), Chunks(intDoc(1), []byte{1, 0, 0, 0})))
	if !errors.Is(err, ErrMalformedDocument) {
		t.Fatalf("expected malformed document, got %v", err)
	}
}

func TestSplitUpstreamError(t *testing.T) {
	boom := errors.New("boom")
	chunks := func(yield func([]byte, error) bool) {
		if !yield(intDoc(1), nil) {
			return
		}
		yield(nil, boom)
	}
	got, err := collect(t, Split(context.Background(), chunks))
	if !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d documents", len(got))
	}
}

func TestSplitBreakStopsUpstream(t *testing.T) {
	pulled := 0
	chunks := func(yield func([]byte, error) bool) {
		for i := byte(0); i < 10; i++ {
			pulled++
			if !yield(intDoc(i), nil) {
				return
			}
		}
	}
	for range Split(context.Background(), chunks) {
		break
	}
	if pulled != 1 {
		t.Errorf("pulled %d chunks after break", pulled)
	}
}

func TestSplitCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	n := 0
	var err error
	for _, e := range Split(ctx, Chunks(intDoc(1), intDoc(2), intDoc(3))) {
		if e != nil {
			err = e
			break
		}
		n++
		cancel()
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if n != 1 {
		t.Errorf("got %d documents before cancellation", n)
	}
}

func decodeBinary(data []byte) (*ir.Node, error) {
	r, err := wire.Binary().NewReader(data)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	dec, err := r.Decoder()
	if err != nil {
		return nil, err
	}
	return dec.DecodeNode()
}

func TestReadDocuments(t *testing.T) {
	all := bytes.Join([][]byte{intDoc(1), intDoc(2)}, nil)
	r := iotest.OneByteReader(bytes.NewReader(all))
	var got []int64
	for node, err := range ReadDocuments(context.Background(), r, ArbitraryDecoderFunc(decodeBinary)) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, *ir.Get(node, "i").Int64)
	}
	if diff := cmp.Diff([]int64{1, 2}, got); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
}

func TestDocumentsDecodeError(t *testing.T) {
	// declared and terminated correctly but element type 0x20 is invalid
	bad := []byte{8, 0, 0, 0, 0x20, 'a', 0, 0}
	var err error
	for _, e := range Documents(context.Background(), Chunks(bad, intDoc(1)), ArbitraryDecoderFunc(decodeBinary)) {
		if e != nil {
			err = e
		}
	}
	if !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("expected malformed document, got %v", err)
	}
}

func TestSplitReaderError(t *testing.T) {
	r := io.MultiReader(bytes.NewReader(intDoc(1)), iotest.ErrReader(io.ErrUnexpectedEOF))
	got, err := collect(t, SplitReader(context.Background(), r, WithChunkSize(5)))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected read error, got %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d documents", len(got))
	}
}

package wire

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/signadot/go-bsonmap/ir"
	"github.com/signadot/go-bsonmap/serde"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// {"name": "Ada", "age": 42}
var adaDoc = []byte{
	28, 0, 0, 0,
	0x02, 'n', 'a', 'm', 'e', 0, 4, 0, 0, 0, 'A', 'd', 'a', 0,
	0x10, 'a', 'g', 'e', 0, 42, 0, 0, 0,
	0,
}

func adaNode() *ir.Node {
	return ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("name"), Val: ir.FromString("Ada")},
		{Key: ir.FromString("age"), Val: ir.FromInt(42)},
	})
}

func writeWith(t *testing.T, f Factory, write func(enc *Encoder) error) []byte {
	t.Helper()
	var out bytes.Buffer
	w, err := f.NewWriter(&out)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	enc, err := w.Encoder()
	if err != nil {
		t.Fatal(err)
	}
	if err := write(enc); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	return out.Bytes()
}

func readNodeWith(t *testing.T, f Factory, data []byte) *ir.Node {
	t.Helper()
	r, err := f.NewReader(data)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	dec, err := r.Decoder()
	if err != nil {
		t.Fatal(err)
	}
	n, err := dec.DecodeNode()
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestEncoderWritesFramedDocument(t *testing.T) {
	got := writeWith(t, Binary(), func(enc *Encoder) error {
		for _, step := range []func() error{
			enc.BeginObject,
			func() error { return enc.WriteKey("name") },
			func() error { return enc.WriteString("Ada") },
			func() error { return enc.WriteKey("age") },
			func() error { return enc.WriteInt(42) },
			enc.EndObject,
		} {
			if err := step(); err != nil {
				return err
			}
		}
		return nil
	})
	if !bytes.Equal(adaDoc, got) {
		t.Errorf("got\n%s\nwant\n%s", hex.Dump(got), hex.Dump(adaDoc))
	}
	if n, _ := ReadLength(got); n != len(got) {
		t.Errorf("length prefix %d for %d bytes", n, len(got))
	}
}

func TestWriteNodeMatchesEncoder(t *testing.T) {
	got := writeWith(t, Binary(), func(enc *Encoder) error {
		return enc.WriteNode(adaNode())
	})
	if !bytes.Equal(adaDoc, got) {
		t.Errorf("got\n%s", hex.Dump(got))
	}
	if n := readNodeWith(t, Binary(), got); !ir.Equal(adaNode(), n) {
		t.Errorf("read back %+v", n)
	}
}

func allTypesNode() *ir.Node {
	oid := primitive.NewObjectID().Hex()
	kv := func(k string, v *ir.Node) ir.KeyVal { return ir.KeyVal{Key: ir.FromString(k), Val: v} }
	return ir.FromKeyVals([]ir.KeyVal{
		kv("double", ir.FromFloat(1.5)),
		kv("string", ir.FromString("s")),
		kv("doc", ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromBool(false))})),
		kv("empty", ir.FromKeyVals(nil)),
		kv("array", ir.FromSlice([]*ir.Node{ir.FromInt(1), ir.Null()})),
		kv("binary", ir.FromString("AAEC").WithTag(ir.TagBinary)),
		kv("uuid", ir.FromString("AAECAwQFBgcICQoLDA0ODw==").WithTag("!binary(4)")),
		kv("undefined", ir.Null().WithTag(ir.TagUndefined)),
		kv("oid", ir.FromString(oid).WithTag(ir.TagOID)),
		kv("bool", ir.FromBool(true)),
		kv("datetime", ir.FromInt(1700000000000).WithTag(ir.TagDateTime)),
		kv("null", ir.Null()),
		kv("regex", ir.FromKeyVals([]ir.KeyVal{
			kv("pattern", ir.FromString("^a")), kv("options", ir.FromString("i")),
		}).WithTag(ir.TagRegex)),
		kv("dbpointer", ir.FromKeyVals([]ir.KeyVal{
			kv("ns", ir.FromString("db.c")), kv("id", ir.FromString(oid).WithTag(ir.TagOID)),
		}).WithTag(ir.TagDBPointer)),
		kv("js", ir.FromString("f()").WithTag(ir.TagJavaScript)),
		kv("symbol", ir.FromString("sym").WithTag(ir.TagSymbol)),
		kv("cws", ir.FromKeyVals([]ir.KeyVal{
			kv("code", ir.FromString("g(x)")),
			kv("scope", ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromInt(1))})),
		}).WithTag(ir.TagCodeWithScope)),
		kv("int32", ir.FromInt(-7)),
		kv("timestamp", ir.FromKeyVals([]ir.KeyVal{
			kv("t", ir.FromInt(1700000000)), kv("i", ir.FromInt(3)),
		}).WithTag(ir.TagTimestamp)),
		kv("int64", ir.FromInt(5).WithTag(ir.TagInt64)),
		kv("bigint", ir.FromInt(1<<40).WithTag(ir.TagInt64)),
		kv("decimal", ir.FromNumber("1.10").WithTag(ir.TagDecimal128)),
		kv("minkey", ir.Null().WithTag(ir.TagMinKey)),
		kv("maxkey", ir.Null().WithTag(ir.TagMaxKey)),
	})
}

func TestNodeRoundTripAllTypes(t *testing.T) {
	want := allTypesNode()
	data := writeWith(t, Binary(), func(enc *Encoder) error { return enc.WriteNode(want) })
	if err := CheckFrame(data); err != nil {
		t.Fatal(err)
	}
	got := readNodeWith(t, Binary(), data)
	if !ir.Equal(want, got) {
		t.Fatalf("tree did not round trip:\nwant %+v\ngot  %+v", want, got)
	}
	again := writeWith(t, Binary(), func(enc *Encoder) error { return enc.WriteNode(got) })
	if !bytes.Equal(data, again) {
		t.Errorf("bytes did not round trip")
	}
}

func TestUntaggedLargeIntIsInt64(t *testing.T) {
	data := writeWith(t, Binary(), func(enc *Encoder) error {
		return enc.WriteNode(ir.FromKeyVals([]ir.KeyVal{{Key: ir.FromString("n"), Val: ir.FromInt(1 << 40)}}))
	})
	got := readNodeWith(t, Binary(), data)
	if n := ir.Get(got, "n"); n.Tag != ir.TagInt64 || *n.Int64 != 1<<40 {
		t.Errorf("got %+v", n)
	}
}

func TestNullMarker(t *testing.T) {
	tests := []struct {
		f    Factory
		want string
	}{
		{Binary(), "\x0a"},
		{ExtJSON(false), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.f.Name(), func(t *testing.T) {
			data := writeWith(t, tt.f, func(enc *Encoder) error { return enc.WriteNull() })
			if string(data) != tt.want {
				t.Fatalf("got %q", data)
			}
			r, err := tt.f.NewReader(data)
			if err != nil {
				t.Fatal(err)
			}
			dec, _ := r.Decoder()
			if dec.Kind() != serde.KindNull {
				t.Errorf("Kind() = %s", dec.Kind())
			}
			if err := dec.DecodeNull(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestTopLevelMustBeDocument(t *testing.T) {
	var out bytes.Buffer
	w, err := Binary().NewWriter(&out)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	enc, _ := w.Encoder()
	if err := enc.WriteInt(1); !errors.Is(err, ErrMisplaced) {
		t.Errorf("expected ErrMisplaced, got %v", err)
	}
	if err := enc.BeginArray(); !errors.Is(err, ErrMisplaced) {
		t.Errorf("expected ErrMisplaced, got %v", err)
	}
}

func TestWriterDiscardsPartialDocument(t *testing.T) {
	var out bytes.Buffer
	w, err := Binary().NewWriter(&out)
	if err != nil {
		t.Fatal(err)
	}
	enc, _ := w.Encoder()
	if err := enc.BeginObject(); err != nil {
		t.Fatal(err)
	}
	if err := enc.WriteKey("a"); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); !errors.Is(err, ErrIncompleteDocument) {
		t.Errorf("Flush() = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("partial output leaked: %x", out.Bytes())
	}
	if _, err := w.Encoder(); !errors.Is(err, ErrClosed) {
		t.Errorf("Encoder() after Close = %v", err)
	}
}

func TestReaderRejectsMalformed(t *testing.T) {
	bad := append([]byte(nil), adaDoc...)
	bad[4] = 0x20 // not a BSON type
	tests := map[string][]byte{
		"truncated":    adaDoc[:len(adaDoc)-1],
		"trailing":     append(append([]byte(nil), adaDoc...), 0),
		"invalid type": bad,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Binary().NewReader(data); !errors.Is(err, ErrMalformedDocument) {
				t.Errorf("NewReader() = %v", err)
			}
		})
	}
	if _, err := ExtJSON(false).NewReader([]byte("[1,2]")); !errors.Is(err, ErrMalformedDocument) {
		t.Errorf("extjson array: %v", err)
	}
}

func TestDecoderSkipsUnconsumedValues(t *testing.T) {
	r, err := Binary().NewReader(writeWith(t, Binary(), func(enc *Encoder) error { return enc.WriteNode(allTypesNode()) }))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	dec, _ := r.Decoder()
	od, err := dec.DecodeObject()
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for {
		key, vd, err := od.NextField()
		if errors.Is(err, serde.ErrEndOfObject) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		keys = append(keys, key)
		if key == "int32" {
			i, err := vd.DecodeInt()
			if err != nil || i != -7 {
				t.Errorf("int32 = %d, %v", i, err)
			}
		}
	}
	if len(keys) != len(allTypesNode().Fields) {
		t.Errorf("visited %d fields", len(keys))
	}
}

func TestDecoderCoercions(t *testing.T) {
	r, err := Binary().NewReader(writeWith(t, Binary(), func(enc *Encoder) error {
		return enc.WriteNode(ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString("f"), Val: ir.FromFloat(3)},
			{Key: ir.FromString("i"), Val: ir.FromInt(2)},
			{Key: ir.FromString("h"), Val: ir.FromFloat(2.5)},
		}))
	}))
	if err != nil {
		t.Fatal(err)
	}
	dec, _ := r.Decoder()
	od, _ := dec.DecodeObject()
	_, fd, _ := od.NextField()
	if i, err := fd.DecodeInt(); err != nil || i != 3 {
		t.Errorf("integral double as int: %d %v", i, err)
	}
	_, id, _ := od.NextField()
	if f, err := id.DecodeFloat(); err != nil || f != 2 {
		t.Errorf("int as float: %g %v", f, err)
	}
	_, hd, _ := od.NextField()
	if _, err := hd.DecodeInt(); !errors.Is(err, serde.ErrTypeMismatch) {
		t.Errorf("fractional double as int: %v", err)
	}
}

func TestExtJSONRoundTrip(t *testing.T) {
	f := ExtJSON(true)
	want := allTypesNode()
	data := writeWith(t, f, func(enc *Encoder) error { return enc.WriteNode(want) })
	if !strings.HasPrefix(string(data), "{") {
		t.Fatalf("unexpected output %s", data)
	}
	if got := readNodeWith(t, f, data); !ir.Equal(want, got) {
		t.Errorf("tree did not round trip through %s", data)
	}
}

func TestExtJSONRelaxed(t *testing.T) {
	f := ExtJSON(false)
	data := writeWith(t, f, func(enc *Encoder) error { return enc.WriteNode(adaNode()) })
	if !strings.Contains(string(data), `"Ada"`) || strings.Contains(string(data), "$numberInt") {
		t.Errorf("unexpected relaxed output %s", data)
	}
	if got := readNodeWith(t, f, data); !ir.Equal(adaNode(), got) {
		t.Errorf("relaxed round trip: %+v", got)
	}
}

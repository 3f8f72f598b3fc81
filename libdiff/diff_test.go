package libdiff

import (
	"testing"

	"github.com/signadot/go-bsonmap/encode"
	"github.com/signadot/go-bsonmap/ir"
)

func obj(kvs ...any) *ir.Node {
	res := make([]ir.KeyVal, 0, len(kvs)/2)
	for i := 0; i < len(kvs); i += 2 {
		res = append(res, ir.KeyVal{Key: ir.FromString(kvs[i].(string)), Val: kvs[i+1].(*ir.Node)})
	}
	return ir.FromKeyVals(res)
}

func arr(vals ...*ir.Node) *ir.Node {
	return ir.FromSlice(vals)
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		from, to *ir.Node
		want     *ir.Node
	}{
		{
			name: "equal",
			from: obj("a", ir.FromInt(1), "b", arr(ir.FromString("x"))),
			to:   obj("a", ir.FromInt(1), "b", arr(ir.FromString("x"))),
		},
		{
			name: "scalar change",
			from: obj("a", ir.FromInt(1)),
			to:   obj("a", ir.FromInt(2)),
			want: obj("a", obj("from", ir.FromInt(1), "to", ir.FromInt(2)).WithTag(ReplaceTag)),
		},
		{
			name: "int to float",
			from: ir.FromInt(1),
			to:   ir.FromFloat(1),
			want: obj("from", ir.FromInt(1), "to", ir.FromFloat(1)).WithTag(ReplaceTag),
		},
		{
			name: "field inserted in the middle",
			from: obj("a", ir.FromInt(1), "c", ir.FromInt(3)),
			to:   obj("a", ir.FromInt(1), "b", ir.FromInt(2), "c", ir.FromInt(3)),
			want: obj("b", ir.FromInt(2).WithTag(InsertTag)),
		},
		{
			name: "field deleted",
			from: obj("a", ir.FromInt(1), "id", ir.FromString("ff").WithTag(ir.TagOID)),
			to:   obj("a", ir.FromInt(1)),
			want: obj("id", ir.FromString("ff").WithTag("!delete(oid)")),
		},
		{
			name: "tag only",
			from: ir.FromInt(5),
			to:   ir.FromInt(5).WithTag(ir.TagInt64),
			want: ir.Null().WithTag("!addtype(int64)"),
		},
		{
			name: "array insert",
			from: arr(ir.FromString("a"), ir.FromString("c")),
			to:   arr(ir.FromString("a"), ir.FromString("b"), ir.FromString("c")),
			want: obj("1", ir.FromString("b").WithTag(InsertTag)).WithTag(ArrayDiffTag),
		},
		{
			name: "array replace",
			from: arr(ir.FromString("a"), ir.FromBool(true)),
			to:   arr(ir.FromString("a"), ir.FromBool(false)),
			want: obj("1", obj("from", ir.FromBool(true), "to", ir.FromBool(false)).WithTag(ReplaceTag)).WithTag(ArrayDiffTag),
		},
		{
			name: "nested",
			from: obj("o", obj("x", ir.FromString("1"))),
			to:   obj("o", obj("x", ir.FromString("2"))),
			want: obj("o", obj("x", obj("from", ir.FromString("1"), "to", ir.FromString("2")).WithTag(ReplaceTag))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.from, tt.to)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected no diff, got %s", encode.MustString(got))
				}
				return
			}
			if got == nil {
				t.Fatal("expected a diff")
			}
			if !ir.Equal(tt.want, got) {
				s, _ := Text(tt.want, got)
				t.Errorf("diff mismatch (-want +got):\n%s", s)
			}
		})
	}
}

func TestReverse(t *testing.T) {
	from := obj("a", ir.FromInt(1), "c", ir.FromInt(3), "t", ir.FromInt(1))
	to := obj("a", ir.FromInt(2), "b", ir.FromInt(2), "t", ir.FromInt(1).WithTag(ir.TagInt64))
	rev, err := Reverse(Diff(from, to))
	if err != nil {
		t.Fatal(err)
	}
	want := Diff(to, from)
	// field order differs between the two, compare per field
	for i, f := range want.Fields {
		got := ir.Get(rev, f.String)
		if got == nil || !ir.Equal(want.Values[i], got) {
			t.Errorf("field %s: got %v want %s", f.String, got, encode.MustString(want.Values[i]))
		}
	}
	if len(rev.Fields) != len(want.Fields) {
		t.Errorf("got %d fields want %d", len(rev.Fields), len(want.Fields))
	}
}

func TestReverseTypeChange(t *testing.T) {
	tests := []struct {
		name     string
		from, to *ir.Node
		want     string
	}{
		{"add", ir.FromInt(5), ir.FromInt(5).WithTag(ir.TagInt64), "!rmtype(int64)"},
		{"remove", ir.FromInt(5).WithTag(ir.TagInt64), ir.FromInt(5), "!addtype(int64)"},
		{"change", ir.FromInt(5).WithTag(ir.TagInt64), ir.FromInt(5).WithTag(ir.TagDateTime), "!retype(datetime,int64)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rev, err := Reverse(Diff(tt.from, tt.to))
			if err != nil {
				t.Fatal(err)
			}
			if rev.Tag != tt.want {
				t.Errorf("got %s want %s", rev.Tag, tt.want)
			}
			if back := Diff(tt.to, tt.from); back.Tag != rev.Tag {
				t.Errorf("reverse %s, direct diff %s", rev.Tag, back.Tag)
			}
		})
	}

	if _, err := Reverse(ir.FromInt(1).WithTag(ReplaceTag)); err == nil {
		t.Error("expected error for non-object replace")
	}
}

func TestText(t *testing.T) {
	from := obj("name", ir.FromString("Ada"), "age", ir.FromInt(42))
	to := obj("name", ir.FromString("Ada"), "age", ir.FromInt(43))
	s, err := Text(from, to)
	if err != nil {
		t.Fatal(err)
	}
	want := ` {
   "name": "Ada",
-  "age": 42
+  "age": 43
 }
`
	if s != want {
		t.Errorf("got\n%s\nwant\n%s", s, want)
	}
	if s, _ := Text(from, from.Clone()); s != "" {
		t.Errorf("expected empty diff, got %q", s)
	}
}

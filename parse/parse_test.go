package parse

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-bsonmap/encode"
	"github.com/signadot/go-bsonmap/ir"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ir.Node
	}{
		{name: "null", in: `null`, want: ir.Null()},
		{name: "bool", in: `true`, want: ir.FromBool(true)},
		{name: "int", in: `22`, want: ir.FromInt(22)},
		{name: "negative", in: `-7`, want: ir.FromInt(-7)},
		{name: "float", in: `1.5`, want: ir.FromFloat(1.5)},
		{name: "string", in: `"hello"`, want: ir.FromString("hello")},
		{name: "plain string", in: `hello`, want: ir.FromString("hello")},
		{
			name: "json object keeps order",
			in:   `{"z": 1, "a": [true, null], "m": {"k": "v"}}`,
			want: ir.FromKeyVals([]ir.KeyVal{
				{Key: ir.FromString("z"), Val: ir.FromInt(1)},
				{Key: ir.FromString("a"), Val: ir.FromSlice([]*ir.Node{ir.FromBool(true), ir.Null()})},
				{Key: ir.FromString("m"), Val: ir.FromKeyVals([]ir.KeyVal{
					{Key: ir.FromString("k"), Val: ir.FromString("v")},
				})},
			}),
		},
		{
			name: "yaml block",
			in:   "name: Ada\nage: 42\ntags:\n- a\n- b\n",
			want: ir.FromKeyVals([]ir.KeyVal{
				{Key: ir.FromString("name"), Val: ir.FromString("Ada")},
				{Key: ir.FromString("age"), Val: ir.FromInt(42)},
				{Key: ir.FromString("tags"), Val: ir.FromSlice([]*ir.Node{ir.FromString("a"), ir.FromString("b")})},
			}),
		},
		{
			name: "tags",
			in:   `{"id": !oid "5f1b2c3d4e5f6a7b8c9d0e1f", "n": !int64 3}`,
			want: ir.FromKeyVals([]ir.KeyVal{
				{Key: ir.FromString("id"), Val: ir.FromString("5f1b2c3d4e5f6a7b8c9d0e1f").WithTag(ir.TagOID)},
				{Key: ir.FromString("n"), Val: ir.FromInt(3).WithTag(ir.TagInt64)},
			}),
		},
		{
			name: "anchor",
			in:   "a: &x 1\nb: *x\n",
			want: ir.FromKeyVals([]ir.KeyVal{
				{Key: ir.FromString("a"), Val: ir.FromInt(1)},
				{Key: ir.FromString("b"), Val: ir.FromInt(1)},
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.in))
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(tt.want, got) {
				t.Errorf("got %s, want %s", encode.MustString(got), encode.MustString(tt.want))
			}
		})
	}
}

func TestParseSpecialFloats(t *testing.T) {
	got, err := Parse([]byte(`[.inf, .nan]`))
	if err != nil {
		t.Fatal(err)
	}
	if f := *got.Values[0].Float64; !math.IsInf(f, 1) {
		t.Errorf("got %v", f)
	}
	if f := *got.Values[1].Float64; !math.IsNaN(f) {
		t.Errorf("got %v", f)
	}
}

func TestParseTagsOff(t *testing.T) {
	got, err := Parse([]byte(`!oid "abc"`), ParseTags(false))
	if err != nil {
		t.Fatal(err)
	}
	if got.Tag != "" {
		t.Errorf("tag kept: %q", got.Tag)
	}
}

func TestParseAll(t *testing.T) {
	docs, err := ParseAll([]byte("a: 1\n---\nb: 2\n---\n"))
	if err != nil {
		t.Fatal(err)
	}
	var got []any
	for _, d := range docs {
		got = append(got, ir.ToAny(d))
	}
	want := []any{map[string]any{"a": int64(1)}, map[string]any{"b": int64(2)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		opts []ParseOption
	}{
		{name: "syntax", in: `{"a": [1, 2}`},
		{name: "not json", in: `a: 1`, opts: []ParseOption{ParseJSON()}},
		{name: "several documents", in: "1\n---\n2\n"},
		{name: "empty", in: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.in), tt.opts...); !errors.Is(err, ErrParse) {
				t.Errorf("expected parse error, got %v", err)
			}
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	node := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("when"), Val: ir.FromInt(1700000000123).WithTag(ir.TagDateTime)},
		{Key: ir.FromString("ratio"), Val: ir.FromFloat(2)},
		{Key: ir.FromString("list"), Val: ir.FromSlice([]*ir.Node{ir.FromString("x")})},
	})
	text := encode.MustString(node)
	plain, err := Parse([]byte(text))
	if err != nil {
		t.Fatal(err)
	}
	if ir.Get(plain, "when").Tag != "" || *ir.Get(plain, "ratio").Float64 != 2 {
		t.Errorf("unexpected %s", encode.MustString(plain))
	}
}

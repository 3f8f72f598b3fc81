package ir

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestToAny(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	node := FromKeyVals([]KeyVal{
		{Key: FromString("n"), Val: Null()},
		{Key: FromString("i"), Val: FromInt(7)},
		{Key: FromString("f"), Val: FromFloat(1.5)},
		{Key: FromString("d"), Val: FromNumber("1.10")},
		{Key: FromString("b"), Val: FromString("AAEC").WithTag(TagBinary)},
		{Key: FromString("t"), Val: FromInt(when.UnixMilli()).WithTag(TagDateTime)},
		{Key: FromString("a"), Val: FromSlice([]*Node{FromBool(true)})},
	})
	want := map[string]any{
		"n": nil,
		"i": int64(7),
		"f": 1.5,
		"d": "1.10",
		"b": []byte{0, 1, 2},
		"t": when,
		"a": []any{true},
	}
	if diff := cmp.Diff(want, ToAny(node)); diff != "" {
		t.Errorf("ToAny (-want +got):\n%s", diff)
	}
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want *Node
	}{
		{"nil", nil, Null()},
		{"int", 3, FromInt(3)},
		{"uint8", uint8(3), FromInt(3)},
		{"float32", float32(0.5), FromFloat(0.5)},
		{"bytes", []byte{0, 1, 2}, FromString("AAEC").WithTag(TagBinary)},
		{"map", map[string]any{"b": 1, "a": "x"}, FromKeyVals([]KeyVal{
			{Key: FromString("a"), Val: FromString("x")},
			{Key: FromString("b"), Val: FromInt(1)},
		})},
		{"typed slice", []string{"x"}, FromSlice([]*Node{FromString("x")})},
		{"typed map", map[string]int{"k": 1}, FromKeyVals([]KeyVal{{Key: FromString("k"), Val: FromInt(1)}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !Equal(tt.want, got) {
				t.Errorf("FromAny(%v) mismatch", tt.in)
			}
		})
	}
}

func TestFromAnyErrors(t *testing.T) {
	for _, in := range []any{uint64(math.MaxUint64), make(chan int), map[int]int{1: 1}} {
		if _, err := FromAny(in); !errors.Is(err, ErrUnsupportedValue) {
			t.Errorf("FromAny(%T) error = %v", in, err)
		}
	}
}

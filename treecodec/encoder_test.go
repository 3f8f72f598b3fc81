package treecodec

import (
	"errors"
	"testing"
	"time"

	"github.com/signadot/go-bsonmap/ir"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEncoderBuildsOrderedTree(t *testing.T) {
	e := NewEncoder()
	steps := []func() error{
		e.BeginObject,
		func() error { return e.WriteKey("name") },
		func() error { return e.WriteString("Ada") },
		func() error { return e.WriteKey("age") },
		func() error { return e.WriteInt(42) },
		func() error { return e.WriteKey("tags") },
		e.BeginArray,
		func() error { return e.WriteBool(true) },
		e.WriteNull,
		e.EndArray,
		e.EndObject,
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	got, err := e.Node()
	if err != nil {
		t.Fatal(err)
	}
	want := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("name"), Val: ir.FromString("Ada")},
		{Key: ir.FromString("age"), Val: ir.FromInt(42)},
		{Key: ir.FromString("tags"), Val: ir.FromSlice([]*ir.Node{ir.FromBool(true), ir.Null()})},
	})
	if !ir.Equal(want, got) {
		t.Errorf("unexpected tree %+v", got)
	}
}

func TestEncoderTaggedLeaves(t *testing.T) {
	id := primitive.NewObjectID()
	when := time.UnixMilli(1700000000123).UTC()
	tests := []struct {
		name  string
		write func(e *Encoder) error
		want  *ir.Node
	}{
		{"binary", func(e *Encoder) error { return e.WriteBinary([]byte{0, 1, 2}) }, ir.FromString("AAEC").WithTag(ir.TagBinary)},
		{"time", func(e *Encoder) error { return e.WriteTime(when) }, ir.FromInt(1700000000123).WithTag(ir.TagDateTime)},
		{"oid", func(e *Encoder) error { return e.WriteObjectID(id) }, ir.FromString(id.Hex()).WithTag(ir.TagOID)},
		{"nil node", func(e *Encoder) error { return e.WriteNode(nil) }, ir.Null()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEncoder()
			if err := tt.write(e); err != nil {
				t.Fatal(err)
			}
			got, err := e.Node()
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(tt.want, got) {
				t.Errorf("got %+v", got)
			}
		})
	}
}

func TestEncoderMisuse(t *testing.T) {
	tests := []struct {
		name  string
		steps func(e *Encoder) error
		want  error
	}{
		{"value without key", func(e *Encoder) error {
			if err := e.BeginObject(); err != nil {
				return err
			}
			return e.WriteInt(1)
		}, ErrMisplaced},
		{"two roots", func(e *Encoder) error {
			if err := e.WriteInt(1); err != nil {
				return err
			}
			return e.WriteInt(2)
		}, ErrMisplaced},
		{"mismatched end", func(e *Encoder) error {
			if err := e.BeginArray(); err != nil {
				return err
			}
			return e.EndObject()
		}, ErrMisplaced},
		{"key in array", func(e *Encoder) error {
			if err := e.BeginArray(); err != nil {
				return err
			}
			return e.WriteKey("k")
		}, ErrMisplaced},
		{"unclosed", func(e *Encoder) error {
			if err := e.BeginArray(); err != nil {
				return err
			}
			_, err := e.Node()
			return err
		}, ErrIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.steps(NewEncoder()); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

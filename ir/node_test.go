package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func person() *Node {
	return FromKeyVals([]KeyVal{
		{Key: FromString("name"), Val: FromString("Ada")},
		{Key: FromString("age"), Val: FromInt(42)},
		{Key: FromString("tags"), Val: FromSlice([]*Node{FromString("x"), FromString("y.z")})},
	})
}

func TestFromKeyValsOrder(t *testing.T) {
	p := person()
	var keys []string
	for _, f := range p.Fields {
		keys = append(keys, f.String)
	}
	if diff := cmp.Diff([]string{"name", "age", "tags"}, keys); diff != "" {
		t.Errorf("field order (-want +got):\n%s", diff)
	}
	if p.Len() != 3 {
		t.Errorf("Len() = %d", p.Len())
	}
}

func TestFromMapSorted(t *testing.T) {
	m := FromMap(map[string]*Node{"b": FromInt(2), "a": FromInt(1)})
	if m.Fields[0].String != "a" || m.Fields[1].String != "b" {
		t.Errorf("expected sorted keys, got %q %q", m.Fields[0].String, m.Fields[1].String)
	}
	back := ToMap(m)
	if *back["b"].Int64 != 2 {
		t.Errorf("ToMap lost value")
	}
	if ToMap(FromInt(1)) != nil {
		t.Errorf("ToMap on non-object should be nil")
	}
}

func TestGetAndPath(t *testing.T) {
	p := person()
	tags := Get(p, "tags")
	if tags == nil {
		t.Fatal("missing tags")
	}
	tests := []struct {
		node *Node
		want string
	}{
		{p, "$"},
		{Get(p, "name"), "$.name"},
		{tags.Values[1], "$.tags[1]"},
	}
	for _, tt := range tests {
		if got := tt.node.Path(); got != tt.want {
			t.Errorf("Path() = %q, want %q", got, tt.want)
		}
	}
	odd := FromKeyVals([]KeyVal{{Key: FromString("a.b"), Val: Null()}})
	if got := odd.Values[0].Path(); got != "$.'a.b'" {
		t.Errorf("quoted Path() = %q", got)
	}
	if Get(nil, "x") != nil || Get(p, "missing") != nil {
		t.Error("Get should return nil")
	}
}

func TestClone(t *testing.T) {
	p := person()
	c := p.Clone()
	if !Equal(p, c) {
		t.Fatal("clone differs")
	}
	*Get(c, "age").Int64 = 43
	if *Get(p, "age").Int64 != 42 {
		t.Error("clone shares number storage")
	}
	if Get(c, "tags").Parent != c {
		t.Error("clone parent not rewired")
	}
	if FromInt(1).Clone().Values != nil {
		t.Error("leaf clone allocated values")
	}
}

func TestAppend(t *testing.T) {
	obj := &Node{Type: ObjectType}
	k := "a"
	obj.Append(&k, FromInt(1))
	arr := &Node{Type: ArrayType}
	arr.Append(nil, FromBool(true))
	arr.Append(nil, obj)
	if obj.Parent != arr || obj.ParentIndex != 1 {
		t.Error("append did not set parent")
	}
	if got := Get(obj, "a").Path(); got != "$[1].a" {
		t.Errorf("Path() = %q", got)
	}
}

func TestVisit(t *testing.T) {
	var pre, post int
	err := person().Visit(func(y *Node, isPost bool) (bool, error) {
		if isPost {
			post++
		} else {
			pre++
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	// root + name + age + tags + 2 elements
	if pre != 6 || post != 6 {
		t.Errorf("pre=%d post=%d", pre, post)
	}
}

func TestTagArgs(t *testing.T) {
	tests := []struct {
		tag  string
		head string
		args []string
	}{
		{"!binary", "!binary", nil},
		{"!binary(4)", "!binary", []string{"4"}},
		{"!x(a,b)", "!x", []string{"a", "b"}},
		{"!x()", "!x", nil},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			head, args := TagArgs(tt.tag)
			if head != tt.head {
				t.Errorf("head = %q", head)
			}
			if diff := cmp.Diff(tt.args, args); diff != "" {
				t.Errorf("args (-want +got):\n%s", diff)
			}
			if args != nil {
				if got := TagCompose(head, args); got != tt.tag {
					t.Errorf("TagCompose = %q", got)
				}
			}
		})
	}
}

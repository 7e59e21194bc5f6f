package vdom

import (
	"context"
	"testing"
)

func TestCreateElementArgs(t *testing.T) {
	node := Div(
		nil,
		ID("main"),
		[]Attr{Class("a", "b"), Data("id", "7")},
		Span(Text("x")),
		[]*VNode{P("one"), nil, P("two")},
		"tail",
		badge{Label: "new"},
		OnClick(func() {}),
	)

	if node.Tag != "div" || node.Kind != KindElement {
		t.Fatalf("unexpected node %+v", node)
	}
	if node.Props["id"] != "main" {
		t.Errorf("id = %v", node.Props["id"])
	}
	if node.Props["class"] != "a b" {
		t.Errorf("class = %v", node.Props["class"])
	}
	if node.Props["data-id"] != "7" {
		t.Errorf("data-id = %v", node.Props["data-id"])
	}
	if _, ok := node.Props["onclick"]; !ok {
		t.Error("onclick handler missing")
	}
	if len(node.Children) != 5 {
		t.Fatalf("children = %d, want 5", len(node.Children))
	}
	if node.Children[3].Kind != KindText || node.Children[3].Text != "tail" {
		t.Errorf("string child should become text, got %+v", node.Children[3])
	}
	if node.Children[4].Kind != KindComponent {
		t.Errorf("component child should become placeholder, got %v", node.Children[4].Kind)
	}
}

func TestKeyAttrIsNotAProp(t *testing.T) {
	node := Li(Key("b"), Text("B"))
	if node.Key != "b" {
		t.Errorf("Key = %q, want b", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored as a prop")
	}
}

func TestVoidElementsDropChildren(t *testing.T) {
	node := Input(Type("text"), Text("ignored"))
	if len(node.Children) != 0 {
		t.Errorf("void element kept %d children", len(node.Children))
	}
}

func TestClassIf(t *testing.T) {
	if !ClassIf(false, "x").IsEmpty() {
		t.Error("ClassIf(false) should be empty")
	}
	if Div(ClassIf(true, "on")).Props["class"] != "on" {
		t.Error("ClassIf(true) should set class")
	}
}

func TestFragmentAndMount(t *testing.T) {
	frag := Fragment("a", nil, Text("b"), []*VNode{Text("c")}, badge{})
	if len(frag.Children) != 4 {
		t.Fatalf("fragment children = %d, want 4", len(frag.Children))
	}
	if frag.Children[3].Kind != KindComponent {
		t.Error("component in fragment should be mounted")
	}

	m := Mount(badge{}, "k1")
	if m.Key != "k1" || m.Kind != KindComponent {
		t.Errorf("Mount with key = %+v", m)
	}
	if Keyed("k2", Li()).Key != "k2" {
		t.Error("Keyed should set key")
	}
}

func TestRangeAndConditionals(t *testing.T) {
	nodes := Range([]string{"a", "", "c"}, func(s string, _ int) *VNode {
		return If(s != "", Li(Key(s), s))
	})
	if len(nodes) != 2 {
		t.Fatalf("Range should skip nil nodes, got %d", len(nodes))
	}
	if IfElse(false, Text("a"), Text("b")).Text != "b" {
		t.Error("IfElse false branch")
	}
	called := false
	_ = When(false, func() *VNode { called = true; return nil })
	if called {
		t.Error("When(false) should not evaluate")
	}
}

func TestTextContent(t *testing.T) {
	tree := Div(H1("Count: ", Text("3")), Mount(Func(func(context.Context) *VNode { return Text("hidden") })))
	if got := TextContent(tree); got != "Count: 3" {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestWrapHandler(t *testing.T) {
	var got []string
	cases := []any{
		func() { got = append(got, "plain") },
		func(e Event) { got = append(got, "event:"+e.Type) },
		func(v string) { got = append(got, "value:"+v) },
		func() error { got = append(got, "err"); return nil },
	}
	for _, c := range cases {
		h, err := WrapHandler(c)
		if err != nil {
			t.Fatalf("WrapHandler(%T) error: %v", c, err)
		}
		h(Event{Type: "input", Value: "x"})
	}
	want := []string{"plain", "event:input", "value:x", "err"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := WrapHandler(42); err == nil {
		t.Error("unsupported handler type should error")
	}
	if _, err := WrapHandler(nil); err == nil {
		t.Error("nil handler should error")
	}
}

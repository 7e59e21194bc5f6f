package render

import (
	"context"
	"strings"
	"testing"

	"github.com/vango-go/reactor/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	got := String(vdom.Text("Hello, World!"))
	if got != "Hello, World!" {
		t.Errorf("got %q", got)
	}
}

func TestRenderTextEscaping(t *testing.T) {
	got := String(vdom.Text("<script>alert('xss')</script>"))
	if strings.Contains(got, "<script>") || !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("text should be escaped, got %q", got)
	}
}

func TestRenderElement(t *testing.T) {
	node := vdom.Div(vdom.Class("container"),
		vdom.H1(vdom.Text("Title")),
		vdom.P(vdom.Text("Content")),
	)
	want := `<div class="container"><h1>Title</h1><p>Content</p></div>`
	if got := String(node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderVoidAndBoolean(t *testing.T) {
	node := vdom.Input(vdom.Type("checkbox"), vdom.Checked(true), vdom.Disabled(false))
	want := `<input checked type="checkbox">`
	if got := String(node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEventsAndHIDs(t *testing.T) {
	node := vdom.Button(vdom.Key("save"), vdom.OnClick(func() {}), vdom.Text("Save"))
	node.HID = "h1"

	plain := String(node)
	if plain != `<button data-on-click>Save</button>` {
		t.Errorf("plain = %q", plain)
	}

	out, err := NewRenderer(RendererConfig{ShowHIDs: true}).RenderToString(node)
	if err != nil {
		t.Fatal(err)
	}
	if out != `<button data-hid="h1" data-on-click>Save</button>` {
		t.Errorf("with hids = %q", out)
	}
}

func TestRenderFragmentAndPlaceholder(t *testing.T) {
	comp := vdom.NamedFunc("Row", func(ctx context.Context) *vdom.VNode { return nil })
	node := vdom.Fragment(vdom.Text("a"), vdom.Mount(comp, "r1"), vdom.Mount(comp))
	want := `a<!--Row key=r1--><!--Row-->`
	if got := String(node); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPretty(t *testing.T) {
	node := vdom.Ul(
		vdom.Li(vdom.Text("one")),
		vdom.Li(vdom.Span(vdom.Text("two"))),
	)
	out, err := NewRenderer(RendererConfig{Pretty: true}).RenderToString(node)
	if err != nil {
		t.Fatal(err)
	}
	want := "<ul>\n  <li>one</li>\n  <li>\n    <span>two</span>\n  </li>\n</ul>\n"
	if out != want {
		t.Errorf("got:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderNil(t *testing.T) {
	if got := String(nil); got != "" {
		t.Errorf("nil tree = %q", got)
	}
}

func TestRenderPrettyMixedText(t *testing.T) {
	node := vdom.Li(vdom.Button(vdom.Text("[ ]")), vdom.Text(" milk"))
	want := "<li>\n  <button>[ ]</button>\n  milk\n</li>\n"
	if got := Pretty(node); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

package lessons

import (
	"context"

	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/vdom"
)

// Theme is the current color theme.
var Theme = reactor.CreateContext("light").Named("Theme")

// ThemeApp provides Theme to a toolbar and toggles it.
func ThemeApp(ctx context.Context) *vdom.VNode {
	theme, set := reactor.UseState(ctx, "light")
	next := "dark"
	if theme == "dark" {
		next = "light"
	}

	return vdom.Div(vdom.Class("app"),
		vdom.Button(vdom.Key("toggle-theme"), vdom.OnClick(func() { set.Set(next) }), vdom.Text("use "+next)),
		Theme.Provider(theme, Toolbar{}),
	)
}

// Toolbar does not read Theme and never re-renders on its own; its buttons
// still follow the theme.
type Toolbar struct{}

func (Toolbar) Render(ctx context.Context) *vdom.VNode {
	return vdom.Nav(
		ThemedButton{Label: "Save"},
		ThemedButton{Label: "Cancel"},
	)
}

// ThemedButton reads Theme.
type ThemedButton struct {
	Label string
}

func (b ThemedButton) Render(ctx context.Context) *vdom.VNode {
	theme := Theme.Use(ctx)
	return vdom.Button(vdom.Class("btn-"+theme), vdom.Text(b.Label))
}

package lessons

import (
	"context"

	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/vdom"
)

// Counter renders a count and three ways to change it.
//
// "inc3" applies three functional updates and ends up three higher in a
// single render. "stale" calls Set(n+1) three times with the n captured at
// render time, so the count only moves by one.
func Counter(ctx context.Context) *vdom.VNode {
	n, set := reactor.UseState(ctx, 0)
	inc := func(n int) int { return n + 1 }

	return vdom.Div(vdom.Class("counter"),
		vdom.Span(vdom.Key("count"), vdom.Textf("%d", n)),
		vdom.Button(vdom.Key("inc"), vdom.OnClick(func() { set.Update(inc) }), vdom.Text("+1")),
		vdom.Button(vdom.Key("inc3"), vdom.OnClick(func() {
			set.Update(inc)
			set.Update(inc)
			set.Update(inc)
		}), vdom.Text("+3")),
		vdom.Button(vdom.Key("stale"), vdom.OnClick(func() {
			set.Set(n + 1)
			set.Set(n + 1)
			set.Set(n + 1)
		}), vdom.Text("+3 stale")),
	)
}

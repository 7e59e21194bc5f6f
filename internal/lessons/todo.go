package lessons

import (
	"context"

	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/vdom"
)

// Item is one todo entry.
type Item struct {
	ID    string
	Label string
}

// DefaultItems seeds a TodoList.
var DefaultItems = []Item{{"a", "milk"}, {"b", "eggs"}, {"c", "bread"}}

// TodoList renders items with a remove button each. Keyed lists mount each
// row under its item id; unkeyed lists mount rows by position, so a row's
// local state stays at its index when an item before it is removed.
type TodoList struct {
	Keyed bool
}

// ComponentName implements the naming hook used in logs and metrics.
func (l TodoList) ComponentName() string {
	if l.Keyed {
		return "KeyedTodoList"
	}
	return "UnkeyedTodoList"
}

func (l TodoList) Render(ctx context.Context) *vdom.VNode {
	items, set := reactor.UseState(ctx, DefaultItems)

	remove := func(id string) {
		set.Update(func(prev []Item) []Item {
			next := make([]Item, 0, len(prev))
			for _, it := range prev {
				if it.ID != id {
					next = append(next, it)
				}
			}
			return next
		})
	}

	rows := vdom.Range(items, func(it Item, i int) *vdom.VNode {
		row := TodoRow{ID: it.ID, Label: it.Label}
		if l.Keyed {
			return vdom.Mount(row, it.ID)
		}
		return vdom.Mount(row)
	})
	buttons := vdom.Range(items, func(it Item, i int) *vdom.VNode {
		id := it.ID
		return vdom.Button(vdom.Key("remove-"+id), vdom.OnClick(func() { remove(id) }), vdom.Text("remove "+it.Label))
	})

	return vdom.Div(vdom.Class("todo"),
		vdom.Ul(rows),
		vdom.Div(vdom.Class("controls"), buttons),
	)
}

// TodoRow is one row. Done is local state of the row instance.
type TodoRow struct {
	ID    string
	Label string
}

func (r TodoRow) Render(ctx context.Context) *vdom.VNode {
	done, set := reactor.UseState(ctx, false)
	mark := "[ ]"
	if done {
		mark = "[x]"
	}
	return vdom.Li(
		vdom.Button(vdom.Key("toggle-"+r.ID), vdom.OnClick(func() { set.Set(!done) }), vdom.Text(mark)),
		vdom.Text(" "+r.Label),
	)
}

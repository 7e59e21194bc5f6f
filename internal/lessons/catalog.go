package lessons

import (
	"sort"
	"time"

	"github.com/vango-go/reactor/pkg/vdom"
)

// Lesson is a runnable tutorial component.
type Lesson struct {
	Name    string
	Summary string
	// New builds a fresh root component.
	New func() vdom.Component
}

// DemoUsers is the directory the CLI's user lesson reads from.
func DemoUsers() *Directory {
	return NewDirectory(300*time.Millisecond,
		User{ID: "1", Name: "Ada Lovelace"},
		User{ID: "2", Name: "Grace Hopper"},
	)
}

var catalog = map[string]Lesson{
	"counter": {
		Name:    "counter",
		Summary: "updates in one event coalesce into one render",
		New:     func() vdom.Component { return vdom.NamedFunc("Counter", Counter) },
	},
	"todo-keyed": {
		Name:    "todo-keyed",
		Summary: "keyed rows keep their state when items move",
		New:     func() vdom.Component { return TodoList{Keyed: true} },
	},
	"todo-unkeyed": {
		Name:    "todo-unkeyed",
		Summary: "unkeyed rows keep their state at their position",
		New:     func() vdom.Component { return TodoList{} },
	},
	"theme": {
		Name:    "theme",
		Summary: "context reaches readers below components that bail out",
		New:     func() vdom.Component { return vdom.NamedFunc("ThemeApp", ThemeApp) },
	},
	"clock": {
		Name:    "clock",
		Summary: "a timer effect dispatches ticks and stops on cleanup",
		New: func() vdom.Component {
			return Clock{Source: RealTicks{}, Interval: time.Second}
		},
	},
	"user": {
		Name:    "user",
		Summary: "a fetch effect keyed on the user id drops stale responses",
		New: func() vdom.Component {
			return vdom.NamedFunc("UserPage", UserPageFor(DemoUsers()))
		},
	},
}

// Get returns the lesson called name.
func Get(name string) (Lesson, bool) {
	l, ok := catalog[name]
	return l, ok
}

// All returns every lesson sorted by name.
func All() []Lesson {
	out := make([]Lesson, 0, len(catalog))
	for _, l := range catalog {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

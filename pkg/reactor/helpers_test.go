package reactor

import (
	"context"
	"sync"
	"testing"

	"github.com/vango-go/reactor/pkg/vdom"
)

// recorder is a Host that keeps every commit.
type recorder struct {
	mu      sync.Mutex
	commits []*Commit
	notify  chan *Commit
}

func (h *recorder) Commit(c *Commit) error {
	h.mu.Lock()
	h.commits = append(h.commits, c)
	h.mu.Unlock()
	if h.notify != nil {
		h.notify <- c
	}
	return nil
}

func (h *recorder) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.commits)
}

func (h *recorder) last() *Commit {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.commits) == 0 {
		return nil
	}
	return h.commits[len(h.commits)-1]
}

// errorSink is an ErrorBoundary that keeps every reported error.
type errorSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *errorSink) HandleError(err error) {
	s.mu.Lock()
	s.errs = append(s.errs, err)
	s.mu.Unlock()
}

func (s *errorSink) all() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.errs...)
}

// fn builds a named component from a render function.
func fn(name string, render func(ctx context.Context) *vdom.VNode) vdom.Component {
	return vdom.NamedFunc(name, render)
}

func newTestRoot(t *testing.T, opts ...Option) (*Root, *recorder, *errorSink) {
	t.Helper()
	host := &recorder{}
	sink := &errorSink{}
	opts = append([]Option{WithErrorBoundary(sink)}, opts...)
	return NewRoot(host, opts...), host, sink
}

func mount(t *testing.T, r *Root, c vdom.Component) {
	t.Helper()
	if err := r.Mount(c); err != nil {
		t.Fatalf("Mount: %v", err)
	}
}

// click triggers the click handler of the element carrying key.
func click(t *testing.T, r *Root, key string) error {
	t.Helper()
	node := vdom.FindByKey(r.Tree(), key)
	if node == nil {
		t.Fatalf("no element with key %q in committed tree", key)
	}
	if node.HID == "" {
		t.Fatalf("element %q has no HID", key)
	}
	return r.Trigger(node.HID, vdom.Event{Type: "click"})
}

func text(r *Root) string {
	return vdom.TextContent(r.Tree())
}

// find returns the first instance named name.
func find(r *Root, name string) *Instance {
	var found *Instance
	if r.top == nil {
		return nil
	}
	r.top.walk(func(inst *Instance) bool {
		if found == nil && inst.name == name {
			found = inst
		}
		return found == nil
	})
	return found
}

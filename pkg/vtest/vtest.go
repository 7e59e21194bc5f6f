package vtest

import (
	"strings"
	"sync"
	"testing"

	"github.com/vango-go/reactor/pkg/host"
	"github.com/vango-go/reactor/pkg/reactor"
	"github.com/vango-go/reactor/pkg/render"
	"github.com/vango-go/reactor/pkg/vdom"
)

// Harness drives one mounted component.
type Harness struct {
	t    testing.TB
	root *reactor.Root
	rec  *host.Recorder

	mu   sync.Mutex
	errs []error
}

// Mount mounts c on a new root and fails the test if the first flush fails.
// The root is closed when the test ends.
//
// Example:
//
//	h := vtest.Mount(t, vdom.NamedFunc("App", App), reactor.WithConfig(cfg))
func Mount(t testing.TB, c vdom.Component, opts ...reactor.Option) *Harness {
	t.Helper()
	h, err := MountErr(t, c, opts...)
	if err != nil {
		t.Fatalf("mount: %v", err)
	}
	return h
}

// MountErr is Mount that returns the mount error instead of failing.
func MountErr(t testing.TB, c vdom.Component, opts ...reactor.Option) (*Harness, error) {
	t.Helper()
	h := &Harness{t: t, rec: host.NewRecorder()}
	opts = append([]reactor.Option{reactor.WithErrorBoundary(reactor.ErrorBoundaryFunc(h.keep))}, opts...)
	h.root = reactor.NewRoot(h.rec, opts...)
	t.Cleanup(func() { h.root.Close() })
	return h, h.root.Mount(c)
}

func (h *Harness) keep(err error) {
	h.mu.Lock()
	h.errs = append(h.errs, err)
	h.mu.Unlock()
}

// Root returns the harness's root.
func (h *Harness) Root() *reactor.Root { return h.root }

// Tree returns the last committed tree.
func (h *Harness) Tree() *vdom.VNode { return h.root.Tree() }

// Text returns the text content of the last committed tree.
func (h *Harness) Text() string { return vdom.TextContent(h.root.Tree()) }

// HTML returns the printed markup of the last committed tree.
func (h *Harness) HTML() string { return render.String(h.root.Tree()) }

// Commits returns every commit so far, oldest first.
func (h *Harness) Commits() []*reactor.Commit { return h.rec.Commits() }

// Errors returns the errors reported to the root's error boundary.
func (h *Harness) Errors() []error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]error(nil), h.errs...)
}

// Act runs fn as one event and fails the test on error.
func (h *Harness) Act(fn func()) {
	h.t.Helper()
	if err := h.root.Act(fn); err != nil {
		h.t.Fatalf("act: %v", err)
	}
}

// Flush runs queued dispatches and pending renders and fails the test on
// error.
func (h *Harness) Flush() {
	h.t.Helper()
	if err := h.root.Flush(); err != nil {
		h.t.Fatalf("flush: %v", err)
	}
}

// FindByKey returns the committed element carrying key, failing the test
// when there is none.
func (h *Harness) FindByKey(key string) *vdom.VNode {
	h.t.Helper()
	node := vdom.FindByKey(h.root.Tree(), key)
	if node == nil {
		h.t.Fatalf("no element with key %q in:\n%s", key, truncate(h.HTML(), 500))
	}
	return node
}

// Fire triggers evt on the element carrying key and returns the error.
func (h *Harness) Fire(key string, evt vdom.Event) error {
	h.t.Helper()
	return h.root.Trigger(h.FindByKey(key).HID, evt)
}

// Click clicks the element carrying key and fails the test on error.
func (h *Harness) Click(key string) {
	h.t.Helper()
	if err := h.Fire(key, vdom.Event{Type: "click"}); err != nil {
		h.t.Fatalf("click %q: %v", key, err)
	}
}

// Input sends an input event with value to the element carrying key.
func (h *Harness) Input(key, value string) {
	h.t.Helper()
	if err := h.Fire(key, vdom.Event{Type: "input", Value: value}); err != nil {
		h.t.Fatalf("input %q: %v", key, err)
	}
}

// ExpectText asserts the text content of the committed tree.
func ExpectText(t testing.TB, h *Harness, want string) {
	t.Helper()
	if got := h.Text(); got != want {
		t.Errorf("expected text %q, got %q", want, got)
	}
}

// ExpectContains asserts that the printed tree contains expected.
//
// Example:
//
//	vtest.ExpectContains(t, h.Tree(), "Welcome Admin")
func ExpectContains(t testing.TB, node *vdom.VNode, expected string) {
	t.Helper()
	out := render.String(node)
	if !strings.Contains(out, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(out, 500))
	}
}

// ExpectNotContains asserts that the printed tree does not contain
// unexpected.
func ExpectNotContains(t testing.TB, node *vdom.VNode, unexpected string) {
	t.Helper()
	out := render.String(node)
	if strings.Contains(out, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(out, 500))
	}
}

// ExpectElement asserts that the printed tree contains a tag.
func ExpectElement(t testing.TB, node *vdom.VNode, tag string) {
	t.Helper()
	out := render.String(node)
	if !strings.Contains(out, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(out, 500))
	}
}

// ExpectAttribute asserts that the printed tree contains attr="value".
//
// Example:
//
//	vtest.ExpectAttribute(t, h.Tree(), "class", "btn-primary")
func ExpectAttribute(t testing.TB, node *vdom.VNode, attr, value string) {
	t.Helper()
	out := render.String(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(out, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(out, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

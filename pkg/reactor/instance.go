package reactor

import (
	"sync/atomic"

	"github.com/vango-go/reactor/pkg/vdom"
)

var instanceIDs atomic.Uint64

// Instance is the runtime record of one mounted component at one tree
// position. It is created the first time its position renders and disposed
// when its parent renders without it.
//
// All fields are owned by the root's render goroutine. Only the disposed
// and detached flags are read from setters on other goroutines.
type Instance struct {
	id     uint64
	root   *Root
	parent *Instance // non-owning
	depth  int
	key    string // slot key within the parent's sibling group
	comp   vdom.Component
	name   string

	hooks     []hook
	hookIdx   int
	effects   []*effectRecord
	rendering bool
	rendered  bool
	renders   uint64

	// bindings are the context values this instance provides, keyed by
	// context identity.
	bindings map[any]*binding

	groups   map[string][]*ChildSlot
	slots    map[*vdom.VNode]*Instance
	children []*Instance
	tree     *vdom.VNode

	disposed atomic.Bool
	detached atomic.Bool
}

func newInstance(r *Root, parent *Instance, comp vdom.Component, key string) *Instance {
	inst := &Instance{
		id:     instanceIDs.Add(1),
		root:   r,
		parent: parent,
		key:    key,
		comp:   comp,
		name:   vdom.ComponentName(comp),
	}
	if parent != nil {
		inst.depth = parent.depth + 1
	}
	if inst.name == "" {
		inst.name = "Anonymous"
	}
	return inst
}

// ID returns the process-unique instance id.
func (i *Instance) ID() uint64 { return i.id }

// Name returns the component's display name.
func (i *Instance) Name() string { return i.name }

// Key returns the slot key the instance occupies among its siblings:
// "k:<key>" for explicit keys, "i:<index>" for positional ones.
func (i *Instance) Key() string { return i.key }

// Depth returns the distance from the root instance.
func (i *Instance) Depth() int { return i.depth }

// Parent returns the parent instance, or nil for the root instance.
func (i *Instance) Parent() *Instance { return i.parent }

// Component returns the component value of the last render.
func (i *Instance) Component() vdom.Component { return i.comp }

// Renders returns how many times the instance has rendered.
func (i *Instance) Renders() uint64 { return i.renders }

// IsDisposed reports whether the instance has been disposed.
func (i *Instance) IsDisposed() bool { return i.disposed.Load() }

// Children returns the child instances in render order.
func (i *Instance) Children() []*Instance {
	out := make([]*Instance, len(i.children))
	copy(out, i.children)
	return out
}

// EffectStates returns the lifecycle state of each effect in declaration
// order.
func (i *Instance) EffectStates() []EffectState {
	out := make([]EffectState, len(i.effects))
	for n, rec := range i.effects {
		out[n] = rec.state
	}
	return out
}

// gone reports whether state updates to the instance must be dropped.
func (i *Instance) gone() bool {
	return i.disposed.Load() || i.detached.Load()
}

// detach marks the subtree as leaving the tree. Disposal follows at commit.
func (i *Instance) detach() {
	i.detached.Store(true)
	for _, child := range i.children {
		child.detach()
	}
}

// release drops the references the instance holds once it is disposed.
func (i *Instance) release() {
	for _, h := range i.hooks {
		if read, ok := h.(*contextRead); ok && read.binding != nil {
			delete(read.binding.readers, i)
			read.binding = nil
		}
	}
	for _, b := range i.bindings {
		b.readers = nil
	}
	i.bindings = nil
	i.groups = nil
	i.slots = nil
	i.children = nil
	i.tree = nil
}

// walk visits the subtree pre-order. Returning false skips the children.
func (i *Instance) walk(fn func(*Instance) bool) {
	if !fn(i) {
		return
	}
	for _, child := range i.children {
		child.walk(fn)
	}
}

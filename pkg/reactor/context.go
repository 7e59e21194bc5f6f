package reactor

import (
	"context"

	"github.com/vango-go/reactor/pkg/deps"
	"github.com/vango-go/reactor/pkg/vdom"
)

// Context carries an ambient value to every descendant of a Provider
// without passing it through intermediate components.
//
// Each CreateContext call yields a distinct identity; two contexts of the
// same type never shadow each other.
type Context[T any] struct {
	def  T
	name string
}

// CreateContext creates a context whose readers see defaultValue when no
// Provider encloses them.
func CreateContext[T any](defaultValue T) *Context[T] {
	return &Context[T]{def: defaultValue}
}

// Named sets the display name used for the Provider in logs and the
// inspector. It returns c.
func (c *Context[T]) Named(name string) *Context[T] {
	c.name = name
	return c
}

// Default returns the value readers see outside any Provider.
func (c *Context[T]) Default() T {
	return c.def
}

// Provider binds value for the subtree formed by children. When a later
// render provides a value that is not deps.Same as before, every reader
// bound to this Provider is re-rendered, including readers below
// components that do not re-render themselves.
func (c *Context[T]) Provider(value T, children ...any) *vdom.VNode {
	return vdom.Mount(&provider[T]{ctx: c, value: value, children: children})
}

// Use reads the nearest enclosing value of c. It is a hook.
func (c *Context[T]) Use(ctx context.Context) T {
	return UseContext(ctx, c)
}

// UseContext reads the value bound by the nearest Provider of c above the
// rendering instance, or c's default. The instance is subscribed to that
// Provider's changes for as long as it is mounted.
func UseContext[T any](ctx context.Context, c *Context[T]) T {
	inst := scope(ctx)
	read := nextHook(inst, HookContext, func() *contextRead { return &contextRead{} })

	b := inst.lookup(c)
	if b != read.binding {
		if read.binding != nil {
			delete(read.binding.readers, inst)
		}
		if b != nil {
			b.readers[inst] = struct{}{}
		}
		read.binding = b
	}
	if b == nil {
		return c.def
	}
	return as[T](b.value)
}

// binding is one Provider's current value and the instances reading it.
type binding struct {
	owner   *Instance
	value   any
	readers map[*Instance]struct{}
}

type contextRead struct {
	binding *binding
}

func (*contextRead) hookType() HookType { return HookContext }

// lookup walks the ancestors of i for the nearest binding of key.
func (i *Instance) lookup(key any) *binding {
	for p := i.parent; p != nil; p = p.parent {
		if b, ok := p.bindings[key]; ok {
			return b
		}
	}
	return nil
}

// provide sets the instance's binding for key, scheduling its readers when
// the value changed.
func (i *Instance) provide(key any, value any) {
	if i.bindings == nil {
		i.bindings = make(map[any]*binding)
	}
	b, ok := i.bindings[key]
	if !ok {
		i.bindings[key] = &binding{
			owner:   i,
			value:   value,
			readers: make(map[*Instance]struct{}),
		}
		return
	}
	if deps.Same(b.value, value) {
		return
	}
	b.value = value
	for reader := range b.readers {
		i.root.schedule(reader)
	}
}

// Readers returns how many mounted instances read the binding i provides
// for the context key. Used by tests and the inspector.
func (i *Instance) Readers(key any) int {
	if b, ok := i.bindings[key]; ok {
		return len(b.readers)
	}
	return 0
}

type provider[T any] struct {
	ctx      *Context[T]
	value    T
	children []any
}

func (p *provider[T]) Render(ctx context.Context) *vdom.VNode {
	inst := scope(ctx)
	inst.provide(p.ctx, p.value)
	return vdom.Fragment(p.children...)
}

func (p *provider[T]) ComponentName() string {
	if p.ctx.name != "" {
		return p.ctx.name + ".Provider"
	}
	return "Provider"
}

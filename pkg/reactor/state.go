package reactor

import (
	"context"

	"github.com/vango-go/reactor/pkg/deps"
)

// stateCell is one UseState or UseReducer slot.
//
// value is written only by fold, on the render goroutine, under root.mu.
// queue, version and folding are guarded by root.mu. While folding is set
// value is about to change, so setters must queue instead of reading it.
type stateCell struct {
	inst    *Instance
	value   any
	queue   []func(any) any
	version uint64
	folding bool
}

func (*stateCell) hookType() HookType { return HookState }

// fold applies the updates queued before the render that is starting.
// Updates queued while the render runs stay queued for the next one.
func (c *stateCell) fold() {
	mu := &c.inst.root.mu
	mu.Lock()
	queue := c.queue
	c.queue = nil
	v := c.value
	if len(queue) == 0 {
		mu.Unlock()
		return
	}
	c.folding = true
	mu.Unlock()

	done := false
	defer func() {
		mu.Lock()
		if done {
			c.value = v
			c.version++
		}
		c.folding = false
		mu.Unlock()
	}()
	for _, update := range queue {
		v = update(v)
	}
	done = true
}

// enqueue records an update and schedules the owning instance.
func (c *stateCell) enqueue(update func(any) any) {
	inst := c.inst
	r := inst.root
	if inst.gone() {
		r.staleSetter(inst)
		return
	}

	r.mu.Lock()
	eager := r.cfg.EagerBailout && len(c.queue) == 0 && !c.folding
	base, version := c.value, c.version
	r.mu.Unlock()

	if eager {
		next := update(base)
		if deps.Same(base, next) {
			return
		}
		r.mu.Lock()
		if c.version == version && len(c.queue) == 0 && !c.folding {
			c.queue = append(c.queue, func(any) any { return next })
		} else {
			c.queue = append(c.queue, update)
		}
		r.mu.Unlock()
	} else {
		r.mu.Lock()
		c.queue = append(c.queue, update)
		r.mu.Unlock()
	}
	r.schedule(inst)
}

// Setter updates one state cell. It is safe to copy and to keep past the
// render that returned it; after the instance is disposed it does nothing.
type Setter[T any] struct {
	cell *stateCell
}

// Set queues v as the next value. Calls made while a render is running
// become visible on the instance's next render, never the current one.
func (s Setter[T]) Set(v T) {
	s.cell.enqueue(func(any) any { return v })
}

// Update queues fn. It receives the latest value including updates queued
// before it, so repeated calls compose.
func (s Setter[T]) Update(fn func(prev T) T) {
	s.cell.enqueue(func(cur any) any { return fn(as[T](cur)) })
}

// UseState declares a state cell. It must be called unconditionally and in
// the same order on every render of the component.
//
//	count, setCount := reactor.UseState(ctx, 0)
//	vdom.Button(vdom.OnClick(func() { setCount.Update(func(n int) int { return n + 1 }) }))
func UseState[T any](ctx context.Context, initial T) (T, Setter[T]) {
	inst := scope(ctx)
	cell := nextHook(inst, HookState, func() *stateCell {
		return &stateCell{inst: inst, value: initial}
	})
	return as[T](cell.value), Setter[T]{cell: cell}
}

// UseReducer declares a state cell driven by a reducer. The returned
// function queues an action; actions are reduced in order.
func UseReducer[S, A any](ctx context.Context, reducer func(state S, action A) S, initial S) (S, func(A)) {
	inst := scope(ctx)
	cell := nextHook(inst, HookState, func() *stateCell {
		return &stateCell{inst: inst, value: initial}
	})
	dispatch := func(action A) {
		cell.enqueue(func(cur any) any { return reducer(as[S](cur), action) })
	}
	return as[S](cell.value), dispatch
}

// Ref is a mutable box that survives renders. Writing Current never
// schedules a render.
type Ref[T any] struct {
	Current T
}

func (*Ref[T]) hookType() HookType { return HookRef }

// UseRef declares a ref initialized to initial on the first render.
func UseRef[T any](ctx context.Context, initial T) *Ref[T] {
	inst := scope(ctx)
	return nextHook(inst, HookRef, func() *Ref[T] {
		return &Ref[T]{Current: initial}
	})
}

type memoCell struct {
	value    any
	deps     deps.Deps
	computed bool
}

func (*memoCell) hookType() HookType { return HookMemo }

// UseMemo returns compute's result, recomputing it only when d differs
// from the tuple of the last computation.
func UseMemo[T any](ctx context.Context, compute func() T, d deps.Deps) T {
	inst := scope(ctx)
	cell := nextHook(inst, HookMemo, func() *memoCell { return &memoCell{} })

	recompute := !cell.computed
	if cell.computed {
		var err error
		recompute, err = deps.ShouldRerun(cell.deps, d)
		if err != nil {
			panic(&InconsistentStateShapeError{
				Component: inst.name,
				Position:  inst.hookIdx - 1,
				Previous:  HookMemo,
				Current:   HookMemo,
			})
		}
	}
	if recompute {
		cell.value = compute()
		cell.deps = d
		cell.computed = true
	}
	return as[T](cell.value)
}

// UseDispatch returns the root's Dispatch bound to the rendering instance.
// Effects use it to hand results from other goroutines back to the loop.
func UseDispatch(ctx context.Context) func(fn func()) bool {
	return scope(ctx).root.Dispatch
}

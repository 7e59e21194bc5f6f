// Package reactor is the update runtime behind vdom components: state cells
// that schedule re-renders, effects that run after commit under dependency
// gating, context values that reach descendants without parameter passing,
// and keyed identity for dynamic child lists.
//
// # Components and hooks
//
// A component implements vdom.Component. Its Render receives a context that
// carries the instance's render scope; hooks read the scope from it:
//
//	type Counter struct{}
//
//	func (Counter) Render(ctx context.Context) *vdom.VNode {
//	    count, setCount := reactor.UseState(ctx, 0)
//	    reactor.UseEffect(ctx, func() reactor.Cleanup {
//	        log.Printf("count is %d", count)
//	        return nil
//	    }, deps.On(count))
//	    return vdom.Button(
//	        vdom.OnClick(func() { setCount.Update(func(n int) int { return n + 1 }) }),
//	        vdom.Textf("%d", count),
//	    )
//	}
//
// Hooks are matched to their storage by call order. Call them
// unconditionally, in the same order, on every render. A render that
// declares a different sequence halts the root with
// *InconsistentStateShapeError or *InconsistentEffectShapeError.
//
// # Update cycle
//
// A state update marks its instance for re-render. The root then renders
// every marked instance, parents first, commits the resolved tree to the
// Host, disposes instances that left the tree and runs due effects, parent
// before child. Updates made by effects start another pass, up to
// Config.MaxPasses.
//
// Updates made during a render are never visible to that render; they show
// on the instance's next one. Updates made inside one Act, Trigger or
// dispatched function are coalesced into a single render.
//
// # Stale closures
//
// A closure captures the values of the render that created it. An effect
// whose tuple does not list a value it reads keeps seeing the old value, and
// a handler that calls Set(count+1) three times sets 1 three times. Use
// Setter.Update when the next value depends on the previous one, and list
// every value an effect reads in its tuple.
//
// # Concurrency
//
// All renders, commits and effects of one Root run one at a time. Setters
// and Dispatch may be called from any goroutine; code running elsewhere
// should hand results back with Dispatch (see UseDispatch) rather than call
// setters directly, so that they are coalesced with the rest of the event.
package reactor

package reactor

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-go/reactor/pkg/deps"
	"github.com/vango-go/reactor/pkg/vdom"
)

func counter(onRender func(int)) vdom.Component {
	return fn("Counter", func(ctx context.Context) *vdom.VNode {
		count, setCount := UseState(ctx, 0)
		if onRender != nil {
			onRender(count)
		}
		inc := func() { setCount.Update(func(n int) int { return n + 1 }) }
		return vdom.Div(
			vdom.Span(vdom.Key("value"), vdom.Textf("%d", count)),
			vdom.Button(vdom.Key("inc3"), vdom.OnClick(func() {
				inc()
				inc()
				inc()
			})),
		)
	})
}

func TestCounterCoalescesUpdates(t *testing.T) {
	r, host, _ := newTestRoot(t)
	var seen []int
	mount(t, r, counter(func(n int) { seen = append(seen, n) }))

	if err := click(t, r, "inc3"); err != nil {
		t.Fatalf("click: %v", err)
	}

	if got := text(r); got != "3" {
		t.Errorf("text = %q, want %q", got, "3")
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 3 {
		t.Errorf("renders saw %v, want [0 3]", seen)
	}
	if host.count() != 2 {
		t.Errorf("commits = %d, want 2", host.count())
	}
}

func TestStaleClosureSetsSameValue(t *testing.T) {
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Stale", func(ctx context.Context) *vdom.VNode {
		count, setCount := UseState(ctx, 0)
		return vdom.Button(vdom.Key("btn"), vdom.OnClick(func() {
			setCount.Set(count + 1)
			setCount.Set(count + 1)
			setCount.Set(count + 1)
		}), vdom.Textf("%d", count))
	}))

	if err := click(t, r, "btn"); err != nil {
		t.Fatal(err)
	}
	if got := text(r); got != "1" {
		t.Errorf("text = %q, want %q", got, "1")
	}
}

func TestSetDuringRenderIsVisibleOnNextRender(t *testing.T) {
	r, _, _ := newTestRoot(t)
	var seen []string
	mount(t, r, fn("Derived", func(ctx context.Context) *vdom.VNode {
		value, setValue := UseState(ctx, "initial")
		seen = append(seen, value)
		if value == "initial" {
			setValue.Set("adjusted")
			if value != "initial" {
				t.Error("value changed within the same render")
			}
		}
		return vdom.Text(value)
	}))

	if len(seen) != 2 || seen[0] != "initial" || seen[1] != "adjusted" {
		t.Fatalf("renders saw %v, want [initial adjusted]", seen)
	}
	if got := text(r); got != "adjusted" {
		t.Errorf("committed text = %q", got)
	}
}

func TestEagerBailout(t *testing.T) {
	var set Setter[int]
	renders := 0
	comp := fn("Bail", func(ctx context.Context) *vdom.VNode {
		renders++
		v, s := UseState(ctx, 7)
		set = s
		return vdom.Textf("%d", v)
	})

	r, _, _ := newTestRoot(t)
	mount(t, r, comp)
	if err := r.Act(func() { set.Set(7) }); err != nil {
		t.Fatal(err)
	}
	if renders != 1 {
		t.Errorf("same-value Set rendered: renders = %d, want 1", renders)
	}

	cfg := DefaultConfig()
	cfg.EagerBailout = false
	renders = 0
	r2, _, _ := newTestRoot(t, WithConfig(cfg))
	mount(t, r2, comp)
	if err := r2.Act(func() { set.Set(7) }); err != nil {
		t.Fatal(err)
	}
	if renders != 2 {
		t.Errorf("without bail-out renders = %d, want 2", renders)
	}
}

func TestUpdateComposesAfterSet(t *testing.T) {
	var set Setter[int]
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Compose", func(ctx context.Context) *vdom.VNode {
		v, s := UseState(ctx, 1)
		set = s
		return vdom.Textf("%d", v)
	}))

	err := r.Act(func() {
		set.Set(10)
		set.Update(func(n int) int { return n * 2 })
		set.Update(func(n int) int { return n + 1 })
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := text(r); got != "21" {
		t.Errorf("text = %q, want 21", got)
	}
}

func TestUseReducer(t *testing.T) {
	type action struct {
		op string
		n  int
	}
	reducer := func(total int, a action) int {
		switch a.op {
		case "add":
			return total + a.n
		case "reset":
			return 0
		}
		return total
	}

	var dispatch func(action)
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Total", func(ctx context.Context) *vdom.VNode {
		total, d := UseReducer(ctx, reducer, 5)
		dispatch = d
		return vdom.Textf("%d", total)
	}))

	if err := r.Act(func() {
		dispatch(action{"add", 2})
		dispatch(action{"add", 3})
	}); err != nil {
		t.Fatal(err)
	}
	if got := text(r); got != "10" {
		t.Errorf("text = %q, want 10", got)
	}

	if err := r.Act(func() { dispatch(action{op: "reset"}) }); err != nil {
		t.Fatal(err)
	}
	if got := text(r); got != "0" {
		t.Errorf("text after reset = %q, want 0", got)
	}
}

func TestUseRefDoesNotRender(t *testing.T) {
	var ref *Ref[int]
	renders := 0
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Ref", func(ctx context.Context) *vdom.VNode {
		renders++
		ref = UseRef(ctx, 0)
		return nil
	}))
	first := ref

	if err := r.Act(func() { ref.Current = 42 }); err != nil {
		t.Fatal(err)
	}
	if renders != 1 {
		t.Errorf("writing a ref rendered: renders = %d", renders)
	}
	if ref != first || ref.Current != 42 {
		t.Errorf("ref identity or value lost: %p vs %p, %d", ref, first, ref.Current)
	}
}

func TestUseMemoRecomputesOnDepsChange(t *testing.T) {
	var setA, setB Setter[int]
	computed := 0
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Memo", func(ctx context.Context) *vdom.VNode {
		a, sa := UseState(ctx, 1)
		b, sb := UseState(ctx, 1)
		setA, setB = sa, sb
		doubled := UseMemo(ctx, func() int {
			computed++
			return a * 2
		}, deps.On(a))
		return vdom.Textf("%d/%d", doubled, b)
	}))

	if err := r.Act(func() { setB.Set(2) }); err != nil {
		t.Fatal(err)
	}
	if computed != 1 {
		t.Errorf("memo recomputed on unrelated change: %d", computed)
	}
	if err := r.Act(func() { setA.Set(5) }); err != nil {
		t.Fatal(err)
	}
	if computed != 2 || text(r) != "10/2" {
		t.Errorf("computed = %d, text = %q", computed, text(r))
	}
}

func TestStateShapeChangeHalts(t *testing.T) {
	var toggle Setter[bool]
	r, _, sink := newTestRoot(t)
	mount(t, r, fn("Conditional", func(ctx context.Context) *vdom.VNode {
		extra, set := UseState(ctx, false)
		toggle = set
		if extra {
			UseState(ctx, "oops")
		}
		return vdom.Text("ok")
	}))

	err := r.Act(func() { toggle.Set(true) })
	var shapeErr *InconsistentStateShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Act error = %v, want InconsistentStateShapeError", err)
	}
	if shapeErr.Component != "Conditional" || shapeErr.Position != 1 {
		t.Errorf("shape error = %+v", shapeErr)
	}
	if shapeErr.Previous != 0 || shapeErr.Current != HookState {
		t.Errorf("previous/current = %s/%s", shapeErr.Previous, shapeErr.Current)
	}

	if !errors.As(r.Err(), &shapeErr) {
		t.Errorf("Err() = %v", r.Err())
	}
	if err := r.Act(func() {}); !errors.Is(err, ErrHalted) {
		t.Errorf("Act after halt = %v, want ErrHalted", err)
	}
	if text(r) != "ok" {
		t.Errorf("last good tree should stay committed, got %q", text(r))
	}
	if len(sink.all()) != 1 {
		t.Errorf("boundary got %d errors, want 1", len(sink.all()))
	}
}

func TestFewerHooksHalts(t *testing.T) {
	var toggle Setter[bool]
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Shrinking", func(ctx context.Context) *vdom.VNode {
		short, set := UseState(ctx, false)
		toggle = set
		if !short {
			UseState(ctx, 0)
		}
		return nil
	}))

	err := r.Act(func() { toggle.Set(true) })
	var shapeErr *InconsistentStateShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Act error = %v, want InconsistentStateShapeError", err)
	}
	if shapeErr.Previous != HookState || shapeErr.Current != 0 {
		t.Errorf("previous/current = %s/%s", shapeErr.Previous, shapeErr.Current)
	}
}

func TestHookKindSwapHalts(t *testing.T) {
	var toggle Setter[bool]
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Swap", func(ctx context.Context) *vdom.VNode {
		swapped, set := UseState(ctx, false)
		toggle = set
		if swapped {
			UseRef(ctx, 0)
		} else {
			UseMemo(ctx, func() int { return 1 }, deps.Once())
		}
		return nil
	}))

	err := r.Act(func() { toggle.Set(true) })
	var shapeErr *InconsistentStateShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("Act error = %v", err)
	}
	if shapeErr.Previous != HookMemo || shapeErr.Current != HookRef {
		t.Errorf("previous/current = %s/%s", shapeErr.Previous, shapeErr.Current)
	}
}

func TestSetterAfterDisposalIsNoop(t *testing.T) {
	var showChild Setter[bool]
	var childSet Setter[int]
	child := fn("Child", func(ctx context.Context) *vdom.VNode {
		v, s := UseState(ctx, 0)
		childSet = s
		return vdom.Textf("%d", v)
	})

	r, host, _ := newTestRoot(t)
	mount(t, r, fn("Parent", func(ctx context.Context) *vdom.VNode {
		show, s := UseState(ctx, true)
		showChild = s
		return vdom.Div(vdom.If(show, vdom.Mount(child)))
	}))

	if err := r.Act(func() { showChild.Set(false) }); err != nil {
		t.Fatal(err)
	}
	commits := host.count()

	if err := r.Act(func() { childSet.Set(99) }); err != nil {
		t.Fatalf("setter after disposal returned %v", err)
	}
	if host.count() != commits {
		t.Error("setter after disposal caused a commit")
	}
	if got := r.Stats().StaleSets; got != 1 {
		t.Errorf("StaleSets = %d, want 1", got)
	}
}

func TestHookOutsideRenderPanics(t *testing.T) {
	defer func() {
		p := recover()
		err, ok := p.(error)
		if !ok || !errors.Is(err, ErrHookOutsideRender) {
			t.Fatalf("recovered %v, want ErrHookOutsideRender", p)
		}
	}()
	UseState(context.Background(), 0)
}

func TestHookWithStaleRenderContextPanics(t *testing.T) {
	var saved context.Context
	r, _, _ := newTestRoot(t)
	mount(t, r, fn("Saver", func(ctx context.Context) *vdom.VNode {
		saved = ctx
		UseState(ctx, 0)
		return nil
	}))

	defer func() {
		if p := recover(); p == nil {
			t.Fatal("hook with a finished render context should panic")
		}
	}()
	UseState(saved, 0)
}

func TestUpdateFromAnotherGoroutineDuringFoldIsKept(t *testing.T) {
	r, _, _ := newTestRoot(t)
	var set Setter[int]
	mount(t, r, fn("Value", func(ctx context.Context) *vdom.VNode {
		n, s := UseState(ctx, 0)
		set = s
		return vdom.Span(vdom.Textf("%d", n))
	}))

	entered := make(chan struct{})
	release := make(chan struct{})
	set.Set(5)
	set.Update(func(n int) int {
		close(entered)
		<-release
		return n
	})

	flushed := make(chan error, 1)
	go func() { flushed <- r.Flush() }()

	<-entered
	set.Update(func(n int) int { return n + 1 })
	close(release)

	if err := <-flushed; err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := text(r); got != "6" {
		t.Errorf("text = %q, want %q", got, "6")
	}
}

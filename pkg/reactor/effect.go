package reactor

import (
	"context"

	"github.com/vango-go/reactor/pkg/deps"
)

// Cleanup undoes an effect. It runs before the effect's next run and when
// the instance is disposed. A nil Cleanup is allowed.
type Cleanup func()

// EffectState is the lifecycle state of one effect record.
type EffectState uint8

const (
	// EffectUnregistered: the position has not been declared yet.
	EffectUnregistered EffectState = iota
	// EffectPending: declared and due to run after the next commit.
	EffectPending
	// EffectCommitted: ran; its cleanup, if any, is held.
	EffectCommitted
	// EffectCleanupPending: due to re-run; the held cleanup runs first.
	EffectCleanupPending
	// EffectDisposed: the instance is gone. Terminal.
	EffectDisposed
)

// String returns a human-readable name for the state.
func (s EffectState) String() string {
	switch s {
	case EffectUnregistered:
		return "Unregistered"
	case EffectPending:
		return "Pending"
	case EffectCommitted:
		return "Committed"
	case EffectCleanupPending:
		return "CleanupPending"
	case EffectDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

type effectRecord struct {
	index int
	body  func() Cleanup

	// declared is the tuple of the latest render, last the tuple of the
	// latest run.
	declared deps.Deps
	last     deps.Deps
	seen     bool
	ran      bool

	scheduled bool
	cleanup   Cleanup
	state     EffectState
}

func (*effectRecord) hookType() HookType { return HookEffect }

// UseEffect declares a side effect that runs after the render is committed.
//
// d gates re-runs: deps.Always (nil) runs after every commit, deps.Once()
// runs once for the instance's lifetime, deps.On(a, b) runs again when a or
// b is not deps.Same as on the last run. body may return a Cleanup, which
// runs before the next run and when the instance is disposed.
//
// The body is replaced on every render, so a re-run sees the closure of the
// latest render. A body that is not re-run keeps the values it captured.
func UseEffect(ctx context.Context, body func() Cleanup, d deps.Deps) {
	inst := scope(ctx)
	rec := nextHook(inst, HookEffect, func() *effectRecord {
		rec := &effectRecord{index: len(inst.effects)}
		inst.effects = append(inst.effects, rec)
		return rec
	})

	if rec.seen && rec.declared != nil && d != nil && len(rec.declared) != len(d) {
		panic(&InconsistentEffectShapeError{
			Component: inst.name,
			Position:  inst.hookIdx - 1,
			Previous:  HookEffect,
			Current:   HookEffect,
			DepsLen:   [2]int{len(rec.declared), len(d)},
			Resized:   true,
		})
	}
	rec.body = body
	rec.declared = d
	rec.seen = true

	due := !rec.ran
	if rec.ran {
		var err error
		due, err = deps.ShouldRerun(rec.last, d)
		if err != nil {
			// The tuple resized across a nil declaration; nothing to
			// compare positionally.
			due = true
		}
	}
	rec.scheduled = due
	switch {
	case !due:
		if rec.ran {
			rec.state = EffectCommitted
		}
	case rec.cleanup != nil:
		rec.state = EffectCleanupPending
	default:
		rec.state = EffectPending
	}
}

// OnMount runs fn once after the instance's first commit.
func OnMount(ctx context.Context, fn func()) {
	UseEffect(ctx, func() Cleanup {
		fn()
		return nil
	}, deps.Once())
}

// OnUnmount runs fn when the instance is disposed. The fn of the latest
// render is the one called.
func OnUnmount(ctx context.Context, fn func()) {
	latest := UseRef(ctx, fn)
	latest.Current = fn
	UseEffect(ctx, func() Cleanup {
		return func() { latest.Current() }
	}, deps.Once())
}

// runEffect runs one scheduled effect: the held cleanup first, then the
// body. A panic in either is reported and does not stop other effects.
func (r *Root) runEffect(inst *Instance, rec *effectRecord) {
	if c := rec.cleanup; c != nil {
		rec.cleanup = nil
		r.counters.cleanups.Add(1)
		r.metrics.observeCleanup()
		if p, stack, ok := guard(c); !ok {
			r.reportEffect(inst, rec, PhaseCleanup, p, stack)
		}
	}

	var cleanup Cleanup
	p, stack, ok := guard(func() { cleanup = rec.body() })
	rec.last = rec.declared
	rec.ran = true
	rec.scheduled = false
	rec.state = EffectCommitted
	r.counters.effectRuns.Add(1)
	r.metrics.observeEffectRun()
	if r.cfg.DebugMode {
		r.logger.Debug("effect ran", "component", inst.name, "index", rec.index)
	}

	if !ok {
		r.reportEffect(inst, rec, PhaseBody, p, stack)
		return
	}
	rec.cleanup = cleanup
}

func (r *Root) reportEffect(inst *Instance, rec *effectRecord, phase EffectPhase, p any, stack []byte) {
	r.counters.effectErrors.Add(1)
	r.metrics.observeEffectError(phase)
	r.report(&EffectExecutionError{
		Component: inst.name,
		Index:     rec.index,
		Phase:     phase,
		Value:     p,
		Stack:     stack,
	})
}

// runEffects walks the subtree pre-order and runs due effects in
// declaration order. It reports whether the flush budget held any back.
func (r *Root) runEffects(top *Instance) (throttled bool) {
	top.walk(func(inst *Instance) bool {
		if inst.gone() {
			return false
		}
		for _, rec := range inst.effects {
			if !rec.scheduled {
				continue
			}
			if err := r.budget.CheckEffectRun(); err != nil {
				throttled = true
				continue
			}
			r.runEffect(inst, rec)
		}
		return true
	})
	return throttled
}

// dispose tears the instance down: cleanups in reverse declaration order,
// then children in reverse order, then references. A failing cleanup skips
// the remaining cleanups of the same instance only.
func (r *Root) dispose(inst *Instance) {
	if inst.disposed.Swap(true) {
		return
	}

	failed := false
	for i := len(inst.effects) - 1; i >= 0; i-- {
		rec := inst.effects[i]
		c := rec.cleanup
		rec.cleanup = nil
		rec.scheduled = false
		rec.state = EffectDisposed
		if c == nil || failed {
			continue
		}
		r.counters.cleanups.Add(1)
		r.metrics.observeCleanup()
		if p, stack, ok := guard(c); !ok {
			failed = true
			r.reportEffect(inst, rec, PhaseCleanup, p, stack)
		}
	}

	for i := len(inst.children) - 1; i >= 0; i-- {
		r.dispose(inst.children[i])
	}

	inst.release()
	r.unschedule(inst)
	r.counters.mounted.Add(-1)
	r.metrics.observeUnmount()
	if r.cfg.DebugMode {
		r.logger.Debug("instance disposed", "component", inst.name, "id", inst.id)
	}
}

package reactor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/reactor/pkg/vdom"
)

// flushLocked renders everything scheduled, commits, disposes what left the
// tree and runs due effects; it repeats while effects schedule more work.
// The caller holds loopMu.
func (r *Root) flushLocked() error {
	if err := r.haltErr(); err != nil {
		return err
	}
	if r.top == nil {
		return nil
	}

	start := time.Now()
	ctx, span := r.tracer.Start(r.ctx, "reactor.flush",
		trace.WithAttributes(attribute.String("reactor.root_id", r.id)))
	defer span.End()

	r.budget.ResetFlush()
	passes := 0
	for r.hasScheduled() || r.effectsOwed {
		if passes >= r.cfg.MaxPasses {
			return r.fail(span, ErrRenderLimit)
		}
		passes++
		r.counters.passes.Add(1)

		rendered, err := r.renderPhase(ctx, passes)
		if err != nil {
			return r.fail(span, err)
		}
		if len(rendered) > 0 {
			r.commit(rendered)
		}
		r.runDisposals()

		r.effectsOwed = r.runEffects(r.top)
		if r.effectsOwed {
			r.logger.Debug("effect budget spent, deferring remaining effects",
				"limit", r.cfg.MaxEffectRunsPerFlush)
			r.requestFlush()
			break
		}
	}

	span.SetAttributes(attribute.Int("reactor.passes", passes))
	r.metrics.observeFlush(passes, time.Since(start).Seconds())
	return nil
}

func (r *Root) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	// Instances detached by the failed pass never reach a commit.
	r.disposals = nil
	return r.halt(err)
}

// renderPhase renders scheduled instances shallowest first until none are
// left and returns the names of the instances it rendered.
func (r *Root) renderPhase(ctx context.Context, pass int) ([]string, error) {
	ctx, span := r.tracer.Start(ctx, "reactor.render",
		trace.WithAttributes(attribute.Int("reactor.pass", pass)))
	defer span.End()

	clear(r.passRenders)
	r.passNames = r.passNames[:0]
	r.phaseCtx = ctx
	defer func() { r.phaseCtx = nil }()

	for {
		inst := r.nextScheduled()
		if inst == nil {
			break
		}
		if err := r.render(inst); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	span.SetAttributes(attribute.Int("reactor.renders", len(r.passNames)))
	if len(r.passNames) == 0 {
		return nil, nil
	}
	return append([]string(nil), r.passNames...), nil
}

// commit resolves the tree, assigns HIDs and hands it to the host.
func (r *Root) commit(rendered []string) {
	tree := resolve(r.top)
	vdom.AssignHIDs(tree, vdom.NewHIDGenerator())
	handlers := vdom.CollectHandlers(tree)

	r.mu.Lock()
	r.committed = tree
	r.handlers = handlers
	r.mu.Unlock()

	r.counters.commits.Add(1)
	r.metrics.observeCommit()
	r.publish(tree, rendered)
}

func (r *Root) publish(tree *vdom.VNode, rendered []string) {
	if r.host == nil {
		return
	}
	r.seq++
	c := &Commit{
		RootID:   r.id,
		Seq:      r.seq,
		Tree:     tree,
		Rendered: rendered,
		At:       time.Now(),
	}
	if err := r.host.Commit(c); err != nil {
		r.report(&HostError{Seq: c.Seq, Err: err})
	}
}

// runDisposals disposes the instances detached during the render phase.
func (r *Root) runDisposals() {
	pending := r.disposals
	r.disposals = nil
	for _, inst := range pending {
		r.dispose(inst)
	}
}

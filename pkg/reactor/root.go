package reactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-go/reactor/pkg/vdom"
)

const tracerName = "github.com/vango-go/reactor"

// flushRetryDelay is how long Run waits before retrying a flush the
// budget refused.
const flushRetryDelay = 20 * time.Millisecond

// Commit is one resolved tree handed to the host.
type Commit struct {
	RootID string
	Seq    uint64
	// Tree is the committed tree with component placeholders replaced by
	// their output and HIDs assigned. It is nil when the root unmounts.
	Tree *vdom.VNode
	// Rendered names the instances rendered for this commit, in order.
	Rendered []string
	At       time.Time
}

// Host consumes committed trees. Commit is called on the root's loop; a
// returned error is reported and does not stop the root.
type Host interface {
	Commit(c *Commit) error
}

// HostFunc adapts a function to Host.
type HostFunc func(c *Commit) error

// Commit implements Host.
func (f HostFunc) Commit(c *Commit) error {
	return f(c)
}

type counters struct {
	renders      atomic.Uint64
	commits      atomic.Uint64
	passes       atomic.Uint64
	effectRuns   atomic.Uint64
	cleanups     atomic.Uint64
	effectErrors atomic.Uint64
	dispatched   atomic.Uint64
	dropped      atomic.Uint64
	staleSets    atomic.Uint64
	mounted      atomic.Int64
}

// Root owns one component tree and the loop that renders it.
//
// Renders, commits and effects of a root run one at a time: inside Act,
// Flush, Trigger and Mount, or inside the Run loop. Dispatch and state
// setters are safe to call from any goroutine.
type Root struct {
	id       string
	cfg      Config
	host     Host
	logger   *slog.Logger
	boundary ErrorBoundary
	metrics  *Metrics
	tracer   trace.Tracer
	budget   *EffectBudget
	ctx      context.Context

	// loopMu serializes render/commit/effect work.
	loopMu sync.Mutex

	top         *Instance
	disposals   []*Instance
	passRenders map[*Instance]int
	passNames   []string
	phaseCtx    context.Context
	effectsOwed bool
	seq         uint64

	// mu guards the schedule, state queues and everything read by other
	// goroutines below.
	mu        sync.Mutex
	dirty     map[*Instance]struct{}
	committed *vdom.VNode
	handlers  map[string]any
	err       error

	renderCh   chan struct{}
	dispatchCh chan func()
	done       chan struct{}
	closed     atomic.Bool

	counters counters
}

// NewRoot creates a root that commits to host. host may be nil.
func NewRoot(host Host, opts ...Option) *Root {
	r := &Root{
		id:          uuid.NewString(),
		cfg:         DefaultConfig(),
		host:        host,
		logger:      slog.Default(),
		tracer:      otel.Tracer(tracerName),
		ctx:         context.Background(),
		passRenders: make(map[*Instance]int),
		dirty:       make(map[*Instance]struct{}),
		renderCh:    make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("root_id", r.id)
	if r.boundary == nil {
		r.boundary = logBoundary{logger: r.logger}
	}
	r.budget = NewEffectBudget(r.cfg.MaxEffectRunsPerFlush, r.cfg.MaxFlushesPerSecond, time.Second)
	r.dispatchCh = make(chan func(), r.cfg.DispatchQueue)
	return r
}

// ID returns the root's id.
func (r *Root) ID() string { return r.id }

// Config returns the root's effective configuration.
func (r *Root) Config() Config { return r.cfg }

// Mount renders c as the root component and flushes. A mounted tree is
// unmounted first.
func (r *Root) Mount(c vdom.Component) error {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if err := r.haltErr(); err != nil {
		return err
	}
	if r.top != nil {
		r.unmountLocked()
	}
	r.top = newInstance(r, nil, c, "")
	r.counters.mounted.Add(1)
	r.metrics.observeMount()
	r.schedule(r.top)
	return r.flushLocked()
}

// Unmount disposes the whole tree and commits an empty tree.
func (r *Root) Unmount() error {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if r.top == nil {
		return ErrNotMounted
	}
	r.unmountLocked()
	return nil
}

func (r *Root) unmountLocked() {
	top := r.top
	r.top = nil
	top.detach()
	r.runDisposals()
	r.dispose(top)
	r.effectsOwed = false

	r.mu.Lock()
	r.committed = nil
	r.handlers = nil
	clear(r.dirty)
	r.mu.Unlock()

	r.publish(nil, nil)
}

// Close unmounts the tree and stops Run. Dispatch returns false afterwards.
func (r *Root) Close() error {
	if r.closed.Swap(true) {
		return nil
	}
	r.loopMu.Lock()
	if r.top != nil {
		r.unmountLocked()
	}
	r.loopMu.Unlock()
	close(r.done)
	return nil
}

// Act runs fn as one external event: every state update inside it is
// coalesced into a single render pass, followed by commit and effects.
// A panic in fn is reported and returned; the flush still happens.
func (r *Root) Act(fn func()) error {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if err := r.haltErr(); err != nil {
		return err
	}
	return r.executeEvent(fn, "", "")
}

// Flush runs queued dispatches, each as its own event, then renders
// whatever is still scheduled.
func (r *Root) Flush() error {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	var errs []error
	for {
		select {
		case fn := <-r.dispatchCh:
			if err := r.haltErr(); err != nil {
				return err
			}
			if err := r.executeEvent(fn, "", ""); err != nil {
				errs = append(errs, err)
			}
		default:
			errs = append(errs, r.flushLocked())
			return errors.Join(errs...)
		}
	}
}

// Trigger invokes the handler bound to eventType on the element with hid
// in the last committed tree, then flushes.
func (r *Root) Trigger(hid string, evt vdom.Event) error {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()

	if err := r.haltErr(); err != nil {
		return err
	}
	h, err := r.handler(hid, evt.Type)
	if err != nil {
		return err
	}
	return r.executeEvent(func() { h(evt) }, hid, evt.Type)
}

// Fire is Trigger through the dispatch queue. It reports whether the event
// was queued.
func (r *Root) Fire(hid string, evt vdom.Event) bool {
	return r.Dispatch(func() {
		h, err := r.handler(hid, evt.Type)
		if err != nil {
			r.logger.Warn("event dropped", "hid", hid, "type", evt.Type, "error", err)
			return
		}
		h(evt)
	})
}

func (r *Root) handler(hid, eventType string) (vdom.Handler, error) {
	r.mu.Lock()
	raw, ok := r.handlers[vdom.HandlerKey(hid, eventType)]
	r.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrHandlerNotFound, eventType, hid)
	}
	return vdom.WrapHandler(raw)
}

// Dispatch queues fn to run on the root's loop as one external event. It
// is safe to call from any goroutine and reports whether fn was queued.
//
// Effects that start goroutines route their results back through Dispatch
// and call setters inside fn.
func (r *Root) Dispatch(fn func()) bool {
	if fn == nil || r.closed.Load() {
		return false
	}
	select {
	case r.dispatchCh <- fn:
		r.counters.dispatched.Add(1)
		return true
	case <-r.done:
		return false
	default:
		r.counters.dropped.Add(1)
		r.metrics.observeDispatchDropped()
		r.logger.Warn("dispatch queue full, discarding callback")
		return false
	}
}

// Run processes dispatched functions and scheduled renders until ctx is
// done, the root is closed, or a fatal error halts it.
func (r *Root) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-r.done:
			return nil

		case fn := <-r.dispatchCh:
			_ = r.Act(fn)
			if err := r.Err(); err != nil {
				return err
			}

		case <-r.renderCh:
			if err := r.budget.CheckFlush(); err != nil {
				r.logger.Debug("flush throttled")
				time.AfterFunc(flushRetryDelay, r.requestFlush)
				continue
			}
			_ = r.Flush()
			if err := r.Err(); err != nil {
				return err
			}
		}
	}
}

// Tree returns the last committed tree, or nil.
func (r *Root) Tree() *vdom.VNode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}

// Err returns the error that halted the root, or nil.
func (r *Root) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Instance returns the root instance, or nil when nothing is mounted. It
// must only be inspected from the loop or while the root is idle.
func (r *Root) Instance() *Instance {
	return r.top
}

// Stats is a point-in-time view of a root's counters.
type Stats struct {
	RootID       string      `json:"rootId"`
	Mounted      int64       `json:"mounted"`
	Renders      uint64      `json:"renders"`
	Commits      uint64      `json:"commits"`
	Passes       uint64      `json:"passes"`
	EffectRuns   uint64      `json:"effectRuns"`
	Cleanups     uint64      `json:"cleanups"`
	EffectErrors uint64      `json:"effectErrors"`
	Dispatched   uint64      `json:"dispatched"`
	Dropped      uint64      `json:"dropped"`
	StaleSets    uint64      `json:"staleSets"`
	Halted       bool        `json:"halted"`
	Budget       BudgetStats `json:"budget"`
}

// Stats returns the root's counters. Safe from any goroutine.
func (r *Root) Stats() Stats {
	c := &r.counters
	return Stats{
		RootID:       r.id,
		Mounted:      c.mounted.Load(),
		Renders:      c.renders.Load(),
		Commits:      c.commits.Load(),
		Passes:       c.passes.Load(),
		EffectRuns:   c.effectRuns.Load(),
		Cleanups:     c.cleanups.Load(),
		EffectErrors: c.effectErrors.Load(),
		Dispatched:   c.dispatched.Load(),
		Dropped:      c.dropped.Load(),
		StaleSets:    c.staleSets.Load(),
		Halted:       r.Err() != nil,
		Budget:       r.budget.Stats(),
	}
}

// InstanceSnapshot is a serializable view of an instance subtree.
type InstanceSnapshot struct {
	ID       uint64              `json:"id"`
	Name     string              `json:"name"`
	Key      string              `json:"key,omitempty"`
	Depth    int                 `json:"depth"`
	Renders  uint64              `json:"renders"`
	Effects  []string            `json:"effects,omitempty"`
	Children []*InstanceSnapshot `json:"children,omitempty"`
}

// Snapshot captures the instance tree. It waits for any flush in progress
// and is safe from any goroutine.
func (r *Root) Snapshot() *InstanceSnapshot {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	if r.top == nil {
		return nil
	}
	return snapshot(r.top)
}

func snapshot(inst *Instance) *InstanceSnapshot {
	s := &InstanceSnapshot{
		ID:      inst.id,
		Name:    inst.name,
		Key:     inst.key,
		Depth:   inst.depth,
		Renders: inst.renders,
	}
	for _, st := range inst.EffectStates() {
		s.Effects = append(s.Effects, st.String())
	}
	for _, child := range inst.children {
		s.Children = append(s.Children, snapshot(child))
	}
	return s
}

// schedule marks inst for re-render and wakes the loop.
func (r *Root) schedule(inst *Instance) {
	r.mu.Lock()
	r.dirty[inst] = struct{}{}
	r.mu.Unlock()
	r.requestFlush()
}

func (r *Root) unschedule(inst *Instance) {
	r.mu.Lock()
	delete(r.dirty, inst)
	r.mu.Unlock()
}

func (r *Root) isScheduled(inst *Instance) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.dirty[inst]
	return ok
}

func (r *Root) hasScheduled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dirty) > 0
}

// nextScheduled returns the shallowest scheduled instance, so a parent
// renders before any scheduled descendant. Instances leaving the tree are
// dropped from the schedule.
func (r *Root) nextScheduled() *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *Instance
	for inst := range r.dirty {
		if inst.gone() {
			delete(r.dirty, inst)
			continue
		}
		if best == nil || inst.depth < best.depth || (inst.depth == best.depth && inst.id < best.id) {
			best = inst
		}
	}
	return best
}

func (r *Root) requestFlush() {
	select {
	case r.renderCh <- struct{}{}:
	default:
		// Already requested
	}
}

func (r *Root) staleSetter(inst *Instance) {
	r.counters.staleSets.Add(1)
	r.metrics.observeStaleSetter()
	r.logger.Debug("state update after disposal ignored", "component", inst.name, "id", inst.id)
}

func (r *Root) report(err error) {
	if r.boundary != nil {
		r.boundary.HandleError(err)
	}
}

func (r *Root) haltErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrHalted, r.err)
}

// halt records a fatal error. The root stops rendering; the last committed
// tree stays readable.
func (r *Root) halt(err error) error {
	r.mu.Lock()
	if r.err == nil {
		r.err = err
	}
	r.mu.Unlock()
	r.metrics.observeHalt()
	r.report(err)
	return err
}

// executeEvent runs fn with panic recovery and flushes after it.
func (r *Root) executeEvent(fn func(), hid, eventType string) error {
	var handlerErr error
	if p, stack, ok := guard(fn); !ok {
		handlerErr = &HandlerError{HID: hid, Event: eventType, Value: p, Stack: stack}
		r.report(handlerErr)
	}
	return errors.Join(handlerErr, r.flushLocked())
}

// guard calls fn and recovers a panic.
func guard(fn func()) (p any, stack []byte, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			p = rec
			stack = debug.Stack()
			ok = false
		}
	}()
	fn()
	return nil, nil, true
}

package reactor

import (
	"errors"
	"sync"
	"time"
)

// ErrBudgetExceeded is returned by EffectBudget checks over their limit.
var ErrBudgetExceeded = errors.New("reactor: effect budget exceeded")

// EffectBudget bounds how much effect work a root does. It protects the
// loop from effects that cascade into more effects: runs per flush are
// capped, and flushes per window can be capped for roots fed by a noisy
// event source.
type EffectBudget struct {
	maxRunsPerFlush int
	runsThisFlush   int
	flushes         *slidingWindow

	mu sync.Mutex
}

// slidingWindow counts events within a time window.
type slidingWindow struct {
	events     []time.Time
	windowSize time.Duration
	maxEvents  int
	now        func() time.Time
	mu         sync.Mutex
}

func newSlidingWindow(windowSize time.Duration, maxEvents int) *slidingWindow {
	return &slidingWindow{
		windowSize: windowSize,
		maxEvents:  maxEvents,
		now:        time.Now,
	}
}

// tryAdd records an event if the window has room.
func (w *slidingWindow) tryAdd() bool {
	if w == nil || w.maxEvents == 0 {
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.evict(now)
	if len(w.events) >= w.maxEvents {
		return false
	}
	w.events = append(w.events, now)
	return true
}

func (w *slidingWindow) count() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.evict(w.now())
	return len(w.events)
}

func (w *slidingWindow) evict(now time.Time) {
	cutoff := now.Add(-w.windowSize)
	valid := 0
	for _, t := range w.events {
		if t.After(cutoff) {
			w.events[valid] = t
			valid++
		}
	}
	w.events = w.events[:valid]
}

// NewEffectBudget creates a budget. Zero limits disable the matching check.
func NewEffectBudget(maxRunsPerFlush, maxFlushesPerWindow int, window time.Duration) *EffectBudget {
	if window <= 0 {
		window = time.Second
	}
	b := &EffectBudget{maxRunsPerFlush: maxRunsPerFlush}
	if maxFlushesPerWindow > 0 {
		b.flushes = newSlidingWindow(window, maxFlushesPerWindow)
	}
	return b
}

// CheckEffectRun reserves one effect run in the current flush.
func (b *EffectBudget) CheckEffectRun() error {
	if b == nil || b.maxRunsPerFlush == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.runsThisFlush >= b.maxRunsPerFlush {
		return ErrBudgetExceeded
	}
	b.runsThisFlush++
	return nil
}

// CheckFlush reserves one flush in the window.
func (b *EffectBudget) CheckFlush() error {
	if b == nil || b.flushes.tryAdd() {
		return nil
	}
	return ErrBudgetExceeded
}

// ResetFlush starts a new per-flush count.
func (b *EffectBudget) ResetFlush() {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.runsThisFlush = 0
	b.mu.Unlock()
}

// BudgetStats reports current budget usage.
type BudgetStats struct {
	EffectRunsThisFlush int `json:"effectRunsThisFlush"`
	FlushesInWindow     int `json:"flushesInWindow"`
}

// Stats returns current budget usage.
func (b *EffectBudget) Stats() BudgetStats {
	if b == nil {
		return BudgetStats{}
	}
	b.mu.Lock()
	runs := b.runsThisFlush
	b.mu.Unlock()
	return BudgetStats{
		EffectRunsThisFlush: runs,
		FlushesInWindow:     b.flushes.count(),
	}
}

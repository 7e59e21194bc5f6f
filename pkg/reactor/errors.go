package reactor

import (
	"fmt"
	"log/slog"

	rerrors "github.com/vango-go/reactor/internal/errors"
)

// Sentinel errors. They are *errors.ReactorError values from the shared
// registry, so errors.Is matches them by identity.
var (
	// ErrHalted is returned by every root operation after a fatal error.
	ErrHalted = rerrors.New("R030")

	// ErrRenderLimit halts a root whose updates never settle.
	ErrRenderLimit = rerrors.New("R021")

	// ErrHookOutsideRender is the panic value of a hook called with a
	// context that carries no active render scope.
	ErrHookOutsideRender = rerrors.New("R003")

	// ErrNotMounted is returned by operations that need a mounted tree.
	ErrNotMounted = rerrors.New("R032")

	// ErrHandlerNotFound is returned by Trigger for an unknown element/event.
	ErrHandlerNotFound = rerrors.New("R031")
)

// InconsistentStateShapeError reports that a component declared a different
// number, order or kind of state hooks than on its previous render.
type InconsistentStateShapeError struct {
	Component string
	Position  int
	Previous  HookType // zero when the position is new
	Current   HookType // zero when the position went missing
}

func (e *InconsistentStateShapeError) Error() string {
	return e.Report().Error()
}

// Report returns the registry error for display.
func (e *InconsistentStateShapeError) Report() *rerrors.ReactorError {
	return rerrors.New("R001").
		WithComponent(e.Component).
		WithDetailf("hook %d was %s on the previous render and is %s now", e.Position, e.Previous, e.Current)
}

// InconsistentEffectShapeError reports a change in the number or order of
// effects, or in the length of an effect's dependency tuple.
type InconsistentEffectShapeError struct {
	Component string
	Position  int
	Previous  HookType
	Current   HookType

	// DepsLen holds the previous and current tuple lengths when the
	// shape change is a dependency tuple resize.
	DepsLen [2]int
	Resized bool
}

func (e *InconsistentEffectShapeError) Error() string {
	return e.Report().Error()
}

// Report returns the registry error for display.
func (e *InconsistentEffectShapeError) Report() *rerrors.ReactorError {
	err := rerrors.New("R002").WithComponent(e.Component)
	if e.Resized {
		return err.WithDetailf("dependency tuple of hook %d changed length from %d to %d", e.Position, e.DepsLen[0], e.DepsLen[1])
	}
	return err.WithDetailf("hook %d was %s on the previous render and is %s now", e.Position, e.Previous, e.Current)
}

// EffectPhase tells which part of an effect failed.
type EffectPhase string

const (
	PhaseBody    EffectPhase = "body"
	PhaseCleanup EffectPhase = "cleanup"
)

// EffectExecutionError wraps a panic raised by an effect body or cleanup.
// It is reported to the ErrorBoundary and never halts the root.
type EffectExecutionError struct {
	Component string
	Index     int // declaration index among the instance's effects
	Phase     EffectPhase
	Value     any
	Stack     []byte
}

func (e *EffectExecutionError) Error() string {
	return e.Report().Error()
}

// Unwrap returns the panic value when it is an error.
func (e *EffectExecutionError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Report returns the registry error for display.
func (e *EffectExecutionError) Report() *rerrors.ReactorError {
	code := "R010"
	if e.Phase == PhaseCleanup {
		code = "R011"
	}
	return rerrors.New(code).
		WithComponent(e.Component).
		Wrap(fmt.Errorf("effect %d: %v", e.Index, e.Value))
}

// RenderError wraps a panic raised by a component's Render. It is fatal.
type RenderError struct {
	Component string
	Value     any
	Stack     []byte
}

func (e *RenderError) Error() string {
	return e.Report().Error()
}

// Unwrap returns the panic value when it is an error.
func (e *RenderError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Report returns the registry error for display.
func (e *RenderError) Report() *rerrors.ReactorError {
	return rerrors.New("R020").WithComponent(e.Component).Wrap(fmt.Errorf("%v", e.Value))
}

// HandlerError wraps a panic raised by an event handler or a dispatched
// function. The root reports it and keeps flushing.
type HandlerError struct {
	HID   string // empty for dispatched functions
	Event string
	Value any
	Stack []byte
}

func (e *HandlerError) Error() string {
	return e.Report().Error()
}

// Unwrap returns the panic value when it is an error.
func (e *HandlerError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Report returns the registry error for display.
func (e *HandlerError) Report() *rerrors.ReactorError {
	err := rerrors.New("R033").Wrap(fmt.Errorf("%v", e.Value))
	if e.HID != "" {
		err.WithDetailf("handler %s for %q panicked", e.HID, e.Event)
	}
	return err
}

// HostError wraps an error returned by Host.Commit.
type HostError struct {
	Seq uint64
	Err error
}

func (e *HostError) Error() string {
	return rerrors.New("R060").WithDetailf("commit %d", e.Seq).Wrap(e.Err).Error()
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// ErrorBoundary receives errors the runtime contains instead of returning:
// effect failures, handler panics, host failures, and the error that halted
// the root.
type ErrorBoundary interface {
	HandleError(err error)
}

// ErrorBoundaryFunc adapts a function to ErrorBoundary.
type ErrorBoundaryFunc func(err error)

// HandleError implements ErrorBoundary.
func (f ErrorBoundaryFunc) HandleError(err error) {
	f(err)
}

type reporter interface {
	Report() *rerrors.ReactorError
}

// logBoundary is the default boundary: it logs each error.
type logBoundary struct {
	logger *slog.Logger
}

func (b logBoundary) HandleError(err error) {
	attrs := []any{"error", err}
	if r, ok := err.(reporter); ok {
		re := r.Report()
		attrs = append(attrs, "code", re.Code)
		if re.Component != "" {
			attrs = append(attrs, "component", re.Component)
		}
	}
	if ee, ok := err.(*EffectExecutionError); ok {
		attrs = append(attrs, "phase", string(ee.Phase))
	}
	b.logger.Error("reactor error", attrs...)
}

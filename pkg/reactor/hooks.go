package reactor

import "context"

// HookType identifies the kind of hook at a position.
type HookType uint8

const (
	HookState HookType = iota + 1
	HookEffect
	HookRef
	HookMemo
	HookContext
)

// String returns a human-readable name for the hook type.
func (h HookType) String() string {
	switch h {
	case 0:
		return "absent"
	case HookState:
		return "State"
	case HookEffect:
		return "Effect"
	case HookRef:
		return "Ref"
	case HookMemo:
		return "Memo"
	case HookContext:
		return "Context"
	default:
		return "Unknown"
	}
}

type hook interface {
	hookType() HookType
}

type scopeKey struct{}

// scopeOf returns the instance rendering under ctx, or nil.
func scopeOf(ctx context.Context) *Instance {
	if ctx == nil {
		return nil
	}
	inst, _ := ctx.Value(scopeKey{}).(*Instance)
	return inst
}

// scope returns the instance currently rendering under ctx and panics with
// ErrHookOutsideRender when there is none.
func scope(ctx context.Context) *Instance {
	inst := scopeOf(ctx)
	if inst == nil || !inst.rendering {
		panic(ErrHookOutsideRender)
	}
	return inst
}

// nextHook advances the instance's hook cursor and returns the hook stored
// there, creating it on the first render. Any other mismatch panics with a
// shape error, which halts the root.
func nextHook[H hook](inst *Instance, kind HookType, create func() H) H {
	idx := inst.hookIdx
	inst.hookIdx++

	if idx < len(inst.hooks) {
		h := inst.hooks[idx]
		if h.hookType() != kind {
			panic(inst.shapeError(idx, h.hookType(), kind))
		}
		return h.(H)
	}
	if inst.rendered {
		panic(inst.shapeError(idx, 0, kind))
	}
	h := create()
	inst.hooks = append(inst.hooks, h)
	return h
}

// checkHookCount validates that a completed render declared every hook of
// the previous one.
func (i *Instance) checkHookCount() error {
	if !i.rendered || i.hookIdx == len(i.hooks) {
		return nil
	}
	return i.shapeError(i.hookIdx, i.hooks[i.hookIdx].hookType(), 0)
}

func (i *Instance) shapeError(pos int, prev, cur HookType) error {
	if prev == HookEffect || cur == HookEffect {
		return &InconsistentEffectShapeError{
			Component: i.name,
			Position:  pos,
			Previous:  prev,
			Current:   cur,
		}
	}
	return &InconsistentStateShapeError{
		Component: i.name,
		Position:  pos,
		Previous:  prev,
		Current:   cur,
	}
}

// as converts a stored hook value back to T. A nil interface yields T's
// zero value.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

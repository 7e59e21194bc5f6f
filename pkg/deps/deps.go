package deps

import (
	"errors"
	"math"
	"reflect"
)

// ErrLengthChanged is returned by ShouldRerun when a dependency tuple changes
// length between renders of the same effect position.
var ErrLengthChanged = errors.New("deps: dependency tuple length changed between renders")

// Deps is an ordered dependency tuple.
//
// A nil Deps means "no tuple": the effect re-runs after every commit.
// An empty, non-nil Deps means "run once". Anything else is compared
// positionally against the tuple from the previous run.
type Deps []any

// Always is the nil tuple. Effects declared with it run after every commit.
var Always Deps

// Once returns the empty tuple. Effects declared with it run exactly once.
func Once() Deps {
	return Deps{}
}

// On builds a dependency tuple from values.
//
// On() with no arguments is equivalent to Once().
func On(values ...any) Deps {
	if values == nil {
		return Deps{}
	}
	return Deps(values)
}

// IsAlways reports whether d is the nil tuple.
func (d Deps) IsAlways() bool {
	return d == nil
}

// IsOnce reports whether d is the empty tuple.
func (d Deps) IsOnce() bool {
	return d != nil && len(d) == 0
}

// ShouldRerun reports whether an effect whose last run used prev must run
// again now that it declares next.
//
// The caller handles the first run; ShouldRerun only compares two tuples.
func ShouldRerun(prev, next Deps) (bool, error) {
	if next == nil {
		return true, nil
	}
	if len(next) == 0 {
		return false, nil
	}
	if prev == nil {
		// Previous run had no tuple; the new tuple has nothing to compare to.
		return true, nil
	}
	if len(prev) != len(next) {
		return false, ErrLengthChanged
	}
	for i := range next {
		if !Same(prev[i], next[i]) {
			return true, nil
		}
	}
	return false, nil
}

// Same reports whether a and b are the same value for dependency purposes.
//
// Scalars, strings and comparable structs or arrays compare by value.
// Pointers, maps, channels and slices compare by reference identity; two
// slices are the same only when they share a backing array start and length.
// Functions are never the same unless both are nil, since Go cannot compare
// closure identity. NaN is the same as NaN. Non-comparable structs are never
// the same. No deep equality is performed.
func Same(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && (av == bv || (math.IsNaN(av) && math.IsNaN(bv)))
	}
	if b == nil {
		return false
	}

	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Float32, reflect.Float64:
		fa, fb := va.Float(), vb.Float()
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	case reflect.Slice:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Func:
		return va.IsNil() && vb.IsNil()
	}

	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}

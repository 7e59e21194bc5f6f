package deps

import (
	"errors"
	"math"
	"testing"
)

type point struct{ X, Y int }

type tagged struct {
	Name string
	Tags []string
}

func TestShouldRerunAlways(t *testing.T) {
	rerun, err := ShouldRerun(On(1), Always)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rerun {
		t.Error("nil tuple should always re-run")
	}
}

func TestShouldRerunOnce(t *testing.T) {
	rerun, err := ShouldRerun(Once(), Once())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rerun {
		t.Error("empty tuple should never re-run after the first run")
	}
	if !Once().IsOnce() || Once().IsAlways() {
		t.Error("Once() should be the empty, non-nil tuple")
	}
	if !On().IsOnce() {
		t.Error("On() with no values should behave like Once()")
	}
}

func TestShouldRerunPositional(t *testing.T) {
	rerun, _ := ShouldRerun(On(1, "a"), On(1, "a"))
	if rerun {
		t.Error("identical tuples should not re-run")
	}

	rerun, _ = ShouldRerun(On(1, "a"), On(1, "b"))
	if !rerun {
		t.Error("changed second element should re-run")
	}

	rerun, _ = ShouldRerun(On(1, "a"), On(2, "a"))
	if !rerun {
		t.Error("changed first element should re-run")
	}
}

func TestShouldRerunFromAlways(t *testing.T) {
	rerun, err := ShouldRerun(Always, On(1))
	if err != nil || !rerun {
		t.Errorf("switching from no tuple to a tuple should re-run, got %v, %v", rerun, err)
	}
}

func TestShouldRerunLengthChanged(t *testing.T) {
	_, err := ShouldRerun(On(1), On(1, 2))
	if !errors.Is(err, ErrLengthChanged) {
		t.Fatalf("expected ErrLengthChanged, got %v", err)
	}
}

func TestSameScalars(t *testing.T) {
	if !Same(3, 3) || Same(3, 4) {
		t.Error("ints should compare by value")
	}
	if Same(3, int64(3)) {
		t.Error("values of different types should not be the same")
	}
	if !Same("x", "x") {
		t.Error("strings should compare by value")
	}
	if !Same(uint8(7), uint8(7)) {
		t.Error("uint8 should compare by value")
	}
	if !Same(math.NaN(), math.NaN()) {
		t.Error("NaN should be the same as NaN")
	}
	if !Same(float32(1.5), float32(1.5)) {
		t.Error("float32 should compare by value")
	}
	if !Same(nil, nil) || Same(nil, 0) || Same(0, nil) {
		t.Error("nil should only match nil")
	}
}

func TestSameComparableStruct(t *testing.T) {
	if !Same(point{1, 2}, point{1, 2}) {
		t.Error("comparable structs should compare by value")
	}
	if Same(point{1, 2}, point{2, 1}) {
		t.Error("different structs should differ")
	}
}

func TestSameReferenceIdentity(t *testing.T) {
	p := &point{1, 2}
	q := &point{1, 2}
	if !Same(p, p) {
		t.Error("pointer should be the same as itself")
	}
	if Same(p, q) {
		t.Error("distinct pointers with equal content should differ")
	}

	m := map[string]int{"a": 1}
	if !Same(m, m) {
		t.Error("map should be the same as itself")
	}
	if Same(m, map[string]int{"a": 1}) {
		t.Error("distinct maps should differ even with equal content")
	}

	s := []int{1, 2, 3}
	if !Same(s, s) {
		t.Error("slice should be the same as itself")
	}
	if Same(s, []int{1, 2, 3}) {
		t.Error("distinct slices should differ even with equal content")
	}
	if Same(s, s[:2]) {
		t.Error("re-sliced slice with a different length should differ")
	}
}

func TestSameFuncsNeverSame(t *testing.T) {
	f := func() {}
	if Same(f, f) {
		t.Error("functions cannot be compared and should never be the same")
	}
	var g, h func()
	if !Same(g, h) {
		t.Error("two nil functions should be the same")
	}
}

func TestSameNonComparableStruct(t *testing.T) {
	v := tagged{Name: "a", Tags: []string{"x"}}
	if Same(v, v) {
		t.Error("non-comparable structs should never be the same")
	}
}

func TestSameInterfaceHoldingSlice(t *testing.T) {
	type holder struct{ V any }
	a := holder{V: []int{1}}
	if Same(a, a) {
		t.Error("struct holding a slice in an interface field is not comparable")
	}
}

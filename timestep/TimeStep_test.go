package timestep

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestStepTypes(t *testing.T) {
	obs := mat.NewVecDense(2, []float64{1, 2})

	first := New(First, 0, 0.99, obs, 0)
	if !first.First() || first.Mid() || first.Last() {
		t.Errorf("first: want(First) have(%v)", first.StepType())
	}

	last := NewLast(MapRecycled, 1.5, 0.99, obs, 4)
	if !last.Last() || last.EndType != MapRecycled {
		t.Errorf("last: want(Last %v) have(%v %v)", MapRecycled,
			last.StepType(), last.EndType)
	}
	if s := last.String(); !strings.Contains(s, "MapRecycled") {
		t.Errorf("string: want(end type) have(%v)", s)
	}
}

func TestNewLastPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	NewLast(NotEnded, 0, 1, nil, 1)
}

package floatutils

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, want float64
	}{
		{-2, -1},
		{0.5, 0.5},
		{3, 1},
	}
	for _, test := range tests {
		if have := ClipInterval(test.value, r1.Interval{Min: -1, Max: 1}); have != test.want {
			t.Errorf("clip(%v): want(%v) have(%v)", test.value, test.want, have)
		}
	}
}

func TestMinMax(t *testing.T) {
	if m := Min(3, -1, 2); m != -1 {
		t.Errorf("min: want(-1) have(%v)", m)
	}
	if m := Max(3, -1, 2); m != 3 {
		t.Errorf("max: want(3) have(%v)", m)
	}
}

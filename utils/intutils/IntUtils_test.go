package intutils

import "testing"

func TestMinMax(t *testing.T) {
	ints := []int{3, -1, 7, 2}
	if min := Min(ints...); min != -1 {
		t.Errorf("min: want(-1) have(%v)", min)
	}
	if max := Max(ints...); max != 7 {
		t.Errorf("max: want(7) have(%v)", max)
	}
}

func TestProd(t *testing.T) {
	tests := []struct {
		ints []int
		want int
	}{
		{nil, 1},
		{[]int{4}, 4},
		{[]int{2, 3, 3, 8, 8}, 1152},
	}

	for _, test := range tests {
		if got := Prod(test.ints...); got != test.want {
			t.Errorf("prod(%v): want(%v) have(%v)", test.ints, test.want, got)
		}
	}
}

func TestCeilSqrt(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 1, 2: 2, 4: 2, 5: 3, 9: 3, 10: 4} {
		if got := CeilSqrt(n); got != want {
			t.Errorf("ceilSqrt(%v): want(%v) have(%v)", n, want, got)
		}
	}
}

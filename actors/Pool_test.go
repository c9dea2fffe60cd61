package actors

import (
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestPool(t *testing.T) {
	f := newFixture(t, nil)
	p := NewPool(f.maps)

	if p.Len() != 2 {
		t.Errorf("len: want(2) have(%v)", p.Len())
	}
	for _, m := range f.maps {
		if m.Active() {
			t.Errorf("%v should be inactive in the pool", m.Name())
		}
	}

	m := p.Request()
	if m != f.maps[0] || !m.Active() {
		t.Errorf("request: want(active map0) have(%v, %v)", m.Name(), m.Active())
	}
	p.Push(m)
	if m.Active() {
		t.Error("pushed map should be inactive")
	}

	// FIFO order
	if m := p.Request(); m != f.maps[1] {
		t.Errorf("request: want(map1) have(%v)", m.Name())
	}
	if m := p.Request(); m != f.maps[0] {
		t.Errorf("request: want(map0) have(%v)", m.Name())
	}
	if p.Len() != 0 {
		t.Errorf("len: want(0) have(%v)", p.Len())
	}

	p.Push(f.maps[0])
	p.Clear()
	if p.Len() != 0 || len(p.Maps()) != 2 {
		t.Errorf("clear: want(0, 2) have(%v, %v)", p.Len(), len(p.Maps()))
	}
}

func TestPoolPanics(t *testing.T) {
	f := newFixture(t, nil)
	p := NewPool(f.maps)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("pushing a queued map should panic")
			}
		}()
		p.Push(f.maps[0])
	}()

	p.Clear()
	func() {
		defer func() {
			if recover() == nil {
				t.Error("requesting from an empty pool should panic")
			}
		}()
		p.Request()
	}()
}

func overlap(a, b r3.Box) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Z < b.Max.Z && b.Min.Z < a.Max.Z
}

func shift(b r3.Box, v r3.Vec) r3.Box {
	return r3.Box{Min: r3.Add(b.Min, v), Max: r3.Add(b.Max, v)}
}

func TestPositions(t *testing.T) {
	bounds := []r3.Box{
		{Min: r3.Vec{X: -1, Z: -1}, Max: r3.Vec{X: 1, Z: 1}},
		{Min: r3.Vec{X: -0.5, Z: -3}, Max: r3.Vec{X: 4, Z: 0.5}},
		{Min: r3.Vec{Z: -2, Y: -1}, Max: r3.Vec{X: 2, Z: 2, Y: 5}},
	}

	for n := 1; n <= 17; n++ {
		positions := Positions(bounds, n)
		if len(positions) != n {
			t.Fatalf("n=%v: want(%v) positions have(%v)", n, n, len(positions))
		}
		if positions[0] != (r3.Vec{}) {
			t.Errorf("n=%v: first position should be the origin", n)
		}

		for i := range positions {
			if positions[i].Y != 0 {
				t.Errorf("n=%v: position %v is off the ground", n, positions[i])
			}
			for j := i + 1; j < len(positions); j++ {
				for _, a := range bounds {
					for _, b := range bounds {
						if overlap(shift(a, positions[i]), shift(b, positions[j])) {
							t.Errorf("n=%v: slots %v and %v overlap", n, i, j)
						}
					}
				}
			}
		}
	}
}

func TestPositionsSpacing(t *testing.T) {
	ext := 2.5
	bounds := []r3.Box{{Min: r3.Vec{X: -ext, Y: -ext, Z: -ext},
		Max: r3.Vec{X: ext, Y: ext, Z: ext}}}

	for _, n := range []int{2, 4, 9, 10} {
		t.Run(fmt.Sprintf("n=%v", n), func(t *testing.T) {
			positions := Positions(bounds, n)
			for i := range positions {
				for j := i + 1; j < len(positions); j++ {
					d := r3.Norm(r3.Sub(positions[i], positions[j]))
					if d < 2*ext || math.IsNaN(d) {
						t.Errorf("slots %v and %v: distance %v < %v", i, j, d,
							2*ext)
					}
				}
			}
		})
	}

	// A grid of side ceil(sqrt(n)), filled along Z first
	positions := Positions(bounds, 5)
	want := []r3.Vec{{}, {Z: 6}, {Z: 12}, {X: 6}, {X: 6, Z: 6}}
	for i := range want {
		if !near(positions[i], want[i]) {
			t.Errorf("position %v: want(%v) have(%v)", i, want[i], positions[i])
		}
	}
}

package actors

import (
	"fmt"

	"github.com/samuelfneumann/gosimulate/utils/intutils"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pool is a FIFO queue of inactive maps. Maps are pushed when their
// episode ends and requested when a slot needs a fresh map.
type Pool struct {
	queue []*Map
	maps  []*Map
}

// NewPool returns a new Pool holding maps, in order. Every map is
// deactivated.
func NewPool(maps []*Map) *Pool {
	p := &Pool{maps: maps}
	for _, m := range maps {
		p.Push(m)
	}
	return p
}

// Push deactivates m and adds it to the back of the queue. Pushing a
// map that is already queued panics.
func (p *Pool) Push(m *Map) {
	for _, q := range p.queue {
		if q == m {
			panic(fmt.Sprintf("push: map %q is already in the pool", m.Name()))
		}
	}
	m.SetActive(false)
	p.queue = append(p.queue, m)
}

// Request removes the map at the front of the queue, activates it, and
// returns it. Requesting from an empty pool panics.
func (p *Pool) Request() *Map {
	if len(p.queue) == 0 {
		panic("request: pool is empty")
	}
	m := p.queue[0]
	p.queue[0] = nil
	p.queue = p.queue[1:]
	m.SetActive(true)
	return m
}

// Len returns the number of queued maps
func (p *Pool) Len() int {
	return len(p.queue)
}

// Clear empties the queue
func (p *Pool) Clear() {
	p.queue = nil
}

// Maps returns every map the pool was created with
func (p *Pool) Maps() []*Map {
	return p.maps
}

// Bounds returns the local bounds of every map of the pool
func (p *Pool) Bounds() []r3.Box {
	bounds := make([]r3.Box, len(p.maps))
	for i, m := range p.maps {
		bounds[i] = m.Bounds()
	}
	return bounds
}

// Positions returns n slot positions on the ground plane such that a
// map with any of the given local bounds placed at one slot never
// overlaps a map placed at another. Slots lie on a square grid of side
// ceil(sqrt(n)), filled along Z first.
func Positions(bounds []r3.Box, n int) []r3.Vec {
	var union r3.Box
	for _, b := range bounds {
		union.Min = r3.Vec{
			X: min(union.Min.X, b.Min.X),
			Y: min(union.Min.Y, b.Min.Y),
			Z: min(union.Min.Z, b.Min.Z),
		}
		union.Max = r3.Vec{
			X: max(union.Max.X, b.Max.X),
			Y: max(union.Max.Y, b.Max.Y),
			Z: max(union.Max.Z, b.Max.Z),
		}
	}
	step := r3.Add(r3.Sub(union.Max, union.Min), r3.Vec{X: 1, Z: 1})

	side := intutils.CeilSqrt(n)
	positions := make([]r3.Vec, 0, n)
	for i := 0; i < side && len(positions) < n; i++ {
		for j := 0; j < side && len(positions) < n; j++ {
			positions = append(positions, r3.Vec{
				X: float64(i) * step.X,
				Z: float64(j) * step.Z,
			})
		}
	}
	return positions
}

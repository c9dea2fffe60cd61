// Package reward implements composable reward functions. Leaf reward
// functions compare the state of two entities; composite reward
// functions combine the rewards of their children. A tree of reward
// functions is evaluated once per actor per step.
package reward

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gosimulate/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Metric measures a distance between two entities
type Metric interface {
	Calculate(a, b scene.Entity) float64

	// Reset is called at the start of every episode
	Reset(a, b scene.Entity)
}

// Euclidean is the Euclidean distance between entity positions
type Euclidean struct{}

// Calculate implements the Metric interface
func (Euclidean) Calculate(a, b scene.Entity) float64 {
	return r3.Norm(r3.Sub(a.Position(), b.Position()))
}

// Reset implements the Metric interface
func (Euclidean) Reset(a, b scene.Entity) {}

// Cosine is the cosine similarity of the entity positions, taken as
// vectors from the world origin. Positions of zero length have zero
// similarity with everything.
type Cosine struct{}

// Calculate implements the Metric interface
func (Cosine) Calculate(a, b scene.Entity) float64 {
	pa, pb := a.Position(), b.Position()
	if r3.Norm(pa) == 0 || r3.Norm(pb) == 0 {
		return 0
	}
	return r3.Dot(r3.Unit(pa), r3.Unit(pb))
}

// Reset implements the Metric interface
func (Cosine) Reset(a, b scene.Entity) {}

// Best tracks the smallest distance measured by a wrapped Metric since
// the last Reset and returns the improvement over it. The returned
// value is never negative.
type Best struct {
	metric Metric
	best   float64
}

// NewBest returns a new Best metric wrapping m. Until it is first
// reset, the best distance is +Inf.
func NewBest(m Metric) *Best {
	return &Best{metric: m, best: math.Inf(1)}
}

// Calculate implements the Metric interface
func (b *Best) Calculate(e1, e2 scene.Entity) float64 {
	distance := b.metric.Calculate(e1, e2)
	if distance < b.best {
		improvement := b.best - distance
		b.best = distance
		return improvement
	}
	return 0
}

// Reset implements the Metric interface
func (b *Best) Reset(e1, e2 scene.Entity) {
	b.best = b.metric.Calculate(e1, e2)
}

// BestDistance returns the best distance seen since the last Reset
func (b *Best) BestDistance() float64 {
	return b.best
}

// ParseMetric returns a new Metric by name. Each call returns a new
// instance, so stateful metrics are never shared.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "euclidean", "":
		return Euclidean{}, nil
	case "best_euclidean":
		return NewBest(Euclidean{}), nil
	case "cosine":
		return Cosine{}, nil
	default:
		return nil, fmt.Errorf("parseMetric: unknown distance metric %q", name)
	}
}

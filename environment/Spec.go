package environment

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gosimulate/actors"
	"github.com/samuelfneumann/gosimulate/buffer"
	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an action, an observation, a discount, or a
// reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	case Reward:
		return "Reward"
	default:
		return fmt.Sprintf("SpecType(%d)", int(s))
	}
}

// Cardinality determines the cardinality of a number (discrete or
// continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, discount, or reward in
// an environment.
//
// Shape has one element per feature; Dims holds the dimensions the
// features are laid out in, e.g. [3 H W] for a camera.
type Spec struct {
	Shape      mat.Vector
	Dims       []int
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification.
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape mat.Vector, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{
		Shape:       shape,
		Dims:        []int{shape.Len()},
		Type:        t,
		LowerBound:  lowerBound,
		UpperBound:  upperBound,
		Cardinality: cardinality,
	}
}

// Len returns the number of features described by the Spec
func (s Spec) Len() int {
	return s.Shape.Len()
}

// uniformSpec returns a Spec of n features sharing the bounds
// [low, high]
func uniformSpec(n int, t SpecType, low, high float64,
	c Cardinality) Spec {
	return NewSpec(mat.NewVecDense(n, nil), t, fill(n, low), fill(n, high), c)
}

func fill(n int, v float64) *mat.VecDense {
	data := make([]float64, n)
	for i := range data {
		data[i] = v
	}
	return mat.NewVecDense(n, data)
}

// sensorSpec returns the Spec of one actor's slice of buffer b
func sensorSpec(b *buffer.Buffer) Spec {
	dims := b.Shape()[2:]
	n := 1
	for _, d := range dims {
		n *= d
	}

	var s Spec
	switch b.Type() {
	case buffer.Uint8:
		s = uniformSpec(n, Observation, 0, math.MaxUint8, Discrete)
	default:
		s = uniformSpec(n, Observation, math.Inf(-1), math.Inf(1), Continuous)
	}
	s.Dims = append([]int(nil), dims...)
	return s
}

// actuatorSpec returns the action Spec of actuator a. Discrete
// actuators take a single index; continuous actuators take one value
// per mapping, unbounded unless the actuator has bounds.
func actuatorSpec(a *actors.Actuator) Spec {
	if a.Discrete {
		return uniformSpec(1, Action, 0, float64(len(a.Mappings)-1), Discrete)
	}

	n := len(a.Mappings)
	s := uniformSpec(n, Action, math.Inf(-1), math.Inf(1), Continuous)
	low, high := s.LowerBound.(*mat.VecDense), s.UpperBound.(*mat.VecDense)
	for i, b := range a.Bounds {
		if i >= n {
			break
		}
		low.SetVec(i, b.Min)
		high.SetVec(i, b.Max)
	}
	return s
}

// sameSpec returns whether a and b describe the same data
func sameSpec(a, b Spec) bool {
	return a.Type == b.Type && a.Cardinality == b.Cardinality &&
		a.Len() == b.Len() &&
		mat.Equal(a.LowerBound, b.LowerBound) &&
		mat.Equal(a.UpperBound, b.UpperBound)
}

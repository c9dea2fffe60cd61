package reward

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind is the kind of a reward function
type Kind int

const (
	// Leaf kinds
	Dense Kind = iota
	Sparse
	Timeout
	See
	AngleTo

	// Composite kinds
	And
	Or
	Xor
	Not
)

var kindNames = map[Kind]string{
	Dense:   "dense",
	Sparse:  "sparse",
	Timeout: "timeout",
	See:     "see",
	AngleTo: "angle_to",
	And:     "and",
	Or:      "or",
	Xor:     "xor",
	Not:     "not",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind returns the Kind with the given name
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("parseKind: unknown reward function type %q", name)
}

// Composite returns whether reward functions of kind k combine the
// rewards of child reward functions
func (k Kind) Composite() bool {
	return k >= And
}

// Arity returns the number of children a composite kind requires. Leaf
// kinds have arity 0.
func (k Kind) Arity() int {
	switch k {
	case And, Or, Xor:
		return 2
	case Not:
		return 1
	default:
		return 0
	}
}

// Function is a node in a reward function tree. Leaf functions compare
// EntityA and EntityB; composite functions hold only Children.
//
// A disabled function references an entity that does not exist. It
// always returns zero reward and is never done.
type Function struct {
	Kind Kind

	EntityA   scene.Entity
	EntityB   scene.Entity
	Metric    Metric
	Direction r3.Vec

	Weight      float64
	Threshold   float64
	Terminal    bool
	Collectable bool
	TriggerOnce bool

	Children []*Function

	disabled  bool
	triggered bool
	steps     int
}

// CalculateReward evaluates the function for the current step.
// Composite functions always evaluate every child so that the state
// of each child advances exactly once per call.
func (f *Function) CalculateReward() float64 {
	if f.disabled {
		return 0
	}

	switch f.Kind {
	case Dense:
		return f.Metric.Calculate(f.EntityA, f.EntityB) * f.Weight

	case Sparse:
		return f.gate(f.Metric.Calculate(f.EntityA, f.EntityB) < f.Threshold)

	case Timeout:
		f.steps++
		return f.gate(float64(f.steps) >= f.Threshold)

	case See:
		toB := r3.Sub(f.EntityB.Position(), f.EntityA.Position())
		return f.gate(scene.Angle(toB, f.EntityA.Forward()) < f.Threshold)

	case AngleTo:
		toB := r3.Sub(f.EntityB.Position(), f.EntityA.Position())
		return f.gate(scene.Angle(toB, f.Direction) < f.Threshold)

	case Not:
		var reward float64
		if f.Children[0].CalculateReward() <= 0 {
			reward = f.Children[0].Weight
		}
		return f.composite(reward)

	default:
		a := f.Children[0].CalculateReward()
		b := f.Children[1].CalculateReward()

		var reward float64
		switch f.Kind {
		case And:
			reward = floatutils.Min(a, b)
		case Or:
			reward = floatutils.Max(a, b)
		case Xor:
			reward = math.Abs(a - b)
		}
		return f.composite(reward)
	}
}

// gate returns the weight of f if cond holds and f may trigger, and
// records the trigger
func (f *Function) gate(cond bool) float64 {
	if !cond || (f.triggered && f.TriggerOnce) {
		return 0
	}

	f.triggered = true
	if f.Collectable && f.EntityB != nil {
		f.EntityB.SetActive(false)
	}
	return f.Weight
}

func (f *Function) composite(reward float64) float64 {
	if reward > 0 {
		f.triggered = true
	}
	return reward
}

// Reset resets the state of f and all of its children for a new
// episode. Collected entities are re-activated.
func (f *Function) Reset() {
	f.triggered = false
	f.steps = 0

	for _, c := range f.Children {
		c.Reset()
	}

	if f.disabled || f.Kind.Composite() || f.Kind == Timeout {
		return
	}
	if f.Collectable {
		f.EntityB.SetActive(true)
	}
	if f.Metric != nil {
		f.Metric.Reset(f.EntityA, f.EntityB)
	}
}

// Done returns whether f is terminal and has triggered since the last
// Reset. Dense functions are never done.
func (f *Function) Done() bool {
	if f.disabled || f.Kind == Dense {
		return false
	}
	return f.Terminal && f.triggered
}

// Triggered returns whether f has triggered since the last Reset
func (f *Function) Triggered() bool {
	return f.triggered
}

// Disabled returns whether f references a missing entity
func (f *Function) Disabled() bool {
	return f.disabled
}

// Steps returns the number of times a Timeout function was evaluated
// since the last Reset
func (f *Function) Steps() int {
	return f.steps
}

func (f *Function) String() string {
	if f.Kind.Composite() {
		return fmt.Sprintf("%v%v", f.Kind, f.Children)
	}
	return fmt.Sprintf("%v(weight: %v, threshold: %v, terminal: %v)", f.Kind,
		f.Weight, f.Threshold, f.Terminal)
}

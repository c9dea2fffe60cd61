// Package timestep implements timesteps of the actor-environment
// interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either the
// first step of an episode, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes why an episode ended
type EndType int

const (
	// NotEnded is the EndType of First and Mid steps
	NotEnded EndType = iota

	// TerminalStateReached denotes that the actor itself was done
	TerminalStateReached

	// MapRecycled denotes that the map of the actor was recycled
	// because other actors of the map were done
	MapRecycled
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case MapRecycled:
		return "MapRecycled"
	default:
		return "NotEnded"
	}
}

// TimeStep packages together a single timestep of one actor slot.
//
// A Last step ends an episode and its Observation already belongs to
// the next episode, since maps are recycled inside Step. The step that
// follows a Last step has Number 1.
type TimeStep struct {
	stepType    StepType
	EndType     EndType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{stepType: t, Reward: r, Discount: d, Observation: o,
		Number: n}
}

// NewLast returns a new Last TimeStep ended for the reason e
func NewLast(e EndType, r, d float64, o mat.Vector, n int) TimeStep {
	if e == NotEnded {
		panic("newLast: last step must have an end type")
	}
	return TimeStep{stepType: Last, EndType: e, Reward: r, Discount: d,
		Observation: o, Number: n}
}

// StepType returns the type of the TimeStep
func (t *TimeStep) StepType() StepType {
	return t.stepType
}

// First returns whether a TimeStep is the first in an episode
func (t *TimeStep) First() bool {
	return t.stepType == First
}

// Mid returns whether a TimeStep is a middle step in an episode
func (t *TimeStep) Mid() bool {
	return t.stepType == Mid
}

// Last returns whether a TimeStep is the last step in an episode
func (t *TimeStep) Last() bool {
	return t.stepType == Last
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"
	if t.stepType == Last {
		str += "  |  End: " + t.EndType.String()
	}

	return fmt.Sprintf(str, t.stepType, t.Reward, t.Discount, t.Number)
}

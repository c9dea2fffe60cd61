package experiment

import (
	"fmt"

	"github.com/samuelfneumann/gosimulate/actors"
	env "github.com/samuelfneumann/gosimulate/environment"
	ts "github.com/samuelfneumann/gosimulate/timestep"
)

// Policy selects the actions of every actor slot, keyed by map slot
// and actor name
type Policy interface {
	SelectActions(steps []ts.TimeStep) map[int]map[string]actors.Action
}

// Random selects actions uniformly at random from the action Specs
// of an environment
type Random struct {
	env     *env.Environment
	sampler *env.Sampler
}

// NewRandom returns a new Random policy for e
func NewRandom(e *env.Environment, seed uint64) (*Random, error) {
	specs, err := e.ActionSpecs()
	if err != nil {
		return nil, fmt.Errorf("newRandom: %v", err)
	}
	s, err := env.NewSampler(specs, seed)
	if err != nil {
		return nil, fmt.Errorf("newRandom: %v", err)
	}
	return &Random{env: e, sampler: s}, nil
}

// SelectActions samples an action for every actor of the environment
func (r *Random) SelectActions(_ []ts.TimeStep) map[int]map[string]actors.Action {
	return r.sampler.SampleAll(r.env)
}

package environment

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/gosimulate/actors"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// UnboundedRange is the range continuous actions are sampled from in
// dimensions without bounds
var UnboundedRange = r1.Interval{Min: -1, Max: 1}

// Sampler samples actions uniformly from action Specs. Continuous
// actions are sampled from a multi-dimensional uniform distribution.
// Discrete actions are sampled from a uniform categorical
// distribution over (0, 1, 2, ... N-1).
type Sampler struct {
	tags       []string
	continuous map[string]*distmv.Uniform
	discrete   map[string]distuv.Categorical
}

// NewSampler returns a new Sampler over the action Specs in specs,
// keyed by actuator tag
func NewSampler(specs map[string]Spec, seed uint64) (*Sampler, error) {
	source := rand.NewSource(seed)
	s := &Sampler{
		continuous: make(map[string]*distmv.Uniform),
		discrete:   make(map[string]distuv.Categorical),
	}

	for tag := range specs {
		s.tags = append(s.tags, tag)
	}
	sort.Strings(s.tags)

	for _, tag := range s.tags {
		spec := specs[tag]
		if spec.Type != Action {
			return nil, fmt.Errorf("newSampler: spec %q is a %v spec", tag,
				spec.Type)
		}

		if spec.Cardinality == Discrete {
			n := int(spec.UpperBound.AtVec(0)-spec.LowerBound.AtVec(0)) + 1
			if spec.Len() != 1 || n < 1 {
				return nil, fmt.Errorf("newSampler: discrete spec %q must "+
					"have one dimension and a non-empty range", tag)
			}
			weights := make([]float64, n)
			for j := range weights {
				weights[j] = 1.0 / float64(n)
			}
			s.discrete[tag] = distuv.NewCategorical(weights, source)
			continue
		}

		bounds := make([]r1.Interval, spec.Len())
		for i := range bounds {
			bounds[i] = r1.Interval{
				Min: spec.LowerBound.AtVec(i),
				Max: spec.UpperBound.AtVec(i),
			}
			if math.IsInf(bounds[i].Min, 0) || math.IsInf(bounds[i].Max, 0) {
				bounds[i] = UnboundedRange
			}
		}
		s.continuous[tag] = distmv.NewUniform(bounds, source)
	}
	return s, nil
}

// Sample returns a random action for every actuator of a. Actuators
// without a Spec are left out.
func (s *Sampler) Sample(a *actors.Actor) actors.Action {
	action := make(actors.Action)
	for _, act := range a.Actuators() {
		if u, ok := s.continuous[act.Tag]; ok {
			action[act.Tag] = u.Rand(nil)
		} else if c, ok := s.discrete[act.Tag]; ok {
			action[act.Tag] = []float64{c.Rand()}
		}
	}
	return action
}

// SampleAll returns a random action for every actor of e, keyed by map
// slot and actor name
func (s *Sampler) SampleAll(e *Environment) map[int]map[string]actors.Action {
	actions := make(map[int]map[string]actors.Action)
	for i := 0; i < e.Len(); i++ {
		a, ok := e.Actor(i)
		if !ok {
			continue
		}
		slot := i / e.MaxActors()
		if actions[slot] == nil {
			actions[slot] = make(map[string]actors.Action)
		}
		actions[slot][a.Name()] = s.Sample(a)
	}
	return actions
}

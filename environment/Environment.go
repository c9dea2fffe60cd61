// Package environment implements a vectorised environment over a step
// scheduler. Every actor slot of the scheduler is one stream of
// timesteps.
package environment

import (
	"fmt"
	"math"
	"sort"

	"github.com/samuelfneumann/gosimulate/actors"
	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/scheduler"
	ts "github.com/samuelfneumann/gosimulate/timestep"
	"gonum.org/v1/gonum/mat"
)

// Environment exposes the actor slots of a Scheduler as parallel
// episodic streams. Slot i belongs to actor i%MaxActors() of the map in
// map slot i/MaxActors().
//
// Maps are recycled inside Step, so the Last step of an episode
// carries the first observation of the next episode. Under the AllDone
// reset policy an actor that is done waits for the rest of its map:
// its slot returns First steps until the map is recycled.
type Environment struct {
	sched     *scheduler.Scheduler
	discount  float64
	frameSkip int
	timeStep  float64

	maxActors int
	names     []string
	numbers   []int
	waiting   []bool
}

// New returns a new Environment over the initialized scheduler s and
// the first timestep of every actor slot. Each Step advances the
// physics by frameSkip substeps of timeStep seconds.
func New(s *scheduler.Scheduler, discount float64, frameSkip int,
	timeStep float64) (*Environment, []ts.TimeStep, error) {
	if st := s.State(); st != scheduler.Initialized {
		return nil, nil, fmt.Errorf("new: scheduler is %v", st)
	}
	if discount < 0 || discount > 1 {
		return nil, nil, fmt.Errorf("new: discount must be in [0, 1], "+
			"have(%v)", discount)
	}
	if frameSkip < 1 {
		return nil, nil, fmt.Errorf("new: frame skip must be positive, "+
			"have(%v)", frameSkip)
	}
	if timeStep <= 0 {
		return nil, nil, fmt.Errorf("new: time step must be positive, "+
			"have(%v)", timeStep)
	}

	res, err := s.Buffers()
	if err != nil {
		return nil, nil, fmt.Errorf("new: %v", err)
	}
	names := make([]string, 0, len(res.Sensors))
	for name := range res.Sensors {
		names = append(names, name)
	}
	sort.Strings(names)

	e := &Environment{
		sched:     s,
		discount:  discount,
		frameSkip: frameSkip,
		timeStep:  timeStep,
		maxActors: s.MaxActors(),
		names:     names,
		numbers:   make([]int, s.PoolSize()*s.MaxActors()),
		waiting:   make([]bool, s.PoolSize()*s.MaxActors()),
	}

	step, err := e.Reset()
	if err != nil {
		return nil, nil, fmt.Errorf("new: %v", err)
	}
	return e, step, nil
}

// Len returns the number of actor slots
func (e *Environment) Len() int {
	return len(e.numbers)
}

// MaxActors returns the number of actor slots of each map slot
func (e *Environment) MaxActors() int {
	return e.maxActors
}

// SensorNames returns the names of the sensors in the order their
// values are concatenated into observations
func (e *Environment) SensorNames() []string {
	return e.names
}

// Scheduler returns the underlying scheduler
func (e *Environment) Scheduler() *scheduler.Scheduler {
	return e.sched
}

// Waiting returns whether the actor in slot i is done and waits for
// its map to be recycled
func (e *Environment) Waiting(i int) bool {
	return e.waiting[i]
}

// Actor returns the actor currently in slot i. Slots of maps with
// fewer than MaxActors actors are empty.
func (e *Environment) Actor(i int) (*actors.Actor, bool) {
	if i < 0 || i >= len(e.numbers) {
		return nil, false
	}
	active := e.sched.Active()
	m := active[i/e.maxActors]
	j := i % e.maxActors
	if m == nil || j >= m.Len() {
		return nil, false
	}
	return m.Actors()[j], true
}

// Reset resets every map and returns the First timestep of every
// actor slot
func (e *Environment) Reset() ([]ts.TimeStep, error) {
	if err := e.sched.Reset(); err != nil {
		return nil, fmt.Errorf("reset: %v", err)
	}
	res, err := e.sched.Buffers()
	if err != nil {
		return nil, fmt.Errorf("reset: %v", err)
	}

	steps := make([]ts.TimeStep, len(e.numbers))
	for i := range steps {
		e.numbers[i] = 0
		e.waiting[i] = false
		steps[i] = ts.New(ts.First, 0, e.discount, e.observation(res, i), 0)
	}
	return steps, nil
}

// Step applies actions, keyed by map slot and actor name, and returns
// the next timestep of every actor slot.
//
// An actor that is done ends its episode with a TerminalStateReached
// step and zero discount. An actor whose map was recycled although it
// was not done ends its episode with a MapRecycled step. Actor slots
// that were empty before the step, and slots of actors waiting for
// their map, return First steps.
func (e *Environment) Step(actions map[int]map[string]actors.Action) (
	[]ts.TimeStep, error) {
	// Slots empty before the step start an episode when filled
	before := e.sched.Active()
	res, err := e.sched.Step(scheduler.Kwargs{
		"action":     actions,
		"frame_skip": e.frameSkip,
		"time_step":  e.timeStep,
	})
	if err != nil {
		return nil, fmt.Errorf("step: %v", err)
	}

	rewards, dones := res.Reward.Float32s(), res.Done.Float32s()
	steps := make([]ts.TimeStep, len(e.numbers))
	for i := range steps {
		obs := e.observation(res, i)
		mapSlot := i / e.maxActors
		if i%e.maxActors >= before[mapSlot].Len() || e.waiting[i] {
			e.numbers[i] = 0
			e.waiting[i] = e.waiting[i] && !res.Recycled[mapSlot]
			steps[i] = ts.New(ts.First, 0, e.discount, obs, 0)
			continue
		}

		e.numbers[i]++
		r := float64(rewards[i])
		switch {
		case dones[i] != 0:
			steps[i] = ts.NewLast(ts.TerminalStateReached, r, 0, obs,
				e.numbers[i])
			e.numbers[i] = 0
			e.waiting[i] = !res.Recycled[mapSlot]

		case res.Recycled[mapSlot]:
			steps[i] = ts.NewLast(ts.MapRecycled, r, e.discount, obs,
				e.numbers[i])
			e.numbers[i] = 0

		default:
			steps[i] = ts.New(ts.Mid, r, e.discount, obs, e.numbers[i])
		}
	}
	return steps, nil
}

// observation concatenates the values of every sensor of slot i
func (e *Environment) observation(res *scheduler.Result,
	i int) mat.Vector {
	var data []float64
	for _, name := range e.names {
		b := res.Sensors[name]
		n := b.Size() / (b.Shape()[0] * b.Shape()[1])
		start, end, err := b.Slot(i, n)
		if err != nil {
			panic(fmt.Sprintf("observation: %v", err))
		}

		switch b.Type() {
		case buffer.Uint8:
			for _, v := range b.Uint8s()[start:end] {
				data = append(data, float64(v))
			}
		default:
			for _, v := range b.Float32s()[start:end] {
				data = append(data, float64(v))
			}
		}
	}
	if len(data) == 0 {
		return nil
	}
	return mat.NewVecDense(len(data), data)
}

// ObservationSpecs returns the Spec of each sensor's slice of an
// observation, keyed by sensor name
func (e *Environment) ObservationSpecs() (map[string]Spec, error) {
	res, err := e.sched.Buffers()
	if err != nil {
		return nil, fmt.Errorf("observationSpecs: %v", err)
	}
	specs := make(map[string]Spec, len(res.Sensors))
	for name, b := range res.Sensors {
		specs[name] = sensorSpec(b)
	}
	return specs, nil
}

// ObservationSpec returns the Spec of a whole observation vector
func (e *Environment) ObservationSpec() (Spec, error) {
	specs, err := e.ObservationSpecs()
	if err != nil {
		return Spec{}, fmt.Errorf("observationSpec: %v", err)
	}

	var low, high []float64
	card := Discrete
	for _, name := range e.names {
		s := specs[name]
		low = append(low, mat.Col(nil, 0, s.LowerBound)...)
		high = append(high, mat.Col(nil, 0, s.UpperBound)...)
		if s.Cardinality == Continuous {
			card = Continuous
		}
	}
	n := len(low)
	if n == 0 {
		return Spec{}, fmt.Errorf("observationSpec: scene has no sensors")
	}
	return NewSpec(mat.NewVecDense(n, nil), Observation,
		mat.NewVecDense(n, low), mat.NewVecDense(n, high), card), nil
}

// ActionSpecs returns the Spec of every actuator of the actors of the
// active maps, keyed by actuator tag. Actuators sharing a tag must
// share a Spec.
func (e *Environment) ActionSpecs() (map[string]Spec, error) {
	specs := make(map[string]Spec)
	for _, m := range e.sched.Active() {
		for _, a := range m.Actors() {
			for _, act := range a.Actuators() {
				s := actuatorSpec(act)
				if prev, ok := specs[act.Tag]; ok && !sameSpec(prev, s) {
					return nil, fmt.Errorf("actionSpecs: actuators tagged %q "+
						"have different specs", act.Tag)
				}
				specs[act.Tag] = s
			}
		}
	}
	return specs, nil
}

// RewardSpec returns the Spec of the reward of one actor slot
func (e *Environment) RewardSpec() Spec {
	return NewSpec(mat.NewVecDense(1, nil), Reward,
		fill(1, -math.MaxFloat32), fill(1, math.MaxFloat32), Continuous)
}

// DiscountSpec returns the Spec of the discount of one actor slot
func (e *Environment) DiscountSpec() Spec {
	return NewSpec(mat.NewVecDense(1, nil), Discount, fill(1, 0),
		fill(1, e.discount), Continuous)
}

// Close closes the underlying scheduler
func (e *Environment) Close() error {
	return e.sched.Close()
}

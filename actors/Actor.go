// Package actors implements controllable actors, the maps that contain
// them, and the pool that recycles maps between episodes.
package actors

import (
	"fmt"
	"log"
	"sort"

	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/reward"
	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/sensor"
)

// Action maps actuator tags to action vectors
type Action map[string][]float64

// Sensors maps each node of a scene to the sensors described on it
type Sensors map[*scene.Node][]sensor.Sensor

// RewardDone is the reward accumulated by an actor since it was last
// read, and whether its episode is done
type RewardDone struct {
	Reward float64
	Done   bool
}

// Actor is a controllable entity. An Actor owns the reward functions
// parented directly under its node, and the sensors and actuators
// beneath it that are not beneath a nested actor.
type Actor struct {
	node      *scene.Node
	sensors   []sensor.Sensor
	rewards   []*reward.Function
	actuators map[string]*Actuator

	accumulated float64
	action      Action
	logger      *log.Logger
}

// NewActor returns a new Actor for node n. Sensors are taken from s,
// and reward entities are resolved with r.
func NewActor(n *scene.Node, s Sensors, r reward.Resolver,
	logger *log.Logger) (*Actor, error) {
	a := &Actor{
		node:      n,
		actuators: make(map[string]*Actuator),
		logger:    logger,
	}

	// Nested actors own their own subtrees
	var visit func(c *scene.Node) error
	visit = func(c *scene.Node) error {
		if c != n && c.IsActor {
			return nil
		}

		a.sensors = append(a.sensors, s[c]...)

		if c.Actuator != nil {
			act, err := NewActuator(c)
			if err != nil {
				return err
			}
			if _, ok := a.actuators[act.Tag]; ok {
				return fmt.Errorf("duplicate actuator tag %q", act.Tag)
			}
			a.actuators[act.Tag] = act
		}

		if c.Reward != nil && c.Parent() == n {
			f, err := reward.Build(c.Reward, r, logger)
			if err != nil {
				return fmt.Errorf("reward %q: %v", c.Name(), err)
			}
			a.rewards = append(a.rewards, f)
		}

		for _, child := range c.Children() {
			if err := visit(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(n); err != nil {
		return nil, fmt.Errorf("newActor: actor %q: %v", n.Name(), err)
	}

	return a, nil
}

// Name returns the name of the actor's node
func (a *Actor) Name() string {
	return a.node.Name()
}

// Node returns the actor's node
func (a *Actor) Node() *scene.Node {
	return a.node
}

// Sensors returns the sensors of the actor in buffer order
func (a *Actor) Sensors() []sensor.Sensor {
	return a.sensors
}

// Sensor returns the sensor of the actor with the given name
func (a *Actor) Sensor(name string) (sensor.Sensor, bool) {
	for _, s := range a.sensors {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

func (a *Actor) addSensor(s sensor.Sensor) {
	a.sensors = append(a.sensors, s)
}

// Rewards returns the root reward functions of the actor
func (a *Actor) Rewards() []*reward.Function {
	return a.rewards
}

// Actuator returns the actuator with the given tag
func (a *Actor) Actuator(tag string) (*Actuator, bool) {
	act, ok := a.actuators[tag]
	return act, ok
}

// Actuators returns the actuators of the actor ordered by tag
func (a *Actor) Actuators() []*Actuator {
	acts := make([]*Actuator, 0, len(a.actuators))
	for _, act := range a.actuators {
		acts = append(acts, act)
	}
	sort.Slice(acts, func(i, j int) bool { return acts[i].Tag < acts[j].Tag })
	return acts
}

// SetAction latches action. It is applied on every substep until a
// new action is set.
func (a *Actor) SetAction(action Action) {
	a.action = action
}

// Action returns the latched action
func (a *Actor) Action() Action {
	return a.action
}

// ApplyAction applies the latched action through the actor's
// actuators. Inactive actors are not actuated.
func (a *Actor) ApplyAction() {
	if len(a.action) == 0 || !a.node.Active() {
		return
	}

	for tag, values := range a.action {
		act, ok := a.actuators[tag]
		if !ok {
			a.warnf("actor %q has no actuator %q", a.Name(), tag)
			continue
		}
		if err := act.Apply(values); err != nil {
			a.warnf("actor %q: %v", a.Name(), err)
		}
	}
}

// CalculateReward evaluates every root reward function once and
// returns the sum
func (a *Actor) CalculateReward() float64 {
	var total float64
	for _, f := range a.rewards {
		total += f.CalculateReward()
	}
	return total
}

// UpdateReward adds the current reward to the accumulated reward
func (a *Actor) UpdateReward() {
	a.accumulated += a.CalculateReward()
}

// Done returns whether any terminal root reward function has triggered
func (a *Actor) Done() bool {
	for _, f := range a.rewards {
		if f.Done() {
			return true
		}
	}
	return false
}

// GetRewardDone updates the accumulated reward, then drains it. The
// accumulated reward is zero afterwards.
func (a *Actor) GetRewardDone() RewardDone {
	a.UpdateReward()
	return a.RewardDone()
}

// RewardDone drains the accumulated reward without evaluating the
// reward functions
func (a *Actor) RewardDone() RewardDone {
	rd := RewardDone{Reward: a.accumulated, Done: a.Done()}
	a.accumulated = 0
	return rd
}

// Reset resets every root reward function and the accumulated reward
func (a *Actor) Reset() {
	a.accumulated = 0
	for _, f := range a.rewards {
		f.Reset()
	}
}

// EnableSensors enables every sensor of the actor
func (a *Actor) EnableSensors() {
	for _, s := range a.sensors {
		s.Enable()
	}
}

// DisableSensors disables every sensor of the actor
func (a *Actor) DisableSensors() {
	for _, s := range a.sensors {
		s.Disable()
	}
}

// ReadObservations writes the observation of every sensor into the
// buffer of the same name at slot
func (a *Actor) ReadObservations(buffers map[string]*buffer.Buffer,
	slot int) error {
	for _, s := range a.sensors {
		b, ok := buffers[s.Name()]
		if !ok {
			return fmt.Errorf("readObservations: no buffer for sensor %q",
				s.Name())
		}
		if err := s.AddObsToBuffer(b, slot); err != nil {
			return fmt.Errorf("readObservations: actor %q: %v", a.Name(), err)
		}
	}
	return nil
}

func (a *Actor) warnf(format string, v ...interface{}) {
	if a.logger != nil {
		a.logger.Printf("warning: "+format, v...)
	}
}

package actors

import (
	"fmt"
	"log"
	"sort"

	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/sensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Map is a self-contained copy of an environment: a subtree of the
// scene with its actors. Maps are recycled through a Pool and
// teleported to a pool slot on every reset.
type Map struct {
	root    *scene.Node
	actors  []*Actor
	nodes   []*scene.Node
	sensors []sensor.Sensor
	bounds  r3.Box
	logger  *log.Logger
}

// NewMap returns a new Map rooted at root. Every actor in actors
// whose node lies beneath root belongs to the map; actors are ordered
// by name. Sensors described beneath root but not beneath any actor
// are ambient: they are shared with every actor of the map.
func NewMap(root *scene.Node, actors map[*scene.Node]*Actor, s Sensors,
	logger *log.Logger) (*Map, error) {
	m := &Map{root: root, logger: logger}

	var ambient []sensor.Sensor
	origin := root.Initial().Position
	root.Walk(func(n *scene.Node) {
		m.nodes = append(m.nodes, n)

		b := n.Bounds()
		m.bounds.Min = r3.Vec{
			X: min(m.bounds.Min.X, b.Min.X-origin.X),
			Y: min(m.bounds.Min.Y, b.Min.Y-origin.Y),
			Z: min(m.bounds.Min.Z, b.Min.Z-origin.Z),
		}
		m.bounds.Max = r3.Vec{
			X: max(m.bounds.Max.X, b.Max.X-origin.X),
			Y: max(m.bounds.Max.Y, b.Max.Y-origin.Y),
			Z: max(m.bounds.Max.Z, b.Max.Z-origin.Z),
		}

		if a, ok := actors[n]; ok {
			m.actors = append(m.actors, a)
		}
		if len(s[n]) > 0 && !ownedByActor(n, root, actors) {
			ambient = append(ambient, s[n]...)
		}
	})

	sort.Slice(m.actors, func(i, j int) bool {
		return m.actors[i].Name() < m.actors[j].Name()
	})

	for _, a := range m.actors {
		for _, amb := range ambient {
			own, ok := a.Sensor(amb.Name())
			if !ok {
				a.addSensor(amb)
				continue
			}
			if own.BufferType() != amb.BufferType() ||
				!sameShape(own.Shape(), amb.Shape()) {
				return nil, fmt.Errorf("newMap: map %q: sensor %q of actor %q "+
					"has shape %v %v but the ambient sensor has shape %v %v",
					root.Name(), amb.Name(), a.Name(), own.BufferType(),
					own.Shape(), amb.BufferType(), amb.Shape())
			}
		}
	}

	seen := make(map[sensor.Sensor]bool)
	for _, a := range m.actors {
		for _, sen := range a.Sensors() {
			if !seen[sen] {
				seen[sen] = true
				m.sensors = append(m.sensors, sen)
			}
		}
	}

	return m, nil
}

// ownedByActor returns whether n is an actor node or lies beneath an
// actor node within the subtree rooted at root
func ownedByActor(n, root *scene.Node, actors map[*scene.Node]*Actor) bool {
	for c := n; c != nil; c = c.Parent() {
		if _, ok := actors[c]; ok {
			return true
		}
		if c == root {
			break
		}
	}
	return false
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Name returns the name of the map root
func (m *Map) Name() string {
	return m.root.Name()
}

// Root returns the map root
func (m *Map) Root() *scene.Node {
	return m.root
}

// Actors returns the actors of the map ordered by name
func (m *Map) Actors() []*Actor {
	return m.actors
}

// Len returns the number of actors in the map
func (m *Map) Len() int {
	return len(m.actors)
}

// Actor returns the actor of the map with the given name
func (m *Map) Actor(name string) (*Actor, bool) {
	i := sort.Search(len(m.actors), func(i int) bool {
		return m.actors[i].Name() >= name
	})
	if i < len(m.actors) && m.actors[i].Name() == name {
		return m.actors[i], true
	}
	return nil, false
}

// Nodes returns every node of the map in depth-first order
func (m *Map) Nodes() []*scene.Node {
	return m.nodes
}

// Bounds returns the box enclosing every shape of the map relative to
// the initial position of the map root. The box always contains the
// root itself.
func (m *Map) Bounds() r3.Box {
	return m.bounds
}

// Active returns whether the map root is active
func (m *Map) Active() bool {
	return m.root.Active()
}

// SetActive activates or deactivates the map root and with it every
// node of the map
func (m *Map) SetActive(active bool) {
	m.root.SetActive(active)
}

// SetActions latches the action of each actor named in actions
func (m *Map) SetActions(actions map[string]Action) {
	for name, action := range actions {
		a, ok := m.Actor(name)
		if !ok {
			if m.logger != nil {
				m.logger.Printf("warning: map %q has no actor %q", m.Name(),
					name)
			}
			continue
		}
		a.SetAction(action)
	}
}

// ApplyActions applies the latched action of every actor
func (m *Map) ApplyActions() {
	for _, a := range m.actors {
		a.ApplyAction()
	}
}

// RewardDones returns the reward and done flag of every actor in
// actor order. Accumulated rewards are drained.
func (m *Map) RewardDones() []RewardDone {
	rds := make([]RewardDone, len(m.actors))
	for i, a := range m.actors {
		rds[i] = a.GetRewardDone()
	}
	return rds
}

// Observations writes the observations of every actor into buffers.
// Actor i of the map is written at slot mapSlot*maxActors + i.
func (m *Map) Observations(buffers map[string]*buffer.Buffer, mapSlot,
	maxActors int) error {
	if len(m.actors) > maxActors {
		return fmt.Errorf("observations: map %q has %v actors but slots "+
			"hold %v", m.Name(), len(m.actors), maxActors)
	}
	for i, a := range m.actors {
		if err := a.ReadObservations(buffers, mapSlot*maxActors+i); err != nil {
			return fmt.Errorf("observations: map %q: %v", m.Name(), err)
		}
	}
	return nil
}

// Reset moves the map so that its root is at position, restoring every
// node to its initial transform relative to the root with zero
// velocity. Every actor is then reset.
func (m *Map) Reset(position r3.Vec) {
	offset := r3.Sub(position, m.root.Initial().Position)
	for _, n := range m.nodes {
		n.ResetState(offset)
	}
	for _, a := range m.actors {
		a.Reset()
	}
}

// Sensors returns every distinct sensor instance of the map
func (m *Map) Sensors() []sensor.Sensor {
	return m.sensors
}

// EnableSensors enables every distinct sensor of the map once
func (m *Map) EnableSensors() {
	for _, s := range m.sensors {
		s.Enable()
	}
}

// DisableSensors disables every distinct sensor of the map once
func (m *Map) DisableSensors() {
	for _, s := range m.sensors {
		s.Disable()
	}
}

package actors

import (
	"fmt"

	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
)

// MappingKind is the physical action an action component is mapped to
type MappingKind string

const (
	AddForce           MappingKind = "add_force"
	AddForceAtPosition MappingKind = "add_force_at_position"
	AddTorque          MappingKind = "add_torque"
	ChangePosition     MappingKind = "change_position"
	ChangeRotation     MappingKind = "change_rotation"
	SetPosition        MappingKind = "set_position"
	SetRotation        MappingKind = "set_rotation"
	DoNothing          MappingKind = "do_nothing"
)

// ActionMapping maps an action value X to a physical action of
// magnitude (X - Offset) * Amplitude along or around Axis. Position is
// the target of SetPosition and the point AddForceAtPosition pushes at.
type ActionMapping struct {
	Kind      MappingKind
	Amplitude float64
	Offset    float64
	Axis      r3.Vec
	Position  r3.Vec

	// Local determines whether Axis and Position are in the frame of
	// the actuated node
	Local bool

	// Impulse determines whether forces and torques are applied as
	// impulses
	Impulse bool

	// MaxVelocity, if positive, disables forces while the linear speed
	// of the node is at least MaxVelocity, and torques while its
	// angular speed is
	MaxVelocity float64
}

func newActionMapping(desc scene.ActionMappingDesc) (ActionMapping, error) {
	m := ActionMapping{
		Kind:        MappingKind(desc.Action),
		Amplitude:   desc.Amplitude,
		Offset:      desc.Offset,
		Local:       desc.UseLocalCoordinates,
		Impulse:     desc.IsImpulse,
		MaxVelocity: desc.MaxVelocity,
	}

	switch m.Kind {
	case AddForce, AddForceAtPosition, AddTorque, ChangePosition,
		ChangeRotation, SetRotation:
		if len(desc.Axis) != 3 {
			return ActionMapping{}, fmt.Errorf("%v requires a 3D axis", m.Kind)
		}
		m.Axis = scene.Vec(desc.Axis, r3.Vec{})
		if r3.Norm(m.Axis) == 0 {
			return ActionMapping{}, fmt.Errorf("%v requires a non-zero axis",
				m.Kind)
		}
		m.Axis = r3.Unit(m.Axis)

		if m.Kind != AddForceAtPosition {
			break
		}
		if len(desc.Position) != 3 {
			return ActionMapping{}, fmt.Errorf("%v requires a 3D position",
				m.Kind)
		}
		m.Position = scene.Vec(desc.Position, r3.Vec{})

	case SetPosition:
		if len(desc.Position) != 3 {
			return ActionMapping{}, fmt.Errorf("%v requires a 3D position",
				m.Kind)
		}
		m.Position = scene.Vec(desc.Position, r3.Vec{})

	case DoNothing:

	default:
		return ActionMapping{}, fmt.Errorf("unknown action %q", desc.Action)
	}
	return m, nil
}

// Apply applies the mapping with action value x to n
func (m ActionMapping) Apply(n *scene.Node, x float64) {
	magnitude := (x - m.Offset) * m.Amplitude

	axis := m.Axis
	if m.Local {
		axis = scene.Rotate(n.Rotation(), axis)
	}

	switch m.Kind {
	case AddForce:
		if m.MaxVelocity > 0 && r3.Norm(n.LinearVelocity()) >= m.MaxVelocity {
			return
		}
		n.Body.AddForce(r3.Scale(magnitude, axis), m.Impulse)

	case AddForceAtPosition:
		if m.MaxVelocity > 0 && r3.Norm(n.LinearVelocity()) >= m.MaxVelocity {
			return
		}
		point := m.Position
		if m.Local {
			point = r3.Add(n.Position(), scene.Rotate(n.Rotation(), point))
		}
		n.Body.AddForceAt(r3.Scale(magnitude, axis), point, m.Impulse)

	case AddTorque:
		if m.MaxVelocity > 0 && r3.Norm(n.AngularVelocity()) >= m.MaxVelocity {
			return
		}
		n.Body.AddTorque(r3.Scale(magnitude, axis), m.Impulse)

	case ChangePosition:
		n.SetPosition(r3.Add(n.Position(), r3.Scale(magnitude, axis)))

	case ChangeRotation:
		n.SetRotation(scene.Compose(scene.AxisAngle(magnitude, axis),
			n.Rotation()))

	case SetRotation:
		n.SetRotation(scene.AxisAngle(magnitude, axis))

	case SetPosition:
		position := r3.Scale(magnitude, m.Position)
		if m.Local {
			position = r3.Add(n.Position(), scene.Rotate(n.Rotation(),
				m.Position))
		}
		n.SetPosition(position)
	}
}

// Actuator drives a node with action vectors. A discrete actuator
// selects one mapping per action with the first action component and
// applies it with value 1. A continuous actuator applies mapping i
// with action component i, after clipping it into Bounds[i].
type Actuator struct {
	Tag      string
	Node     *scene.Node
	Mappings []ActionMapping
	Discrete bool
	Bounds   []r1.Interval
}

// NewActuator returns the actuator described on n
func NewActuator(n *scene.Node) (*Actuator, error) {
	desc := n.Actuator
	if desc == nil {
		return nil, fmt.Errorf("newActuator: node %q has no actuator", n.Name())
	}
	if len(desc.Mapping) == 0 {
		return nil, fmt.Errorf("newActuator: actuator %q has no mappings",
			desc.ActuatorTag)
	}
	if len(desc.Low) != len(desc.High) {
		return nil, fmt.Errorf("newActuator: actuator %q has %v lower and %v "+
			"upper bounds", desc.ActuatorTag, len(desc.Low), len(desc.High))
	}

	a := &Actuator{
		Tag:      desc.ActuatorTag,
		Node:     n,
		Discrete: desc.Discrete(),
		Mappings: make([]ActionMapping, len(desc.Mapping)),
	}
	for i, md := range desc.Mapping {
		m, err := newActionMapping(md)
		if err != nil {
			return nil, fmt.Errorf("newActuator: actuator %q: %v",
				desc.ActuatorTag, err)
		}
		if (m.Kind == AddForce || m.Kind == AddForceAtPosition ||
			m.Kind == AddTorque) && n.Body == nil {
			return nil, fmt.Errorf("newActuator: actuator %q: %v requires "+
				"a physics body", desc.ActuatorTag, m.Kind)
		}
		a.Mappings[i] = m
	}

	if a.Discrete && desc.N != len(a.Mappings) {
		return nil, fmt.Errorf("newActuator: discrete actuator %q has %v "+
			"actions but %v mappings", desc.ActuatorTag, desc.N,
			len(a.Mappings))
	}

	for i := range desc.Low {
		if desc.Low[i] > desc.High[i] {
			return nil, fmt.Errorf("newActuator: actuator %q has empty "+
				"bounds at index %v", desc.ActuatorTag, i)
		}
		a.Bounds = append(a.Bounds, r1.Interval{Min: desc.Low[i],
			Max: desc.High[i]})
	}
	return a, nil
}

// Apply applies an action vector to the actuated node
func (a *Actuator) Apply(values []float64) error {
	if a.Discrete {
		if len(values) != 1 {
			return fmt.Errorf("apply: discrete actuator %q expects one "+
				"value, have(%v)", a.Tag, len(values))
		}
		i := int(values[0])
		if i < 0 || i >= len(a.Mappings) {
			return fmt.Errorf("apply: action %v out of range for actuator %q",
				i, a.Tag)
		}
		a.Mappings[i].Apply(a.Node, 1)
		return nil
	}

	if len(values) > len(a.Mappings) {
		return fmt.Errorf("apply: actuator %q has %v mappings, have(%v) "+
			"values", a.Tag, len(a.Mappings), len(values))
	}
	for i, x := range values {
		if i < len(a.Bounds) {
			x = floatutils.ClipInterval(x, a.Bounds[i])
		}
		a.Mappings[i].Apply(a.Node, x)
	}
	return nil
}

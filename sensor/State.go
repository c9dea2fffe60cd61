package sensor

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// properties maps each readable property to the number of values it
// writes
var properties = map[string]int{
	"position":           3,
	"position.x":         1,
	"position.y":         1,
	"position.z":         1,
	"velocity":           3,
	"velocity.x":         1,
	"velocity.y":         1,
	"velocity.z":         1,
	"rotation":           3,
	"rotation.x":         1,
	"rotation.y":         1,
	"rotation.z":         1,
	"angular_velocity":   3,
	"angular_velocity.x": 1,
	"angular_velocity.y": 1,
	"angular_velocity.z": 1,
	"distance":           1,
}

// State reads the kinematic state of a target entity. If a reference
// entity is given, the state is relative to the reference and
// expressed in its frame. Otherwise, the state is in the world frame.
//
// Rotations are written as the imaginary (x, y, z) components of the
// rotation quaternion.
type State struct {
	name       string
	target     scene.Entity
	reference  scene.Entity
	properties []string
	size       int
}

// NewState returns a new State sensor. The target entity must exist;
// a missing reference entity is logged and the world frame is used.
func NewState(desc *scene.StateSensorDesc, r Resolver,
	logger *log.Logger) (*State, error) {
	if r == nil {
		return nil, fmt.Errorf("newState: no entity resolver")
	}

	target := r.Entity(desc.TargetEntity)
	if target == nil {
		return nil, fmt.Errorf("newState: target entity %q not found",
			desc.TargetEntity)
	}

	var reference scene.Entity
	if desc.ReferenceEntity != "" {
		reference = r.Entity(desc.ReferenceEntity)
		if reference == nil && logger != nil {
			logger.Printf("warning: state sensor reference entity %q not "+
				"found, using world frame", desc.ReferenceEntity)
		}
	}

	size := 0
	for _, p := range desc.Properties {
		n, ok := properties[p]
		if !ok {
			return nil, fmt.Errorf("newState: unknown property %q", p)
		}
		size += n
	}
	if size == 0 {
		return nil, fmt.Errorf("newState: no properties")
	}

	props := make([]string, len(desc.Properties))
	copy(props, desc.Properties)
	return &State{
		name:       name(desc.SensorTag, StateName),
		target:     target,
		reference:  reference,
		properties: props,
		size:       size,
	}, nil
}

// Name implements the Sensor interface
func (s *State) Name() string {
	return s.name
}

// Shape implements the Sensor interface
func (s *State) Shape() []int {
	return []int{s.size}
}

// Size implements the Sensor interface
func (s *State) Size() int {
	return s.size
}

// BufferType implements the Sensor interface
func (s *State) BufferType() buffer.Type {
	return buffer.Float32
}

// Enable implements the Sensor interface
func (s *State) Enable() {}

// Disable implements the Sensor interface
func (s *State) Disable() {}

// kinematics is the state of the target in the frame of the reference
type kinematics struct {
	position r3.Vec
	velocity r3.Vec
	rotation r3.Rotation
	angular  r3.Vec
}

func (s *State) read() kinematics {
	t := s.target
	if s.reference == nil {
		return kinematics{
			position: t.Position(),
			velocity: t.LinearVelocity(),
			rotation: t.Rotation(),
			angular:  t.AngularVelocity(),
		}
	}

	ref := s.reference
	inv := scene.Inverse(ref.Rotation())
	return kinematics{
		position: scene.Rotate(inv, r3.Sub(t.Position(), ref.Position())),
		velocity: scene.Rotate(inv, r3.Sub(t.LinearVelocity(),
			ref.LinearVelocity())),
		rotation: scene.Compose(inv, t.Rotation()),
		angular:  scene.Rotate(inv, t.AngularVelocity()),
	}
}

// AddObsToBuffer implements the Sensor interface. Properties are
// written in the order they were declared.
func (s *State) AddObsToBuffer(b *buffer.Buffer, slot int) error {
	start, _, err := checkBuffer(s, b, slot)
	if err != nil {
		return fmt.Errorf("addObsToBuffer: %v", err)
	}

	k := s.read()
	rot := r3.Vec{X: k.rotation.Imag, Y: k.rotation.Jmag, Z: k.rotation.Kmag}

	values := make([]float64, 0, s.size)
	for _, p := range s.properties {
		switch p {
		case "position":
			values = append(values, k.position.X, k.position.Y, k.position.Z)
		case "position.x":
			values = append(values, k.position.X)
		case "position.y":
			values = append(values, k.position.Y)
		case "position.z":
			values = append(values, k.position.Z)
		case "velocity":
			values = append(values, k.velocity.X, k.velocity.Y, k.velocity.Z)
		case "velocity.x":
			values = append(values, k.velocity.X)
		case "velocity.y":
			values = append(values, k.velocity.Y)
		case "velocity.z":
			values = append(values, k.velocity.Z)
		case "rotation":
			values = append(values, rot.X, rot.Y, rot.Z)
		case "rotation.x":
			values = append(values, rot.X)
		case "rotation.y":
			values = append(values, rot.Y)
		case "rotation.z":
			values = append(values, rot.Z)
		case "angular_velocity":
			values = append(values, k.angular.X, k.angular.Y, k.angular.Z)
		case "angular_velocity.x":
			values = append(values, k.angular.X)
		case "angular_velocity.y":
			values = append(values, k.angular.Y)
		case "angular_velocity.z":
			values = append(values, k.angular.Z)
		case "distance":
			values = append(values, r3.Norm(k.position))
		}
	}

	data := b.Float32s()
	for i, v := range values {
		data[start+i] = float32(v)
	}
	return nil
}

package scene

import (
	"encoding/json"

	"gonum.org/v1/gonum/spatial/r3"
)

// RewardDesc is the static description of a reward function node. It
// is a tree: composite reward types (and, or, xor, not) carry their
// operands in Children, in order.
type RewardDesc struct {
	Type           string        `json:"type"`
	EntityA        string        `json:"entity_a,omitempty"`
	EntityB        string        `json:"entity_b,omitempty"`
	DistanceMetric string        `json:"distance_metric"`
	Direction      []float64     `json:"direction"`
	Scalar         float64       `json:"scalar"`
	Threshold      float64       `json:"threshold"`
	IsTerminal     bool          `json:"is_terminal"`
	IsCollectable  bool          `json:"is_collectable"`
	TriggerOnce    bool          `json:"trigger_once"`
	Children       []*RewardDesc `json:"children,omitempty"`
}

// NewRewardDesc returns a RewardDesc of type t with default values
// for every other field
func NewRewardDesc(t string) *RewardDesc {
	return &RewardDesc{
		Type:           t,
		DistanceMetric: "euclidean",
		Direction:      []float64{1, 0, 0},
		Scalar:         1,
		Threshold:      1,
		TriggerOnce:    true,
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface. Fields
// missing from data keep their default values.
func (r *RewardDesc) UnmarshalJSON(data []byte) error {
	type plain RewardDesc
	p := plain(*NewRewardDesc("dense"))
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = RewardDesc(p)
	return nil
}

// StateSensorDesc describes a sensor that reads the kinematic state of
// a target entity, optionally relative to a reference entity
type StateSensorDesc struct {
	SensorTag       string   `json:"sensor_tag"`
	TargetEntity    string   `json:"target_entity"`
	ReferenceEntity string   `json:"reference_entity,omitempty"`
	Properties      []string `json:"properties"`
}

// RaycastSensorDesc describes a fan of rays cast from the owning
// entity. Fields of view are in degrees.
type RaycastSensorDesc struct {
	SensorTag       string  `json:"sensor_tag"`
	NHorizontalRays int     `json:"n_horizontal_rays"`
	NVerticalRays   int     `json:"n_vertical_rays"`
	HorizontalFOV   float64 `json:"horizontal_fov"`
	VerticalFOV     float64 `json:"vertical_fov"`
	RayLength       float64 `json:"ray_length"`
}

// CameraDesc describes a camera sensor. Extent is the half-width, in
// world units, of the region the camera images.
type CameraDesc struct {
	SensorTag string  `json:"sensor_tag"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Extent    float64 `json:"extent"`
}

// ActionMappingDesc maps one component of an agent action to a
// physical action on the actuated entity
type ActionMappingDesc struct {
	Action              string    `json:"action"`
	Amplitude           float64   `json:"amplitude"`
	Offset              float64   `json:"offset"`
	Axis                []float64 `json:"axis,omitempty"`
	Position            []float64 `json:"position,omitempty"`
	UseLocalCoordinates bool      `json:"use_local_coordinates"`
	IsImpulse           bool      `json:"is_impulse"`
	MaxVelocity         float64   `json:"max_velocity_threshold,omitempty"`
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (a *ActionMappingDesc) UnmarshalJSON(data []byte) error {
	type plain ActionMappingDesc
	p := plain{Amplitude: 1, UseLocalCoordinates: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = ActionMappingDesc(p)
	return nil
}

// ActuatorDesc describes an actuator. A discrete actuator has N
// mappings and selects one per action; a continuous actuator applies
// every mapping, one per action component, after clipping each
// component into [Low, High].
type ActuatorDesc struct {
	ActuatorTag string              `json:"actuator_tag"`
	N           int                 `json:"n,omitempty"`
	Low         []float64           `json:"low,omitempty"`
	High        []float64           `json:"high,omitempty"`
	Mapping     []ActionMappingDesc `json:"mapping"`
}

// Discrete returns whether the actuator selects one mapping per action
func (a *ActuatorDesc) Discrete() bool {
	return a.N > 0
}

// JointDesc attaches a body to the body of the node named Parent
// with a revolute joint. Anchor is expressed in the parent's frame.
// Limits are in degrees.
type JointDesc struct {
	Parent     string    `json:"parent"`
	Anchor     []float64 `json:"anchor,omitempty"`
	LowerLimit float64   `json:"lower_limit,omitempty"`
	UpperLimit float64   `json:"upper_limit,omitempty"`
	MotorSpeed float64   `json:"motor_speed,omitempty"`
	MaxTorque  float64   `json:"max_torque,omitempty"`
}

// BodyType is the simulation type of a physics body
type BodyType string

const (
	Static    BodyType = "static"
	Kinematic BodyType = "kinematic"
	Dynamic   BodyType = "dynamic"
)

// BodyDesc describes the physics body of a node. A body with a Joint,
// or with Articulated set, is part of an articulated chain; the chain
// root is the articulated body without a Joint.
type BodyDesc struct {
	Type           BodyType   `json:"type"`
	Density        float64    `json:"density"`
	Friction       float64    `json:"friction"`
	Restitution    float64    `json:"restitution,omitempty"`
	LinearDamping  float64    `json:"linear_damping,omitempty"`
	AngularDamping float64    `json:"angular_damping,omitempty"`
	FixedRotation  bool       `json:"fixed_rotation,omitempty"`
	Articulated    bool       `json:"articulated,omitempty"`
	Joint          *JointDesc `json:"joint,omitempty"`
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (b *BodyDesc) UnmarshalJSON(data []byte) error {
	type plain BodyDesc
	p := plain{Type: Dynamic, Density: 1, Friction: 0.3}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = BodyDesc(p)
	return nil
}

// ShapeKind is the kind of a collision/render shape
type ShapeKind string

const (
	Box    ShapeKind = "box"
	Sphere ShapeKind = "sphere"
)

// Shape is the geometric extent of a node. For a Box, Size holds the
// full side lengths; for a Sphere, Radius is used.
type Shape struct {
	Kind   ShapeKind  `json:"kind"`
	Size   [3]float64 `json:"size,omitempty"`
	Radius float64    `json:"radius,omitempty"`
	Color  [3]float64 `json:"color,omitempty"`
}

// Extents returns the half extents of the axis-aligned box enclosing
// the shape, ignoring rotation
func (s *Shape) Extents() r3.Vec {
	switch s.Kind {
	case Sphere:
		return r3.Vec{X: s.Radius, Y: s.Radius, Z: s.Radius}
	default:
		return r3.Vec{X: s.Size[0] / 2, Y: s.Size[1] / 2, Z: s.Size[2] / 2}
	}
}

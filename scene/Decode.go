package scene

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// nodeJSON is the serialised form of a Node
type nodeJSON struct {
	Name          string             `json:"name"`
	Position      []float64          `json:"position,omitempty"`
	Rotation      []float64          `json:"rotation,omitempty"`
	Active        *bool              `json:"active,omitempty"`
	Actor         bool               `json:"actor,omitempty"`
	Shape         *Shape             `json:"shape,omitempty"`
	Body          *BodyDesc          `json:"body,omitempty"`
	Reward        *RewardDesc        `json:"reward,omitempty"`
	StateSensor   *StateSensorDesc   `json:"state_sensor,omitempty"`
	RaycastSensor *RaycastSensorDesc `json:"raycast_sensor,omitempty"`
	Camera        *CameraDesc        `json:"camera,omitempty"`
	Actuator      *ActuatorDesc      `json:"actuator,omitempty"`
	Children      []*nodeJSON        `json:"children,omitempty"`
}

// DecodeJSON decodes a JSON scene description into a Graph. Bodies are
// created through factory for every node that describes one; factory
// may be nil if the scene has no bodies.
//
// Positions are 3-vectors, rotations are quaternions ordered x, y, z,
// w. Both are relative to the parent node. A node whose "active" field
// is false starts inactive.
func DecodeJSON(data []byte, factory BodyFactory) (*Graph, error) {
	var desc nodeJSON
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("decodeJSON: could not parse scene: %v", err)
	}

	bodies := make(map[*Node]*BodyDesc)
	inactive := make([]*Node, 0)
	root, err := build(&desc, Transform{Rotation: Identity}, bodies, &inactive)
	if err != nil {
		return nil, fmt.Errorf("decodeJSON: %v", err)
	}

	g, err := NewGraph(root)
	if err != nil {
		return nil, fmt.Errorf("decodeJSON: %v", err)
	}

	if len(bodies) > 0 {
		if factory == nil {
			return nil, fmt.Errorf("decodeJSON: scene has bodies but no " +
				"body factory was given")
		}
		if err := createBodies(g, bodies, factory); err != nil {
			return nil, fmt.Errorf("decodeJSON: %v", err)
		}
	}

	for _, n := range inactive {
		n.SetActive(false)
	}
	return g, nil
}

func build(desc *nodeJSON, parent Transform, bodies map[*Node]*BodyDesc,
	inactive *[]*Node) (*Node, error) {
	position, err := vec(desc.Position)
	if err != nil {
		return nil, fmt.Errorf("node %q: position: %v", desc.Name, err)
	}

	rotation := Identity
	switch len(desc.Rotation) {
	case 0:
	case 4:
		rotation = Quaternion(desc.Rotation[0], desc.Rotation[1],
			desc.Rotation[2], desc.Rotation[3])
	default:
		return nil, fmt.Errorf("node %q: rotation must have 4 components, "+
			"have(%v)", desc.Name, len(desc.Rotation))
	}

	n := NewNode(desc.Name,
		r3.Add(parent.Position, Rotate(parent.Rotation, position)),
		Compose(parent.Rotation, rotation))
	n.IsActor = desc.Actor
	n.Shape = desc.Shape
	n.Reward = desc.Reward
	n.StateSensor = desc.StateSensor
	n.RaycastSensor = desc.RaycastSensor
	n.Camera = desc.Camera
	n.Actuator = desc.Actuator

	if desc.Body != nil {
		bodies[n] = desc.Body
	}
	if desc.Active != nil && !*desc.Active {
		*inactive = append(*inactive, n)
	}

	for _, c := range desc.Children {
		child, err := build(c, n.transform, bodies, inactive)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

// createBodies creates bodies in scene order. A jointed body is created
// only once the body of its joint parent exists.
func createBodies(g *Graph, bodies map[*Node]*BodyDesc,
	factory BodyFactory) error {
	pending := make([]*Node, 0, len(bodies))
	for _, n := range g.Nodes() {
		if _, ok := bodies[n]; ok {
			pending = append(pending, n)
		}
	}

	for len(pending) > 0 {
		next := pending[:0]
		for _, n := range pending {
			desc := bodies[n]

			var parent Body
			if desc.Joint != nil {
				p, ok := g.Lookup(desc.Joint.Parent)
				if !ok {
					return fmt.Errorf("node %q: joint parent %q not found",
						n.Name(), desc.Joint.Parent)
				}
				if _, hasBody := bodies[p]; !hasBody {
					return fmt.Errorf("node %q: joint parent %q has no body",
						n.Name(), p.Name())
				}
				if p.Body == nil {
					next = append(next, n)
					continue
				}
				parent = p.Body
			}

			body, err := factory.NewBody(n, desc, parent)
			if err != nil {
				return fmt.Errorf("node %q: could not create body: %v",
					n.Name(), err)
			}
			n.Body = body
		}

		if len(next) == len(pending) {
			return fmt.Errorf("cyclic joints between %v nodes", len(next))
		}
		pending = next
	}
	return nil
}

func vec(v []float64) (r3.Vec, error) {
	switch len(v) {
	case 0:
		return r3.Vec{}, nil
	case 3:
		return r3.Vec{X: v[0], Y: v[1], Z: v[2]}, nil
	default:
		return r3.Vec{}, fmt.Errorf("expected 3 components, have(%v)", len(v))
	}
}

// Vec converts a 3-component slice to a vector. Slices of any other
// length result in def.
func Vec(v []float64, def r3.Vec) r3.Vec {
	if len(v) != 3 {
		return def
	}
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

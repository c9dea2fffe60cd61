package scene

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a position and rotation in world coordinates
type Transform struct {
	Position r3.Vec
	Rotation r3.Rotation
}

// Node is an entity in a scene graph. A Node without a Body is a
// kinematic transform: it only moves when it is moved explicitly.
//
// Descriptions attached to a Node (Reward, StateSensor, ...) are static
// data read once when actors and sensors are constructed.
type Node struct {
	name     string
	parent   *Node
	children []*Node

	transform Transform
	initial   Transform
	linear    r3.Vec
	angular   r3.Vec
	active    bool

	Body  Body
	Shape *Shape

	IsActor       bool
	Reward        *RewardDesc
	StateSensor   *StateSensorDesc
	RaycastSensor *RaycastSensorDesc
	Camera        *CameraDesc
	Actuator      *ActuatorDesc
}

// NewNode returns a new, active Node at the given transform
func NewNode(name string, position r3.Vec, rotation r3.Rotation) *Node {
	if rotation == (r3.Rotation{}) {
		rotation = Identity
	}
	t := Transform{Position: position, Rotation: rotation}
	return &Node{
		name:      name,
		transform: t,
		initial:   t,
		active:    true,
	}
}

// Name returns the name of the node
func (n *Node) Name() string {
	return n.name
}

// Parent returns the parent of the node, or nil for a root node
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the direct children of the node
func (n *Node) Children() []*Node {
	return n.children
}

// AddChild parents c under n
func (n *Node) AddChild(c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) removeChild(c *Node) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Within returns whether n is ancestor or lies beneath it
func (n *Node) Within(ancestor *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Walk calls fn on n and every node beneath it in depth-first order
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Position returns the world position of the node
func (n *Node) Position() r3.Vec {
	if n.Body != nil {
		return n.Body.Position()
	}
	return n.transform.Position
}

// Rotation returns the world rotation of the node
func (n *Node) Rotation() r3.Rotation {
	if n.Body != nil {
		return n.Body.Rotation()
	}
	return n.transform.Rotation
}

// LinearVelocity returns the world linear velocity of the node
func (n *Node) LinearVelocity() r3.Vec {
	if n.Body != nil {
		return n.Body.LinearVelocity()
	}
	return n.linear
}

// AngularVelocity returns the world angular velocity of the node
func (n *Node) AngularVelocity() r3.Vec {
	if n.Body != nil {
		return n.Body.AngularVelocity()
	}
	return n.angular
}

// Forward returns the forward axis of the node in world coordinates
func (n *Node) Forward() r3.Vec {
	return Rotate(n.Rotation(), Forward)
}

// SetTransform teleports the node
func (n *Node) SetTransform(position r3.Vec, rotation r3.Rotation) {
	if n.Body != nil {
		n.Body.SetTransform(position, rotation)
		return
	}
	n.transform = Transform{Position: position, Rotation: rotation}
}

// SetPosition teleports the node, keeping its rotation
func (n *Node) SetPosition(position r3.Vec) {
	n.SetTransform(position, n.Rotation())
}

// SetRotation rotates the node in place
func (n *Node) SetRotation(rotation r3.Rotation) {
	n.SetTransform(n.Position(), rotation)
}

// SetVelocity sets the linear and angular velocity of the node
func (n *Node) SetVelocity(linear, angular r3.Vec) {
	if n.Body != nil {
		n.Body.SetVelocity(linear, angular)
		return
	}
	n.linear, n.angular = linear, angular
}

// ActiveSelf returns the local active flag of the node
func (n *Node) ActiveSelf() bool {
	return n.active
}

// Active returns whether the node and all of its ancestors are active
func (n *Node) Active() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.active {
			return false
		}
	}
	return true
}

// SetActive sets the local active flag of the node. Physics bodies in
// the subtree are enabled exactly when their node is active.
func (n *Node) SetActive(active bool) {
	n.active = active
	n.Walk(func(c *Node) {
		if c.Body != nil {
			c.Body.SetEnabled(c.Active())
		}
	})
}

// Initial returns the transform recorded for the node when its scene
// graph was built
func (n *Node) Initial() Transform {
	return n.initial
}

// Capture records the current transform as the node's initial
// transform
func (n *Node) Capture() {
	n.initial = Transform{Position: n.Position(), Rotation: n.Rotation()}
}

// ResetState teleports the node to its initial transform shifted by
// offset and zeroes its velocities. Articulated bodies are re-anchored
// through their chain root instead of being moved link by link.
func (n *Node) ResetState(offset r3.Vec) {
	position := r3.Add(n.initial.Position, offset)

	if art, ok := n.Body.(Articulated); ok {
		art.SetVelocity(r3.Vec{}, r3.Vec{})
		art.ResetJoints()
		if art.IsRoot() {
			art.TeleportRoot(position, n.initial.Rotation)
		}
		return
	}

	n.SetTransform(position, n.initial.Rotation)
	n.SetVelocity(r3.Vec{}, r3.Vec{})
}

// Bounds returns the world-space box enclosing the shape of the node.
// Nodes without a shape have a degenerate box at their position.
func (n *Node) Bounds() r3.Box {
	p := n.Position()
	if n.Shape == nil {
		return r3.Box{Min: p, Max: p}
	}
	ext := n.Shape.Extents()
	return r3.Box{Min: r3.Sub(p, ext), Max: r3.Add(p, ext)}
}

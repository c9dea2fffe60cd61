// Package scene implements the entity graph that environment pools are
// built from. A scene is a tree of Nodes. Every Node is an Entity: an
// opaque handle to a positioned object in the simulated world. Nodes
// may be backed by a physics Body, in which case their kinematic state
// is read from and written to the physics substrate.
//
// The engine never creates or destroys entities after a scene has been
// decoded. It only activates, deactivates, and repositions them.
package scene

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Entity is a positioned object in the simulated world
type Entity interface {
	Name() string
	Position() r3.Vec
	Rotation() r3.Rotation
	LinearVelocity() r3.Vec
	AngularVelocity() r3.Vec

	// Forward returns the unit forward (+Z) axis of the entity in
	// world coordinates
	Forward() r3.Vec

	Active() bool
	SetActive(active bool)
}

// Body is a physics-backed rigid body. Nodes with a Body read their
// transform and velocities from it.
type Body interface {
	Position() r3.Vec
	Rotation() r3.Rotation
	LinearVelocity() r3.Vec
	AngularVelocity() r3.Vec

	SetTransform(position r3.Vec, rotation r3.Rotation)
	SetVelocity(linear, angular r3.Vec)

	// SetEnabled toggles whether the body participates in the
	// simulation
	SetEnabled(enabled bool)

	// AddForce applies a force (or an impulse if impulse is true) at
	// the centre of mass of the body
	AddForce(force r3.Vec, impulse bool)

	// AddForceAt applies a force (or an impulse) at a world point
	AddForceAt(force, point r3.Vec, impulse bool)

	// AddTorque applies a torque (or an angular impulse if impulse is
	// true) to the body
	AddTorque(torque r3.Vec, impulse bool)
}

// Articulated is a Body whose motion is driven by joint state. An
// articulated body cannot be teleported link by link: the whole chain
// is re-anchored through its root.
type Articulated interface {
	Body
	IsRoot() bool

	// ResetJoints zeroes the joint state of the link
	ResetJoints()

	// TeleportRoot moves the root of the chain, carrying every link
	// with it at its initial offset from the root
	TeleportRoot(position r3.Vec, rotation r3.Rotation)
}

// BodyFactory creates physics bodies for Nodes as a scene is decoded.
// The parent argument is the Body of the node named by desc.Joint, or
// nil if the body is not jointed.
type BodyFactory interface {
	NewBody(n *Node, desc *BodyDesc, parent Body) (Body, error)
}

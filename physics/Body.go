package physics

import (
	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/spatial/r3"
)

// Body is a rigid body simulated in a World. Body implements the
// scene.Body interface.
type Body struct {
	world  *World
	body   *box2d.B2Body
	height float64
}

// Position returns the world position of the body
func (b *Body) Position() r3.Vec {
	p := b.body.GetPosition()
	return r3.Vec{X: p.X, Y: b.height, Z: p.Y}
}

// Rotation returns the yaw rotation of the body
func (b *Body) Rotation() r3.Rotation {
	return rotationOf(b.body.GetAngle())
}

// LinearVelocity returns the velocity of the body in the ground plane
func (b *Body) LinearVelocity() r3.Vec {
	v := b.body.GetLinearVelocity()
	return r3.Vec{X: v.X, Z: v.Y}
}

// AngularVelocity returns the angular velocity of the body around the
// up axis
func (b *Body) AngularVelocity() r3.Vec {
	return r3.Vec{Y: -b.body.GetAngularVelocity()}
}

// SetTransform teleports the body
func (b *Body) SetTransform(position r3.Vec, rotation r3.Rotation) {
	b.height = position.Y
	b.body.SetTransform(box2d.MakeB2Vec2(position.X, position.Z),
		angleOf(rotation))
}

// SetVelocity sets the linear and angular velocity of the body
func (b *Body) SetVelocity(linear, angular r3.Vec) {
	b.body.SetLinearVelocity(box2d.MakeB2Vec2(linear.X, linear.Z))
	b.body.SetAngularVelocity(-angular.Y)
}

// SetEnabled adds or removes the body from the simulation
func (b *Body) SetEnabled(enabled bool) {
	if b.body.IsActive() != enabled {
		b.body.SetActive(enabled)
	}
}

// Enabled returns whether the body participates in the simulation
func (b *Body) Enabled() bool {
	return b.body.IsActive()
}

// AddForce applies a force or impulse at the centre of mass
func (b *Body) AddForce(force r3.Vec, impulse bool) {
	f := box2d.MakeB2Vec2(force.X, force.Z)
	if impulse {
		b.body.ApplyLinearImpulse(f, b.body.GetWorldCenter(), true)
		return
	}
	b.body.ApplyForceToCenter(f, true)
}

// AddForceAt applies a force or impulse at a world point, which also
// turns the body if the point is off its centre of mass
func (b *Body) AddForceAt(force, point r3.Vec, impulse bool) {
	f := box2d.MakeB2Vec2(force.X, force.Z)
	p := box2d.MakeB2Vec2(point.X, point.Z)
	if impulse {
		b.body.ApplyLinearImpulse(f, p, true)
		return
	}
	b.body.ApplyForce(f, p, true)
}

// AddTorque applies a torque or angular impulse around the up axis
func (b *Body) AddTorque(torque r3.Vec, impulse bool) {
	if impulse {
		b.body.ApplyAngularImpulse(-torque.Y, true)
		return
	}
	b.body.ApplyTorque(-torque.Y, true)
}

package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// link is a body in an articulated chain together with its pose
// relative to the chain root when the chain was built
type link struct {
	body   *Body
	offset r3.Vec
	angle  float64
}

// Chain is a set of bodies joined by revolute joints. Links are driven
// by their joints, so a chain is only ever moved as a whole through its
// root.
type Chain struct {
	root  *Body
	links []link
}

func newChain(root *Body) *Chain {
	return &Chain{root: root}
}

// add records b as a link of the chain at its current pose
func (c *Chain) add(b *Body) {
	rp := c.root.body.GetPosition()
	bp := b.body.GetPosition()
	theta := c.root.body.GetAngle()

	// Offset is stored in the root's frame
	dx, dy := bp.X-rp.X, bp.Y-rp.Y
	cos, sin := math.Cos(-theta), math.Sin(-theta)
	c.links = append(c.links, link{
		body:   b,
		offset: r3.Vec{X: dx*cos - dy*sin, Y: b.height - c.root.height, Z: dx*sin + dy*cos},
		angle:  b.body.GetAngle() - theta,
	})
}

// Len returns the number of bodies in the chain, including the root
func (c *Chain) Len() int {
	return len(c.links) + 1
}

// ArticulatedBody is a Body that is part of a Chain. ArticulatedBody
// implements the scene.Articulated interface.
type ArticulatedBody struct {
	*Body
	chain *Chain
}

// IsRoot returns whether the body is the root of its chain
func (a *ArticulatedBody) IsRoot() bool {
	return a.chain.root == a.Body
}

// ResetJoints zeroes the motion of the link
func (a *ArticulatedBody) ResetJoints() {
	a.Body.SetVelocity(r3.Vec{}, r3.Vec{})
}

// TeleportRoot moves the chain root to the given transform and places
// every link at its recorded offset from the root
func (a *ArticulatedBody) TeleportRoot(position r3.Vec, rotation r3.Rotation) {
	root := a.chain.root
	root.SetTransform(position, rotation)
	root.SetVelocity(r3.Vec{}, r3.Vec{})

	theta := angleOf(rotation)
	cos, sin := math.Cos(theta), math.Sin(theta)
	for _, l := range a.chain.links {
		x := position.X + l.offset.X*cos - l.offset.Z*sin
		z := position.Z + l.offset.X*sin + l.offset.Z*cos
		l.body.SetTransform(r3.Vec{X: x, Y: position.Y + l.offset.Y, Z: z},
			rotationOf(theta+l.angle))
		l.body.SetVelocity(r3.Vec{}, r3.Vec{})
	}
}

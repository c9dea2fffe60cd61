// Package physics implements the physics substrate that environment
// pools are simulated in. The substrate is a Box2D world: the 3D scene
// is simulated in its ground plane, with world X mapped to Box2D x and
// world Z mapped to Box2D y. The height (Y) of a body is carried
// through unchanged, and rotations are restricted to yaw around the up
// axis.
package physics

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"github.com/samuelfneumann/gosimulate/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Box2D body types
const (
	staticBody    = 0
	kinematicBody = 1
	dynamicBody   = 2
)

const (
	VelocityIterations int = 8
	PositionIterations int = 3
)

// Config configures a World
type Config struct {
	// Gravity in world coordinates. Only the X and Z components act
	// on bodies since the world is simulated in the ground plane.
	Gravity r3.Vec

	VelocityIterations int
	PositionIterations int
}

// DefaultConfig returns the default configuration of a World: no
// gravity in the ground plane and the standard Box2D solver iterations
func DefaultConfig() Config {
	return Config{
		VelocityIterations: VelocityIterations,
		PositionIterations: PositionIterations,
	}
}

// World is a Box2D-backed physics substrate. It creates bodies for
// scene nodes, advances the simulation, and casts rays against the
// bodies it simulates.
type World struct {
	world  box2d.B2World
	config Config
	bodies []*Body
	chains map[*Body]*Chain
}

// NewWorld returns a new, empty World
func NewWorld(c Config) *World {
	if c.VelocityIterations <= 0 {
		c.VelocityIterations = VelocityIterations
	}
	if c.PositionIterations <= 0 {
		c.PositionIterations = PositionIterations
	}

	return &World{
		world:  box2d.MakeB2World(box2d.MakeB2Vec2(c.Gravity.X, c.Gravity.Z)),
		config: c,
		chains: make(map[*Body]*Chain),
	}
}

// Step advances the simulation by dt seconds
func (w *World) Step(dt float64) {
	w.world.Step(dt, w.config.VelocityIterations, w.config.PositionIterations)
}

// Len returns the number of bodies in the world
func (w *World) Len() int {
	return len(w.bodies)
}

// NewBody implements the scene.BodyFactory interface. The body's
// collision shape is taken from the node's shape: spheres become
// circles, boxes become rectangles with the node's X and Z extents.
func (w *World) NewBody(n *scene.Node, desc *scene.BodyDesc,
	parent scene.Body) (scene.Body, error) {
	if n.Shape == nil {
		return nil, fmt.Errorf("newBody: node %q has no shape", n.Name())
	}

	def := box2d.MakeB2BodyDef()
	switch desc.Type {
	case scene.Static:
		def.Type = staticBody
	case scene.Kinematic:
		def.Type = kinematicBody
	case scene.Dynamic, "":
		def.Type = dynamicBody
	default:
		return nil, fmt.Errorf("newBody: unknown body type %q", desc.Type)
	}

	position := n.Position()
	def.Position = box2d.MakeB2Vec2(position.X, position.Z)
	def.Angle = angleOf(n.Rotation())
	def.LinearDamping = desc.LinearDamping
	def.AngularDamping = desc.AngularDamping
	def.FixedRotation = desc.FixedRotation

	b := &Body{
		world:  w,
		body:   w.world.CreateBody(&def),
		height: position.Y,
	}

	fixture := box2d.MakeB2FixtureDef()
	switch n.Shape.Kind {
	case scene.Sphere:
		circle := box2d.NewB2CircleShape()
		circle.M_radius = n.Shape.Radius
		fixture.Shape = circle
	case scene.Box:
		box := box2d.NewB2PolygonShape()
		box.SetAsBox(n.Shape.Size[0]/2, n.Shape.Size[2]/2)
		fixture.Shape = box
	default:
		w.world.DestroyBody(b.body)
		return nil, fmt.Errorf("newBody: unknown shape kind %q", n.Shape.Kind)
	}
	fixture.Density = desc.Density
	fixture.Friction = desc.Friction
	fixture.Restitution = desc.Restitution
	b.body.CreateFixtureFromDef(&fixture)

	w.bodies = append(w.bodies, b)

	switch {
	case desc.Joint != nil:
		return w.attach(b, desc.Joint, parent)
	case desc.Articulated:
		chain := newChain(b)
		w.chains[b] = chain
		return &ArticulatedBody{Body: b, chain: chain}, nil
	}
	return b, nil
}

// attach joins b to the body parent with a revolute joint, adding b to
// the articulated chain of parent
func (w *World) attach(b *Body, joint *scene.JointDesc,
	parent scene.Body) (scene.Body, error) {
	p, ok := parent.(*ArticulatedBody)
	if !ok {
		return nil, fmt.Errorf("attach: joint parent must be articulated")
	}

	anchor := scene.Vec(joint.Anchor, r3.Vec{})
	worldAnchor := p.body.GetWorldPoint(box2d.MakeB2Vec2(anchor.X, anchor.Z))

	rjd := box2d.MakeB2RevoluteJointDef()
	rjd.Initialize(p.body, b.body, worldAnchor)
	if joint.LowerLimit != joint.UpperLimit {
		rjd.EnableLimit = true
		rjd.LowerAngle = joint.LowerLimit * math.Pi / 180
		rjd.UpperAngle = joint.UpperLimit * math.Pi / 180
	}
	if joint.MaxTorque > 0 {
		rjd.EnableMotor = true
		rjd.MaxMotorTorque = joint.MaxTorque
		rjd.MotorSpeed = joint.MotorSpeed
	}
	w.world.CreateJoint(&rjd)

	p.chain.add(b)
	return &ArticulatedBody{Body: b, chain: p.chain}, nil
}

// RayCast casts a ray of the given length from the position of from
// along dir and returns the distance to the closest body hit. The body
// of from, if any, is ignored. Rays are cast in the ground plane: a
// ray without a horizontal component never hits.
func (w *World) RayCast(from scene.Entity, dir r3.Vec,
	length float64) (float64, bool) {
	if length <= 0 || r3.Norm(dir) == 0 {
		return 0, false
	}
	d := r3.Unit(dir)
	if math.Hypot(d.X, d.Z) < 1e-9 {
		return 0, false
	}

	var ignore *box2d.B2Body
	if n, ok := from.(*scene.Node); ok {
		if b := bodyOf(n.Body); b != nil {
			ignore = b.body
		}
	}

	origin := from.Position()
	p1 := box2d.MakeB2Vec2(origin.X, origin.Z)
	p2 := box2d.MakeB2Vec2(origin.X+d.X*length, origin.Z+d.Z*length)

	closest := 1.0
	hit := false
	w.world.RayCast(func(fixture *box2d.B2Fixture, point, normal box2d.B2Vec2,
		fraction float64) float64 {
		if fixture.GetBody() == ignore || fixture.IsSensor() {
			return -1
		}
		if fraction < closest {
			closest = fraction
		}
		hit = true
		return fraction
	}, p1, p2)

	if !hit {
		return 0, false
	}
	return closest * length, true
}

// Destroy removes every body from the world
func (w *World) Destroy() {
	for _, b := range w.bodies {
		w.world.DestroyBody(b.body)
	}
	w.bodies = nil
	w.chains = make(map[*Body]*Chain)
}

// angleOf returns the Box2D angle of the yaw component of r
func angleOf(r r3.Rotation) float64 {
	f := scene.Rotate(r, scene.Forward)
	return -math.Atan2(f.X, f.Z)
}

// rotationOf returns the rotation of a Box2D body at angle theta
func rotationOf(theta float64) r3.Rotation {
	if theta == 0 {
		return scene.Identity
	}
	return r3.NewRotation(-theta, scene.Up)
}

func bodyOf(b scene.Body) *Body {
	switch body := b.(type) {
	case *Body:
		return body
	case *ArticulatedBody:
		return body.Body
	}
	return nil
}

package physics

import (
	"math"
	"testing"

	"github.com/samuelfneumann/gosimulate/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

const worldJSON = `{
	"name": "root",
	"children": [
		{
			"name": "agent",
			"shape": {"kind": "sphere", "radius": 0.5},
			"body": {}
		},
		{
			"name": "wall",
			"position": [5, 0, 0],
			"shape": {"kind": "box", "size": [1, 1, 1]},
			"body": {"type": "static"}
		},
		{
			"name": "arm",
			"position": [0, 0, 10],
			"shape": {"kind": "box", "size": [1, 1, 1]},
			"body": {"articulated": true}
		},
		{
			"name": "hand",
			"position": [1, 0, 10],
			"shape": {"kind": "box", "size": [1, 1, 1]},
			"body": {"joint": {"parent": "arm", "anchor": [0.5, 0, 0]}}
		}
	]
}`

func newTestWorld(t *testing.T) (*World, *scene.Graph) {
	w := NewWorld(DefaultConfig())
	g, err := scene.DecodeJSON([]byte(worldJSON), w)
	if err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	return w, g
}

func lookup(t *testing.T, g *scene.Graph, name string) *scene.Node {
	n, ok := g.Lookup(name)
	if !ok {
		t.Fatalf("lookup: %v not found", name)
	}
	return n
}

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-6
}

func TestNewBody(t *testing.T) {
	w, g := newTestWorld(t)
	if w.Len() != 4 {
		t.Errorf("len: want(4) have(%v)", w.Len())
	}

	if _, ok := lookup(t, g, "agent").Body.(*Body); !ok {
		t.Error("agent should have a plain body")
	}

	arm, ok := lookup(t, g, "arm").Body.(*ArticulatedBody)
	if !ok || !arm.IsRoot() {
		t.Fatal("arm should be the root of a chain")
	}
	hand, ok := lookup(t, g, "hand").Body.(*ArticulatedBody)
	if !ok || hand.IsRoot() {
		t.Fatal("hand should be a non-root link")
	}
	if arm.chain.Len() != 2 {
		t.Errorf("chain len: want(2) have(%v)", arm.chain.Len())
	}
}

func TestRayCast(t *testing.T) {
	w, g := newTestWorld(t)
	agent := lookup(t, g, "agent")

	tests := []struct {
		dir    r3.Vec
		length float64
		hit    bool
		dist   float64
	}{
		{r3.Vec{X: 1}, 10, true, 4.5},
		{r3.Vec{X: 1}, 4, false, 0},
		{r3.Vec{X: -1}, 10, false, 0},
		{r3.Vec{Y: 1}, 10, false, 0},
	}

	for _, test := range tests {
		dist, hit := w.RayCast(agent, test.dir, test.length)
		if hit != test.hit {
			t.Errorf("rayCast(%v, %v): want hit(%v) have(%v)", test.dir,
				test.length, test.hit, hit)
			continue
		}
		if math.Abs(dist-test.dist) > 1e-6 {
			t.Errorf("rayCast(%v, %v): want(%v) have(%v)", test.dir,
				test.length, test.dist, dist)
		}
	}
}

func TestRayCastIgnoresDisabled(t *testing.T) {
	w, g := newTestWorld(t)
	lookup(t, g, "wall").SetActive(false)

	if _, hit := w.RayCast(lookup(t, g, "agent"), r3.Vec{X: 1}, 10); hit {
		t.Error("disabled bodies should not be hit")
	}
}

func TestStep(t *testing.T) {
	w, g := newTestWorld(t)
	agent := lookup(t, g, "agent")
	agent.SetVelocity(r3.Vec{Z: -1}, r3.Vec{})

	for i := 0; i < 10; i++ {
		w.Step(0.1)
	}

	if want := (r3.Vec{Z: -1}); !near(agent.Position(), want) {
		t.Errorf("position: want(%v) have(%v)", want, agent.Position())
	}
	if want := (r3.Vec{Z: -1}); !near(agent.LinearVelocity(), want) {
		t.Errorf("velocity: want(%v) have(%v)", want, agent.LinearVelocity())
	}
}

func TestRotationRoundTrip(t *testing.T) {
	for _, deg := range []float64{0, 30, 90, -135} {
		theta := angleOf(scene.Yaw(deg))
		f := scene.Rotate(rotationOf(theta), scene.Forward)
		want := scene.Rotate(scene.Yaw(deg), scene.Forward)
		if !near(f, want) {
			t.Errorf("yaw %v: want forward(%v) have(%v)", deg, want, f)
		}
	}
}

func TestTeleportRoot(t *testing.T) {
	_, g := newTestWorld(t)
	arm := lookup(t, g, "arm")
	hand := lookup(t, g, "hand")

	arm.Body.(*ArticulatedBody).TeleportRoot(r3.Vec{X: 10}, scene.Yaw(90))

	if !near(arm.Position(), r3.Vec{X: 10}) {
		t.Errorf("root position: have(%v)", arm.Position())
	}
	if want := (r3.Vec{X: 10, Z: -1}); !near(hand.Position(), want) {
		t.Errorf("link position: want(%v) have(%v)", want, hand.Position())
	}

	f := hand.Forward()
	if want := (r3.Vec{X: 1}); !near(f, want) {
		t.Errorf("link forward: want(%v) have(%v)", want, f)
	}
}

func TestResetState(t *testing.T) {
	_, g := newTestWorld(t)
	arm := lookup(t, g, "arm")
	hand := lookup(t, g, "hand")

	arm.SetTransform(r3.Vec{X: -3}, scene.Yaw(45))
	hand.SetVelocity(r3.Vec{X: 2}, r3.Vec{Y: 1})

	offset := r3.Vec{X: 20}
	for _, n := range []*scene.Node{hand, arm} {
		n.ResetState(offset)
	}

	if want := (r3.Vec{X: 20, Z: 10}); !near(arm.Position(), want) {
		t.Errorf("root position: want(%v) have(%v)", want, arm.Position())
	}
	if want := (r3.Vec{X: 21, Z: 10}); !near(hand.Position(), want) {
		t.Errorf("link position: want(%v) have(%v)", want, hand.Position())
	}
	if hand.LinearVelocity() != (r3.Vec{}) {
		t.Errorf("link velocity should be zero: have(%v)", hand.LinearVelocity())
	}
}

package reward

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/samuelfneumann/gosimulate/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// newScene returns a graph with two entities, a at the origin facing
// +Z and b at bPos
func newScene(t *testing.T, bPos r3.Vec) (*scene.Graph, *scene.Node,
	*scene.Node) {
	root := scene.NewNode("root", r3.Vec{}, scene.Identity)
	a := scene.NewNode("a", r3.Vec{}, scene.Identity)
	b := scene.NewNode("b", bPos, scene.Identity)
	root.AddChild(a)
	root.AddChild(b)

	g, err := scene.NewGraph(root)
	if err != nil {
		t.Fatal(err)
	}
	return g, a, b
}

func build(t *testing.T, desc *scene.RewardDesc, r Resolver) *Function {
	f, err := Build(desc, r, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return f
}

// constant returns a leaf that returns weight on every call if on is
// true, and 0 otherwise
func constant(weight float64, on bool) *Function {
	threshold := 0.0
	if !on {
		threshold = math.Inf(1)
	}
	return &Function{Kind: Timeout, Weight: weight, Threshold: threshold}
}

func TestMetrics(t *testing.T) {
	_, a, b := newScene(t, r3.Vec{X: 3, Z: 4})

	if d := (Euclidean{}).Calculate(a, b); d != 5 {
		t.Errorf("euclidean: want(5) have(%v)", d)
	}

	a.SetPosition(r3.Vec{X: 2})
	if d := (Cosine{}).Calculate(a, b); math.Abs(d-0.6) > 1e-12 {
		t.Errorf("cosine: want(0.6) have(%v)", d)
	}

	a.SetPosition(r3.Vec{})
	if d := (Cosine{}).Calculate(a, b); d != 0 {
		t.Errorf("cosine at origin: want(0) have(%v)", d)
	}

	if _, err := ParseMetric("manhattan"); err == nil {
		t.Error("unknown metric should be rejected")
	}
}

func TestBest(t *testing.T) {
	_, a, b := newScene(t, r3.Vec{X: 10})
	m := NewBest(Euclidean{})
	if !math.IsInf(m.BestDistance(), 1) {
		t.Errorf("fresh best: want(+Inf) have(%v)", m.BestDistance())
	}

	m.Reset(a, b)
	if m.BestDistance() != 10 {
		t.Errorf("reset: want(10) have(%v)", m.BestDistance())
	}

	steps := []struct {
		x    float64
		want float64
	}{
		{4, 4},
		{2, 0},
		{5, 1},
		{9, 4},
		{9, 0},
	}
	for _, step := range steps {
		a.SetPosition(r3.Vec{X: step.x})
		if got := m.Calculate(a, b); got != step.want {
			t.Errorf("a at %v: want(%v) have(%v)", step.x, step.want, got)
		}
	}
}

func TestDense(t *testing.T) {
	g, a, _ := newScene(t, r3.Vec{X: 10})
	desc := scene.NewRewardDesc("dense")
	desc.EntityA, desc.EntityB = "a", "b"
	desc.DistanceMetric = "best_euclidean"
	desc.Scalar = 2
	desc.IsTerminal = true

	f := build(t, desc, g)
	f.Reset()

	a.SetPosition(r3.Vec{X: 7})
	if r := f.CalculateReward(); r != 14 {
		t.Errorf("reward: want(14) have(%v)", r)
	}
	if f.Done() {
		t.Error("dense rewards are never done")
	}
}

func TestSparseTriggerOnce(t *testing.T) {
	g, _, b := newScene(t, r3.Vec{X: 0.5})
	desc := scene.NewRewardDesc("sparse")
	desc.EntityA, desc.EntityB = "a", "b"
	desc.Scalar = 10
	desc.Threshold = 1

	f := build(t, desc, g)
	f.Reset()

	want := []float64{10, 0, 0}
	for i, w := range want {
		if r := f.CalculateReward(); r != w {
			t.Errorf("call %v: want(%v) have(%v)", i, w, r)
		}
	}

	f.Reset()
	if r := f.CalculateReward(); r != 10 {
		t.Errorf("after reset: want(10) have(%v)", r)
	}

	b.SetPosition(r3.Vec{X: 2})
	f.Reset()
	if r := f.CalculateReward(); r != 0 {
		t.Errorf("out of range: want(0) have(%v)", r)
	}
}

func TestSparseRepeat(t *testing.T) {
	g, _, _ := newScene(t, r3.Vec{X: 0.5})
	desc := scene.NewRewardDesc("sparse")
	desc.EntityA, desc.EntityB = "a", "b"
	desc.TriggerOnce = false

	f := build(t, desc, g)
	for i := 0; i < 3; i++ {
		if r := f.CalculateReward(); r != 1 {
			t.Errorf("call %v: want(1) have(%v)", i, r)
		}
	}
}

func TestSparseCollectable(t *testing.T) {
	g, _, b := newScene(t, r3.Vec{X: 0.5})
	desc := scene.NewRewardDesc("sparse")
	desc.EntityA, desc.EntityB = "a", "b"
	desc.IsCollectable = true
	desc.IsTerminal = true

	f := build(t, desc, g)
	f.CalculateReward()
	if b.Active() {
		t.Error("collected entity should be deactivated")
	}
	if !f.Done() {
		t.Error("triggered terminal reward should be done")
	}

	f.Reset()
	if !b.Active() {
		t.Error("collected entity should be re-activated on reset")
	}
	if f.Done() {
		t.Error("reset reward should not be done")
	}
}

func TestTimeout(t *testing.T) {
	desc := scene.NewRewardDesc("timeout")
	desc.Threshold = 3
	desc.Scalar = 5
	desc.IsTerminal = true

	f := build(t, desc, nil)

	want := []float64{0, 0, 5, 0, 0}
	for i, w := range want {
		if r := f.CalculateReward(); r != w {
			t.Errorf("call %v: want(%v) have(%v)", i+1, w, r)
		}
		if done := i >= 2; f.Done() != done {
			t.Errorf("call %v: want done(%v) have(%v)", i+1, done, f.Done())
		}
	}

	f.Reset()
	if f.Steps() != 0 {
		t.Errorf("steps after reset: want(0) have(%v)", f.Steps())
	}
	want = []float64{0, 0, 5}
	for i, w := range want {
		if r := f.CalculateReward(); r != w {
			t.Errorf("after reset, call %v: want(%v) have(%v)", i+1, w, r)
		}
	}
}

func TestSee(t *testing.T) {
	g, _, b := newScene(t, r3.Vec{Z: 5})
	desc := scene.NewRewardDesc("see")
	desc.EntityA, desc.EntityB = "a", "b"
	desc.Threshold = 10

	f := build(t, desc, g)
	if r := f.CalculateReward(); r != 1 {
		t.Errorf("in view: want(1) have(%v)", r)
	}

	f.Reset()
	b.SetPosition(r3.Vec{X: 5})
	if r := f.CalculateReward(); r != 0 {
		t.Errorf("out of view: want(0) have(%v)", r)
	}
}

func TestAngleTo(t *testing.T) {
	g, _, _ := newScene(t, r3.Vec{X: 5, Z: 0.1})
	desc := scene.NewRewardDesc("angle_to")
	desc.EntityA, desc.EntityB = "a", "b"
	desc.Threshold = 5

	f := build(t, desc, g)
	if r := f.CalculateReward(); r != 1 {
		t.Errorf("along direction: want(1) have(%v)", r)
	}

	desc.Direction = []float64{0, 0, 1}
	f = build(t, desc, g)
	if r := f.CalculateReward(); r != 0 {
		t.Errorf("across direction: want(0) have(%v)", r)
	}
}

func TestComposite(t *testing.T) {
	const w = 2.0
	tests := []struct {
		on1, on2             bool
		and, or, xor, notOne float64
	}{
		{false, false, 0, 0, 0, w},
		{false, true, 0, w, w, w},
		{true, false, 0, w, w, 0},
		{true, true, w, w, 0, 0},
	}

	for _, test := range tests {
		eval := func(k Kind, children ...*Function) float64 {
			f := &Function{Kind: k, Weight: 1, Children: children}
			return f.CalculateReward()
		}

		if r := eval(And, constant(w, test.on1), constant(w, test.on2)); r != test.and {
			t.Errorf("and(%v, %v): want(%v) have(%v)", test.on1, test.on2, test.and, r)
		}
		if r := eval(Or, constant(w, test.on1), constant(w, test.on2)); r != test.or {
			t.Errorf("or(%v, %v): want(%v) have(%v)", test.on1, test.on2, test.or, r)
		}
		if r := eval(Xor, constant(w, test.on1), constant(w, test.on2)); r != test.xor {
			t.Errorf("xor(%v, %v): want(%v) have(%v)", test.on1, test.on2, test.xor, r)
		}
		if r := eval(Not, constant(w, test.on1)); r != test.notOne {
			t.Errorf("not(%v): want(%v) have(%v)", test.on1, test.notOne, r)
		}
	}
}

func TestCompositeEvaluatesAllChildren(t *testing.T) {
	a := &Function{Kind: Timeout, Weight: 1, Threshold: 100}
	b := &Function{Kind: Timeout, Weight: 1, Threshold: 100}
	f := &Function{Kind: And, Weight: 1, Children: []*Function{a, b}}

	for i := 0; i < 3; i++ {
		f.CalculateReward()
	}
	if a.Steps() != 3 || b.Steps() != 3 {
		t.Errorf("children steps: want(3, 3) have(%v, %v)", a.Steps(), b.Steps())
	}

	f.Reset()
	if a.Steps() != 0 || b.Steps() != 0 {
		t.Error("reset should reset children")
	}
}

func TestBuildTree(t *testing.T) {
	g, _, _ := newScene(t, r3.Vec{X: 0.5})

	sparse := scene.NewRewardDesc("sparse")
	sparse.EntityA, sparse.EntityB = "a", "b"
	timeout := scene.NewRewardDesc("timeout")
	timeout.Threshold = 100

	or := scene.NewRewardDesc("or")
	or.IsTerminal = true
	or.Children = []*scene.RewardDesc{sparse, timeout}

	f := build(t, or, g)
	if f.Kind != Or || len(f.Children) != 2 {
		t.Fatalf("tree: have(%v)", f)
	}
	if f.Children[0].Kind != Sparse || f.Children[1].Kind != Timeout {
		t.Errorf("children: have(%v)", f.Children)
	}
	if f.Children[0].EntityA == nil || f.Children[0].EntityB == nil {
		t.Error("leaf entities should be resolved")
	}

	if r := f.CalculateReward(); r != 1 {
		t.Errorf("reward: want(1) have(%v)", r)
	}
	if !f.Done() {
		t.Error("triggered terminal composite should be done")
	}
}

func TestBuildErrors(t *testing.T) {
	g, _, _ := newScene(t, r3.Vec{})

	unknown := scene.NewRewardDesc("maybe")

	metric := scene.NewRewardDesc("dense")
	metric.EntityA, metric.EntityB = "a", "b"
	metric.DistanceMetric = "manhattan"

	and := scene.NewRewardDesc("and")
	and.Children = []*scene.RewardDesc{scene.NewRewardDesc("timeout")}

	not := scene.NewRewardDesc("not")
	not.Children = []*scene.RewardDesc{unknown}

	leaf := scene.NewRewardDesc("timeout")
	leaf.Children = []*scene.RewardDesc{scene.NewRewardDesc("timeout")}

	for _, desc := range []*scene.RewardDesc{unknown, metric, and, not, leaf, nil} {
		if _, err := Build(desc, g, nil); err == nil {
			t.Errorf("build(%+v) should fail", desc)
		}
	}
}

func TestBuildMissingEntity(t *testing.T) {
	g, _, _ := newScene(t, r3.Vec{})
	var out bytes.Buffer
	logger := log.New(&out, "", 0)

	desc := scene.NewRewardDesc("sparse")
	desc.EntityA, desc.EntityB = "a", "ghost"
	desc.IsTerminal = true
	desc.Threshold = math.Inf(1)

	f, err := Build(desc, g, logger)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !f.Disabled() {
		t.Fatal("reward with a missing entity should be disabled")
	}
	if !strings.Contains(out.String(), "warning") {
		t.Errorf("a warning should be logged, have(%q)", out.String())
	}

	f.Reset()
	if r := f.CalculateReward(); r != 0 || f.Done() {
		t.Errorf("disabled reward: want(0, false) have(%v, %v)", r, f.Done())
	}
}

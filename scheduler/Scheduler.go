// Package scheduler implements the step scheduler that drives a pool of
// maps through a physics world: it routes actions to actors, advances
// the simulation, collects rewards, recycles finished maps, and packs
// observations into buffers.
package scheduler

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"sync"

	"github.com/samuelfneumann/gosimulate/actors"
	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/sensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Buffer names
const (
	RewardBuffer = "actor_reward_buffer"
	DoneBuffer   = "actor_done_buffer"
)

var (
	// ErrUninitialized is returned when a scene is used before it was
	// initialized
	ErrUninitialized = errors.New("scheduler: scene is not initialized")

	// ErrUnloaded is returned when a closed scheduler is used
	ErrUnloaded = errors.New("scheduler: scene is unloaded")
)

// State is the lifecycle state of a Scheduler
type State int

const (
	Uninitialized State = iota
	Initialized
	Stepping
	Unloaded
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Initialized:
		return "Initialized"
	case Stepping:
		return "Stepping"
	case Unloaded:
		return "Unloaded"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result holds the output of a Step. Buffers are reused by the next
// Step.
type Result struct {
	Reward  *buffer.Buffer
	Done    *buffer.Buffer
	Sensors map[string]*buffer.Buffer

	// Recycled holds whether the map in each slot was replaced by a
	// fresh map during the step
	Recycled []bool

	// Nodes holds the transform of every node of every active map if
	// return_nodes was set
	Nodes map[string]scene.Transform

	// Frames holds a top-down frame of each map slot if return_frames
	// was set
	Frames []*image.RGBA
}

// Scheduler runs a pool of maps in one physics world. A Scheduler is
// safe for concurrent use; concurrent calls are serialised.
type Scheduler struct {
	mu    sync.Mutex
	state State
	opts  Options

	graph    *scene.Graph
	world    World
	renderer Renderer

	pool      *actors.Pool
	active    []*actors.Map
	positions []r3.Vec
	maxActors int

	reward  *buffer.Buffer
	done    *buffer.Buffer
	sensors map[string]*buffer.Buffer
	views   []*sensor.View
}

// New returns a new, uninitialized Scheduler
func New(opts Options) *Scheduler {
	return &Scheduler{opts: opts.withDefaults()}
}

// State returns the lifecycle state of the scheduler
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Logger returns the logger of the scheduler
func (s *Scheduler) Logger() *log.Logger {
	return s.opts.Logger
}

// Initialize builds the scene described by data and fills the pool.
//
// Recognised kwargs are "maps", the names of the scene nodes used as
// pool maps, and "n_show", the number of maps simulated at once
// (default 1). If no maps are given and the scene has actors, the
// scene root is the only map.
func (s *Scheduler) Initialize(data []byte, kwargs Kwargs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Unloaded:
		return ErrUnloaded
	case Uninitialized:
	default:
		return fmt.Errorf("initialize: scene is already initialized")
	}

	world := s.opts.NewWorld()
	g, err := scene.DecodeJSON(data, world)
	if err != nil {
		return fmt.Errorf("initialize: %v", err)
	}
	renderer := s.opts.NewRenderer(g)

	ctx := sensor.Context{
		Resolver:  g,
		RayCaster: world,
		Frames:    renderer,
		Logger:    s.opts.Logger,
	}
	sensors, err := actors.NewSensors(g, ctx)
	if err != nil {
		return fmt.Errorf("initialize: %v", err)
	}
	byNode, err := actors.NewActors(g, sensors, s.opts.Logger)
	if err != nil {
		return fmt.Errorf("initialize: %v", err)
	}
	if len(byNode) == 0 {
		return fmt.Errorf("initialize: scene has no actors")
	}

	roots, poolSize, err := s.mapRoots(g, kwargs)
	if err != nil {
		return fmt.Errorf("initialize: %v", err)
	}

	maps := make([]*actors.Map, len(roots))
	inMap := make(map[*actors.Actor]bool)
	maxActors := 0
	for i, root := range roots {
		maps[i], err = actors.NewMap(root, byNode, sensors, s.opts.Logger)
		if err != nil {
			return fmt.Errorf("initialize: %v", err)
		}
		for _, a := range maps[i].Actors() {
			if inMap[a] {
				return fmt.Errorf("initialize: actor %q belongs to more "+
					"than one map", a.Name())
			}
			inMap[a] = true
		}
		if maps[i].Len() > maxActors {
			maxActors = maps[i].Len()
		}
	}
	if maxActors == 0 {
		return fmt.Errorf("initialize: maps have no actors")
	}
	for n, a := range byNode {
		if !inMap[a] {
			s.opts.Logger.Printf("warning: actor %q is not in any map and "+
				"will not be simulated", n.Name())
		}
	}

	bufs, err := newSensorBuffers(maps, poolSize, maxActors)
	if err != nil {
		return fmt.Errorf("initialize: %v", err)
	}
	reward, err := buffer.New(RewardBuffer, buffer.Float32, poolSize,
		maxActors, 1)
	if err != nil {
		return fmt.Errorf("initialize: %v", err)
	}
	done, err := buffer.New(DoneBuffer, buffer.Float32, poolSize, maxActors, 1)
	if err != nil {
		return fmt.Errorf("initialize: %v", err)
	}

	s.graph, s.world, s.renderer = g, world, renderer
	s.reward, s.done, s.sensors = reward, done, bufs
	s.maxActors = maxActors

	s.pool = actors.NewPool(maps)
	s.positions = actors.Positions(s.pool.Bounds(), poolSize)
	s.active = make([]*actors.Map, poolSize)
	s.populate()

	s.views = make([]*sensor.View, poolSize)
	extent := viewExtent(s.pool.Bounds())
	for i := range s.views {
		s.views[i] = &sensor.View{Width: s.opts.FrameSize,
			Height: s.opts.FrameSize, Extent: extent}
	}

	s.state = Initialized
	return nil
}

// mapRoots returns the roots of the pool maps and the pool size
func (s *Scheduler) mapRoots(g *scene.Graph, kwargs Kwargs) ([]*scene.Node,
	int, error) {
	names, err := kwargs.Strings("maps")
	if err != nil {
		return nil, 0, err
	}

	if len(names) == 0 {
		return []*scene.Node{g.Root()}, 1, nil
	}

	if !kwargs.Has("n_show") {
		s.opts.Logger.Printf("warning: maps given without n_show, " +
			"simulating 1 map")
	}
	poolSize, err := kwargs.Int("n_show", 1)
	if err != nil {
		return nil, 0, err
	}
	if poolSize < 1 || poolSize > len(names) {
		return nil, 0, fmt.Errorf("n_show must be in [1, %v], have(%v)",
			len(names), poolSize)
	}

	roots := make([]*scene.Node, len(names))
	for i, name := range names {
		n, ok := g.Lookup(name)
		if !ok {
			return nil, 0, fmt.Errorf("map %q not found", name)
		}
		for _, r := range roots[:i] {
			if n.Within(r) || r.Within(n) {
				return nil, 0, fmt.Errorf("maps %q and %q overlap", r.Name(),
					n.Name())
			}
		}
		roots[i] = n
	}
	return roots, poolSize, nil
}

// newSensorBuffers allocates one buffer per distinct sensor name of
// the actors of maps. Sensors sharing a name must share a shape.
func newSensorBuffers(maps []*actors.Map, poolSize,
	maxActors int) (map[string]*buffer.Buffer, error) {
	bufs := make(map[string]*buffer.Buffer)
	for _, m := range maps {
		for _, a := range m.Actors() {
			for _, sen := range a.Sensors() {
				shape := append([]int{poolSize, maxActors}, sen.Shape()...)

				if b, ok := bufs[sen.Name()]; ok {
					if b.Type() != sen.BufferType() || !equal(b.Shape(), shape) {
						return nil, fmt.Errorf("sensor %q of actor %q has "+
							"shape %v %v, other actors have %v %v", sen.Name(),
							a.Name(), sen.BufferType(), sen.Shape(), b.Type(),
							b.Shape()[2:])
					}
					continue
				}

				b, err := buffer.New(sen.Name(), sen.BufferType(), shape...)
				if err != nil {
					return nil, fmt.Errorf("sensor %q: %v", sen.Name(), err)
				}
				bufs[sen.Name()] = b
			}
		}
	}
	return bufs, nil
}

func equal(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// viewExtent returns the half-width of a view centred on a map root
// that contains every map
func viewExtent(bounds []r3.Box) float64 {
	extent := 0.5
	for _, b := range bounds {
		for _, v := range []float64{b.Min.X, b.Min.Z, b.Max.X, b.Max.Z} {
			extent = math.Max(extent, math.Abs(v)+0.5)
		}
	}
	return extent
}

// populate requests a map for every empty slot and resets it at the
// slot position
func (s *Scheduler) populate() {
	for i := range s.active {
		if s.active[i] == nil {
			s.resetAt(i)
		}
	}
}

// resetAt fills slot i with a fresh map from the pool
func (s *Scheduler) resetAt(i int) {
	m := s.pool.Request()
	m.Reset(s.positions[i])
	s.active[i] = m
}

// recycle returns the map in slot i to the pool and replaces it
func (s *Scheduler) recycle(i int) {
	s.pool.Push(s.active[i])
	s.active[i] = nil
	s.resetAt(i)
}

// Step advances every active map by one step.
//
// Recognised kwargs are "action", keyed by map slot, actor name, and
// actuator tag; "frame_skip", the number of physics substeps of this
// step (default 1); "time_step", the duration of a substep (default
// 0.02); and "return_nodes" and "return_frames".
func (s *Scheduler) Step(kwargs Kwargs) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}

	frameSkip, err := kwargs.Int("frame_skip", DefaultFrameSkip)
	if err != nil {
		return nil, fmt.Errorf("step: %v", err)
	}
	if frameSkip < 1 {
		return nil, fmt.Errorf("step: frame_skip must be positive, have(%v)",
			frameSkip)
	}
	timeStep, err := kwargs.Float("time_step", DefaultTimeStep)
	if err != nil {
		return nil, fmt.Errorf("step: %v", err)
	}
	returnNodes, err := kwargs.Bool("return_nodes", false)
	if err != nil {
		return nil, fmt.Errorf("step: %v", err)
	}
	returnFrames, err := kwargs.Bool("return_frames", false)
	if err != nil {
		return nil, fmt.Errorf("step: %v", err)
	}
	actions, err := kwargs.Actions("action")
	if err != nil {
		return nil, fmt.Errorf("step: %v", err)
	}

	s.state = Stepping
	defer func() { s.state = Initialized }()

	for _, slot := range slots(actions) {
		if slot < 0 || slot >= len(s.active) {
			s.opts.Logger.Printf("warning: no map in slot %v", slot)
			continue
		}
		s.active[slot].SetActions(actions[slot])
	}

	for i := 0; i < frameSkip; i++ {
		for _, m := range s.active {
			m.ApplyActions()
		}
		s.world.Step(timeStep)
	}

	recycled := s.collectRewards()

	frames, err := s.observe(returnFrames)
	if err != nil {
		return nil, fmt.Errorf("step: %v", err)
	}

	result := s.result()
	result.Recycled = recycled
	result.Frames = frames
	if returnNodes {
		result.Nodes = s.nodes()
	}
	return result, nil
}

// collectRewards writes the reward and done flag of every actor and
// recycles finished maps. It returns which slots were recycled.
func (s *Scheduler) collectRewards() []bool {
	recycled := make([]bool, len(s.active))
	s.reward.Zero()
	s.done.Zero()
	rewards, dones := s.reward.Float32s(), s.done.Float32s()

	for i, m := range s.active {
		rds := m.RewardDones()
		for j, rd := range rds {
			rewards[i*s.maxActors+j] = float32(rd.Reward)
			if rd.Done {
				dones[i*s.maxActors+j] = 1
			}
		}

		if s.opts.ResetPolicy.recycle(rds) {
			s.recycle(i)
			recycled[i] = true
		}
	}
	return recycled
}

// observe reads the observations of every active map. Sensors are
// enabled for every map before any frame is presented.
func (s *Scheduler) observe(returnFrames bool) ([]*image.RGBA, error) {
	for _, b := range s.sensors {
		b.Zero()
	}

	for _, m := range s.active {
		m.EnableSensors()
	}
	defer func() {
		for _, m := range s.active {
			m.DisableSensors()
		}
	}()

	if returnFrames {
		for i, v := range s.views {
			v.Origin = s.active[i].Root()
			s.renderer.Request(v)
		}
	}

	s.renderer.Present()

	for i, m := range s.active {
		if err := m.Observations(s.sensors, i, s.maxActors); err != nil {
			return nil, err
		}
	}

	if !returnFrames {
		return nil, nil
	}
	frames := make([]*image.RGBA, len(s.views))
	for i, v := range s.views {
		img, err := s.renderer.Frame(v)
		if err != nil {
			return nil, err
		}
		frames[i] = img
	}
	return frames, nil
}

func (s *Scheduler) nodes() map[string]scene.Transform {
	nodes := make(map[string]scene.Transform)
	for _, m := range s.active {
		for _, n := range m.Nodes() {
			nodes[n.Name()] = scene.Transform{Position: n.Position(),
				Rotation: n.Rotation()}
		}
	}
	return nodes
}

func (s *Scheduler) result() *Result {
	return &Result{Reward: s.reward, Done: s.done, Sensors: s.sensors}
}

// Reset returns every active map to the pool and fills every slot
// with a fresh map. Rewards and done flags are cleared and the sensor
// buffers hold the first observation of the new maps.
func (s *Scheduler) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return err
	}

	for i, m := range s.active {
		s.pool.Push(m)
		s.active[i] = nil
	}
	s.populate()

	s.reward.Zero()
	s.done.Zero()
	if _, err := s.observe(false); err != nil {
		return fmt.Errorf("reset: %v", err)
	}
	return nil
}

// Active returns the maps in each slot
func (s *Scheduler) Active() []*actors.Map {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]*actors.Map, len(s.active))
	copy(active, s.active)
	return active
}

// PoolSize returns the number of map slots
func (s *Scheduler) PoolSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// MaxActors returns the number of actor slots of each map slot
func (s *Scheduler) MaxActors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxActors
}

// Positions returns the position of each map slot
func (s *Scheduler) Positions() []r3.Vec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]r3.Vec(nil), s.positions...)
}

// Buffers returns the buffers Step writes to
func (s *Scheduler) Buffers() (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.result(), nil
}

// Graph returns the scene graph
func (s *Scheduler) Graph() *scene.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph
}

// Close unloads the scene. A closed Scheduler cannot be used again.
func (s *Scheduler) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Unloaded {
		return ErrUnloaded
	}

	if s.pool != nil {
		s.pool.Clear()
	}
	if d, ok := s.world.(interface{ Destroy() }); ok {
		d.Destroy()
	}

	s.graph, s.world, s.renderer = nil, nil, nil
	s.pool, s.active, s.positions = nil, nil, nil
	s.reward, s.done, s.sensors, s.views = nil, nil, nil, nil
	s.state = Unloaded
	return nil
}

func (s *Scheduler) ready() error {
	switch s.state {
	case Uninitialized:
		return ErrUninitialized
	case Unloaded:
		return ErrUnloaded
	default:
		return nil
	}
}

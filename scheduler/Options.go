package scheduler

import (
	"fmt"
	"log"
	"os"

	"github.com/samuelfneumann/gosimulate/actors"
	"github.com/samuelfneumann/gosimulate/physics"
	"github.com/samuelfneumann/gosimulate/render"
	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/sensor"
)

const (
	// DefaultFrameSkip is the number of physics substeps per Step
	DefaultFrameSkip int = 1

	// DefaultTimeStep is the duration of one physics substep in seconds
	DefaultTimeStep float64 = 0.02

	// DefaultFrameSize is the width and height of frames returned
	// with return_frames
	DefaultFrameSize int = 128
)

// World is the physics substrate maps are simulated in
type World interface {
	scene.BodyFactory
	sensor.RayCaster

	// Step advances the simulation by dt seconds
	Step(dt float64)
}

// Renderer renders camera frames. Frames requested through the
// sensor.FrameSource interface become available once Present returns.
type Renderer interface {
	sensor.FrameSource
	Present()
}

// ResetPolicy determines when a map is recycled
type ResetPolicy int

const (
	// AnyDone recycles a map as soon as any of its actors is done
	AnyDone ResetPolicy = iota

	// AllDone recycles a map once every one of its actors is done
	AllDone
)

func (r ResetPolicy) String() string {
	switch r {
	case AnyDone:
		return "AnyDone"
	case AllDone:
		return "AllDone"
	default:
		return fmt.Sprintf("ResetPolicy(%d)", int(r))
	}
}

// ParseResetPolicy returns the ResetPolicy named s
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch s {
	case "", "any", "AnyDone":
		return AnyDone, nil
	case "all", "AllDone":
		return AllDone, nil
	default:
		return 0, fmt.Errorf("parseResetPolicy: unknown reset policy %q", s)
	}
}

// recycle returns whether a map whose actors returned rds should be
// recycled
func (r ResetPolicy) recycle(rds []actors.RewardDone) bool {
	if len(rds) == 0 {
		return false
	}
	for _, rd := range rds {
		if rd.Done && r == AnyDone {
			return true
		}
		if !rd.Done && r == AllDone {
			return false
		}
	}
	return r == AllDone
}

// Options configures a Scheduler. Zero fields take default values.
type Options struct {
	// NewWorld creates the physics world of a scene. The default is a
	// physics.World with its default configuration.
	NewWorld func() World

	// NewRenderer creates the renderer of a scene. The default is a
	// render.TopDown renderer.
	NewRenderer func(g *scene.Graph) Renderer

	Logger      *log.Logger
	ResetPolicy ResetPolicy

	// FrameSize is the width and height of frames returned with
	// return_frames
	FrameSize int
}

// DefaultOptions returns the default Options
func DefaultOptions() Options {
	return Options{
		NewWorld: func() World {
			return physics.NewWorld(physics.DefaultConfig())
		},
		NewRenderer: func(g *scene.Graph) Renderer {
			return render.NewTopDown(g)
		},
		Logger:    log.New(os.Stderr, "simulate: ", log.LstdFlags),
		FrameSize: DefaultFrameSize,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.NewWorld == nil {
		o.NewWorld = def.NewWorld
	}
	if o.NewRenderer == nil {
		o.NewRenderer = def.NewRenderer
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	if o.FrameSize <= 0 {
		o.FrameSize = def.FrameSize
	}
	return o
}

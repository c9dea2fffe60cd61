// Package sensor implements observation sources. A Sensor writes a
// fixed-shape block of numbers into a Buffer on demand.
//
// Acquisition is two-phase: Enable begins acquisition for the current
// step and the first AddObsToBuffer after it completes acquisition.
// Between the two, the caller waits for the frame boundary that
// acquisition depends on.
package sensor

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Default sensor names, used when a description has no sensor tag
const (
	CameraName  = "CameraSensor"
	RaycastName = "RaycastSensor"
	StateName   = "StateSensor"
)

// Sensor is a source of observations
type Sensor interface {
	// Name returns the name of the buffer the sensor writes to
	Name() string

	Shape() []int
	Size() int
	BufferType() buffer.Type

	Enable()
	Disable()

	// AddObsToBuffer writes Size() values into b starting at index
	// slot * Size()
	AddObsToBuffer(b *buffer.Buffer, slot int) error
}

// Resolver resolves entity names. An unresolved name results in a nil
// Entity.
type Resolver interface {
	Entity(name string) scene.Entity
}

// RayCaster casts rays into the physics world
type RayCaster interface {
	// RayCast returns the distance along dir from the position of from
	// to the closest hit within length, ignoring from itself
	RayCast(from scene.Entity, dir r3.Vec, length float64) (float64, bool)
}

// Context holds the collaborators sensors are built with. Fields that
// no sensor of a scene needs may be nil.
type Context struct {
	Resolver  Resolver
	RayCaster RayCaster
	Frames    FrameSource
	Logger    *log.Logger
}

// New returns every sensor described on n, in the order camera,
// raycast, state
func New(n *scene.Node, ctx Context) ([]Sensor, error) {
	sensors := make([]Sensor, 0, 1)

	if n.Camera != nil {
		if ctx.Frames == nil {
			return nil, fmt.Errorf("new: camera sensor on %q requires a "+
				"frame source", n.Name())
		}
		c, err := NewCamera(n, n.Camera, ctx.Frames)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
		sensors = append(sensors, c)
	}

	if n.RaycastSensor != nil {
		if ctx.RayCaster == nil {
			return nil, fmt.Errorf("new: raycast sensor on %q requires a "+
				"ray caster", n.Name())
		}
		r, err := NewRaycast(n, n.RaycastSensor, ctx.RayCaster)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
		sensors = append(sensors, r)
	}

	if n.StateSensor != nil {
		s, err := NewState(n.StateSensor, ctx.Resolver, ctx.Logger)
		if err != nil {
			return nil, fmt.Errorf("new: %v", err)
		}
		sensors = append(sensors, s)
	}

	return sensors, nil
}

// Describes returns whether n describes at least one sensor
func Describes(n *scene.Node) bool {
	return n.Camera != nil || n.RaycastSensor != nil || n.StateSensor != nil
}

// checkBuffer returns the index range sensor s writes to for slot in b
func checkBuffer(s Sensor, b *buffer.Buffer, slot int) (int, int, error) {
	if b.Type() != s.BufferType() {
		return 0, 0, fmt.Errorf("sensor %q writes %v but buffer %q holds %v",
			s.Name(), s.BufferType(), b.Name(), b.Type())
	}
	return b.Slot(slot, s.Size())
}

func name(tag, def string) string {
	if tag == "" {
		return def
	}
	return tag
}

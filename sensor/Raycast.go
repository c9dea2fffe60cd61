package sensor

import (
	"fmt"

	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/utils/floatutils"
	"gonum.org/v1/gonum/spatial/r3"
)

// Angle is a horizontal and vertical ray offset in degrees
type Angle struct {
	Horizontal, Vertical float64
}

// Raycast casts a fixed fan of rays from an entity. Each observation
// is 1 - d/length for a hit at distance d, and 0 for a miss, so that
// closer obstacles result in larger values.
type Raycast struct {
	name   string
	origin scene.Entity
	caster RayCaster
	length float64
	angles []Angle

	// ray directions in the frame of origin
	directions []r3.Vec
}

// NewRaycast returns a new Raycast sensor casting rays from n
func NewRaycast(n scene.Entity, desc *scene.RaycastSensorDesc,
	caster RayCaster) (*Raycast, error) {
	if desc.NHorizontalRays <= 0 || desc.NVerticalRays <= 0 {
		return nil, fmt.Errorf("newRaycast: sensor on %q must have at least "+
			"one ray in each direction", n.Name())
	}
	if desc.RayLength <= 0 {
		return nil, fmt.Errorf("newRaycast: sensor on %q must have positive "+
			"ray length", n.Name())
	}

	angles := Angles(desc.NHorizontalRays, desc.NVerticalRays,
		desc.HorizontalFOV, desc.VerticalFOV)
	directions := make([]r3.Vec, len(angles))
	for i, a := range angles {
		pitched := scene.Rotate(scene.AxisAngle(a.Vertical, scene.Right),
			scene.Forward)
		directions[i] = scene.Rotate(scene.AxisAngle(a.Horizontal, scene.Up),
			pitched)
	}

	return &Raycast{
		name:       name(desc.SensorTag, RaycastName),
		origin:     n,
		caster:     caster,
		length:     desc.RayLength,
		angles:     angles,
		directions: directions,
	}, nil
}

// Angles returns nh*nv ray offsets evenly spaced over the given fields
// of view and centred on zero, in horizontal-major order
func Angles(nh, nv int, hfov, vfov float64) []Angle {
	hStep := hfov / float64(nh)
	vStep := vfov / float64(nv)
	hStart := (hStep - hfov) / 2
	vStart := (vStep - vfov) / 2

	angles := make([]Angle, 0, nh*nv)
	for i := 0; i < nh; i++ {
		for j := 0; j < nv; j++ {
			angles = append(angles, Angle{
				Horizontal: hStart + float64(i)*hStep,
				Vertical:   vStart + float64(j)*vStep,
			})
		}
	}
	return angles
}

// Angles returns the ray offsets of the sensor
func (r *Raycast) Angles() []Angle {
	return r.angles
}

// Name implements the Sensor interface
func (r *Raycast) Name() string {
	return r.name
}

// Shape implements the Sensor interface
func (r *Raycast) Shape() []int {
	return []int{len(r.angles)}
}

// Size implements the Sensor interface
func (r *Raycast) Size() int {
	return len(r.angles)
}

// BufferType implements the Sensor interface
func (r *Raycast) BufferType() buffer.Type {
	return buffer.Float32
}

// Enable implements the Sensor interface
func (r *Raycast) Enable() {}

// Disable implements the Sensor interface
func (r *Raycast) Disable() {}

// AddObsToBuffer implements the Sensor interface
func (r *Raycast) AddObsToBuffer(b *buffer.Buffer, slot int) error {
	start, _, err := checkBuffer(r, b, slot)
	if err != nil {
		return fmt.Errorf("addObsToBuffer: %v", err)
	}

	data := b.Float32s()
	rotation := r.origin.Rotation()
	for i, dir := range r.directions {
		var value float64
		if d, hit := r.caster.RayCast(r.origin, scene.Rotate(rotation, dir),
			r.length); hit {
			value = floatutils.Clip(1-d/r.length, 0, 1)
		}
		data[start+i] = float32(value)
	}
	return nil
}

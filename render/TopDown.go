// Package render implements camera frame rendering for camera sensors
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/sensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// TopDown renders the ground plane of a scene as seen from above. A
// view is centred on its origin entity, with the entity's forward axis
// pointing to the top of the frame.
//
// Views are requested during a step and rendered together when the
// frame is presented. TopDown implements the sensor.FrameSource
// interface.
type TopDown struct {
	graph      *scene.Graph
	background color.Color

	pending []*sensor.View
	frames  map[*sensor.View]*image.RGBA
}

// NewTopDown returns a new TopDown renderer of the nodes in g
func NewTopDown(g *scene.Graph) *TopDown {
	return &TopDown{
		graph:      g,
		background: color.Black,
		frames:     make(map[*sensor.View]*image.RGBA),
	}
}

// SetBackground sets the colour of empty ground
func (t *TopDown) SetBackground(c color.Color) {
	t.background = c
}

// Request implements the sensor.FrameSource interface
func (t *TopDown) Request(v *sensor.View) {
	for _, p := range t.pending {
		if p == v {
			return
		}
	}
	t.pending = append(t.pending, v)
}

// Present renders every requested view. Frames presented earlier are
// discarded.
func (t *TopDown) Present() {
	t.frames = make(map[*sensor.View]*image.RGBA, len(t.pending))
	for _, v := range t.pending {
		t.frames[v] = t.Render(v)
	}
	t.pending = t.pending[:0]
}

// Pending returns the number of views waiting to be presented
func (t *TopDown) Pending() int {
	return len(t.pending)
}

// Frame implements the sensor.FrameSource interface
func (t *TopDown) Frame(v *sensor.View) (*image.RGBA, error) {
	img, ok := t.frames[v]
	if !ok {
		return nil, fmt.Errorf("frame: view of %q was not presented",
			v.Origin.Name())
	}
	return img, nil
}

// Render renders v immediately
func (t *TopDown) Render(v *sensor.View) *image.RGBA {
	dc := gg.NewContext(v.Width, v.Height)
	dc.SetColor(t.background)
	dc.Clear()

	scale := float64(v.Width) / (2 * v.Extent)
	origin := v.Origin.Position()
	inv := scene.Inverse(v.Origin.Rotation())

	// project returns the image coordinates of a world point
	project := func(p r3.Vec) (float64, float64) {
		local := scene.Rotate(inv, r3.Sub(p, origin))
		return float64(v.Width)/2 + local.X*scale,
			float64(v.Height)/2 - local.Z*scale
	}

	for _, n := range t.graph.Nodes() {
		if n.Shape == nil || !n.Active() {
			continue
		}

		c := n.Shape.Color
		if c == ([3]float64{}) {
			c = [3]float64{1, 1, 1}
		}
		dc.SetRGB(c[0], c[1], c[2])

		x, y := project(n.Position())
		switch n.Shape.Kind {
		case scene.Sphere:
			dc.DrawCircle(x, y, n.Shape.Radius*scale)
		default:
			f := scene.Rotate(inv, n.Forward())
			hx := n.Shape.Size[0] / 2 * scale
			hz := n.Shape.Size[2] / 2 * scale

			dc.Push()
			dc.Translate(x, y)
			dc.Rotate(math.Atan2(f.X, f.Z))
			dc.DrawRectangle(-hx, -hz, 2*hx, 2*hz)
			dc.Pop()
		}
		dc.Fill()
	}

	if img, ok := dc.Image().(*image.RGBA); ok {
		return img
	}
	img := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
	draw.Draw(img, img.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return img
}

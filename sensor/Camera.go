package sensor

import (
	"fmt"
	"image"

	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/scene"
)

// View is a region of the world a camera images
type View struct {
	// Origin is the entity the view is centred on and oriented with
	Origin scene.Entity

	Width, Height int

	// Extent is the half-width of the imaged region in world units
	Extent float64
}

// FrameSource renders views. A view requested before a frame is
// presented can be read after the frame is presented.
type FrameSource interface {
	Request(v *View)
	Frame(v *View) (*image.RGBA, error)
}

// Camera is an RGB image sensor. Observations have shape
// [3, height, width] and are written channel-major: every red value,
// then every green value, then every blue value.
//
// A Camera reads its frame once per Enable/Disable cycle so that it can
// be shared by several actors.
type Camera struct {
	name    string
	view    View
	frames  FrameSource
	enabled bool
	cached  bool
	pixels  []uint8
}

// NewCamera returns a new Camera imaging the view from n
func NewCamera(n scene.Entity, desc *scene.CameraDesc,
	frames FrameSource) (*Camera, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("newCamera: camera %q must have positive "+
			"width and height, have(%v, %v)", n.Name(), desc.Width,
			desc.Height)
	}

	extent := desc.Extent
	if extent <= 0 {
		extent = 1
	}

	return &Camera{
		name: name(desc.SensorTag, CameraName),
		view: View{
			Origin: n,
			Width:  desc.Width,
			Height: desc.Height,
			Extent: extent,
		},
		frames: frames,
		pixels: make([]uint8, 3*desc.Width*desc.Height),
	}, nil
}

// Name implements the Sensor interface
func (c *Camera) Name() string {
	return c.name
}

// Shape implements the Sensor interface
func (c *Camera) Shape() []int {
	return []int{3, c.view.Height, c.view.Width}
}

// Size implements the Sensor interface
func (c *Camera) Size() int {
	return 3 * c.view.Height * c.view.Width
}

// BufferType implements the Sensor interface
func (c *Camera) BufferType() buffer.Type {
	return buffer.Uint8
}

// Enable requests a frame for the camera view
func (c *Camera) Enable() {
	c.enabled = true
	c.frames.Request(&c.view)
}

// Disable drops the cached frame
func (c *Camera) Disable() {
	c.enabled = false
	c.cached = false
}

// AddObsToBuffer implements the Sensor interface. The first call after
// Enable reads the presented frame; later calls reuse it.
func (c *Camera) AddObsToBuffer(b *buffer.Buffer, slot int) error {
	if !c.enabled {
		return fmt.Errorf("addObsToBuffer: camera %q is not enabled", c.name)
	}
	start, end, err := checkBuffer(c, b, slot)
	if err != nil {
		return fmt.Errorf("addObsToBuffer: %v", err)
	}

	if !c.cached {
		if err := c.read(); err != nil {
			return fmt.Errorf("addObsToBuffer: %v", err)
		}
		c.cached = true
	}

	copy(b.Uint8s()[start:end], c.pixels)
	return nil
}

// read copies the presented frame into the pixel cache
func (c *Camera) read() error {
	img, err := c.frames.Frame(&c.view)
	if err != nil {
		return err
	}

	w, h := c.view.Width, c.view.Height
	bounds := img.Bounds()
	if bounds.Dx() != w || bounds.Dy() != h {
		return fmt.Errorf("camera %q expected a %vx%v frame, have(%vx%v)",
			c.name, w, h, bounds.Dx(), bounds.Dy())
	}

	channel := w * h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			j := y*w + x
			c.pixels[j] = img.Pix[i]
			c.pixels[channel+j] = img.Pix[i+1]
			c.pixels[2*channel+j] = img.Pix[i+2]
		}
	}
	return nil
}

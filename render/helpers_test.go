package render

import (
	"github.com/samuelfneumann/gosimulate/buffer"
	"github.com/samuelfneumann/gosimulate/sensor"
)

func newBuffer(s sensor.Sensor) (*buffer.Buffer, error) {
	return buffer.New(s.Name(), s.BufferType(), s.Shape()...)
}

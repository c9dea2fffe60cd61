// Package buffer implements fixed-shape numeric buffers that
// observations, rewards, and termination flags are packed into.
// Buffers are allocated once and reused in place across steps.
package buffer

import (
	"fmt"

	"github.com/samuelfneumann/gosimulate/utils/intutils"
	"gorgonia.org/tensor"
)

// Type is the primitive element type of a Buffer
type Type int

const (
	Float32 Type = iota
	Uint8
)

func (t Type) String() string {
	switch t {
	case Float32:
		return "float32"
	case Uint8:
		return "uint8"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Dtype returns the tensor data type of t
func (t Type) Dtype() tensor.Dtype {
	switch t {
	case Float32:
		return tensor.Float32
	case Uint8:
		return tensor.Uint8
	default:
		panic(fmt.Sprintf("dtype: unknown buffer type %v", t))
	}
}

// Buffer is a named, flat array of one primitive type together with a
// logical shape
type Buffer struct {
	name  string
	typ   Type
	dense *tensor.Dense
}

// New returns a new, zeroed Buffer. Every dimension of shape must be
// positive.
func New(name string, t Type, shape ...int) (*Buffer, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("new: buffer %q must have at least one "+
			"dimension", name)
	}
	for _, dim := range shape {
		if dim <= 0 {
			return nil, fmt.Errorf("new: buffer %q has non-positive "+
				"dimension in shape %v", name, shape)
		}
	}
	if t != Float32 && t != Uint8 {
		return nil, fmt.Errorf("new: unknown buffer type %v", t)
	}

	s := make([]int, len(shape))
	copy(s, shape)
	return &Buffer{
		name:  name,
		typ:   t,
		dense: tensor.NewDense(t.Dtype(), tensor.Shape(s)),
	}, nil
}

// Name returns the name of the buffer
func (b *Buffer) Name() string {
	return b.name
}

// Type returns the element type of the buffer
func (b *Buffer) Type() Type {
	return b.typ
}

// Shape returns the logical shape of the buffer
func (b *Buffer) Shape() []int {
	return []int(b.dense.Shape().Clone())
}

// Size returns the number of elements in the buffer, which is the
// product of its shape
func (b *Buffer) Size() int {
	return intutils.Prod(b.dense.Shape()...)
}

// Tensor returns the tensor backing the buffer. Writes to the tensor
// are writes to the buffer.
func (b *Buffer) Tensor() *tensor.Dense {
	return b.dense
}

// Float32s returns the backing array of a Float32 buffer
func (b *Buffer) Float32s() []float32 {
	if b.typ != Float32 {
		panic(fmt.Sprintf("float32s: buffer %q has type %v", b.name, b.typ))
	}
	return b.dense.Data().([]float32)
}

// Uint8s returns the backing array of a Uint8 buffer
func (b *Buffer) Uint8s() []uint8 {
	if b.typ != Uint8 {
		panic(fmt.Sprintf("uint8s: buffer %q has type %v", b.name, b.typ))
	}
	return b.dense.Data().([]uint8)
}

// Zero sets every element of the buffer to zero
func (b *Buffer) Zero() {
	switch b.typ {
	case Float32:
		data := b.Float32s()
		for i := range data {
			data[i] = 0
		}
	case Uint8:
		data := b.Uint8s()
		for i := range data {
			data[i] = 0
		}
	}
}

// Slot returns the bounds [start, end) of the slot-th chunk of n
// elements in the buffer. An error is returned if the chunk does not
// fit.
func (b *Buffer) Slot(slot, n int) (int, int, error) {
	start := slot * n
	end := start + n
	if slot < 0 || end > b.Size() {
		return 0, 0, fmt.Errorf("slot: slot %v of size %v out of range for "+
			"buffer %q of size %v", slot, n, b.name, b.Size())
	}
	return start, end, nil
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(%v, %v, %v)", b.name, b.typ, b.Shape())
}

package buffer

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		t     Type
		shape []int
		size  int
	}{
		{Float32, []int{4}, 4},
		{Float32, []int{2, 3}, 6},
		{Uint8, []int{2, 3, 3, 8, 8}, 1152},
	}

	for _, test := range tests {
		b, err := New("b", test.t, test.shape...)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if b.Size() != test.size {
			t.Errorf("size of %v: want(%v) have(%v)", test.shape, test.size,
				b.Size())
		}
		if b.Type() != test.t {
			t.Errorf("type: want(%v) have(%v)", test.t, b.Type())
		}

		var n int
		switch test.t {
		case Float32:
			n = len(b.Float32s())
		case Uint8:
			n = len(b.Uint8s())
		}
		if n != test.size {
			t.Errorf("backing array: want(%v) have(%v)", test.size, n)
		}
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := New("b", Float32); err == nil {
		t.Error("empty shape should be rejected")
	}
	if _, err := New("b", Uint8, 2, 0); err == nil {
		t.Error("zero dimension should be rejected")
	}
	if _, err := New("b", Type(7), 2); err == nil {
		t.Error("unknown type should be rejected")
	}
}

func TestShapeIsCopied(t *testing.T) {
	b, _ := New("b", Float32, 2, 3)
	s := b.Shape()
	s[0] = 10
	if b.Shape()[0] != 2 {
		t.Error("modifying a returned shape should not modify the buffer")
	}
}

func TestZeroAndSlot(t *testing.T) {
	b, _ := New("b", Float32, 3, 2)
	data := b.Float32s()
	for i := range data {
		data[i] = float32(i + 1)
	}
	if b.Float32s()[5] != 6 {
		t.Error("writes should be visible through the buffer")
	}

	start, end, err := b.Slot(2, 2)
	if err != nil || start != 4 || end != 6 {
		t.Errorf("slot(2, 2): want(4, 6, nil) have(%v, %v, %v)", start, end, err)
	}
	if _, _, err := b.Slot(3, 2); err == nil {
		t.Error("slot past the end should be rejected")
	}

	b.Zero()
	for i, v := range b.Float32s() {
		if v != 0 {
			t.Errorf("zero: index %v has value %v", i, v)
		}
	}
}

func TestWrongAccessorPanics(t *testing.T) {
	b, _ := New("b", Uint8, 2)
	defer func() {
		if recover() == nil {
			t.Error("float32s on a uint8 buffer should panic")
		}
	}()
	b.Float32s()
}

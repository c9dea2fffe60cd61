package progressbar

import (
	"bytes"
	"strings"
	"testing"
)

func TestManualProgressBar(t *testing.T) {
	var out bytes.Buffer
	p := NewManualProgressBar(&out, 10, 4)

	for i := 0; i < 6; i++ {
		p.Increment()
	}
	if p.Progress() != 1 {
		t.Errorf("progress: want(1) have(%v)", p.Progress())
	}
	if s := p.String(); strings.Count(s, "█") != 10 ||
		!strings.Contains(s, "100.00%") {
		t.Errorf("bar: want(full) have(%q)", s)
	}

	p.Display()
	if !strings.Contains(out.String(), "elapsed") {
		t.Errorf("display: have(%q)", out.String())
	}
}

func TestHalfProgress(t *testing.T) {
	p := NewManualProgressBar(&bytes.Buffer{}, 10, 4)
	p.Increment()
	p.Increment()
	if s := p.String(); strings.Count(s, "█") != 5 {
		t.Errorf("bar: want(5 blocks) have(%q)", s)
	}
}

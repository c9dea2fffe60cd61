package experiment

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/gosimulate/environment/envconfig"
	"github.com/samuelfneumann/gosimulate/experiment/trackers"
	ts "github.com/samuelfneumann/gosimulate/timestep"
	"gonum.org/v1/gonum/floats"
)

// sceneJSON holds one map in which the runner times out every third
// step, far away from its target
const sceneJSON = `{
	"name": "arena",
	"children": [
		{
			"name": "runner",
			"actor": true,
			"state_sensor": {"sensor_tag": "target", "target_entity": "target",
				"reference_entity": "runner", "properties": ["distance"]},
			"actuator": {"actuator_tag": "move", "mapping": [
				{"action": "change_position", "axis": [0, 0, 1],
					"use_local_coordinates": false}
			], "low": [-1], "high": [1]},
			"children": [
				{"name": "reach", "reward": {"type": "sparse",
					"entity_a": "runner", "entity_b": "target", "threshold": 0.5,
					"scalar": 10, "is_terminal": true}},
				{"name": "clock", "reward": {"type": "timeout", "threshold": 3,
					"scalar": 5, "is_terminal": true}}
			]
		},
		{
			"name": "walker",
			"actor": true,
			"position": [3, 0, 0],
			"state_sensor": {"sensor_tag": "target", "target_entity": "target",
				"reference_entity": "walker", "properties": ["distance"]}
		},
		{"name": "target", "position": [0, 0, 100]}
	]
}`

func config(t *testing.T, steps uint) Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scene.json")
	if err := os.WriteFile(path, []byte(sceneJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	return Config{
		Type:     OnlineExp,
		MaxSteps: steps,
		EnvConf:  envconfig.NewConfig(path, nil, 0, 0.99),
	}
}

func TestOnline(t *testing.T) {
	dir := t.TempDir()
	ret := trackers.NewReturn(filepath.Join(dir, "return.bin"))
	length := trackers.NewEpisodeLength(filepath.Join(dir, "length.bin"))

	exp, err := config(t, 10).CreateExp(1, log.New(io.Discard, "", 0), ret)
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Close()
	exp.Register(length)

	var calls uint
	exp.(*Online).OnStep = func(step uint) { calls = step }

	if err := exp.Run(); err != nil {
		t.Fatal(err)
	}
	if calls != 10 {
		t.Errorf("steps: want(10) have(%v)", calls)
	}

	want := []float64{5, 0, 5, 0, 5, 0}
	if data := ret.Data(); !floats.Equal(data, want) {
		t.Errorf("returns: want(%v) have(%v)", want, data)
	}
	if data := length.Data(); !floats.Equal(data, []float64{3, 3, 3, 3, 3, 3}) {
		t.Errorf("lengths: want(3 each) have(%v)", data)
	}
	if n := length.Ends(ts.MapRecycled); n != 3 {
		t.Errorf("recycled: want(3) have(%v)", n)
	}

	if err := exp.Save(); err != nil {
		t.Fatal(err)
	}
	loaded, err := trackers.LoadData(filepath.Join(dir, "return.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(loaded, want) {
		t.Errorf("loaded: want(%v) have(%v)", want, loaded)
	}
}

func TestRandomPolicy(t *testing.T) {
	exp, err := config(t, 0).CreateExp(7, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	defer exp.Close()

	o := exp.(*Online)
	for i := 0; i < 10; i++ {
		actions := o.SelectActions(nil)
		v := actions[0]["runner"]["move"]
		if len(v) != 1 || v[0] < -1 || v[0] > 1 {
			t.Errorf("move: want(1 value in [-1, 1]) have(%v)", v)
		}
	}
}

func TestCreateExpErrors(t *testing.T) {
	c := config(t, 1)
	c.Type = "Offline"
	if _, err := c.CreateExp(1, log.New(io.Discard, "", 0)); err == nil {
		t.Error("unknown experiment types should be an error")
	}

	c = config(t, 1)
	c.EnvConf.Scene = filepath.Join(t.TempDir(), "missing.json")
	if _, err := c.CreateExp(1, log.New(io.Discard, "", 0)); err == nil {
		t.Error("a missing scene should be an error")
	}
}

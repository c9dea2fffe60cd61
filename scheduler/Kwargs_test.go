package scheduler

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/samuelfneumann/gosimulate/actors"
)

func TestKwargsNumbers(t *testing.T) {
	k := Kwargs{
		"a": 3,
		"b": 2.0,
		"c": json.Number("4"),
		"d": 2.5,
		"e": "x",
	}

	for key, want := range map[string]int{"a": 3, "b": 2, "c": 4, "z": 7} {
		have, err := k.Int(key, 7)
		if err != nil || have != want {
			t.Errorf("int %v: want(%v) have(%v, %v)", key, want, have, err)
		}
	}
	if _, err := k.Int("d", 0); err == nil {
		t.Error("2.5 is not an integer")
	}
	if _, err := k.Int("e", 0); err == nil {
		t.Error("a string is not an integer")
	}

	if f, err := k.Float("d", 0); err != nil || f != 2.5 {
		t.Errorf("float: want(2.5) have(%v, %v)", f, err)
	}
	if b, err := k.Bool("missing", true); err != nil || !b {
		t.Errorf("bool: want(true) have(%v, %v)", b, err)
	}
}

func TestKwargsActionsJSON(t *testing.T) {
	data := []byte(`{"action": {"0": {"runner": {"move": [1, 0.5],
		"turn": 2}}, "1": {"walker": {"move": [0]}}}}`)

	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	var k Kwargs
	if err := d.Decode(&k); err != nil {
		t.Fatal(err)
	}

	actions, err := k.Actions("action")
	if err != nil {
		t.Fatal(err)
	}
	want := map[int]map[string]actors.Action{
		0: {"runner": {"move": {1, 0.5}, "turn": {2}}},
		1: {"walker": {"move": {0}}},
	}
	if !reflect.DeepEqual(actions, want) {
		t.Errorf("actions: want(%v) have(%v)", want, actions)
	}
	if keys := slots(actions); !reflect.DeepEqual(keys, []int{0, 1}) {
		t.Errorf("slots: want([0 1]) have(%v)", keys)
	}
}

func TestKwargsActionsErrors(t *testing.T) {
	tests := []interface{}{
		map[string]interface{}{"first": map[string]interface{}{}},
		map[string]interface{}{"0": []float64{1}},
		map[string]interface{}{"0": map[string]interface{}{"runner": 1}},
		map[string]interface{}{"0": map[string]interface{}{
			"runner": map[string]interface{}{"move": "left"}}},
		[]float64{1, 2},
	}

	for i, test := range tests {
		k := Kwargs{"action": test}
		if _, err := k.Actions("action"); err == nil {
			t.Errorf("test %v: expected an error", i)
		}
	}
}

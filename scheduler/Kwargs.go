package scheduler

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/samuelfneumann/gosimulate/actors"
)

// Kwargs are the keyword arguments of Initialize and Step. Numbers may
// be given as any Go integer or float type, or as json.Number when the
// arguments were decoded from JSON.
type Kwargs map[string]interface{}

// Int returns the integer argument key, or def if it is missing
func (k Kwargs) Int(key string, def int) (int, error) {
	v, ok := k[key]
	if !ok || v == nil {
		return def, nil
	}
	f, err := number(v)
	if err != nil {
		return 0, fmt.Errorf("int: %v: %v", key, err)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("int: %v: %v is not an integer", key, f)
	}
	return int(f), nil
}

// Float returns the float argument key, or def if it is missing
func (k Kwargs) Float(key string, def float64) (float64, error) {
	v, ok := k[key]
	if !ok || v == nil {
		return def, nil
	}
	f, err := number(v)
	if err != nil {
		return 0, fmt.Errorf("float: %v: %v", key, err)
	}
	return f, nil
}

// Bool returns the boolean argument key, or def if it is missing
func (k Kwargs) Bool(key string, def bool) (bool, error) {
	v, ok := k[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("bool: %v: expected a boolean, have(%T)", key, v)
	}
	return b, nil
}

// Has returns whether argument key was given
func (k Kwargs) Has(key string) bool {
	v, ok := k[key]
	return ok && v != nil
}

// Strings returns the string list argument key, or nil if it is
// missing
func (k Kwargs) Strings(key string) ([]string, error) {
	v, ok := k[key]
	if !ok || v == nil {
		return nil, nil
	}

	switch s := v.(type) {
	case []string:
		return s, nil
	case string:
		return []string{s}, nil
	case []interface{}:
		out := make([]string, len(s))
		for i, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("strings: %v: element %v is %T, not a "+
					"string", key, i, e)
			}
			out[i] = str
		}
		return out, nil
	default:
		return nil, fmt.Errorf("strings: %v: expected a list of strings, "+
			"have(%T)", key, v)
	}
}

// Actions returns the action argument key, keyed by map slot and actor
// name. Typed Go maps and generic decoded JSON are both accepted.
func (k Kwargs) Actions(key string) (map[int]map[string]actors.Action, error) {
	v, ok := k[key]
	if !ok || v == nil {
		return nil, nil
	}

	switch a := v.(type) {
	case map[int]map[string]actors.Action:
		return a, nil

	case map[int]map[string]map[string][]float64:
		out := make(map[int]map[string]actors.Action, len(a))
		for slot, byActor := range a {
			out[slot] = make(map[string]actors.Action, len(byActor))
			for name, action := range byActor {
				out[slot][name] = action
			}
		}
		return out, nil

	case map[string]interface{}:
		out := make(map[int]map[string]actors.Action, len(a))
		for slotKey, byActor := range a {
			slot, err := strconv.Atoi(slotKey)
			if err != nil {
				return nil, fmt.Errorf("actions: map slot %q is not an "+
					"integer", slotKey)
			}
			out[slot], err = actorActions(byActor)
			if err != nil {
				return nil, fmt.Errorf("actions: slot %v: %v", slot, err)
			}
		}
		return out, nil

	case map[int]interface{}:
		out := make(map[int]map[string]actors.Action, len(a))
		for slot, byActor := range a {
			var err error
			out[slot], err = actorActions(byActor)
			if err != nil {
				return nil, fmt.Errorf("actions: slot %v: %v", slot, err)
			}
		}
		return out, nil

	default:
		return nil, fmt.Errorf("actions: unsupported action type %T", v)
	}
}

func actorActions(v interface{}) (map[string]actors.Action, error) {
	switch a := v.(type) {
	case map[string]actors.Action:
		return a, nil

	case map[string]map[string][]float64:
		out := make(map[string]actors.Action, len(a))
		for name, action := range a {
			out[name] = action
		}
		return out, nil

	case map[string]interface{}:
		out := make(map[string]actors.Action, len(a))
		for name, byTag := range a {
			var tags map[string]interface{}
			switch t := byTag.(type) {
			case actors.Action:
				out[name] = t
				continue
			case map[string][]float64:
				out[name] = t
				continue
			case map[string]interface{}:
				tags = t
			default:
				return nil, fmt.Errorf("actor %q: expected actuator tags, "+
					"have(%T)", name, byTag)
			}

			action := make(actors.Action, len(tags))
			for tag, values := range tags {
				vec, err := vector(values)
				if err != nil {
					return nil, fmt.Errorf("actor %q: actuator %q: %v", name,
						tag, err)
				}
				action[tag] = vec
			}
			out[name] = action
		}
		return out, nil

	default:
		return nil, fmt.Errorf("expected actor names, have(%T)", v)
	}
}

// vector converts an action vector. A single number is a vector of
// length one.
func vector(v interface{}) ([]float64, error) {
	switch vec := v.(type) {
	case []float64:
		return vec, nil
	case []interface{}:
		out := make([]float64, len(vec))
		for i, e := range vec {
			f, err := number(e)
			if err != nil {
				return nil, fmt.Errorf("element %v: %v", i, err)
			}
			out[i] = f
		}
		return out, nil
	default:
		f, err := number(v)
		if err != nil {
			return nil, err
		}
		return []float64{f}, nil
	}
}

func number(v interface{}) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("expected a number, have(%T)", v)
	}
}

// slots returns the keys of actions in increasing order
func slots(actions map[int]map[string]actors.Action) []int {
	keys := make([]int, 0, len(actions))
	for k := range actions {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

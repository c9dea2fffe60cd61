package reward

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gosimulate/scene"
	"gonum.org/v1/gonum/spatial/r3"
)

// Resolver resolves entity names. An unresolved name results in a nil
// Entity.
type Resolver interface {
	Entity(name string) scene.Entity
}

// Build builds the reward function tree described by desc. Entity
// names are resolved once through r. A leaf that references an entity
// r cannot resolve is logged to logger and built disabled.
func Build(desc *scene.RewardDesc, r Resolver,
	logger *log.Logger) (*Function, error) {
	if desc == nil {
		return nil, fmt.Errorf("build: nil reward description")
	}

	kind, err := ParseKind(desc.Type)
	if err != nil {
		return nil, fmt.Errorf("build: %v", err)
	}

	f := &Function{
		Kind:        kind,
		Weight:      desc.Scalar,
		Threshold:   desc.Threshold,
		Terminal:    desc.IsTerminal,
		Collectable: desc.IsCollectable,
		TriggerOnce: desc.TriggerOnce,
	}

	if kind.Composite() {
		if len(desc.Children) != kind.Arity() {
			return nil, fmt.Errorf("build: %v reward requires %v children, "+
				"have(%v)", kind, kind.Arity(), len(desc.Children))
		}

		f.Children = make([]*Function, len(desc.Children))
		for i, child := range desc.Children {
			f.Children[i], err = Build(child, r, logger)
			if err != nil {
				return nil, err
			}
		}
		return f, nil
	}

	if len(desc.Children) != 0 {
		return nil, fmt.Errorf("build: %v reward cannot have children", kind)
	}

	f.Metric, err = ParseMetric(desc.DistanceMetric)
	if err != nil {
		return nil, fmt.Errorf("build: %v", err)
	}
	f.Direction = scene.Vec(desc.Direction, r3.Vec{X: 1})

	if kind == Timeout {
		return f, nil
	}

	f.EntityA = r.Entity(desc.EntityA)
	f.EntityB = r.Entity(desc.EntityB)
	if f.EntityA == nil || f.EntityB == nil {
		f.disabled = true
		if logger != nil {
			logger.Printf("warning: %v reward between %q and %q references "+
				"a missing entity and is disabled", kind, desc.EntityA,
				desc.EntityB)
		}
	}
	return f, nil
}

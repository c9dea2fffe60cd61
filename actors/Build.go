package actors

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gosimulate/scene"
	"github.com/samuelfneumann/gosimulate/sensor"
)

// NewSensors creates the sensors described on every node of g
func NewSensors(g *scene.Graph, ctx sensor.Context) (Sensors, error) {
	s := make(Sensors)
	for _, n := range g.Nodes() {
		if !sensor.Describes(n) {
			continue
		}
		sensors, err := sensor.New(n, ctx)
		if err != nil {
			return nil, fmt.Errorf("newSensors: %v", err)
		}
		s[n] = sensors
	}
	return s, nil
}

// NewActors creates an Actor for every actor node of g
func NewActors(g *scene.Graph, s Sensors,
	logger *log.Logger) (map[*scene.Node]*Actor, error) {
	actors := make(map[*scene.Node]*Actor)
	for _, n := range g.Nodes() {
		if !n.IsActor {
			continue
		}
		a, err := NewActor(n, s, g, logger)
		if err != nil {
			return nil, fmt.Errorf("newActors: %v", err)
		}
		actors[n] = a
	}
	return actors, nil
}

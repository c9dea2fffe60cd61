// Package experiment implements functionality for running an
// experiment on a pooled scene environment
package experiment

import (
	"fmt"
	"log"

	"github.com/samuelfneumann/gosimulate/environment/envconfig"
	"github.com/samuelfneumann/gosimulate/experiment/trackers"
)

// Experiment outlines structs that can run experiments. Experiments
// send the timesteps of every actor slot to Trackers, which cache
// data in RAM to be later saved to disk by Save. Run runs the
// experiment until the step limit is reached.
type Experiment interface {
	Run() error

	// Save all tracked data to disk
	Save() error

	// Adds a new Tracker to the (possibly already running) experiment.
	// Useful if you want to track data only after a specified event.
	Register(t trackers.Tracker)

	Close() error
}

type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment
type Config struct {
	Type
	MaxSteps uint
	EnvConf  envconfig.Config
}

// CreateExp creates the experiment described by the Config. Actions
// are selected uniformly at random.
func (c Config) CreateExp(seed uint64, logger *log.Logger,
	t ...trackers.Tracker) (Experiment, error) {
	env, _, err := c.EnvConf.Create(logger)
	if err != nil {
		return nil, fmt.Errorf("createExp: could not create environment: %v",
			err)
	}
	policy, err := NewRandom(env, seed)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("createExp: %v", err)
	}

	switch c.Type {
	case OnlineExp, "":
		return NewOnline(env, policy, c.MaxSteps, t...), nil
	}

	env.Close()
	return nil, fmt.Errorf("createExp: no such experiment type %v", c.Type)
}

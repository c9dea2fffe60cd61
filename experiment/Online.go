package experiment

import (
	"fmt"

	env "github.com/samuelfneumann/gosimulate/environment"
	"github.com/samuelfneumann/gosimulate/experiment/trackers"
	ts "github.com/samuelfneumann/gosimulate/timestep"
)

// Online is an Experiment that runs a policy online on every actor
// slot of an environment at once. Maps are recycled by the environment,
// so the experiment never resets it after the first step.
type Online struct {
	*env.Environment
	Policy

	maxSteps     uint
	currentSteps uint
	trackers     []trackers.Tracker

	// OnStep is called after every environment step if it is not nil
	OnStep func(step uint)
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given policy. The steps parameter determines how
// many environment steps the experiment is run for, and t determines
// what data is saved.
func NewOnline(e *env.Environment, p Policy, steps uint,
	t ...trackers.Tracker) *Online {
	return &Online{Environment: e, Policy: p, maxSteps: steps, trackers: t}
}

// Register registers a Tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of environment steps run so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Run resets the environment and runs it until the step limit is
// reached
func (o *Online) Run() error {
	step, err := o.Environment.Reset()
	if err != nil {
		return fmt.Errorf("run: %v", err)
	}
	o.track(step)

	for o.currentSteps < o.maxSteps {
		action := o.Policy.SelectActions(step)
		step, err = o.Environment.Step(action)
		if err != nil {
			return fmt.Errorf("run: step %v: %v", o.currentSteps, err)
		}
		o.currentSteps++
		o.track(step)

		if o.OnStep != nil {
			o.OnStep(o.currentSteps)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// track sends the current timesteps to each Tracker
func (o *Online) track(t []ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}

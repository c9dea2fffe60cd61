package trackers

import (
	"fmt"

	ts "github.com/samuelfneumann/gosimulate/timestep"
)

// Return tracks and saves the episodic return of every actor slot.
// Returns are saved in the order episodes end.
//
// Note: An episode must finish for this Tracker to save its data.
// Episodes still running when the experiment ends are not saved.
type Return struct {
	lastTimeStep   []int
	currentReturn  []float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track accumulates the rewards of each actor slot. A First step
// starts a new episode in its slot, and a Last step saves the return
// of the episode and starts the next one.
//
// Track panics if it is called for non-sequential timesteps of a slot
func (r *Return) Track(steps []ts.TimeStep) {
	if r.lastTimeStep == nil {
		r.lastTimeStep = make([]int, len(steps))
		r.currentReturn = make([]float64, len(steps))
	}
	if len(steps) != len(r.lastTimeStep) {
		panic(fmt.Sprintf("track: tracking %v slots, have(%v)",
			len(r.lastTimeStep), len(steps)))
	}

	for i, step := range steps {
		if step.First() {
			r.currentReturn[i] = 0
			r.lastTimeStep[i] = step.Number
			continue
		}

		if r.lastTimeStep[i]+1 != step.Number {
			panic(fmt.Sprintf("track: slot %v: last two timesteps tracked "+
				"are not sequential: timestep %v --> timestep %v", i,
				r.lastTimeStep[i], step.Number))
		}
		r.currentReturn[i] += step.Reward
		r.lastTimeStep[i] = step.Number

		if step.Last() {
			r.episodeReturns = append(r.episodeReturns, r.currentReturn[i])

			// The next episode started with the observation of this step
			r.currentReturn[i] = 0
			r.lastTimeStep[i] = 0
		}
	}
}

// Data returns the returns of every finished episode
func (r *Return) Data() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	return save(r.filename, r.episodeReturns)
}

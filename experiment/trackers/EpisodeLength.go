package trackers

import (
	ts "github.com/samuelfneumann/gosimulate/timestep"
)

// EpisodeLength tracks and saves the lengths of episodes of every
// actor slot, keyed by why they ended.
// Note that an episode must finish for this Tracker to save its data.
type EpisodeLength struct {
	episodeLengths []float64
	ends           map[ts.EndType]int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{
		filename: filename,
		ends:     make(map[ts.EndType]int),
	}
}

// Track caches the length of every episode that ends on this step
func (e *EpisodeLength) Track(steps []ts.TimeStep) {
	for _, t := range steps {
		if t.Last() {
			e.episodeLengths = append(e.episodeLengths, float64(t.Number))
			e.ends[t.EndType]++
		}
	}
}

// Data returns the lengths of every finished episode
func (e *EpisodeLength) Data() []float64 {
	return e.episodeLengths
}

// Ends returns the number of episodes that ended with end type t
func (e *EpisodeLength) Ends(t ts.EndType) int {
	return e.ends[t]
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}

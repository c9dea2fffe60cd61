// Package envconfig provides configuration structs for configuring
// pooled scene environments. Configurations in this package are JSON
// serializable.
package envconfig

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	env "github.com/samuelfneumann/gosimulate/environment"
	"github.com/samuelfneumann/gosimulate/scheduler"
	ts "github.com/samuelfneumann/gosimulate/timestep"
)

// Config implements a specific configuration of a scene environment
type Config struct {
	// Scene is the path of the JSON scene description. Relative paths
	// are resolved against the directory of the configuration file by
	// Load.
	Scene string

	// Maps are the names of the scene nodes used as pool maps, NShow
	// of which are simulated at once
	Maps  []string
	NShow int

	FrameSkip   int
	TimeStep    float64
	Discount    float64
	ResetPolicy string
	FrameSize   int
}

// NewConfig returns a new environment Config with default step
// parameters
func NewConfig(scene string, maps []string, nShow int,
	discount float64) Config {
	return Config{
		Scene:     scene,
		Maps:      maps,
		NShow:     nShow,
		FrameSkip: scheduler.DefaultFrameSkip,
		TimeStep:  scheduler.DefaultTimeStep,
		Discount:  discount,
	}
}

// Load reads a Config from the JSON file at path. Zero step
// parameters take default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: could not read config: %v", err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode config: %v", err)
	}
	if c.Scene != "" && !filepath.IsAbs(c.Scene) {
		c.Scene = filepath.Join(filepath.Dir(path), c.Scene)
	}
	if c.FrameSkip == 0 {
		c.FrameSkip = scheduler.DefaultFrameSkip
	}
	if c.TimeStep == 0 {
		c.TimeStep = scheduler.DefaultTimeStep
	}
	return c, c.Validate()
}

// Validate returns an error if the Config cannot create an environment
func (c Config) Validate() error {
	if c.Scene == "" {
		return fmt.Errorf("validate: no scene")
	}
	if c.NShow < 0 || (len(c.Maps) > 0 && c.NShow > len(c.Maps)) {
		return fmt.Errorf("validate: NShow must be in [0, %v], have(%v)",
			len(c.Maps), c.NShow)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], have(%v)",
			c.Discount)
	}
	if _, err := scheduler.ParseResetPolicy(c.ResetPolicy); err != nil {
		return fmt.Errorf("validate: %v", err)
	}
	return nil
}

// Kwargs returns the scene initialization kwargs of the Config
func (c Config) Kwargs() scheduler.Kwargs {
	kwargs := scheduler.Kwargs{}
	if len(c.Maps) > 0 {
		kwargs["maps"] = c.Maps
	}
	if c.NShow > 0 {
		kwargs["n_show"] = c.NShow
	}
	return kwargs
}

// Create returns the environment described by the Config as well as
// the first timestep of every actor slot
func (c Config) Create(logger *log.Logger) (*env.Environment,
	[]ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, fmt.Errorf("create: %v", err)
	}
	data, err := os.ReadFile(c.Scene)
	if err != nil {
		return nil, nil, fmt.Errorf("create: could not read scene: %v", err)
	}
	policy, _ := scheduler.ParseResetPolicy(c.ResetPolicy)

	s := scheduler.New(scheduler.Options{
		Logger:      logger,
		ResetPolicy: policy,
		FrameSize:   c.FrameSize,
	})
	if err := s.Initialize(data, c.Kwargs()); err != nil {
		return nil, nil, fmt.Errorf("create: %v", err)
	}

	e, step, err := env.New(s, c.Discount, c.FrameSkip, c.TimeStep)
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("create: %v", err)
	}
	return e, step, nil
}

package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kmc-sim/kmc-sim/sim"
)

// LoadSystemConfig reads and validates a YAML system definition:
//
//	events:
//	  - id: adsorb
//	    rate: 2.5
//	  - id: desorb
//	    rate: 0.5
//	    decay: 0.9
//	    impacts: [adsorb]
func LoadSystemConfig(path string) (*sim.SystemConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg sim.SystemConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid system in %s: %w", path, err)
	}
	return &cfg, nil
}

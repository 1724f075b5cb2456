package sim

import (
	"fmt"
	"math"
)

// EventConfig declares one event of a simulated system.
type EventConfig struct {
	ID   string  `yaml:"id"`
	Rate float64 `yaml:"rate"`
	// Decay multiplies the event's rate each time it fires. Unset means
	// 1.0, a static rate; a literal 0 kills the event after one firing.
	Decay *float64 `yaml:"decay,omitempty"`
	// Impacts lists the events whose rates change when this one fires.
	Impacts []string `yaml:"impacts,omitempty"`
}

// SystemConfig declares the full event system a run is driven by.
type SystemConfig struct {
	Events []EventConfig `yaml:"events"`
}

// Validate checks the config for structural problems: missing events,
// blank or repeated IDs, non-finite or negative rates and decays, and
// impact references to undeclared events.
func (c *SystemConfig) Validate() error {
	if len(c.Events) == 0 {
		return fmt.Errorf("system config declares no events")
	}
	declared := make(map[string]bool, len(c.Events))
	for i, ev := range c.Events {
		if ev.ID == "" {
			return fmt.Errorf("event %d has an empty ID", i)
		}
		if declared[ev.ID] {
			return fmt.Errorf("event %q declared twice", ev.ID)
		}
		declared[ev.ID] = true
		if math.IsNaN(ev.Rate) || math.IsInf(ev.Rate, 0) || ev.Rate < 0 {
			return fmt.Errorf("event %q has invalid rate %v", ev.ID, ev.Rate)
		}
		if ev.Decay != nil {
			if d := *ev.Decay; math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
				return fmt.Errorf("event %q has invalid decay %v", ev.ID, d)
			}
		}
	}
	for _, ev := range c.Events {
		for _, target := range ev.Impacts {
			if !declared[target] {
				return fmt.Errorf("event %q impacts undeclared event %q", ev.ID, target)
			}
		}
	}
	return nil
}

// System is a configured event population with simple rate dynamics: each
// event carries a current rate that is multiplied by its decay factor every
// time it fires. It implements kmc.RateCalculator[string] and owns the
// impact table handed to the selector.
type System struct {
	ids     []string
	current map[string]float64
	decay   map[string]float64
	impacts map[string][]string
	fires   map[string]int
}

// NewSystem builds a System from a validated config. Events with a decay
// other than 1.0 change their own rate when they fire, so they are added to
// their own impact list if the config did not already do so.
func NewSystem(cfg *SystemConfig) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &System{
		ids:     make([]string, 0, len(cfg.Events)),
		current: make(map[string]float64, len(cfg.Events)),
		decay:   make(map[string]float64, len(cfg.Events)),
		impacts: make(map[string][]string, len(cfg.Events)),
		fires:   make(map[string]int, len(cfg.Events)),
	}
	for _, ev := range cfg.Events {
		decay := 1.0
		if ev.Decay != nil {
			decay = *ev.Decay
		}
		s.ids = append(s.ids, ev.ID)
		s.current[ev.ID] = ev.Rate
		s.decay[ev.ID] = decay
		impacts := append([]string(nil), ev.Impacts...)
		if decay != 1.0 && !contains(impacts, ev.ID) {
			impacts = append([]string{ev.ID}, impacts...)
		}
		s.impacts[ev.ID] = impacts
	}
	return s, nil
}

// Rate returns the current rate of an event.
func (s *System) Rate(id string) float64 {
	return s.current[id]
}

// RecordFire registers that an event was accepted and applies its decay.
func (s *System) RecordFire(id string) {
	s.fires[id]++
	s.current[id] *= s.decay[id]
}

// EventIDs returns the event IDs in declaration order.
func (s *System) EventIDs() []string {
	return s.ids
}

// ImpactTable returns the impact lists keyed by event ID.
func (s *System) ImpactTable() map[string][]string {
	return s.impacts
}

// FireCount returns how often an event has fired.
func (s *System) FireCount(id string) int {
	return s.fires[id]
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

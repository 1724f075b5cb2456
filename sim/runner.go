package sim

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/kmc-sim/kmc-sim/kmc"
)

// Runner drives a rejection-free selector over a configured system and
// collects run metrics.
type Runner struct {
	System   *System
	Selector *kmc.RejectionFreeSelector[string]
}

// NewRunner builds the system and a selector seeded with the given seed.
func NewRunner(cfg *SystemConfig, seed uint64) (*Runner, error) {
	sys, err := NewSystem(cfg)
	if err != nil {
		return nil, err
	}
	sel, err := kmc.NewRejectionFreeSelector(sys, sys.EventIDs(), sys.ImpactTable(),
		kmc.NewSeededRandomGenerator(seed))
	if err != nil {
		return nil, err
	}
	return &Runner{System: sys, Selector: sel}, nil
}

// Run advances the simulation until maxSteps steps have been taken or the
// simulated clock reaches horizon, whichever comes first. maxSteps <= 0
// means no step limit and horizon <= 0 means no time limit; at least one
// of the two should be set. A system whose rates all decay to zero ends
// the run cleanly with Metrics.Exhausted set.
func (r *Runner) Run(maxSteps int, horizon float64) (*Metrics, error) {
	m := NewMetrics()
	for step := 0; maxSteps <= 0 || step < maxSteps; step++ {
		if horizon > 0 && m.SimulatedTime >= horizon {
			logrus.Infof("horizon %g reached after %d steps", horizon, m.StepsTaken)
			break
		}
		id, dt, err := r.Selector.SelectEvent()
		if errors.Is(err, kmc.ErrExhaustedRates) {
			logrus.Infof("no live events left after %d steps, stopping", m.StepsTaken)
			m.Exhausted = true
			break
		}
		if err != nil {
			return m, err
		}
		r.System.RecordFire(id)
		m.StepsTaken++
		m.SimulatedTime += dt
		m.FireCounts[id]++
		logrus.Debugf("<< step %d: event %s fired, dt=%.6g, t=%.6g", m.StepsTaken, id, dt, m.SimulatedTime)
	}
	return m, nil
}

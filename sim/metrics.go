// Aggregates run-wide statistics for final reporting.

package sim

import (
	"fmt"
	"sort"
)

// Metrics aggregates statistics about a run: how many steps were accepted,
// how far the simulated clock advanced, and how often each event fired.
type Metrics struct {
	StepsTaken    int            // Number of accepted KMC steps
	SimulatedTime float64        // Sum of all time steps
	FireCounts    map[string]int // map of event ID -> times fired
	Exhausted     bool           // Run ended because no event could fire
}

// NewMetrics returns an empty metrics aggregate.
func NewMetrics() *Metrics {
	return &Metrics{FireCounts: make(map[string]int)}
}

// Print displays aggregated metrics at the end of a run.
func (m *Metrics) Print() {
	fmt.Println("=== Run Metrics ===")
	fmt.Printf("Accepted Steps   : %d\n", m.StepsTaken)
	fmt.Printf("Simulated Time   : %.6g\n", m.SimulatedTime)
	if m.Exhausted {
		fmt.Println("Run ended with all event rates exhausted")
	}
	ids := make([]string, 0, len(m.FireCounts))
	for id := range m.FireCounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("  %-16s : %d fires\n", id, m.FireCounts[id])
	}
}

package kmc

import (
	"fmt"
	"math"
	"math/bits"
)

// EventRateTree maps a fixed set of events to their current rates and keeps
// a cumulative-sum index over them, so that a weighted draw (inverse-CDF
// query) and a single-rate update both cost O(log N). The event set and the
// tree topology are fixed at construction; only leaf rates change.
//
// Layout: nodes is a 1-indexed complete binary tree. The root is nodes[1],
// the children of nodes[i] are nodes[2i] and nodes[2i+1], and leaf slot j
// lives at nodes[leafBase+j]. leafBase is the event count rounded up to a
// power of two; spare leaves stay pinned to rate zero.
type EventRateTree[E comparable] struct {
	nodes    []float64
	leafBase int

	// order[j] is the event in leaf slot j; position is its inverse.
	order    []E
	position map[E]int
}

// NewEventRateTree builds a tree over ids with the given initial rates.
// ids must be non-empty and free of duplicates, rates must be parallel to
// ids, and every rate must be finite and non-negative.
func NewEventRateTree[E comparable](ids []E, rates []float64) (*EventRateTree[E], error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("cannot build event rate tree: %w", ErrEmptyEventSet)
	}
	if len(ids) != len(rates) {
		return nil, fmt.Errorf("cannot build event rate tree: %d event IDs but %d rates", len(ids), len(rates))
	}

	position := make(map[E]int, len(ids))
	for j, id := range ids {
		if _, seen := position[id]; seen {
			return nil, fmt.Errorf("%w: %v", ErrDuplicateEvent, id)
		}
		position[id] = j
	}
	for j, r := range rates {
		if !validRate(r) {
			return nil, fmt.Errorf("%w: got %v for event %v", ErrInvalidRate, r, ids[j])
		}
	}

	leafBase := 1 << bits.Len(uint(len(ids)-1))
	t := &EventRateTree[E]{
		nodes:    make([]float64, 2*leafBase),
		leafBase: leafBase,
		order:    append([]E(nil), ids...),
		position: position,
	}
	copy(t.nodes[leafBase:], rates)
	for i := leafBase - 1; i >= 1; i-- {
		t.nodes[i] = t.nodes[2*i] + t.nodes[2*i+1]
	}
	return t, nil
}

// Len returns the number of events in the tree.
func (t *EventRateTree[E]) Len() int {
	return len(t.order)
}

// TotalRate returns the sum of all current event rates. O(1).
func (t *EventRateTree[E]) TotalRate() float64 {
	return t.nodes[1]
}

// GetRate returns the current rate of event e.
func (t *EventRateTree[E]) GetRate(e E) (float64, error) {
	j, ok := t.position[e]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownEvent, e)
	}
	return t.nodes[t.leafBase+j], nil
}

// UpdateRate writes rate for event e and refreshes every ancestor sum.
// Each ancestor is recomputed from its two children rather than adjusted
// by the delta, so repeated updates cannot accumulate floating-point drift:
// every internal node equals the sum of its children exactly, at all times.
// The tree is untouched when an error is returned.
func (t *EventRateTree[E]) UpdateRate(e E, rate float64) error {
	j, ok := t.position[e]
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnknownEvent, e)
	}
	if !validRate(rate) {
		return fmt.Errorf("%w: got %v for event %v", ErrInvalidRate, rate, e)
	}
	i := t.leafBase + j
	t.nodes[i] = rate
	for p := i / 2; p >= 1; p /= 2 {
		t.nodes[p] = t.nodes[2*p] + t.nodes[2*p+1]
	}
	return nil
}

// Query answers the inverse-CDF question: given q in [0, TotalRate()), it
// returns the event whose cumulative rate interval contains q, under the
// leaf order fixed at construction. Callers must ensure the total rate is
// positive; q at or slightly above the total (a rounding artifact of
// computing q as u*TotalRate()) resolves to the last event with positive
// rate rather than a spare zero leaf.
func (t *EventRateTree[E]) Query(q float64) E {
	i := 1
	for i < t.leafBase {
		left := 2 * i
		if q < t.nodes[left] {
			i = left
		} else {
			q -= t.nodes[left]
			i = left + 1
		}
	}
	// Rounding at the extreme right boundary can run the descent past all
	// of the rate mass onto a zero leaf. Snap back to the nearest leaf
	// that actually carries rate.
	for i > t.leafBase && t.nodes[i] == 0 {
		i--
	}
	return t.order[i-t.leafBase]
}

// checkInvariants verifies the tree's structural invariants: the
// position/order bijection, non-negative finite node values, spare leaves
// pinned to zero, and every internal node exactly equal to the sum of its
// children (exact equality is guaranteed by the recompute-from-children
// update regime). Exposed to tests as CheckInvariants.
func (t *EventRateTree[E]) checkInvariants() error {
	if len(t.order) == 0 || len(t.order) > t.leafBase {
		return fmt.Errorf("leaf layout broken: %d events over %d slots", len(t.order), t.leafBase)
	}
	if len(t.position) != len(t.order) {
		return fmt.Errorf("position has %d entries for %d events", len(t.position), len(t.order))
	}
	for j, id := range t.order {
		if got, ok := t.position[id]; !ok || got != j {
			return fmt.Errorf("position[%v] = %d, want %d", id, got, j)
		}
	}
	for i := 1; i < 2*t.leafBase; i++ {
		if !validRate(t.nodes[i]) {
			return fmt.Errorf("node %d holds invalid value %v", i, t.nodes[i])
		}
	}
	for j := len(t.order); j < t.leafBase; j++ {
		if t.nodes[t.leafBase+j] != 0 {
			return fmt.Errorf("spare leaf %d holds nonzero rate %v", j, t.nodes[t.leafBase+j])
		}
	}
	for i := 1; i < t.leafBase; i++ {
		if t.nodes[i] != t.nodes[2*i]+t.nodes[2*i+1] {
			return fmt.Errorf("node %d = %v, want %v + %v", i, t.nodes[i], t.nodes[2*i], t.nodes[2*i+1])
		}
	}
	return nil
}

func validRate(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0) && r >= 0
}

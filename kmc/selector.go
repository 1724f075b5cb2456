package kmc

import (
	"fmt"
	"math"

	"github.com/rhartert/sparsesets"
)

// RateCalculator computes the instantaneous rate of an event. The selector
// calls it once per event at construction and once per impacted event per
// step. It may consult external state the caller updates between steps, but
// it must not change behind the selector's back within a step. Results must
// be finite and non-negative; anything else surfaces as ErrInvalidRate.
type RateCalculator[E comparable] interface {
	Rate(e E) float64
}

// RateCalculatorFunc adapts a plain function to the RateCalculator
// interface.
type RateCalculatorFunc[E comparable] func(E) float64

// Rate calls f(e).
func (f RateCalculatorFunc[E]) Rate(e E) float64 { return f(e) }

// ImpactFunc reports which events' rates may have changed as a consequence
// of the given event firing. The returned sequence may be empty, may
// contain the fired event itself, and may contain duplicates.
type ImpactFunc[E comparable] func(E) []E

// RejectionFreeSelector chooses one event per step with probability
// proportional to its rate, with no rejected trials, and produces the
// matching exponentially distributed time step. Event IDs are opaque keys;
// rates come from the caller's RateCalculator, and the events invalidated
// by a firing come from an impact table or impact function.
//
// Rates impacted by a selected event are not recomputed until the start of
// the next SelectEvent call, so TotalRate and GetRate report the state as
// of the last completed step. Not safe for concurrent use.
type RejectionFreeSelector[E comparable] struct {
	calc      RateCalculator[E]
	rng       RandomSource
	tree      *EventRateTree[E]
	getImpact ImpactFunc[E]

	// pending is the impact oracle's output for the previously selected
	// event, in oracle order, still awaiting a rate refresh. seen dedups
	// its leaf slots during the refresh walk.
	pending []E
	seen    *sparsesets.Set
}

// NewRejectionFreeSelector builds a selector whose impact oracle is backed
// by a lookup table. The table is copied and completed: every event ID in
// ids that is missing from it gets an empty impact list, so hot-path
// lookups are total. The caller's map is never modified. A nil rng makes
// the selector own a fresh entropy-seeded RandomGenerator.
func NewRejectionFreeSelector[E comparable](calc RateCalculator[E], ids []E, impactTable map[E][]E, rng RandomSource) (*RejectionFreeSelector[E], error) {
	completed := make(map[E][]E, len(ids))
	for id, impacts := range impactTable {
		completed[id] = append([]E(nil), impacts...)
	}
	for _, id := range ids {
		if _, ok := completed[id]; !ok {
			completed[id] = nil
		}
	}
	return newSelector(calc, ids, func(e E) []E { return completed[e] }, rng)
}

// NewRejectionFreeSelectorFunc builds a selector whose impact oracle is an
// arbitrary function. The selector trusts it to return valid event IDs; an
// unknown ID is reported as ErrUnknownEvent by the SelectEvent call that
// tries to refresh it.
func NewRejectionFreeSelectorFunc[E comparable](calc RateCalculator[E], ids []E, getImpact ImpactFunc[E], rng RandomSource) (*RejectionFreeSelector[E], error) {
	if getImpact == nil {
		return nil, fmt.Errorf("cannot build selector: impact function must not be nil")
	}
	return newSelector(calc, ids, getImpact, rng)
}

func newSelector[E comparable](calc RateCalculator[E], ids []E, getImpact ImpactFunc[E], rng RandomSource) (*RejectionFreeSelector[E], error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("cannot build selector: %w", ErrEmptyEventSet)
	}
	if rng == nil {
		rng = NewRandomGenerator()
	}
	rates := make([]float64, len(ids))
	for i, id := range ids {
		rates[i] = calc.Rate(id)
	}
	tree, err := NewEventRateTree(ids, rates)
	if err != nil {
		return nil, err
	}
	return &RejectionFreeSelector[E]{
		calc:      calc,
		rng:       rng,
		tree:      tree,
		getImpact: getImpact,
		seen:      sparsesets.New(tree.Len()),
	}, nil
}

// SelectEvent performs one KMC step and returns the selected event together
// with the time step to advance the simulation clock by.
//
// Because this method only selects events and does not process them, the
// rates invalidated by the returned event cannot be recomputed until the
// next call; that deferred refresh is the first thing this method does. A
// refresh failure (invalid rate, unknown impacted event) is returned before
// any randomness is consumed and leaves the pending set intact, so the next
// call retries it. ErrExhaustedRates is likewise reported before any draw.
func (s *RejectionFreeSelector[E]) SelectEvent() (E, float64, error) {
	var zero E
	if err := s.refreshImpacted(); err != nil {
		return zero, 0, err
	}

	totalRate := s.tree.TotalRate()
	if totalRate <= 0 {
		return zero, 0, fmt.Errorf("%w (N=%d)", ErrExhaustedRates, s.tree.Len())
	}

	// Inverse transform with u in (0, 1]: the time step is strictly
	// positive and finite.
	timeStep := -math.Log(s.rng.OpenUnitInterval()) / totalRate

	// u in [0, 1) keeps the query value below the total rate in exact
	// arithmetic; the tree handles the rounded boundary.
	selected := s.tree.Query(s.rng.UnitInterval() * totalRate)

	s.pending = s.getImpact(selected)
	return selected, timeStep, nil
}

// TotalRate returns the sum of all event rates as of the last completed
// step. Rates impacted by the most recently selected event are reflected
// only after the next SelectEvent call performs its refresh.
func (s *RejectionFreeSelector[E]) TotalRate() float64 {
	return s.tree.TotalRate()
}

// GetRate returns the rate of event e as of the last completed step, with
// the same staleness as TotalRate.
func (s *RejectionFreeSelector[E]) GetRate(e E) (float64, error) {
	return s.tree.GetRate(e)
}

// refreshImpacted recomputes the rate of every event invalidated by the
// previously selected event. Oracle order is preserved; duplicate entries
// cost a single update. Every new rate is computed and validated before any
// is written, so on failure the tree is unchanged and the pending set is
// kept for a subsequent call to retry the whole refresh (each retry
// re-reads the calculator).
func (s *RejectionFreeSelector[E]) refreshImpacted() error {
	if len(s.pending) == 0 {
		return nil
	}
	s.seen.Clear()
	ids := make([]E, 0, len(s.pending))
	rates := make([]float64, 0, len(s.pending))
	for _, id := range s.pending {
		slot, ok := s.tree.position[id]
		if !ok {
			return fmt.Errorf("%w: %v returned by impact oracle", ErrUnknownEvent, id)
		}
		if s.seen.Contains(slot) {
			continue
		}
		s.seen.Insert(slot)
		rate := s.calc.Rate(id)
		if !validRate(rate) {
			return fmt.Errorf("%w: got %v for event %v", ErrInvalidRate, rate, id)
		}
		ids = append(ids, id)
		rates = append(rates, rate)
	}
	for i, id := range ids {
		if err := s.tree.UpdateRate(id, rates[i]); err != nil {
			return err
		}
	}
	s.pending = nil
	return nil
}

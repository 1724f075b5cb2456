// Package kmc implements the event-selection core of a rejection-free
// kinetic Monte Carlo simulation (the n-fold way, or BKL algorithm).
//
// # Reading Guide
//
// Start with these three files to understand the selection kernel:
//   - ratetree.go: EventRateTree, the cumulative-rate binary tree that
//     answers weighted draws and point updates in O(log N)
//   - selector.go: RejectionFreeSelector, one KMC step per call with
//     deferred rate refresh for impacted events
//   - rng.go: RandomGenerator, the seedable uniform-variate source
//
// # Architecture
//
// Every step of a rejection-free simulation accepts exactly one event,
// chosen with probability proportional to its instantaneous rate, and
// advances simulated time by an exponentially distributed interval with
// mean 1/R where R is the total rate. The selector does not interpret
// event IDs; it is parametric in the ID type and pulls rates from a
// caller-supplied RateCalculator. Which rates a firing invalidates comes
// from an impact table or impact function, and those rates are recomputed
// lazily at the start of the following step.
//
// The package is single-threaded by design: a selector is a sequential
// state machine and none of its methods are safe for concurrent use. A
// RandomGenerator may be shared between selectors; draw interleaving is
// then determined by call order.
package kmc

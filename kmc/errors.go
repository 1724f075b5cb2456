package kmc

import "errors"

// Errors reported by the event-rate tree and the selector. All of them are
// configuration or programming errors rather than transient faults: callers
// should not retry, and no operation mutates state before reporting one.
var (
	// ErrEmptyEventSet is returned when a tree or selector is constructed
	// with no event IDs.
	ErrEmptyEventSet = errors.New("event ID list must not be empty")

	// ErrDuplicateEvent is returned when the same event ID appears twice
	// at construction.
	ErrDuplicateEvent = errors.New("duplicate event ID")

	// ErrInvalidRate is returned whenever a rate is NaN, infinite, or
	// negative, either at construction or from a rate calculator.
	ErrInvalidRate = errors.New("rate must be finite and non-negative")

	// ErrUnknownEvent is returned when an event ID does not belong to the
	// tree's fixed key set.
	ErrUnknownEvent = errors.New("unknown event ID")

	// ErrExhaustedRates is returned by SelectEvent when the total rate is
	// not positive: no event can fire.
	ErrExhaustedRates = errors.New("total event rate is not positive")
)

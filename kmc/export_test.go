package kmc

// Test-only inspection surface. The C++ original granted a test fixture
// friend access to the selector's internals; the Go equivalent is to export
// the hooks from a _test.go file so they exist only under `go test`.

// CheckInvariants validates the tree's structural invariants.
func (t *EventRateTree[E]) CheckInvariants() error {
	return t.checkInvariants()
}

// CheckInvariants validates the invariants of the selector's tree.
func (s *RejectionFreeSelector[E]) CheckInvariants() error {
	return s.tree.checkInvariants()
}

// PendingImpacts returns a copy of the events staged for the next refresh.
func (s *RejectionFreeSelector[E]) PendingImpacts() []E {
	return append([]E(nil), s.pending...)
}

// RefreshForTest runs the deferred refresh without sampling.
func (s *RejectionFreeSelector[E]) RefreshForTest() error {
	return s.refreshImpacted()
}

// LeafSlots exposes the leaf count including spare zero-pinned slots.
func (t *EventRateTree[E]) LeafSlots() int {
	return t.leafBase
}

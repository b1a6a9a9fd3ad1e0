package graph

import "errors"

var (
	// ErrNotLoaded is returned by every read before the first Load, and after Invalidate.
	ErrNotLoaded = errors.New("graph: no dataset loaded")

	ErrPersonNotFound = errors.New("graph: person not found")
	ErrEventNotFound  = errors.New("graph: event not found")

	// ErrNoRootPerson is returned by Load when no root person ID is given.
	ErrNoRootPerson = errors.New("graph: root person id is required")

	// ErrRootNotFound means the session's root person is absent from the loaded dataset.
	ErrRootNotFound = errors.New("graph: root person not in dataset")

	// ErrStaleSnapshot is returned when a filter was computed against a
	// generation that has since been replaced by Load or Invalidate.
	ErrStaleSnapshot = errors.New("graph: dataset changed while filtering")

	ErrEventPersonMismatch = errors.New("graph: event does not belong to person")
)

package graph

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/camden-git/familymapbackend/models"
)

// Store holds one session's family graph. Load and Invalidate are the only
// mutators; every read works on an immutable Snapshot so a reader never
// observes a half-built generation.
type Store struct {
	mu         sync.RWMutex
	snap       *Snapshot
	colors     *colorMap
	generation uint64
}

// NewStore creates an empty store. Reads fail with ErrNotLoaded until Load.
func NewStore() *Store {
	return &Store{colors: newColorMap()}
}

// Load replaces the canonical dataset. The filtered view starts out holding
// every person and event. Events whose person is not in persons are dropped
// and counted in the returned stats.
func (s *Store) Load(rootPersonID string, persons []models.Person, events []models.Event) (LoadStats, error) {
	if strings.TrimSpace(rootPersonID) == "" {
		return LoadStats{}, ErrNoRootPerson
	}

	data, stats := newDataset(rootPersonID, persons, events)
	view := fullView(data)

	s.mu.Lock()
	s.generation++
	s.snap = &Snapshot{generation: s.generation, data: data, view: view}
	s.colors = newColorMap()
	s.mu.Unlock()

	return stats, nil
}

// Invalidate drops the dataset, the filtered view and the colour map together.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.generation++
	s.snap = nil
	s.colors = newColorMap()
	s.mu.Unlock()
}

// Loaded reports whether a dataset is present.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

// Snapshot returns the current generation.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

func (s *Store) PersonByID(id string) (models.Person, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return models.Person{}, err
	}
	p, ok := snap.PersonByID(id)
	if !ok {
		return models.Person{}, fmt.Errorf("person %q: %w", id, ErrPersonNotFound)
	}
	return p, nil
}

func (s *Store) EventByID(id string) (models.Event, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return models.Event{}, err
	}
	e, ok := snap.EventByID(id)
	if !ok {
		return models.Event{}, fmt.Errorf("event %q: %w", id, ErrEventNotFound)
	}
	return e, nil
}

// ColorFor returns the marker colour for an event type, case-insensitively.
// The read lock is held while assigning so an Invalidate cannot slip in
// between.
func (s *Store) ColorFor(eventType string) (MarkerColor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return MarkerColor{}, ErrNotLoaded
	}
	return s.colors.colorFor(eventType), nil
}

// ApplyFilter recomputes the filtered view from f and installs it.
func (s *Store) ApplyFilter(f Filter) (*Snapshot, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	next, err := snap.WithFilter(f)
	if err != nil {
		return nil, err
	}
	if err := s.install(next); err != nil {
		return nil, err
	}
	return next, nil
}

// install swaps in a snapshot derived from the current generation.
func (s *Store) install(next *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		return ErrNotLoaded
	}
	if s.snap.generation != next.generation {
		return ErrStaleSnapshot
	}
	s.snap = next
	return nil
}

func (s *Store) FilteredPersons() ([]models.Person, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.FilteredPersons(), nil
}

func (s *Store) FilteredEvents() ([]models.Event, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.FilteredEvents(), nil
}

func (s *Store) Family(personID string) ([]FamilyMember, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return ResolveFamily(snap, personID)
}

func (s *Store) Search(ctx context.Context, query string) ([]SearchResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return Search(ctx, snap, query)
}

func (s *Store) Lines(personID, eventID string, kinds LineKinds, style LineStyle) (LineSet, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return LineSet{}, err
	}
	return BuildLines(snap, personID, eventID, kinds, style)
}

package graph

import (
	"slices"

	"github.com/camden-git/familymapbackend/models"
)

// LoadStats reports integrity problems found while indexing a dataset.
type LoadStats struct {
	Persons          int  `json:"persons"`
	Events           int  `json:"events"`
	OrphanEvents     int  `json:"orphan_events"`
	DuplicatePersons int  `json:"duplicate_persons"`
	DuplicateEvents  int  `json:"duplicate_events"`
	RootResolved     bool `json:"root_resolved"`
}

// dataset is the canonical view. Never mutated after newDataset returns.
type dataset struct {
	rootID      string
	persons     []models.Person
	personIndex map[string]int
	events      []models.Event
	eventIndex  map[string]int
}

func newDataset(rootID string, persons []models.Person, events []models.Event) (*dataset, LoadStats) {
	var stats LoadStats
	d := &dataset{
		rootID:      rootID,
		persons:     make([]models.Person, 0, len(persons)),
		personIndex: make(map[string]int, len(persons)),
		events:      make([]models.Event, 0, len(events)),
		eventIndex:  make(map[string]int, len(events)),
	}

	for _, p := range persons {
		if _, dup := d.personIndex[p.PersonID]; dup {
			stats.DuplicatePersons++
			continue
		}
		d.personIndex[p.PersonID] = len(d.persons)
		d.persons = append(d.persons, p)
	}

	for _, e := range events {
		if _, ok := d.personIndex[e.PersonID]; !ok {
			stats.OrphanEvents++
			continue
		}
		if _, dup := d.eventIndex[e.EventID]; dup {
			stats.DuplicateEvents++
			continue
		}
		d.eventIndex[e.EventID] = len(d.events)
		d.events = append(d.events, e)
	}

	_, stats.RootResolved = d.personIndex[rootID]
	stats.Persons = len(d.persons)
	stats.Events = len(d.events)
	return d, stats
}

func (d *dataset) person(id string) (models.Person, bool) {
	if id == "" {
		return models.Person{}, false
	}
	i, ok := d.personIndex[id]
	if !ok {
		return models.Person{}, false
	}
	return d.persons[i], true
}

// View is a filtered subset of a dataset. Persons and events keep the
// canonical encounter order.
type View struct {
	filter    Filter
	applied   bool
	persons   []models.Person
	events    []models.Event
	personSet map[string]struct{}
	byPerson  map[string][]int // person ID -> indexes into events
	traversal []string
}

func newView(d *dataset, f Filter, applied bool, include func(personID string) bool, traversal []string) *View {
	v := &View{
		filter:    f,
		applied:   applied,
		personSet: make(map[string]struct{}),
		byPerson:  make(map[string][]int),
		traversal: traversal,
	}
	for _, p := range d.persons {
		if include(p.PersonID) {
			v.personSet[p.PersonID] = struct{}{}
			v.persons = append(v.persons, p)
		}
	}
	for _, e := range d.events {
		if _, ok := v.personSet[e.PersonID]; ok {
			v.byPerson[e.PersonID] = append(v.byPerson[e.PersonID], len(v.events))
			v.events = append(v.events, e)
		}
	}
	return v
}

// fullView includes every person and event of d.
func fullView(d *dataset) *View {
	return newView(d, Filter{}, false, func(string) bool { return true }, nil)
}

func (v *View) has(personID string) bool {
	_, ok := v.personSet[personID]
	return ok
}

// eventsOf returns the filtered events of one person in encounter order.
func (v *View) eventsOf(personID string) []models.Event {
	idx := v.byPerson[personID]
	out := make([]models.Event, len(idx))
	for i, j := range idx {
		out[i] = v.events[j]
	}
	return out
}

// Snapshot is one immutable generation of a Store. It is safe to share
// between goroutines.
type Snapshot struct {
	generation uint64
	data       *dataset
	view       *View
}

func (s *Snapshot) Generation() uint64   { return s.generation }
func (s *Snapshot) RootPersonID() string { return s.data.rootID }

// Filter returns the toggles that produced the filtered view and whether a
// filter has been applied since the last load.
func (s *Snapshot) Filter() (Filter, bool) { return s.view.filter, s.view.applied }

func (s *Snapshot) Persons() []models.Person         { return slices.Clone(s.data.persons) }
func (s *Snapshot) Events() []models.Event           { return slices.Clone(s.data.events) }
func (s *Snapshot) FilteredPersons() []models.Person { return slices.Clone(s.view.persons) }
func (s *Snapshot) FilteredEvents() []models.Event   { return slices.Clone(s.view.events) }

// Traversal lists the ancestor IDs in the order the lineage walk visited them.
func (s *Snapshot) Traversal() []string { return slices.Clone(s.view.traversal) }

func (s *Snapshot) PersonByID(id string) (models.Person, bool) {
	return s.data.person(id)
}

func (s *Snapshot) EventByID(id string) (models.Event, bool) {
	i, ok := s.data.eventIndex[id]
	if !ok {
		return models.Event{}, false
	}
	return s.data.events[i], true
}

// IsFiltered reports whether the person is part of the filtered view.
func (s *Snapshot) IsFiltered(personID string) bool {
	return s.view.has(personID)
}

// FilteredEventsOf returns the person's filtered events in encounter order.
func (s *Snapshot) FilteredEventsOf(personID string) []models.Event {
	return s.view.eventsOf(personID)
}

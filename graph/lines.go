package graph

import (
	"fmt"

	"github.com/camden-git/familymapbackend/models"
)

type LatLng struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

func pointOf(e models.Event) LatLng {
	return LatLng{Latitude: e.Latitude, Longitude: e.Longitude}
}

// Segment is a two-point polyline.
type Segment struct {
	From LatLng `json:"from"`
	To   LatLng `json:"to"`
}

func segmentBetween(a, b models.Event) Segment {
	return Segment{From: pointOf(a), To: pointOf(b)}
}

// FamilyLine joins a child's event to one parent's earliest event.
// Generation is the child's distance from the selected person.
type FamilyLine struct {
	Segment
	Generation int     `json:"generation"`
	Width      float64 `json:"width"`
}

type LineKinds struct {
	Spouse bool `json:"spouse_lines"`
	Life   bool `json:"life_lines"`
	Family bool `json:"family_lines"`
}

// LineStyle controls family line width: BaseWidth at generation 0, minus
// GenerationStep per generation, never below MinWidth.
type LineStyle struct {
	BaseWidth      float64
	GenerationStep float64
	MinWidth       float64
}

func DefaultLineStyle() LineStyle {
	return LineStyle{BaseWidth: 20, GenerationStep: 10, MinWidth: 1}
}

func (s LineStyle) WidthFor(generation int) float64 {
	w := s.BaseWidth - float64(generation)*s.GenerationStep
	if w < s.MinWidth {
		return s.MinWidth
	}
	return w
}

type LineSet struct {
	Spouse *Segment     `json:"spouse,omitempty"`
	Life   []Segment    `json:"life,omitempty"`
	Family []FamilyLine `json:"family,omitempty"`
}

// BuildLines computes the requested line families for a selected event.
// personID may be empty, in which case the event's owner is used.
func BuildLines(snap *Snapshot, personID, eventID string, kinds LineKinds, style LineStyle) (LineSet, error) {
	if snap == nil {
		return LineSet{}, ErrNotLoaded
	}
	event, ok := snap.EventByID(eventID)
	if !ok {
		return LineSet{}, fmt.Errorf("event %q: %w", eventID, ErrEventNotFound)
	}
	if personID == "" {
		personID = event.PersonID
	}
	if event.PersonID != personID {
		return LineSet{}, fmt.Errorf("event %q, person %q: %w", eventID, personID, ErrEventPersonMismatch)
	}
	person, ok := snap.PersonByID(personID)
	if !ok {
		return LineSet{}, fmt.Errorf("person %q: %w", personID, ErrPersonNotFound)
	}

	var set LineSet
	if kinds.Spouse {
		set.Spouse = spouseLine(snap, person, event)
	}
	if kinds.Life {
		set.Life = lifeLines(snap, person)
	}
	if kinds.Family {
		set.Family = familyLines(snap, person, event, style)
	}
	return set, nil
}

// spouseLine connects the selected event to the spouse's birth, or to the
// spouse's earliest event when no birth is in the filtered view.
func spouseLine(snap *Snapshot, person models.Person, selected models.Event) *Segment {
	spouseID := person.Spouse()
	if spouseID == "" {
		return nil
	}
	events := snap.view.eventsOf(spouseID)
	for _, e := range events {
		if e.IsType(models.EventTypeBirth) {
			seg := segmentBetween(selected, e)
			return &seg
		}
	}
	earliest, ok := Earliest(events)
	if !ok {
		return nil
	}
	seg := segmentBetween(selected, earliest)
	return &seg
}

func lifeLines(snap *Snapshot, person models.Person) []Segment {
	events := snap.view.eventsOf(person.PersonID)
	SortChronologically(events)

	var segs []Segment
	for i := 0; i+1 < len(events); i++ {
		segs = append(segs, segmentBetween(events[i], events[i+1]))
	}
	return segs
}

type lineageLines struct {
	snap     *Snapshot
	root     string
	selected models.Event
	style    LineStyle
	onPath   map[string]struct{}
	done     map[string]struct{}
	lines    []FamilyLine
}

func familyLines(snap *Snapshot, person models.Person, selected models.Event, style LineStyle) []FamilyLine {
	b := &lineageLines{
		snap:     snap,
		root:     person.PersonID,
		selected: selected,
		style:    style,
		onPath:   make(map[string]struct{}),
		done:     make(map[string]struct{}),
	}
	b.add(person, 0)
	return b.lines
}

// parent resolves a parent ID within the filtered view.
func (b *lineageLines) parent(id string) (models.Person, bool) {
	if !b.snap.view.has(id) {
		return models.Person{}, false
	}
	return b.snap.PersonByID(id)
}

// add recurses into the mother's branch, then the father's, and only then
// emits this person's two parent segments. A person already on the current
// path is skipped so cyclic data terminates. An ancestor reached again
// through another line keeps the generation of its first visit and adds no
// further segments.
func (b *lineageLines) add(person models.Person, generation int) {
	if _, cyclic := b.onPath[person.PersonID]; cyclic {
		return
	}
	if _, seen := b.done[person.PersonID]; seen {
		return
	}
	b.done[person.PersonID] = struct{}{}
	b.onPath[person.PersonID] = struct{}{}
	defer delete(b.onPath, person.PersonID)

	mother, hasMother := b.parent(person.Mother())
	father, hasFather := b.parent(person.Father())
	if hasMother {
		b.add(mother, generation+1)
	}
	if hasFather {
		b.add(father, generation+1)
	}

	childEvent, ok := b.relevantEvent(person)
	if !ok {
		return
	}
	if hasMother {
		b.connect(childEvent, mother, generation)
	}
	if hasFather {
		b.connect(childEvent, father, generation)
	}
}

func (b *lineageLines) relevantEvent(person models.Person) (models.Event, bool) {
	if person.PersonID == b.root {
		return b.selected, true
	}
	return Earliest(b.snap.view.eventsOf(person.PersonID))
}

func (b *lineageLines) connect(childEvent models.Event, parent models.Person, generation int) {
	if _, cyclic := b.onPath[parent.PersonID]; cyclic {
		return
	}
	parentEvent, ok := Earliest(b.snap.view.eventsOf(parent.PersonID))
	if !ok {
		return
	}
	b.lines = append(b.lines, FamilyLine{
		Segment:    segmentBetween(childEvent, parentEvent),
		Generation: generation,
		Width:      b.style.WidthFor(generation),
	})
}

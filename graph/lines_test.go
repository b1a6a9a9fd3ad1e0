package graph

import (
	"fmt"
	"testing"

	"github.com/camden-git/familymapbackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allLines = LineKinds{Spouse: true, Life: true, Family: true}

func at(lat, lng float64) LatLng { return LatLng{Latitude: lat, Longitude: lng} }

var (
	berlin  = at(52.52, 13.40)
	hamburg = at(53.55, 9.99)
	vienna  = at(48.21, 16.37)
	linz    = at(48.31, 14.29)
	munich  = at(48.14, 11.58)
	bremen  = at(53.08, 8.80)
	basel   = at(47.56, 7.59)
	bern    = at(46.95, 7.45)
	kiel    = at(54.32, 10.12)
	lubeck  = at(53.87, 10.69)
)

func TestBuildLines_SpousePrefersBirth(t *testing.T) {
	set, err := loadedStore(t).Lines("gustav", "e-gustav-marriage", LineKinds{Spouse: true}, DefaultLineStyle())
	require.NoError(t, err)

	require.NotNil(t, set.Spouse)
	assert.Equal(t, Segment{From: berlin, To: linz}, *set.Spouse, "anna's birth wins over her earlier-listed baptism")
	assert.Nil(t, set.Life)
	assert.Nil(t, set.Family)
}

func TestBuildLines_SpouseFallsBackToEarliest(t *testing.T) {
	persons := []models.Person{
		person("p", "P", "X", "m", "", "", "q"),
		person("q", "Q", "X", "f", "", "", "p"),
	}
	events := []models.Event{
		event("p1", "p", "Birth", "", "", 1950, 1, 1),
		event("q1", "q", "Marriage", "", "", 1975, 2, 2),
		event("q2", "q", "Census", "", "", 1960, 3, 3),
		event("q3", "q", "Graduation", "", "", 1960, 4, 4),
	}
	s := NewStore()
	_, err := s.Load("p", persons, events)
	require.NoError(t, err)

	set, err := s.Lines("p", "p1", LineKinds{Spouse: true}, DefaultLineStyle())
	require.NoError(t, err)
	require.NotNil(t, set.Spouse)
	assert.Equal(t, at(3, 3), set.Spouse.To)
}

func TestBuildLines_NoSpouseLine(t *testing.T) {
	s := loadedStore(t)

	set, err := s.Lines("peter", "e-peter-birth", LineKinds{Spouse: true}, DefaultLineStyle())
	require.NoError(t, err)
	assert.Nil(t, set.Spouse, "no spouse set")

	_, err = s.ApplyFilter(Filter{MotherSide: true, FatherSide: true, Male: true})
	require.NoError(t, err)
	set, err = s.Lines("gustav", "e-gustav-birth", LineKinds{Spouse: true}, DefaultLineStyle())
	require.NoError(t, err)
	assert.Nil(t, set.Spouse, "spouse has no events in the filtered view")
}

func TestBuildLines_LifeLines(t *testing.T) {
	set, err := loadedStore(t).Lines("", "e-gustav-move", LineKinds{Life: true}, DefaultLineStyle())
	require.NoError(t, err)

	assert.Equal(t, []Segment{
		{From: hamburg, To: berlin},
		{From: berlin, To: vienna},
	}, set.Life)
}

func TestBuildLines_LifeLineCount(t *testing.T) {
	s := loadedStore(t)
	snap, err := s.Snapshot()
	require.NoError(t, err)

	for _, p := range snap.Persons() {
		events := snap.FilteredEventsOf(p.PersonID)
		if len(events) == 0 {
			continue
		}
		set, err := s.Lines(p.PersonID, events[0].EventID, LineKinds{Life: true}, DefaultLineStyle())
		require.NoError(t, err)
		assert.Len(t, set.Life, len(events)-1, p.PersonID)
	}
}

func TestBuildLines_SameYearEventsAllConnected(t *testing.T) {
	persons := []models.Person{person("p", "P", "X", "m", "", "", "")}
	events := []models.Event{
		event("a", "p", "Birth", "", "", 2001, 1, 1),
		event("b", "p", "Death", "", "", 2001, 2, 2),
		event("c", "p", "Test", "", "", 2001, 3, 3),
	}
	s := NewStore()
	_, err := s.Load("p", persons, events)
	require.NoError(t, err)

	set, err := s.Lines("p", "a", LineKinds{Life: true}, DefaultLineStyle())
	require.NoError(t, err)
	assert.Equal(t, []Segment{
		{From: at(1, 1), To: at(3, 3)},
		{From: at(3, 3), To: at(2, 2)},
	}, set.Life)
}

func TestBuildLines_FamilyLinesPostOrder(t *testing.T) {
	set, err := loadedStore(t).Lines("gustav", "e-gustav-marriage", LineKinds{Family: true}, DefaultLineStyle())
	require.NoError(t, err)

	assert.Equal(t, []FamilyLine{
		{Segment: Segment{From: munich, To: basel}, Generation: 1, Width: 10},
		{Segment: Segment{From: munich, To: bern}, Generation: 1, Width: 10},
		{Segment: Segment{From: bremen, To: lubeck}, Generation: 1, Width: 10},
		{Segment: Segment{From: bremen, To: kiel}, Generation: 1, Width: 10},
		{Segment: Segment{From: berlin, To: munich}, Generation: 0, Width: 20},
		{Segment: Segment{From: berlin, To: bremen}, Generation: 0, Width: 20},
	}, set.Family)
}

func TestBuildLines_FamilyLinesRespectFilter(t *testing.T) {
	s := loadedStore(t)
	_, err := s.ApplyFilter(Filter{MotherSide: true, FatherSide: true, Male: true})
	require.NoError(t, err)

	set, err := s.Lines("gustav", "e-gustav-birth", LineKinds{Family: true}, DefaultLineStyle())
	require.NoError(t, err)
	assert.Equal(t, []FamilyLine{
		{Segment: Segment{From: bremen, To: kiel}, Generation: 1, Width: 10},
		{Segment: Segment{From: hamburg, To: bremen}, Generation: 0, Width: 20},
	}, set.Family)
}

func TestBuildLines_FamilyLinesSkipParentsWithoutEvents(t *testing.T) {
	persons := []models.Person{
		person("kid", "Kid", "X", "m", "dad", "mom", ""),
		person("mom", "Mom", "X", "f", "", "gran", ""),
		person("dad", "Dad", "X", "m", "", "", ""),
		person("gran", "Gran", "X", "f", "", "", ""),
	}
	events := []models.Event{
		event("k", "kid", "Birth", "", "", 2000, 1, 1),
		event("d", "dad", "Birth", "", "", 1970, 2, 2),
		event("g", "gran", "Birth", "", "", 1940, 3, 3),
	}
	s := NewStore()
	_, err := s.Load("kid", persons, events)
	require.NoError(t, err)

	set, err := s.Lines("kid", "k", LineKinds{Family: true}, DefaultLineStyle())
	require.NoError(t, err)
	assert.Equal(t, []FamilyLine{
		{Segment: Segment{From: at(1, 1), To: at(2, 2)}, Generation: 0, Width: 20},
	}, set.Family, "mom has no events, so neither kid->mom nor mom->gran can be drawn")
}

func TestBuildLines_FamilyLinesCycleTerminates(t *testing.T) {
	persons := []models.Person{
		person("a", "A", "X", "m", "b", "", ""),
		person("b", "B", "X", "m", "a", "", ""),
	}
	events := []models.Event{
		event("ea", "a", "Birth", "", "", 2000, 1, 1),
		event("eb", "b", "Birth", "", "", 1970, 2, 2),
	}
	s := NewStore()
	_, err := s.Load("a", persons, events)
	require.NoError(t, err)

	set, err := s.Lines("a", "ea", LineKinds{Family: true}, DefaultLineStyle())
	require.NoError(t, err)
	assert.Equal(t, []FamilyLine{
		{Segment: Segment{From: at(1, 1), To: at(2, 2)}, Generation: 0, Width: 20},
	}, set.Family)
}

func TestBuildLines_FamilyLinesCollapsedPedigree(t *testing.T) {
	// every couple below the root shares the same two parents, so each
	// ancestor is reachable along 2^k paths
	const generations = 40
	id := func(side string, k int) string { return fmt.Sprintf("%s%d", side, k) }

	persons := []models.Person{person("root", "Root", "X", "m", id("f", 1), id("m", 1), "")}
	events := []models.Event{event("e-root", "root", "Birth", "", "", 2000, 0, 0)}
	for k := 1; k <= generations; k++ {
		father, mother := "", ""
		if k < generations {
			father, mother = id("f", k+1), id("m", k+1)
		}
		persons = append(persons,
			person(id("f", k), "F", "X", "m", father, mother, id("m", k)),
			person(id("m", k), "M", "X", "f", father, mother, id("f", k)),
		)
		events = append(events,
			event("e-"+id("f", k), id("f", k), "Birth", "", "", 2000-k*25, float64(k), 1),
			event("e-"+id("m", k), id("m", k), "Birth", "", "", 2000-k*25, float64(k), 2),
		)
	}
	s := NewStore()
	_, err := s.Load("root", persons, events)
	require.NoError(t, err)

	set, err := s.Lines("root", "e-root", LineKinds{Family: true}, DefaultLineStyle())
	require.NoError(t, err)

	// two edges from the root, two from each ancestor that has parents
	require.Len(t, set.Family, 2+2*2*(generations-1))
	seen := make(map[Segment]struct{}, len(set.Family))
	for _, line := range set.Family {
		_, dup := seen[line.Segment]
		assert.False(t, dup, "segment %v drawn twice", line.Segment)
		seen[line.Segment] = struct{}{}
		assert.Equal(t, int(line.From.Latitude), line.Generation, "generation of the first visit")
	}
}

func TestBuildLines_Errors(t *testing.T) {
	s := loadedStore(t)

	_, err := s.Lines("gustav", "missing", allLines, DefaultLineStyle())
	assert.ErrorIs(t, err, ErrEventNotFound)

	_, err = s.Lines("anna", "e-gustav-birth", allLines, DefaultLineStyle())
	assert.ErrorIs(t, err, ErrEventPersonMismatch)

	_, err = BuildLines(nil, "gustav", "e-gustav-birth", allLines, DefaultLineStyle())
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLineStyle_WidthFloors(t *testing.T) {
	style := DefaultLineStyle()
	assert.Equal(t, 20.0, style.WidthFor(0))
	assert.Equal(t, 10.0, style.WidthFor(1))
	assert.Equal(t, 1.0, style.WidthFor(2))
	assert.Equal(t, 1.0, style.WidthFor(7))
}

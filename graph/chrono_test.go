package graph

import (
	"testing"

	"github.com/camden-git/familymapbackend/models"
	"github.com/stretchr/testify/assert"
)

func eventTypes(events []models.Event) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	return types
}

func TestSortChronologically_BirthBeforeDeath(t *testing.T) {
	events := []models.Event{
		event("1", "p1", "Death", "Riverton", "USA", 2001, 10, 10),
		event("2", "p1", "Birth", "Riverton", "USA", 2012, 10, 10),
	}
	SortChronologically(events)
	assert.Equal(t, []string{"Birth", "Death"}, eventTypes(events))
}

func TestSortChronologically_SameYearKeepsAll(t *testing.T) {
	events := []models.Event{
		event("1", "p1", "Birth", "Riverton", "USA", 2001, 10, 10),
		event("2", "p1", "Death", "Riverton", "USA", 2001, 10, 10),
		event("3", "p1", "Test", "Riverton", "USA", 2001, 10, 10),
	}
	SortChronologically(events)
	assert.Equal(t, []string{"Birth", "Test", "Death"}, eventTypes(events))
}

func TestSortChronologically_OthersByYearStable(t *testing.T) {
	events := []models.Event{
		event("a", "p1", "Graduation", "", "", 2000, 0, 0),
		event("b", "p1", "Marriage", "", "", 1995, 0, 0),
		event("c", "p1", "Move", "", "", 2000, 0, 0),
		event("d", "p1", "BIRTH", "", "", 1970, 0, 0),
	}
	SortChronologically(events)
	assert.Equal(t, []string{"d", "b", "a", "c"}, eventIDs(events))
}

func TestCompareByYear(t *testing.T) {
	a := event("a", "p", "Death", "", "", 1900, 0, 0)
	b := event("b", "p", "Birth", "", "", 1950, 0, 0)
	assert.Negative(t, CompareByYear(a, b))
	assert.Positive(t, CompareByYear(b, a))
	assert.Zero(t, CompareByYear(a, a))
}

func TestEarliest_FirstOfLowestYear(t *testing.T) {
	_, ok := Earliest(nil)
	assert.False(t, ok)

	e, ok := Earliest([]models.Event{
		event("x", "p", "Move", "", "", 1990, 0, 0),
		event("y", "p", "Census", "", "", 1980, 0, 0),
		event("z", "p", "Birth", "", "", 1980, 0, 0),
	})
	assert.True(t, ok)
	assert.Equal(t, "y", e.EventID)
}

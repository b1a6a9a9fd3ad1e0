package graph

import (
	"cmp"
	"slices"

	"github.com/camden-git/familymapbackend/models"
)

// CompareByYear orders events by year only. Equal years compare equal.
func CompareByYear(a, b models.Event) int {
	return cmp.Compare(a.Year, b.Year)
}

// lifeRank pins births to the start and deaths to the end of a life story.
func lifeRank(e models.Event) int {
	switch {
	case e.IsType(models.EventTypeBirth):
		return 0
	case e.IsType(models.EventTypeDeath):
		return 2
	default:
		return 1
	}
}

// CompareChronologically orders a person's events as a life story: birth
// first, death last, everything else by year.
func CompareChronologically(a, b models.Event) int {
	if c := cmp.Compare(lifeRank(a), lifeRank(b)); c != 0 {
		return c
	}
	return CompareByYear(a, b)
}

// SortChronologically sorts events in place with CompareChronologically.
// The sort is stable: same-year events keep their relative order and none
// are dropped.
func SortChronologically(events []models.Event) {
	slices.SortStableFunc(events, CompareChronologically)
}

// Earliest returns the first event with the lowest year.
func Earliest(events []models.Event) (models.Event, bool) {
	if len(events) == 0 {
		return models.Event{}, false
	}
	best := events[0]
	for _, e := range events[1:] {
		if e.Year < best.Year {
			best = e
		}
	}
	return best, true
}

package graph

import (
	"context"
	"strconv"
	"strings"
)

type ResultKind string

const (
	ResultPerson ResultKind = "person"
	ResultEvent  ResultKind = "event"
)

// SearchResult is one person or event match. ID is the person or event ID
// for navigation; MainInfo and SubInfo are display strings.
type SearchResult struct {
	Kind     ResultKind `json:"kind"`
	ID       string     `json:"id"`
	MainInfo string     `json:"main_info"`
	SubInfo  string     `json:"sub_info,omitempty"`
	Gender   string     `json:"gender,omitempty"`
}

// Search runs the person search and then the event search. The context is
// checked before each phase and before returning; a cancelled search
// yields no results at all.
func Search(ctx context.Context, snap *Snapshot, query string) ([]SearchResult, error) {
	if snap == nil {
		return nil, ErrNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := SearchPersons(snap, query)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results = append(results, SearchEvents(snap, query)...)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// SearchPersons matches query against "first last" of every loaded person.
func SearchPersons(snap *Snapshot, query string) []SearchResult {
	results := []SearchResult{}
	if blank(query) {
		return results
	}
	for _, p := range snap.data.persons {
		name := p.FullName()
		if containsFold(name, query) {
			results = append(results, SearchResult{
				Kind:     ResultPerson,
				ID:       p.PersonID,
				MainInfo: name,
				Gender:   p.Gender,
			})
		}
	}
	return results
}

// SearchEvents matches query against country, city, type and year of the
// events in the filtered view.
func SearchEvents(snap *Snapshot, query string) []SearchResult {
	results := []SearchResult{}
	if blank(query) {
		return results
	}
	for _, e := range snap.view.events {
		year := strconv.Itoa(e.Year)
		if !containsFold(e.Country, query) &&
			!containsFold(e.City, query) &&
			!containsFold(e.EventType, query) &&
			!containsFold(year, query) {
			continue
		}
		owner, ok := snap.PersonByID(e.PersonID)
		if !ok {
			continue
		}
		results = append(results, SearchResult{
			Kind:     ResultEvent,
			ID:       e.EventID,
			MainInfo: strings.ToUpper(e.EventType) + ": " + e.City + ", " + e.Country + " (" + year + ")",
			SubInfo:  owner.FullName(),
		})
	}
	return results
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// containsFold reports whether sub is within s, ignoring ASCII case.
// Non-ASCII bytes must match exactly.
func containsFold(s, sub string) bool {
	n := len(sub)
	if n == 0 {
		return true
	}
	for i := 0; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], sub) {
			return true
		}
	}
	return false
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

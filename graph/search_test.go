package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultIDs(results []SearchResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestSearch_BlankQueryHasNoResults(t *testing.T) {
	s := loadedStore(t)
	for _, q := range []string{"", " ", "\t  "} {
		results, err := s.Search(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, results, "query %q", q)
	}
}

func TestSearchPersons_Substring(t *testing.T) {
	snap, err := loadedStore(t).Snapshot()
	require.NoError(t, err)

	results := SearchPersons(snap, "us")
	require.Len(t, results, 1)
	assert.Equal(t, SearchResult{Kind: ResultPerson, ID: "gustav", MainInfo: "Gustav Muller", Gender: "m"}, results[0])
	assert.NotContains(t, resultIDs(results), "peter")
}

func TestSearchPersons_FullNameAndCase(t *testing.T) {
	snap, err := loadedStore(t).Snapshot()
	require.NoError(t, err)

	assert.Equal(t, []string{"peter"}, resultIDs(SearchPersons(snap, "pETER kLEIN")))
	assert.Equal(t, []string{"otto", "hilde"}, resultIDs(SearchPersons(snap, "schmidt")))
	assert.Empty(t, SearchPersons(snap, "`"))
	assert.Empty(t, SearchPersons(snap, "Klein Peter"), "order is first then last")
}

func TestSearchEvents_MatchesEachField(t *testing.T) {
	snap, err := loadedStore(t).Snapshot()
	require.NoError(t, err)

	assert.Equal(t, []string{"e-gustav-birth", "e-anna-baptism", "e-anna-birth"}, resultIDs(SearchEvents(snap, "198")))
	assert.Equal(t, []string{"e-otto-birth"}, resultIDs(SearchEvents(snap, "BERN")))
	assert.Equal(t, []string{"e-gustav-marriage"}, resultIDs(SearchEvents(snap, "marri")))
	assert.Len(t, SearchEvents(snap, "switzerland"), 3)
	assert.Empty(t, SearchEvents(snap, "="))
}

func TestSearchEvents_DisplayStrings(t *testing.T) {
	snap, err := loadedStore(t).Snapshot()
	require.NoError(t, err)

	results := SearchEvents(snap, "hamburg")
	require.Len(t, results, 1)
	assert.Equal(t, SearchResult{
		Kind:     ResultEvent,
		ID:       "e-gustav-birth",
		MainInfo: "BIRTH: Hamburg, Germany (1980)",
		SubInfo:  "Gustav Muller",
	}, results[0])
}

func TestSearchEvents_UsesFilteredView(t *testing.T) {
	snap, err := loadedStore(t).ApplyFilter(Filter{MotherSide: true, FatherSide: true, Male: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"e-gustav-move"}, resultIDs(SearchEvents(snap, "austria")))
	assert.Equal(t, []string{"anna"}, resultIDs(SearchPersons(snap, "anna")), "persons are searched across the whole dataset")
}

func TestSearch_PersonsThenEvents(t *testing.T) {
	results, err := loadedStore(t).Search(context.Background(), "us")
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, ResultPerson, results[0].Kind)
	for _, r := range results[1:] {
		assert.Equal(t, ResultEvent, r.Kind)
	}
	assert.Contains(t, resultIDs(results), "e-lena-birth", "Austria contains \"us\"")
}

func TestSearch_CancelledYieldsNothing(t *testing.T) {
	s := loadedStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := s.Search(ctx, "us")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

func TestContainsFold(t *testing.T) {
	assert.True(t, containsFold("Gustav Muller", "US"))
	assert.True(t, containsFold("abc", ""))
	assert.False(t, containsFold("ab", "abc"))
	assert.True(t, containsFold("Zürich", "zü"))
	assert.False(t, containsFold("Zürich", "ZÜ"), "folding is ASCII only")
}

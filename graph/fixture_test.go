package graph

import (
	"testing"

	"github.com/camden-git/familymapbackend/models"
	"github.com/stretchr/testify/require"
)

// Test family, rooted at "gustav":
//
//	          hilde ── otto         greta ── karl
//	              \    /                \    /
//	              maria ─────────────── hans
//	                          |
//	          anna ─────── gustav
//	                  |
//	                 lena
//
// peter is unrelated.
func person(id, first, last, gender, father, mother, spouse string) models.Person {
	return models.Person{
		PersonID:           id,
		AssociatedUsername: "gmuller",
		FirstName:          first,
		LastName:           last,
		Gender:             gender,
		FatherID:           models.StringPtr(father),
		MotherID:           models.StringPtr(mother),
		SpouseID:           models.StringPtr(spouse),
	}
}

func event(id, personID, eventType, city, country string, year int, lat, lng float64) models.Event {
	return models.Event{
		EventID:            id,
		AssociatedUsername: "gmuller",
		PersonID:           personID,
		EventType:          eventType,
		City:               city,
		Country:            country,
		Year:               year,
		Latitude:           lat,
		Longitude:          lng,
	}
}

func fixturePersons() []models.Person {
	return []models.Person{
		person("gustav", "Gustav", "Muller", "m", "hans", "maria", "anna"),
		person("anna", "Anna", "Muller", "f", "", "", "gustav"),
		person("hans", "Hans", "Muller", "m", "karl", "greta", "maria"),
		person("maria", "Maria", "Muller", "f", "otto", "hilde", "hans"),
		person("karl", "Karl", "Muller", "m", "", "", "greta"),
		person("greta", "Greta", "Muller", "f", "", "", "karl"),
		person("otto", "Otto", "Schmidt", "m", "", "", "hilde"),
		person("hilde", "Hilde", "Schmidt", "f", "", "", "otto"),
		person("lena", "Lena", "Muller", "f", "gustav", "anna", ""),
		person("peter", "Peter", "Klein", "m", "", "", ""),
	}
}

func fixtureEvents() []models.Event {
	return []models.Event{
		event("e-gustav-birth", "gustav", "Birth", "Hamburg", "Germany", 1980, 53.55, 9.99),
		event("e-gustav-marriage", "gustav", "Marriage", "Berlin", "Germany", 2005, 52.52, 13.40),
		event("e-gustav-move", "gustav", "Moved", "Vienna", "Austria", 2010, 48.21, 16.37),
		event("e-anna-baptism", "anna", "Baptism", "Graz", "Austria", 1983, 47.07, 15.44),
		event("e-anna-birth", "anna", "birth", "Linz", "Austria", 1982, 48.31, 14.29),
		event("e-hans-birth", "hans", "Birth", "Bremen", "Germany", 1950, 53.08, 8.80),
		event("e-maria-birth", "maria", "Birth", "Munich", "Germany", 1952, 48.14, 11.58),
		event("e-karl-birth", "karl", "Birth", "Kiel", "Germany", 1920, 54.32, 10.12),
		event("e-greta-birth", "greta", "Birth", "Lubeck", "Germany", 1922, 53.87, 10.69),
		event("e-otto-birth", "otto", "Birth", "Bern", "Switzerland", 1924, 46.95, 7.45),
		event("e-hilde-birth", "hilde", "Birth", "Basel", "Switzerland", 1925, 47.56, 7.59),
		event("e-lena-birth", "lena", "Birth", "Vienna", "Austria", 2008, 48.21, 16.37),
		event("e-peter-birth", "peter", "Birth", "Zurich", "Switzerland", 1970, 47.38, 8.54),
	}
}

func loadedStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	_, err := s.Load("gustav", fixturePersons(), fixtureEvents())
	require.NoError(t, err)
	return s
}

func personIDs(persons []models.Person) []string {
	ids := make([]string, 0, len(persons))
	for _, p := range persons {
		ids = append(ids, p.PersonID)
	}
	return ids
}

func eventIDs(events []models.Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.EventID)
	}
	return ids
}

package handlers

import (
	"cmp"
	"net/http"
	"slices"

	"github.com/camden-git/familymapbackend/graph"
	"github.com/camden-git/familymapbackend/logger"
	"github.com/camden-git/familymapbackend/models"
	"github.com/camden-git/familymapbackend/services"
	"github.com/facette/natsort"
	"github.com/go-chi/chi/v5"
)

// currentSnapshot resolves the request's session and its current generation.
// It writes the error response itself and reports false on failure.
func currentSnapshot(w http.ResponseWriter, r *http.Request, lg *logger.Logger) (*services.Session, *graph.Snapshot, bool) {
	sess := sessionFromContext(r)
	if sess == nil {
		WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "no session")
		return nil, nil, false
	}
	snap, err := sess.Store.Snapshot()
	if err != nil {
		writeEngineError(w, lg, err)
		return nil, nil, false
	}
	return sess, snap, true
}

// naturalOrder sorts by full name the way people read numbered names
// ("John 2" before "John 10"), falling back to the ID
func naturalOrder(a, b models.Person) int {
	an, bn := a.FullName(), b.FullName()
	switch {
	case natsort.Compare(an, bn) && an != bn:
		return -1
	case natsort.Compare(bn, an) && an != bn:
		return 1
	}
	return cmp.Compare(a.PersonID, b.PersonID)
}

type PersonHandler struct {
	Log *logger.Logger
}

// ListPersons returns the persons of the current filtered view, ordered by
// the sort query parameter (natural name order by default)
func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	_, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	order := r.URL.Query().Get("sort")
	if order == "" {
		order = DefaultSortOrder
	}
	if !IsValidSortOrder(order) {
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, "Invalid sort order: "+order)
		return
	}

	persons := snap.FilteredPersons()
	sortPersons(snap, persons, order)
	if persons == nil {
		persons = []models.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}

func sortPersons(snap *graph.Snapshot, persons []models.Person, order string) {
	switch order {
	case SortNameAsc:
		slices.SortStableFunc(persons, func(a, b models.Person) int {
			return cmp.Or(cmp.Compare(a.FullName(), b.FullName()), cmp.Compare(a.PersonID, b.PersonID))
		})
	case SortBirthAsc, SortBirthDesc:
		// persons without events go last either way
		years := make(map[string]int, len(persons))
		for _, p := range persons {
			if e, ok := graph.Earliest(snap.FilteredEventsOf(p.PersonID)); ok {
				years[p.PersonID] = e.Year
			}
		}
		desc := order == SortBirthDesc
		slices.SortStableFunc(persons, func(a, b models.Person) int {
			ya, okA := years[a.PersonID]
			yb, okB := years[b.PersonID]
			switch {
			case okA != okB:
				if okA {
					return -1
				}
				return 1
			case desc:
				return cmp.Compare(yb, ya)
			default:
				return cmp.Compare(ya, yb)
			}
		})
	default:
		slices.SortStableFunc(persons, naturalOrder)
	}
}

// ListAllPersons returns every person of the dataset in encounter order
func (h *PersonHandler) ListAllPersons(w http.ResponseWriter, r *http.Request) {
	_, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	persons := snap.Persons()
	if persons == nil {
		persons = []models.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}

type PersonResponse struct {
	models.Person
	Filtered bool `json:"filtered"`
}

func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	_, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	personID := chi.URLParam(r, "person_id")
	person, found := snap.PersonByID(personID)
	if !found {
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, "person not found: "+personID)
		return
	}
	writeJSON(w, http.StatusOK, PersonResponse{Person: person, Filtered: snap.IsFiltered(personID)})
}

// GetFamily lists the person's parents, spouse and children
func (h *PersonHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	_, snap, ok := currentSnapshot(w, r, h.Log)
	if !ok {
		return
	}
	members, err := graph.ResolveFamily(snap, chi.URLParam(r, "person_id"))
	if err != nil {
		writeEngineError(w, h.Log, err)
		return
	}
	if members == nil {
		members = []graph.FamilyMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

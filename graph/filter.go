package graph

import "github.com/camden-git/familymapbackend/models"

// Filter holds the four lineage/gender toggles.
type Filter struct {
	MotherSide bool `json:"mother_side"`
	FatherSide bool `json:"father_side"`
	Female     bool `json:"female"`
	Male       bool `json:"male"`
}

// AllFilter enables every toggle.
func AllFilter() Filter {
	return Filter{MotherSide: true, FatherSide: true, Female: true, Male: true}
}

func (f Filter) admits(p models.Person) bool {
	return (f.Female && p.IsFemale()) || (f.Male && p.IsMale())
}

// WithFilter derives a new snapshot of the same generation whose filtered
// view is computed from f. The receiver is left untouched.
func (s *Snapshot) WithFilter(f Filter) (*Snapshot, error) {
	view, err := s.data.filter(f)
	if err != nil {
		return nil, err
	}
	return &Snapshot{generation: s.generation, data: s.data, view: view}, nil
}

type lineageWalk struct {
	data      *dataset
	filter    Filter
	included  map[string]struct{}
	visited   map[string]struct{}
	traversal []string
}

func (d *dataset) filter(f Filter) (*View, error) {
	root, ok := d.person(d.rootID)
	if !ok {
		return nil, ErrRootNotFound
	}

	w := &lineageWalk{
		data:     d,
		filter:   f,
		included: make(map[string]struct{}),
		visited:  map[string]struct{}{root.PersonID: {}},
	}

	w.consider(root)
	if spouse, ok := d.person(root.Spouse()); ok {
		w.consider(spouse)
	}
	if f.MotherSide {
		w.walk(root.Mother())
	}
	if f.FatherSide {
		w.walk(root.Father())
	}

	return newView(d, f, true, func(id string) bool {
		_, ok := w.included[id]
		return ok
	}, w.traversal), nil
}

func (w *lineageWalk) consider(p models.Person) {
	if w.filter.admits(p) {
		w.included[p.PersonID] = struct{}{}
	}
}

// walk visits mother's line, then father's line, then the person itself.
// Unknown IDs end the branch; a person already visited is never re-entered,
// which also stops malformed self-referencing lineages.
func (w *lineageWalk) walk(personID string) {
	p, ok := w.data.person(personID)
	if !ok {
		return
	}
	if _, seen := w.visited[p.PersonID]; seen {
		return
	}
	w.visited[p.PersonID] = struct{}{}

	w.walk(p.Mother())
	w.walk(p.Father())

	w.traversal = append(w.traversal, p.PersonID)
	w.consider(p)
}

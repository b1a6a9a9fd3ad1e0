package graph

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/camden-git/familymapbackend/models"
)

type Relationship string

const (
	RelationshipFather Relationship = "Father"
	RelationshipMother Relationship = "Mother"
	RelationshipSpouse Relationship = "Spouse"
	RelationshipChild  Relationship = "Child"
)

// rank orders parents and spouse ahead of children.
func (r Relationship) rank() int {
	switch r {
	case RelationshipFather:
		return 0
	case RelationshipMother:
		return 1
	case RelationshipSpouse:
		return 2
	default:
		return 3
	}
}

type FamilyMember struct {
	Relationship Relationship  `json:"relationship"`
	Person       models.Person `json:"person"`
}

// ResolveFamily lists the immediate family of personID across the canonical
// dataset: father, mother, spouse, then children in encounter order.
func ResolveFamily(snap *Snapshot, personID string) ([]FamilyMember, error) {
	if snap == nil {
		return nil, ErrNotLoaded
	}
	root, ok := snap.PersonByID(personID)
	if !ok {
		return nil, fmt.Errorf("person %q: %w", personID, ErrPersonNotFound)
	}

	members := []FamilyMember{}
	for _, p := range snap.data.persons {
		if p.PersonID == root.PersonID {
			continue
		}
		if rel, ok := relationshipTo(root, p); ok {
			members = append(members, FamilyMember{Relationship: rel, Person: p})
		}
	}

	slices.SortStableFunc(members, func(a, b FamilyMember) int {
		return cmp.Compare(a.Relationship.rank(), b.Relationship.rank())
	})
	return members, nil
}

// relationshipTo returns how p relates to root. A person matching several
// relations gets the first of father, mother, spouse, child.
func relationshipTo(root, p models.Person) (Relationship, bool) {
	if p.PersonID == "" {
		return "", false
	}
	switch {
	case root.Father() == p.PersonID:
		return RelationshipFather, true
	case root.Mother() == p.PersonID:
		return RelationshipMother, true
	case root.Spouse() == p.PersonID:
		return RelationshipSpouse, true
	case p.Father() == root.PersonID || p.Mother() == root.PersonID:
		return RelationshipChild, true
	}
	return "", false
}

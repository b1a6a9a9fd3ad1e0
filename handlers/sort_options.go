package handlers

const (
	SortNameNat   = "name_nat"
	SortNameAsc   = "name_asc"
	SortBirthAsc  = "birth_asc"
	SortBirthDesc = "birth_desc"
)

const DefaultSortOrder = SortNameNat

// IsValidSortOrder checks if a string is a valid sort order constant
func IsValidSortOrder(order string) bool {
	switch order {
	case SortNameNat, SortNameAsc, SortBirthAsc, SortBirthDesc:
		return true
	default:
		return false
	}
}

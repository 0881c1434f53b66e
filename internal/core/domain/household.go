package domain

// Household is the shared-living unit that scopes expenses and membership.
// It is owned by the membership subsystem; the ledger only reads it.
type Household struct {
	HouseholdID string   `json:"householdId"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`   // Only used by the weather lookup
	MemberIDs   []string `json:"memberIds"` // Ordered
}

// Member is a person belonging to a household.
type Member struct {
	MemberID    string `json:"memberId"`
	DisplayName string `json:"displayName"`
}

// MemberNames indexes members by id for labelling.
func MemberNames(members []Member) map[string]string {
	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.MemberID] = m.DisplayName
	}
	return names
}

package models

import "time"

// Household is a row of the households table.
type Household struct {
	HouseholdID string    `json:"householdId"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Member is a row of the members table.
type Member struct {
	MemberID    string    `json:"memberId"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

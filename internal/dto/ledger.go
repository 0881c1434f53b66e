package dto

import (
	"time"

	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// BalanceResponse is one member's position in the household.
type BalanceResponse struct {
	MemberID     string          `json:"memberId"`
	OwedToMember decimal.Decimal `json:"owedToMember" swaggertype:"string"`
	OwedByMember decimal.Decimal `json:"owedByMember" swaggertype:"string"`
	Net          decimal.Decimal `json:"net" swaggertype:"string"`
	MonthlyTotal decimal.Decimal `json:"monthlyTotal" swaggertype:"string"`
}

// LedgerResponse is the full household screen for one viewer.
type LedgerResponse struct {
	HouseholdID string            `json:"householdId"`
	ViewerID    string            `json:"viewerId"`
	State       string            `json:"state"`
	Error       string            `json:"error,omitempty"` // "balances unavailable" once the feed failed
	Version     uint64            `json:"version"`
	Summary     BalanceResponse   `json:"summary"`
	Balances    []BalanceResponse `json:"balances"`
	Expenses    []ExpenseResponse `json:"expenses"`
	Members     []MemberResponse  `json:"members"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ToLedgerResponse converts a view snapshot to DTO.
func ToLedgerResponse(s portssvc.ViewSnapshot) LedgerResponse {
	resp := LedgerResponse{
		HouseholdID: s.HouseholdID,
		ViewerID:    s.ViewerID,
		State:       string(s.State),
		Version:     s.Version,
		Summary: BalanceResponse{
			MemberID:     s.Summary.MemberID,
			OwedToMember: s.Summary.OwedToMember,
			OwedByMember: s.Summary.OwedByMember,
			Net:          s.Summary.Net,
			MonthlyTotal: s.Summary.MonthlyTotal,
		},
		Balances:  make([]BalanceResponse, len(s.Balances)),
		Expenses:  ToExpenseResponses(s.Expenses),
		Members:   ToMemberResponses(s.Members),
		UpdatedAt: s.UpdatedAt,
	}
	if s.State == portssvc.ViewFailed {
		resp.Error = "balances unavailable"
	}
	for i, b := range s.Balances {
		resp.Balances[i] = BalanceResponse{
			MemberID:     b.MemberID,
			OwedToMember: b.OwedToMember,
			OwedByMember: b.OwedByMember,
			Net:          b.Net,
			MonthlyTotal: b.MonthlyTotal,
		}
	}
	return resp
}

// --- Household DTOs ---

// MemberResponse defines data returned for a household member.
type MemberResponse struct {
	MemberID    string `json:"memberId"`
	DisplayName string `json:"displayName"`
}

// ToMemberResponses converts members to DTOs, keeping membership order.
func ToMemberResponses(members []domain.Member) []MemberResponse {
	out := make([]MemberResponse, len(members))
	for i, m := range members {
		out[i] = MemberResponse{MemberID: m.MemberID, DisplayName: m.DisplayName}
	}
	return out
}

// HouseholdResponse defines data returned for a household.
type HouseholdResponse struct {
	HouseholdID string           `json:"householdId"`
	Name        string           `json:"name"`
	Address     string           `json:"address,omitempty"`
	Members     []MemberResponse `json:"members"`
}

// ToHouseholdResponse converts a household and its members to DTO.
func ToHouseholdResponse(h *domain.Household, members []domain.Member) HouseholdResponse {
	return HouseholdResponse{
		HouseholdID: h.HouseholdID,
		Name:        h.Name,
		Address:     h.Address,
		Members:     ToMemberResponses(members),
	}
}

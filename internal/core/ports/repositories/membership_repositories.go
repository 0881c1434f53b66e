package repositories

import (
	"context"

	"github.com/SscSPs/roomie_ledger/internal/core/domain"
)

// MembershipReader resolves household membership. Membership itself is
// managed elsewhere; the ledger only reads it.
type MembershipReader interface {
	// FindHouseholdByID retrieves a household by its identifier.
	FindHouseholdByID(ctx context.Context, householdID string) (*domain.Household, error)

	// GetMembers returns the current members of a household in membership order.
	GetMembers(ctx context.Context, householdID string) ([]domain.Member, error)
}

// MembershipWriter seeds households and members. Used by roomie_seed and
// tests, never by the settlement flow.
type MembershipWriter interface {
	SaveHousehold(ctx context.Context, household domain.Household) error
	SaveMember(ctx context.Context, member domain.Member) error
	AddMember(ctx context.Context, householdID, memberID string) error
}

// MembershipRepositoryFacade combines membership read and write operations
type MembershipRepositoryFacade interface {
	MembershipReader
	MembershipWriter
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
)

type membershipService struct {
	BaseService
	membershipRepo portsrepo.MembershipReader
}

// NewMembershipService creates a read-only membership resolver service.
func NewMembershipService(membershipRepo portsrepo.MembershipReader) portssvc.MembershipSvc {
	return &membershipService{BaseService: newBaseService("membership"), membershipRepo: membershipRepo}
}

// GetHousehold returns the household and its members in membership order.
func (s *membershipService) GetHousehold(ctx context.Context, householdID string) (*domain.Household, []domain.Member, error) {
	if strings.TrimSpace(householdID) == "" {
		return nil, nil, apperrors.NewValidationError("householdId", "is required")
	}

	household, err := s.membershipRepo.FindHouseholdByID(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "failed to find household", slog.String("household_id", householdID))
		return nil, nil, fmt.Errorf("failed to find household %s: %w", householdID, err)
	}

	members, err := s.membershipRepo.GetMembers(ctx, householdID)
	if err != nil {
		s.LogError(ctx, err, "failed to get household members", slog.String("household_id", householdID))
		return nil, nil, fmt.Errorf("failed to get members of household %s: %w", householdID, err)
	}
	return household, members, nil
}

package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/roomie_ledger/internal/apperrors"
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/SscSPs/roomie_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipService_GetHousehold(t *testing.T) {
	repo := new(MockMembershipRepository)
	svc := services.NewMembershipService(repo)
	ctx := context.Background()

	repo.On("FindHouseholdByID", ctx, household).Return(&domain.Household{HouseholdID: household, Name: "Piso", MemberIDs: []string{alice, bob}}, nil).Once()
	repo.On("GetMembers", ctx, household).Return([]domain.Member{{MemberID: alice, DisplayName: "Alice"}, {MemberID: bob, DisplayName: "Bob"}}, nil).Once()

	hh, members, err := svc.GetHousehold(ctx, household)

	require.NoError(t, err)
	assert.Equal(t, "Piso", hh.Name)
	require.Len(t, members, 2)
	assert.Equal(t, alice, members[0].MemberID)
	repo.AssertExpectations(t)
}

func TestMembershipService_GetHousehold_NotFound(t *testing.T) {
	repo := new(MockMembershipRepository)
	svc := services.NewMembershipService(repo)
	ctx := context.Background()

	repo.On("FindHouseholdByID", ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := svc.GetHousehold(ctx, "nope")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	repo.AssertNotCalled(t, "GetMembers", ctx, "nope")
}

func TestMembershipService_GetHousehold_RequiresID(t *testing.T) {
	svc := services.NewMembershipService(new(MockMembershipRepository))

	_, _, err := svc.GetHousehold(context.Background(), " ")

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

package mapping

import (
	"github.com/SscSPs/roomie_ledger/internal/core/domain"
	"github.com/SscSPs/roomie_ledger/internal/models"
)

// ToDomainHousehold converts a model Household and its ordered member IDs to a domain Household
func ToDomainHousehold(m models.Household, memberIDs []string) domain.Household {
	return domain.Household{
		HouseholdID: m.HouseholdID,
		Name:        m.Name,
		Address:     m.Address,
		MemberIDs:   memberIDs,
	}
}

// ToModelHousehold converts a domain Household to a model Household
func ToModelHousehold(d domain.Household) models.Household {
	return models.Household{
		HouseholdID: d.HouseholdID,
		Name:        d.Name,
		Address:     d.Address,
	}
}

// ToDomainMember converts a model Member to a domain Member
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{MemberID: m.MemberID, DisplayName: m.DisplayName}
}

// ToModelMember converts a domain Member to a model Member
func ToModelMember(d domain.Member) models.Member {
	return models.Member{MemberID: d.MemberID, DisplayName: d.DisplayName}
}

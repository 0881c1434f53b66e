package services

import (
	portsrepo "github.com/SscSPs/roomie_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/roomie_ledger/internal/core/ports/services"
	"github.com/SscSPs/roomie_ledger/internal/platform/config"
	"github.com/SscSPs/roomie_ledger/internal/platform/telemetry"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Membership = NewMembershipService(repos.MembershipRepo)
	container.Settlement = NewSettlementService(repos.ExpenseRepo, repos.MembershipRepo, SettlementOptions{
		WriteTimeout:     cfg.WriteTimeout,
		ViewReadyTimeout: cfg.ViewReadyTimeout,
		Location:         cfg.LedgerLocation,
		Tracer:           telemetry.Tracer(),
	})

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.SettlementSvcFacade = (*settlementService)(nil)
	_ portssvc.MembershipSvc       = (*membershipService)(nil)
	_ portssvc.HouseholdView       = (*householdView)(nil)
)

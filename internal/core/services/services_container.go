package services

import (
	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// observer may be nil.
func NewServiceContainer(cal *calendar.Calendar, repos portsrepo.RepositoryProvider, observer portssvc.ReconciliationObserver) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Contracts are read by every other service
	container.Contract = NewContractService(
		repos.ContractRepo,
		cal,
		WithContractJourneyReader(repos.JourneyRepo),
	)

	journeyOpts := []JourneyServiceOption{}
	if observer != nil {
		journeyOpts = append(journeyOpts, WithReconciliationObserver(observer))
	}
	container.Journey = NewJourneyService(repos.JourneyRepo, container.Contract, cal, journeyOpts...)

	// Entry edits re-run the reconciliation of their closed journey
	container.Entry = NewEntryService(
		repos.EntryRepo,
		repos.JourneyRepo,
		container.Contract,
		cal,
		WithEntryReconciler(container.Journey),
	)

	container.Reporting = NewReportingService(container.Contract, repos.EntryRepo, repos.JourneyRepo, cal)
	container.Maintenance = NewMaintenanceService(container.Contract, repos.EntryRepo, repos.JourneyRepo, container.Journey, cal)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ContractSvcFacade = (*contractService)(nil)
	_ portssvc.JourneySvcFacade  = (*journeyService)(nil)
	_ portssvc.EntrySvcFacade    = (*entryService)(nil)
)

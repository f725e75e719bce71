package services

import "github.com/giropositivo/giro_backend/internal/core/domain"

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Contract    ContractSvcFacade
	Entry       EntrySvcFacade
	Journey     JourneySvcFacade
	Reporting   ReportingService
	Maintenance MaintenanceService
}

// ReconciliationObserver is notified after every persisted reconciliation.
type ReconciliationObserver interface {
	ObserveReconciliation(outcome domain.ReconciliationOutcome)
}

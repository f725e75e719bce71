package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/giropositivo/giro_backend/internal/apperrors"
	"github.com/giropositivo/giro_backend/internal/core/domain"
	portsrepo "github.com/giropositivo/giro_backend/internal/core/ports/repositories"
	portssvc "github.com/giropositivo/giro_backend/internal/core/ports/services"
	"github.com/giropositivo/giro_backend/internal/utils/accounting"
	"github.com/giropositivo/giro_backend/internal/utils/calendar"
)

// DefaultReportDays is the window of the last_days preset when none is given.
const DefaultReportDays = 7

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	contractSvc portssvc.ContractReaderSvc
	entryRepo   portsrepo.EntryReader
	journeyRepo portsrepo.JourneyReader
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock overrides the clock used to resolve "today".
func WithReportingClock(clock func() time.Time) ReportingServiceOption {
	return func(s *reportingService) {
		s.Clock = clock
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(
	contractSvc portssvc.ContractReaderSvc,
	entryRepo portsrepo.EntryReader,
	journeyRepo portsrepo.JourneyReader,
	cal *calendar.Calendar,
	options ...ReportingServiceOption,
) portssvc.ReportingService {
	svc := &reportingService{
		BaseService: BaseService{Calendar: cal},
		contractSvc: contractSvc,
		entryRepo:   entryRepo,
		journeyRepo: journeyRepo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// DailyStats summarizes one civil day of a contract. A missing active contract
// yields zero valued stats.
func (s *reportingService) DailyStats(ctx context.Context, ownerID, day, contractID string) (*domain.DailyStats, error) {
	dayTime := s.Now()
	if day != "" {
		parsed, err := s.Calendar.ParseCivilDate(day)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("date", err.Error())
		}
		dayTime = parsed
	}

	contract, err := s.resolveContract(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := s.Calendar.DayBounds(dayTime)
	entries, journeys, err := s.loadSnapshot(ctx, ownerID, contract, calendar.Range{Start: dayStart, End: dayEnd})
	if err != nil {
		return nil, err
	}

	stats, err := accounting.DailyStats(s.Calendar, dayTime, contract, entries, journeys)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute daily stats", slog.String("day", s.Calendar.CivilDate(dayTime)))
		return nil, err
	}

	s.LogDebug(ctx, "Daily stats computed",
		slog.String("day", stats.Day),
		slog.Int("entry_count", len(entries)),
		slog.Int("journey_count", len(journeys)))
	return &stats, nil
}

// PeriodReport aggregates KPIs over the range selected by the query preset.
func (s *reportingService) PeriodReport(ctx context.Context, ownerID string, query domain.PeriodReportQuery) (*domain.PeriodReport, error) {
	contract, err := s.resolveContract(ctx, ownerID, query.ContractID)
	if err != nil {
		return nil, err
	}

	r, err := s.reportRange(query, contract)
	if err != nil {
		return nil, err
	}

	// Entries are selected by civil day, so load whole days around the range.
	first, last := s.Calendar.CivilSpan(r)
	firstDay, err := s.Calendar.ParseCivilDate(first)
	if err != nil {
		return nil, err
	}
	lastDay, err := s.Calendar.ParseCivilDate(last)
	if err != nil {
		return nil, err
	}
	entries, journeys, err := s.loadSnapshot(ctx, ownerID, contract, s.Calendar.DaysRange(firstDay, lastDay))
	if err != nil {
		return nil, err
	}

	report, err := accounting.PeriodReport(s.Calendar, r, contract, entries, journeys, query.Platform)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute period report",
			slog.String("preset", string(query.Preset)),
			slog.Time("from", r.Start),
			slog.Time("to", r.End))
		return nil, err
	}

	s.LogInfo(ctx, "Period report generated successfully",
		slog.String("preset", string(query.Preset)),
		slog.String("from", first),
		slog.String("to", last),
		slog.Int("entry_count", len(entries)))
	return &report, nil
}

func (s *reportingService) reportRange(query domain.PeriodReportQuery, contract *domain.Contract) (calendar.Range, error) {
	switch query.Preset {
	case domain.PresetLastDays, "":
		days := query.Days
		if days <= 0 {
			days = DefaultReportDays
		}
		r, err := s.Calendar.LastDays(s.Now(), days)
		if err != nil {
			return calendar.Range{}, apperrors.NewInvalidInputError("days", err.Error())
		}
		return r, nil
	case domain.PresetCustom:
		if query.From == "" || query.To == "" {
			return calendar.Range{}, apperrors.NewInvalidInputError("from", "custom ranges need from and to")
		}
		r, err := s.Calendar.ParseCivilRange(query.From, query.To)
		if err != nil {
			return calendar.Range{}, apperrors.NewInvalidInputError("to", err.Error())
		}
		return r, nil
	case domain.PresetContract:
		if contract == nil {
			return calendar.Range{}, fmt.Errorf("%w: no contract to report on", apperrors.ErrNotFound)
		}
		end := contract.ContractEnd
		if contract.Type == domain.Owned && contract.Status != domain.ContractFinished {
			end = s.Now()
		}
		if end.Before(contract.ContractStart) {
			end = contract.ContractStart
		}
		return calendar.Range{Start: contract.ContractStart, End: end}, nil
	default:
		return calendar.Range{}, apperrors.NewInvalidInputError("preset", "unknown preset "+string(query.Preset))
	}
}

// resolveContract returns the requested contract, or the active one when no id
// is given. A missing active contract is not an error.
func (s *reportingService) resolveContract(ctx context.Context, ownerID, contractID string) (*domain.Contract, error) {
	if contractID != "" {
		return s.contractSvc.GetContractByID(ctx, ownerID, contractID)
	}
	contract, err := s.contractSvc.GetActiveContract(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return contract, nil
}

// loadSnapshot loads the entries dated in r and the journeys referenced to its
// civil days concurrently.
func (s *reportingService) loadSnapshot(ctx context.Context, ownerID string, contract *domain.Contract, r calendar.Range) ([]domain.Entry, []domain.Journey, error) {
	if contract == nil {
		return nil, nil, nil
	}

	var (
		entries  []domain.Entry
		journeys []domain.Journey
	)
	first, last := s.Calendar.CivilSpan(r)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.FindEntriesInRange(gctx, ownerID, contract.ContractID, r.Start, r.End)
		if err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		journeys, err = s.journeyRepo.FindJourneysByReferenceDays(gctx, ownerID, contract.ContractID, first, last)
		if err != nil {
			return fmt.Errorf("failed to load journeys: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to load report snapshot", slog.String("contract_id", contract.ContractID))
		return nil, nil, err
	}
	return entries, journeys, nil
}

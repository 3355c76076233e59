package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/de-tools/bm-billing/pkg/services/invoice"
	"github.com/de-tools/bm-billing/pkg/services/usage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrInvalidWindow = errors.New("billing window end must be after start")

// Run is the input of one billing run.
type Run struct {
	Leases     []domain.Lease
	Window     domain.Window
	Exclusions domain.IntervalSet
}

// Service executes billing runs. Each call owns its own aggregate.
type Service struct {
	aggregator *usage.Aggregator
}

func NewService(classifier *usage.Classifier) *Service {
	return &Service{aggregator: usage.NewAggregator(classifier)}
}

// Usage aggregates the run's leases into per-project SU hours.
func (s *Service) Usage(ctx context.Context, run Run) (*domain.UsageAggregate, error) {
	if !run.Window.Start.Before(run.Window.End) {
		return nil, fmt.Errorf("%w: %s - %s", ErrInvalidWindow, run.Window.Start, run.Window.End)
	}

	logger := zerolog.Ctx(ctx).With().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().
		Time("start", run.Window.Start).
		Time("end", run.Window.End).
		Int("leases", len(run.Leases)).
		Int("exclusions", len(run.Exclusions)).
		Msg("billing run started")

	agg, err := s.aggregator.Aggregate(ctx, run.Leases, run.Window, run.Exclusions)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage: %w", err)
	}
	return agg, nil
}

// Invoice aggregates the run and renders it at the given rates.
func (s *Service) Invoice(ctx context.Context, run Run, invoiceMonth string, rates domain.Rates) ([]domain.InvoiceRow, error) {
	agg, err := s.Usage(ctx, run)
	if err != nil {
		return nil, err
	}
	return invoice.Render(agg, invoiceMonth, rates), nil
}

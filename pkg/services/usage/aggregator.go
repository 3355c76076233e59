package usage

import (
	"context"
	"fmt"

	"github.com/de-tools/bm-billing/pkg/models/domain"
	"github.com/rs/zerolog"
)

type Aggregator struct {
	classifier *Classifier
}

func NewAggregator(classifier *Classifier) *Aggregator {
	return &Aggregator{classifier: classifier}
}

// Aggregate folds leases into per-project SU hours for the window. Per-lease
// anomalies are logged and never abort the run. The returned aggregate is sealed.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	leases []domain.Lease,
	window domain.Window,
	exclusions domain.IntervalSet,
) (*domain.UsageAggregate, error) {
	logger := zerolog.Ctx(ctx)
	agg := domain.NewUsageAggregate()

	for _, lease := range leases {
		suType, known := a.classifier.Classify(lease.ResourceClass)
		if !known {
			logger.Warn().
				Str("lease", lease.ID).
				Str("resource", lease.Resource).
				Str("resource_class", lease.ResourceClass).
				Msgf("Unknown resource class %s (resource %s) in lease %s.", lease.ResourceClass, lease.Resource, lease.ID)
		}

		if lease.Project == "" {
			logger.Error().Str("lease", lease.ID).Msgf("Lease %s has empty project name.", lease.ID)
		}

		hours := BillableHours(lease, window, exclusions)
		if err := agg.Add(lease.Project, suType, hours); err != nil {
			return nil, fmt.Errorf("aggregate lease %s: %w", lease.ID, err)
		}
	}

	agg.Seal()
	logger.Debug().Int("leases", len(leases)).Int("projects", len(agg.Projects())).Msg("usage aggregated")
	return agg, nil
}

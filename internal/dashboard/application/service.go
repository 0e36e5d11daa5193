package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	dashboard "energia-cloud/internal/dashboard/domain"
	"energia-cloud/internal/observability/metrics"
)

// Service computes the dashboard summary.
type Service struct {
	reader    dashboard.Reader
	lossGroup dashboard.GroupBy
	topLosses int
}

// NewService constructs a dashboard service.
func NewService(reader dashboard.Reader, lossGroup dashboard.GroupBy, topLosses int) (*Service, error) {
	if reader == nil {
		return nil, errors.New("dashboard service: nil reader")
	}
	if !lossGroup.Valid() {
		return nil, fmt.Errorf("dashboard service: invalid loss group %q", lossGroup)
	}
	if topLosses <= 0 {
		return nil, errors.New("dashboard service: top losses must be positive")
	}
	return &Service{reader: reader, lossGroup: lossGroup, topLosses: topLosses}, nil
}

// LossGroup is the grouping of the top-losses chart.
func (s *Service) LossGroup() dashboard.GroupBy {
	return s.lossGroup
}

// Summary returns the cards, the cost-by-site chart and the top-losses chart.
func (s *Service) Summary(ctx context.Context) (*dashboard.Summary, error) {
	start := time.Now()
	summary, err := s.summary(ctx)
	if err != nil {
		metrics.ObserveDashboard(metrics.ResultError, time.Since(start))
		return nil, err
	}
	metrics.ObserveDashboard(metrics.ResultSuccess, time.Since(start))
	return summary, nil
}

func (s *Service) summary(ctx context.Context) (*dashboard.Summary, error) {
	cards, err := s.reader.Totals(ctx)
	if err != nil {
		return nil, err
	}
	costRows, err := s.reader.CostBySite(ctx)
	if err != nil {
		return nil, err
	}
	lossRows, err := s.reader.Losses(ctx, s.lossGroup, s.topLosses)
	if err != nil {
		return nil, err
	}

	return &dashboard.Summary{
		Cards: dashboard.Cards{
			CostTotal: dashboard.Round(cards.CostTotal),
			LossTotal: dashboard.Round(cards.LossTotal),
		},
		CostBySite: dashboard.BuildChart(costRows, 0),
		TopLosses:  dashboard.BuildChart(lossRows, s.topLosses),
	}, nil
}

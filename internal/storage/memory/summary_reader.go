package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	dashboard "energia-cloud/internal/dashboard/domain"
	invoices "energia-cloud/internal/invoices/domain"
)

// SummaryReader implements dashboard.Reader over a Store.
type SummaryReader struct {
	store *Store
}

// Totals sums every stored invoice.
func (r *SummaryReader) Totals(ctx context.Context) (dashboard.Cards, error) {
	_ = ctx
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	cost, loss := decimal.Zero, decimal.Zero
	for _, inv := range s.invoices {
		cost = cost.Add(decimal.NewFromFloat(inv.TotalValue))
		loss = loss.Add(decimal.NewFromFloat(inv.LossValue))
	}
	return dashboard.Cards{CostTotal: cost.InexactFloat64(), LossTotal: loss.InexactFloat64()}, nil
}

// CostBySite sums invoice value per client in client id order.
func (r *SummaryReader) CostBySite(ctx context.Context) ([]dashboard.Row, error) {
	_ = ctx
	return r.grouped(dashboard.GroupByClient, func(inv invoices.Invoice) float64 { return inv.TotalValue }), nil
}

// Losses sums invoice losses per client or city. The limit is applied by the caller.
func (r *SummaryReader) Losses(ctx context.Context, group dashboard.GroupBy, limit int) ([]dashboard.Row, error) {
	_, _ = ctx, limit
	if !group.Valid() {
		return nil, fmt.Errorf("summary reader: unknown group %q", group)
	}
	return r.grouped(group, func(inv invoices.Invoice) float64 { return inv.LossValue }), nil
}

func (r *SummaryReader) grouped(group dashboard.GroupBy, value func(invoices.Invoice) float64) []dashboard.Row {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sums := make(map[int64]decimal.Decimal)
	for _, inv := range s.invoices {
		sums[inv.ClientID] = sums[inv.ClientID].Add(decimal.NewFromFloat(value(inv)))
	}

	var (
		order  []string
		labels = make(map[string]*string)
		totals = make(map[string]decimal.Decimal)
	)
	for _, id := range s.sortedClientIDs() {
		sum, ok := sums[id]
		if !ok {
			continue
		}
		client := s.clients[id]
		var key string
		var label *string
		switch group {
		case dashboard.GroupByCity:
			if client.City == nil {
				continue
			}
			key, label = *client.City, client.City
		default:
			name := client.CompanyName
			if client.SiteName != nil && *client.SiteName != "" {
				name = *client.SiteName
			}
			key, label = fmt.Sprintf("#%d", id), &name
		}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
			labels[key] = label
		}
		totals[key] = totals[key].Add(sum)
	}

	rows := make([]dashboard.Row, 0, len(order))
	for _, key := range order {
		total := totals[key].InexactFloat64()
		rows = append(rows, dashboard.Row{Label: labels[key], Value: &total})
	}
	return rows
}

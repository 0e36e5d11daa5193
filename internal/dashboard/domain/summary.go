package dashboard

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
)

// GroupBy selects the key of a grouped chart.
type GroupBy string

const (
	GroupByClient GroupBy = "client"
	GroupByCity   GroupBy = "city"
)

// Valid reports whether g is a known grouping.
func (g GroupBy) Valid() bool {
	return g == GroupByClient || g == GroupByCity
}

// Heading names the grouping key in printed reports.
func (g GroupBy) Heading() string {
	if g == GroupByCity {
		return "Cidade"
	}
	return "Unidade"
}

// Cards are the headline totals over every stored invoice.
type Cards struct {
	CostTotal float64 `json:"custo_mensal"`
	LossTotal float64 `json:"perda_mensal"`
}

// Chart holds parallel label/value arrays.
type Chart struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Summary is the dashboard payload.
type Summary struct {
	Cards      Cards `json:"cards"`
	CostBySite Chart `json:"grafico_custo_loja"`
	TopLosses  Chart `json:"grafico_top_perdas"`
}

// Row is one grouped aggregate as read from the store.
// Nil label or value means the group key or the sum was NULL.
type Row struct {
	Label *string
	Value *float64
}

// Reader runs the aggregate queries. Rows come back in insertion order of
// their group (lowest client id first).
type Reader interface {
	Totals(ctx context.Context) (Cards, error)
	CostBySite(ctx context.Context) ([]Row, error)
	Losses(ctx context.Context, group GroupBy, limit int) ([]Row, error)
}

// BuildChart drops rows with a nil label or value, sorts the rest by value
// descending and keeps at most limit entries (limit <= 0 keeps all).
// Equal values keep their input order.
func BuildChart(rows []Row, limit int) Chart {
	kept := make([]Row, 0, len(rows))
	for _, row := range rows {
		if row.Label == nil || row.Value == nil {
			continue
		}
		kept = append(kept, row)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return *kept[i].Value > *kept[j].Value
	})
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	chart := Chart{
		Labels: make([]string, 0, len(kept)),
		Values: make([]float64, 0, len(kept)),
	}
	for _, row := range kept {
		chart.Labels = append(chart.Labels, *row.Label)
		chart.Values = append(chart.Values, Round(*row.Value))
	}
	return chart
}

// Round rounds a monetary amount to cents.
func Round(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

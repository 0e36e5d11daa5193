package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dashboard "energia-cloud/internal/dashboard/domain"
	"energia-cloud/internal/database"
)

const siteLabel = `COALESCE(NULLIF(c.nome_da_unidade, ''), c.nome_empresa)`

// SummaryReader runs the dashboard aggregates on Postgres.
type SummaryReader struct {
	db database.DBTX
}

// NewSummaryReader constructs a reader.
func NewSummaryReader(db database.DBTX) *SummaryReader {
	return &SummaryReader{db: db}
}

// Totals sums invoice value and losses over the whole table. Empty sums are zero.
func (r *SummaryReader) Totals(ctx context.Context) (dashboard.Cards, error) {
	if r == nil || r.db == nil {
		return dashboard.Cards{}, errors.New("summary reader: nil db")
	}
	var cost, loss sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, `
SELECT SUM(valor_total_fatura), SUM(valor_perdas_total)
FROM faturas`).Scan(&cost, &loss); err != nil {
		return dashboard.Cards{}, fmt.Errorf("summary reader: totals: %w", err)
	}
	return dashboard.Cards{CostTotal: cost.Float64, LossTotal: loss.Float64}, nil
}

// CostBySite sums invoice value per client.
func (r *SummaryReader) CostBySite(ctx context.Context) ([]dashboard.Row, error) {
	return r.query(ctx, `
SELECT `+siteLabel+`, SUM(f.valor_total_fatura) AS total
FROM clientes c
JOIN faturas f ON f.id_cliente = c.id_cliente
GROUP BY c.id_cliente
HAVING SUM(f.valor_total_fatura) IS NOT NULL
ORDER BY total DESC, c.id_cliente`)
}

// Losses sums invoice losses per client or per city, keeping the top limit groups.
func (r *SummaryReader) Losses(ctx context.Context, group dashboard.GroupBy, limit int) ([]dashboard.Row, error) {
	switch group {
	case dashboard.GroupByClient:
		return r.query(ctx, `
SELECT `+siteLabel+`, SUM(f.valor_perdas_total) AS total
FROM clientes c
JOIN faturas f ON f.id_cliente = c.id_cliente
GROUP BY c.id_cliente
HAVING SUM(f.valor_perdas_total) IS NOT NULL
ORDER BY total DESC, c.id_cliente
LIMIT $1`, limit)
	case dashboard.GroupByCity:
		return r.query(ctx, `
SELECT c.cidade, SUM(f.valor_perdas_total) AS total
FROM clientes c
JOIN faturas f ON f.id_cliente = c.id_cliente
WHERE c.cidade IS NOT NULL
GROUP BY c.cidade
HAVING SUM(f.valor_perdas_total) IS NOT NULL
ORDER BY total DESC, MIN(c.id_cliente)
LIMIT $1`, limit)
	default:
		return nil, fmt.Errorf("summary reader: unknown group %q", group)
	}
}

func (r *SummaryReader) query(ctx context.Context, query string, args ...any) ([]dashboard.Row, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("summary reader: nil db")
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summary reader: query: %w", err)
	}
	defer rows.Close()

	result := make([]dashboard.Row, 0)
	for rows.Next() {
		var (
			label sql.NullString
			value sql.NullFloat64
		)
		if err := rows.Scan(&label, &value); err != nil {
			return nil, fmt.Errorf("summary reader: scan: %w", err)
		}
		var row dashboard.Row
		if label.Valid {
			row.Label = &label.String
		}
		if value.Valid {
			row.Value = &value.Float64
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary reader: query: %w", err)
	}
	return result, nil
}

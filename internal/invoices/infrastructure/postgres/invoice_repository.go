package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"energia-cloud/internal/database"
	invoices "energia-cloud/internal/invoices/domain"
)

const invoiceColumns = `id_fatura, id_cliente, data_faturamento,
	COALESCE(demanda_contratada_ponta_kw, 0), COALESCE(demanda_contratada_f_ponta_kw, 0),
	COALESCE(demanda_ponta_kw, 0), COALESCE(demanda_f_ponta_kw, 0), COALESCE(demanda_maxima_registrada_kw, 0),
	COALESCE(consumo_ponta_kwh, 0), COALESCE(consumo_ponta_vl, 0),
	COALESCE(consumo_fora_ponta_kwh, 0), COALESCE(consumo_fora_ponta_vl, 0),
	COALESCE(consumo_total_kwh, 0), valor_total_fatura, COALESCE(valor_perdas_total, 0)`

// InvoiceRepository is a Postgres implementation of invoices.Repository.
type InvoiceRepository struct {
	db database.DBTX
}

// NewInvoiceRepository constructs a repository.
func NewInvoiceRepository(db database.DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create appends an invoice. A missing owner yields invoices.ErrClientNotFound
// through the foreign key, so nothing is persisted in that case.
func (r *InvoiceRepository) Create(ctx context.Context, inv invoices.Invoice) (*invoices.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	if !database.SerialInRange(inv.ClientID) {
		return nil, invoices.ErrClientNotFound
	}
	row := r.db.QueryRowContext(ctx, `
INSERT INTO faturas (
	id_cliente, data_faturamento,
	demanda_contratada_ponta_kw, demanda_contratada_f_ponta_kw,
	demanda_ponta_kw, demanda_f_ponta_kw, demanda_maxima_registrada_kw,
	consumo_ponta_kwh, consumo_ponta_vl, consumo_fora_ponta_kwh, consumo_fora_ponta_vl,
	consumo_total_kwh, valor_total_fatura, valor_perdas_total
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
)
RETURNING `+invoiceColumns,
		inv.ClientID,
		inv.BillingDate.UTC(),
		inv.ContractedPeakDemandKW,
		inv.ContractedOffPeakDemandKW,
		inv.PeakDemandKW,
		inv.OffPeakDemandKW,
		inv.MaxRecordedDemandKW,
		inv.PeakConsumptionKWh,
		inv.PeakConsumptionValue,
		inv.OffPeakConsumptionKWh,
		inv.OffPeakConsumptionValue,
		inv.TotalConsumptionKWh,
		inv.TotalValue,
		inv.LossValue,
	)
	created, err := scanInvoice(row)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, invoices.ErrClientNotFound
		}
		return nil, fmt.Errorf("invoice repo: insert: %w", err)
	}
	return created, nil
}

// ListByClient returns a client's invoices by billing date then id.
func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID int64) ([]invoices.Invoice, error) {
	grouped, err := r.ListByClients(ctx, []int64{clientID})
	if err != nil {
		return nil, err
	}
	list := grouped[clientID]
	if list == nil {
		list = []invoices.Invoice{}
	}
	return list, nil
}

// ListByClients loads invoices of several clients in one query, keyed by client id.
func (r *InvoiceRepository) ListByClients(ctx context.Context, clientIDs []int64) (map[int64][]invoices.Invoice, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("invoice repo: nil db")
	}
	result := make(map[int64][]invoices.Invoice, len(clientIDs))
	placeholders := make([]string, 0, len(clientIDs))
	args := make([]any, 0, len(clientIDs))
	for _, id := range clientIDs {
		if !database.SerialInRange(id) {
			continue
		}
		args = append(args, id)
		placeholders = append(placeholders, "$"+strconv.Itoa(len(args)))
	}
	if len(args) == 0 {
		return result, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT `+invoiceColumns+`
FROM faturas
WHERE id_cliente IN (`+strings.Join(placeholders, ", ")+`)
ORDER BY id_cliente, data_faturamento, id_fatura`, args...)
	if err != nil {
		return nil, fmt.Errorf("invoice repo: list: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("invoice repo: scan: %w", err)
		}
		result[inv.ClientID] = append(result[inv.ClientID], *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invoice repo: list: %w", err)
	}
	return result, nil
}

// Count returns the number of stored invoices.
func (r *InvoiceRepository) Count(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, errors.New("invoice repo: nil db")
	}
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM faturas`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row rowScanner) (*invoices.Invoice, error) {
	var inv invoices.Invoice
	if err := row.Scan(
		&inv.ID,
		&inv.ClientID,
		&inv.BillingDate.Time,
		&inv.ContractedPeakDemandKW,
		&inv.ContractedOffPeakDemandKW,
		&inv.PeakDemandKW,
		&inv.OffPeakDemandKW,
		&inv.MaxRecordedDemandKW,
		&inv.PeakConsumptionKWh,
		&inv.PeakConsumptionValue,
		&inv.OffPeakConsumptionKWh,
		&inv.OffPeakConsumptionValue,
		&inv.TotalConsumptionKWh,
		&inv.TotalValue,
		&inv.LossValue,
	); err != nil {
		return nil, err
	}
	inv.BillingDate.Time = inv.BillingDate.UTC()
	return &inv, nil
}

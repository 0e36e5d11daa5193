package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoices "energia-cloud/internal/invoices/domain"
)

var invoiceColumnNames = []string{
	"id_fatura", "id_cliente", "data_faturamento",
	"demanda_contratada_ponta_kw", "demanda_contratada_f_ponta_kw",
	"demanda_ponta_kw", "demanda_f_ponta_kw", "demanda_maxima_registrada_kw",
	"consumo_ponta_kwh", "consumo_ponta_vl", "consumo_fora_ponta_kwh", "consumo_fora_ponta_vl",
	"consumo_total_kwh", "valor_total_fatura", "valor_perdas_total",
}

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *InvoiceRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock, NewInvoiceRepository(db)
}

func invoiceRow(rows *sqlmock.Rows, id, clientID int64, billing time.Time, total, loss float64) *sqlmock.Rows {
	return rows.AddRow(id, clientID, billing, 0.0, 0.0, 0.0, 0.0, 0.0, 10.0, 5.0, 20.0, 8.0, 30.0, total, loss)
}

func TestInvoiceRepository_Create(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	billing := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO faturas`).
		WithArgs(int64(1), billing, 0.0, 0.0, 0.0, 0.0, 0.0, 10.0, 5.0, 20.0, 8.0, 30.0, 500.0, 20.0).
		WillReturnRows(invoiceRow(sqlmock.NewRows(invoiceColumnNames), 11, 1, billing, 500, 20))

	inv := invoices.Invoice{
		ClientID:                1,
		BillingDate:             invoices.BillingTime{Time: billing},
		PeakConsumptionKWh:      10,
		PeakConsumptionValue:    5,
		OffPeakConsumptionKWh:   20,
		OffPeakConsumptionValue: 8,
		TotalConsumptionKWh:     30,
		TotalValue:              500,
		LossValue:               20,
	}
	created, err := repo.Create(context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, int64(11), created.ID)
	assert.Equal(t, int64(1), created.ClientID)
	assert.True(t, created.BillingDate.Equal(billing))
	assert.Equal(t, 500.0, created.TotalValue)
	assert.Equal(t, 30.0, created.TotalConsumptionKWh)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_CreateMissingClient(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO faturas`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "faturas_id_cliente_fkey"})

	_, err := repo.Create(context.Background(), invoices.Invoice{ClientID: 999999, TotalValue: 1})
	require.ErrorIs(t, err, invoices.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_CreateClientBeyondSerialRange(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	_, err := repo.Create(context.Background(), invoices.Invoice{ClientID: 9999999999, TotalValue: 1})
	require.ErrorIs(t, err, invoices.ErrClientNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_ListByClientsSkipsOutOfRangeIDs(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	mock.ExpectQuery(`FROM faturas\s+WHERE id_cliente IN \(\$1\)`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(invoiceColumnNames))

	grouped, err := repo.ListByClients(context.Background(), []int64{9999999999, 4})
	require.NoError(t, err)
	assert.Empty(t, grouped[4])

	list, err := repo.ListByClient(context.Background(), 9999999999)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_ListByClients(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(invoiceColumnNames)
	invoiceRow(rows, 1, 1, jan, 100, 1)
	invoiceRow(rows, 3, 1, feb, 110, 2)
	invoiceRow(rows, 2, 2, jan, 50, 0)
	mock.ExpectQuery(`FROM faturas\s+WHERE id_cliente IN \(\$1, \$2, \$3\)`).
		WithArgs(int64(1), int64(2), int64(3)).
		WillReturnRows(rows)

	grouped, err := repo.ListByClients(context.Background(), []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, grouped[1], 2)
	assert.Equal(t, int64(3), grouped[1][1].ID)
	require.Len(t, grouped[2], 1)
	assert.Empty(t, grouped[3])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_ListByClientsEmptyInput(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	grouped, err := repo.ListByClients(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, grouped)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceRepository_ListByClient(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	mock.ExpectQuery(`FROM faturas`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(invoiceColumnNames))

	list, err := repo.ListByClient(context.Background(), 8)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

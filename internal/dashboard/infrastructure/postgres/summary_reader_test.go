package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "energia-cloud/internal/dashboard/domain"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *SummaryReader) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, NewSummaryReader(db)
}

func TestSummaryReader_Totals(t *testing.T) {
	mock, reader := setupMockDB(t)

	mock.ExpectQuery(`SELECT SUM\(valor_total_fatura\), SUM\(valor_perdas_total\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "sum"}).AddRow(1500.5, 42.0))

	cards, err := reader.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500.5, cards.CostTotal)
	assert.Equal(t, 42.0, cards.LossTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryReader_TotalsEmptyTable(t *testing.T) {
	mock, reader := setupMockDB(t)

	mock.ExpectQuery(`FROM faturas`).
		WillReturnRows(sqlmock.NewRows([]string{"sum", "sum"}).AddRow(nil, nil))

	cards, err := reader.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dashboard.Cards{}, cards)
}

func TestSummaryReader_CostBySite(t *testing.T) {
	mock, reader := setupMockDB(t)

	mock.ExpectQuery(`GROUP BY c.id_cliente`).
		WillReturnRows(sqlmock.NewRows([]string{"label", "total"}).
			AddRow("Loja Centro", 900.0).
			AddRow(nil, 50.0))

	rows, err := reader.CostBySite(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Loja Centro", *rows[0].Label)
	assert.Equal(t, 900.0, *rows[0].Value)
	assert.Nil(t, rows[1].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryReader_LossesByCity(t *testing.T) {
	mock, reader := setupMockDB(t)

	mock.ExpectQuery(`GROUP BY c.cidade`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"cidade", "total"}).AddRow("Recife", 12.5))

	rows, err := reader.Losses(context.Background(), dashboard.GroupByCity, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Recife", *rows[0].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryReader_LossesByClient(t *testing.T) {
	mock, reader := setupMockDB(t)

	mock.ExpectQuery(`SUM\(f.valor_perdas_total\).*GROUP BY c.id_cliente`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"label", "total"}))

	rows, err := reader.Losses(context.Background(), dashboard.GroupByClient, 10)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryReader_UnknownGroup(t *testing.T) {
	_, reader := setupMockDB(t)

	_, err := reader.Losses(context.Background(), dashboard.GroupBy("state"), 5)
	require.Error(t, err)
}

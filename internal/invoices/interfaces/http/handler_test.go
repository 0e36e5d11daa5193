package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	apihttp "energia-cloud/internal/api/http"
	clients "energia-cloud/internal/clients/domain"
	clientrepo "energia-cloud/internal/clients/infrastructure/postgres"
	invoiceapp "energia-cloud/internal/invoices/application"
	invoices "energia-cloud/internal/invoices/domain"
	invoicerepo "energia-cloud/internal/invoices/infrastructure/postgres"
	"energia-cloud/internal/storage/memory"
)

func newServer(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	service, err := invoiceapp.NewService(store.Invoices(), store.Clients())
	require.NoError(t, err)
	handler, err := NewHandler(service, zap.NewNop())
	require.NoError(t, err)
	return apihttp.NewRouter(zap.NewNop(), nil, handler), store
}

func seedClient(t *testing.T, store *memory.Store) *clients.Client {
	t.Helper()
	site := "Loja Centro"
	client, err := store.Clients().Create(context.Background(), clients.Fields{
		TaxID:       "12345678901234",
		CompanyName: "ACME",
		SiteName:    &site,
	})
	require.NoError(t, err)
	return client
}

func post(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCreateInvoice(t *testing.T) {
	server, store := newServer(t)
	client := seedClient(t, store)

	rec := post(t, server, "/clientes/1/faturas/", `{
		"data_faturamento": "2024-01-01T00:00:00",
		"valor_total_fatura": 500.0,
		"valor_perdas_total": 20.0,
		"consumo_ponta_kwh": 120.5,
		"consumo_fora_ponta_kwh": 300.25
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, float64(client.ID), created["id_cliente"])
	assert.Equal(t, "2024-01-01T00:00:00", created["data_faturamento"])
	assert.Equal(t, 500.0, created["valor_total_fatura"])
	assert.Equal(t, 20.0, created["valor_perdas_total"])
	assert.Equal(t, 0.0, created["demanda_ponta_kw"])
	assert.Equal(t, 420.75, created["consumo_total_kwh"])
	assert.NotZero(t, created["id_fatura"])
}

func TestCreateInvoiceWithoutTrailingSlash(t *testing.T) {
	server, store := newServer(t)
	seedClient(t, store)

	rec := post(t, server, "/clientes/1/faturas", `{"data_faturamento": "2024-02-01", "valor_total_fatura": 1}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateInvoiceUnknownClient(t *testing.T) {
	server, store := newServer(t)

	rec := post(t, server, "/clientes/999999/faturas/", `{"data_faturamento": "2024-01-01T00:00:00", "valor_total_fatura": 500.0}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message": "Cliente não encontrado", "detail": "Cliente não encontrado"}`, rec.Body.String())

	count, err := store.Invoices().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClientIDBeyondSerialRangeIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	service, err := invoiceapp.NewService(invoicerepo.NewInvoiceRepository(db), clientrepo.NewClientRepository(db))
	require.NoError(t, err)
	handler, err := NewHandler(service, zap.NewNop())
	require.NoError(t, err)
	server := apihttp.NewRouter(zap.NewNop(), nil, handler)

	rec := post(t, server, "/clientes/9999999999/faturas/", `{"data_faturamento": "2024-01-01", "valor_total_fatura": 1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/clientes/9999999999/faturas/export.xlsx", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInvoiceValidation(t *testing.T) {
	server, store := newServer(t)
	seedClient(t, store)

	cases := map[string]string{
		"missing date":  `{"valor_total_fatura": 500.0}`,
		"missing total": `{"data_faturamento": "2024-01-01T00:00:00"}`,
		"bad date":      `{"data_faturamento": "janeiro", "valor_total_fatura": 500.0}`,
		"string number": `{"data_faturamento": "2024-01-01", "valor_total_fatura": "500"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := post(t, server, "/clientes/1/faturas/", body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}

	rec := post(t, server, "/clientes/x/faturas/", `{"data_faturamento": "2024-01-01", "valor_total_fatura": 1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportLedger(t *testing.T) {
	server, store := newServer(t)
	client := seedClient(t, store)
	for i, month := range []time.Month{time.March, time.January} {
		_, err := store.Invoices().Create(context.Background(), invoices.Invoice{
			ClientID:    client.ID,
			BillingDate: invoices.BillingTime{Time: time.Date(2024, month, 1, 0, 0, 0, 0, time.UTC)},
			TotalValue:  float64(100 * (i + 1)),
		})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/clientes/1/faturas/export.xlsx", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "faturas-1.xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("faturas")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "id_fatura", rows[0][0])
	assert.Equal(t, "2024-01-01T00:00:00", rows[1][1])
	assert.Equal(t, "2024-03-01T00:00:00", rows[2][1])
}

func TestBuildLedgerXLSXTotalsInCents(t *testing.T) {
	client := &clients.Client{ID: 7, TaxID: "12345678901234", CompanyName: "ACME"}
	list := []invoices.Invoice{
		{ID: 1, ClientID: 7, TotalValue: 0.1, LossValue: 0.7},
		{ID: 2, ClientID: 7, TotalValue: 0.2, LossValue: 0.1},
	}

	data, err := BuildLedgerXLSX(client, list)
	require.NoError(t, err)
	book, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer book.Close()

	total, err := book.GetCellValue("cliente", "B9", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "0.3", total)
	losses, err := book.GetCellValue("cliente", "B10", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "0.8", losses)
}

func TestExportLedgerUnknownClient(t *testing.T) {
	server, _ := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/clientes/7/faturas/export.xlsx", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apihttp "energia-cloud/internal/api/http"
	invoiceapp "energia-cloud/internal/invoices/application"
	invoices "energia-cloud/internal/invoices/domain"
	"energia-cloud/internal/observability/metrics"
	"energia-cloud/internal/validation"
)

const (
	messageClientNotFound = "Cliente não encontrado"
	contentTypeXLSX       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handler provides the invoice ledger endpoints.
type Handler struct {
	service *invoiceapp.Service
	logger  *zap.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *invoiceapp.Service, logger *zap.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("invoices handler: nil service")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}, nil
}

// Register mounts /clientes/{id}/faturas routes.
func (h *Handler) Register(r *mux.Router) {
	apihttp.Route(r, "/clientes/{id}/faturas/", h.handleCreate, http.MethodPost)
	r.HandleFunc("/clientes/{id}/faturas/export.xlsx", h.handleExport).Methods(http.MethodGet)
}

type invoiceRequest struct {
	BillingDate               *invoices.BillingTime `json:"data_faturamento" validate:"required"`
	ContractedPeakDemandKW    *float64              `json:"demanda_contratada_ponta_kw"`
	ContractedOffPeakDemandKW *float64              `json:"demanda_contratada_f_ponta_kw"`
	PeakDemandKW              *float64              `json:"demanda_ponta_kw"`
	OffPeakDemandKW           *float64              `json:"demanda_f_ponta_kw"`
	MaxRecordedDemandKW       *float64              `json:"demanda_maxima_registrada_kw"`
	PeakConsumptionKWh        *float64              `json:"consumo_ponta_kwh"`
	PeakConsumptionValue      *float64              `json:"consumo_ponta_vl"`
	OffPeakConsumptionKWh     *float64              `json:"consumo_fora_ponta_kwh"`
	OffPeakConsumptionValue   *float64              `json:"consumo_fora_ponta_vl"`
	TotalConsumptionKWh       *float64              `json:"consumo_total_kwh"`
	TotalValue                *float64              `json:"valor_total_fatura" validate:"required"`
	LossValue                 *float64              `json:"valor_perdas_total"`
}

func (req invoiceRequest) draft() invoices.Draft {
	draft := invoices.Draft{
		ContractedPeakDemandKW:    req.ContractedPeakDemandKW,
		ContractedOffPeakDemandKW: req.ContractedOffPeakDemandKW,
		PeakDemandKW:              req.PeakDemandKW,
		OffPeakDemandKW:           req.OffPeakDemandKW,
		MaxRecordedDemandKW:       req.MaxRecordedDemandKW,
		PeakConsumptionKWh:        req.PeakConsumptionKWh,
		PeakConsumptionValue:      req.PeakConsumptionValue,
		OffPeakConsumptionKWh:     req.OffPeakConsumptionKWh,
		OffPeakConsumptionValue:   req.OffPeakConsumptionValue,
		TotalConsumptionKWh:       req.TotalConsumptionKWh,
		TotalValue:                req.TotalValue,
		LossValue:                 req.LossValue,
	}
	if req.BillingDate != nil {
		draft.BillingDate = req.BillingDate.Time
	}
	return draft
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	clientID, err := apihttp.PathID(r, "id", "id_cliente")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req invoiceRequest
	if err := apihttp.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	created, err := h.service.Create(r.Context(), clientID, req.draft())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	clientID, err := apihttp.PathID(r, "id", "id_cliente")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	client, list, err := h.service.Ledger(r.Context(), clientID)
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		h.respondError(w, r, err)
		return
	}
	data, err := BuildLedgerXLSX(client, list)
	if err != nil {
		metrics.ObserveExport("xlsx", metrics.ResultError, time.Since(start))
		h.respondError(w, r, err)
		return
	}
	metrics.ObserveExport("xlsx", metrics.ResultSuccess, time.Since(start))
	apihttp.WriteDocument(w, contentTypeXLSX, fmt.Sprintf("faturas-%d.xlsx", clientID), data)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errs, ok := validation.As(err); ok {
		apihttp.WriteValidation(w, errs)
		return
	}
	if errors.Is(err, invoices.ErrClientNotFound) {
		apihttp.WriteError(w, http.StatusNotFound, messageClientNotFound)
		return
	}
	apihttp.WriteInternal(w, r, h.logger, err)
}

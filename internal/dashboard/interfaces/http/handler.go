package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apihttp "energia-cloud/internal/api/http"
	dashboardapp "energia-cloud/internal/dashboard/application"
	"energia-cloud/internal/observability/metrics"
)

// Handler serves the dashboard summary.
type Handler struct {
	service *dashboardapp.Service
	logger  *zap.Logger
	now     func() time.Time
}

// NewHandler constructs a handler.
func NewHandler(service *dashboardapp.Service, logger *zap.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("dashboard handler: nil service")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger, now: time.Now}, nil
}

// Register mounts /api/dashboard routes.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/api/dashboard/resumo.pdf", h.handlePDF).Methods(http.MethodGet)
	apihttp.Route(r, "/api/dashboard/resumo", h.handleSummary, http.MethodGet)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		apihttp.WriteInternal(w, r, h.logger, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		apihttp.WriteInternal(w, r, h.logger, err)
		return
	}
	data, err := BuildSummaryPDF(summary, h.service.LossGroup(), h.now().UTC())
	if err != nil {
		metrics.ObserveExport("pdf", metrics.ResultError, time.Since(start))
		apihttp.WriteInternal(w, r, h.logger, err)
		return
	}
	metrics.ObserveExport("pdf", metrics.ResultSuccess, time.Since(start))
	apihttp.WriteDocument(w, "application/pdf", "resumo.pdf", data)
}

package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apihttp "energia-cloud/internal/api/http"
	clientapp "energia-cloud/internal/clients/application"
	clients "energia-cloud/internal/clients/domain"
	"energia-cloud/internal/validation"
)

const (
	messageDuplicateTaxID = "CNPJ já cadastrado"
	messageNotFound       = "Cliente não encontrado"
)

// Handler provides the client registry endpoints.
type Handler struct {
	service *clientapp.Service
	logger  *zap.Logger
}

// NewHandler constructs a handler.
func NewHandler(service *clientapp.Service, logger *zap.Logger) (*Handler, error) {
	if service == nil {
		return nil, errors.New("clients handler: nil service")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}, nil
}

// Register mounts /clientes routes.
func (h *Handler) Register(r *mux.Router) {
	apihttp.Route(r, "/clientes/", h.handleCreate, http.MethodPost)
	apihttp.Route(r, "/clientes/", h.handleList, http.MethodGet)
	apihttp.Route(r, "/clientes/{id}", h.handleGet, http.MethodGet)
	apihttp.Route(r, "/clientes/{id}", h.handleReplace, http.MethodPut)
	apihttp.Route(r, "/clientes/{id}", h.handleDelete, http.MethodDelete)
}

type clientRequest struct {
	TaxID             string  `json:"cnpj" validate:"required,cnpj,max=18"`
	CompanyName       string  `json:"nome_empresa" validate:"required,max=255"`
	SiteName          *string `json:"nome_da_unidade" validate:"omitempty,max=255"`
	LogoURL           *string `json:"url_logo" validate:"omitempty,max=2048"`
	Address           *string `json:"endereco" validate:"omitempty,max=500"`
	City              *string `json:"cidade" validate:"omitempty,max=100"`
	State             *string `json:"estado"`
	Subgroup          *string `json:"subgrupo" validate:"omitempty,max=50"`
	Class             *string `json:"classe" validate:"omitempty,max=50"`
	ContractModality  *string `json:"modalidade_contrato" validate:"omitempty,max=100"`
	DistributorID     *string `json:"id_unico_concessionaria" validate:"omitempty,max=50"`
	HasDistributedGen bool    `json:"has_geracao_distribuida"`
}

func (req clientRequest) fields() clients.Fields {
	return clients.Fields{
		TaxID:             req.TaxID,
		CompanyName:       req.CompanyName,
		SiteName:          req.SiteName,
		LogoURL:           req.LogoURL,
		Address:           req.Address,
		City:              req.City,
		State:             req.State,
		Subgroup:          req.Subgroup,
		Class:             req.Class,
		ContractModality:  req.ContractModality,
		DistributorID:     req.DistributorID,
		HasDistributedGen: req.HasDistributedGen,
	}
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := apihttp.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	client, err := h.service.Create(r.Context(), req.fields())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusCreated, client)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := apihttp.Paging(r, 0, clients.DefaultListLimit)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	list, err := h.service.List(r.Context(), clients.Page{Skip: skip, Limit: limit})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := apihttp.PathID(r, "id", "id_cliente")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := apihttp.PathID(r, "id", "id_cliente")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	var req clientRequest
	if err := apihttp.DecodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	client, err := h.service.Replace(r.Context(), id, req.fields())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	apihttp.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := apihttp.PathID(r, "id", "id_cliente")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errs, ok := validation.As(err); ok {
		apihttp.WriteValidation(w, errs)
		return
	}
	switch {
	case errors.Is(err, clients.ErrDuplicateTaxID):
		apihttp.WriteError(w, http.StatusBadRequest, messageDuplicateTaxID)
	case errors.Is(err, clients.ErrNotFound):
		apihttp.WriteError(w, http.StatusNotFound, messageNotFound)
	default:
		apihttp.WriteInternal(w, r, h.logger, err)
	}
}

package application

import (
	"context"
	"errors"
	"time"

	clients "energia-cloud/internal/clients/domain"
	invoices "energia-cloud/internal/invoices/domain"
	"energia-cloud/internal/observability/metrics"
)

// ClientLookup resolves the owner of a ledger.
type ClientLookup interface {
	Get(ctx context.Context, id int64) (*clients.Client, error)
}

// Service handles invoice ledger use cases.
type Service struct {
	repo    invoices.Repository
	clients ClientLookup
}

// NewService constructs an invoice service.
func NewService(repo invoices.Repository, lookup ClientLookup) (*Service, error) {
	if repo == nil {
		return nil, errors.New("invoice service: nil repository")
	}
	if lookup == nil {
		return nil, errors.New("invoice service: nil client lookup")
	}
	return &Service{repo: repo, clients: lookup}, nil
}

// Create appends an invoice to a client's ledger.
func (s *Service) Create(ctx context.Context, clientID int64, draft invoices.Draft) (*invoices.Invoice, error) {
	start := time.Now()
	if err := draft.Validate(); err != nil {
		metrics.ObserveInvoiceCreate(metrics.ResultRejected, time.Since(start))
		return nil, err
	}
	created, err := s.repo.Create(ctx, draft.Build(clientID))
	if err != nil {
		result := metrics.ResultError
		if errors.Is(err, invoices.ErrClientNotFound) {
			result = metrics.ResultNotFound
		}
		metrics.ObserveInvoiceCreate(result, time.Since(start))
		return nil, err
	}
	metrics.ObserveInvoiceCreate(metrics.ResultSuccess, time.Since(start))
	return created, nil
}

// Ledger returns a client and its invoices ordered by billing date.
func (s *Service) Ledger(ctx context.Context, clientID int64) (*clients.Client, []invoices.Invoice, error) {
	client, err := s.clients.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) {
			return nil, nil, invoices.ErrClientNotFound
		}
		return nil, nil, err
	}
	list, err := s.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, nil, err
	}
	return client, list, nil
}

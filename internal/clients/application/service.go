package application

import (
	"context"
	"errors"

	clients "energia-cloud/internal/clients/domain"
	invoices "energia-cloud/internal/invoices/domain"
	"energia-cloud/internal/observability/metrics"
)

// InvoiceLister loads invoices to embed in client responses.
type InvoiceLister interface {
	ListByClients(ctx context.Context, clientIDs []int64) (map[int64][]invoices.Invoice, error)
}

// Service handles client registry use cases.
type Service struct {
	repo     clients.Repository
	invoices InvoiceLister
}

// NewService constructs a client service.
func NewService(repo clients.Repository, invoiceLister InvoiceLister) (*Service, error) {
	if repo == nil {
		return nil, errors.New("client service: nil repository")
	}
	if invoiceLister == nil {
		return nil, errors.New("client service: nil invoice lister")
	}
	return &Service{repo: repo, invoices: invoiceLister}, nil
}

// Create registers a client. The tax ID must be unique.
func (s *Service) Create(ctx context.Context, fields clients.Fields) (*clients.Client, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		metrics.IncClientOperation("create", metrics.ResultRejected)
		return nil, err
	}
	client, err := s.repo.Create(ctx, fields)
	if err != nil {
		metrics.IncClientOperation("create", resultOf(err))
		return nil, err
	}
	metrics.IncClientOperation("create", metrics.ResultSuccess)
	return client, nil
}

// List returns one page of clients ordered by id, each with its invoices.
// A zero limit yields an empty page.
func (s *Service) List(ctx context.Context, page clients.Page) ([]clients.Client, error) {
	if page.Skip < 0 {
		page.Skip = 0
	}
	if page.Limit < 0 {
		page.Limit = clients.DefaultListLimit
	}
	list, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, err
	}
	if err := s.attachInvoices(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// Get returns one client with its invoices.
func (s *Service) Get(ctx context.Context, id int64) (*clients.Client, error) {
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withInvoices(ctx, client)
}

// Replace overwrites every mutable field of a client.
func (s *Service) Replace(ctx context.Context, id int64, fields clients.Fields) (*clients.Client, error) {
	fields = fields.Normalize()
	if err := fields.Validate(); err != nil {
		metrics.IncClientOperation("replace", metrics.ResultRejected)
		return nil, err
	}
	client, err := s.repo.Replace(ctx, id, fields)
	if err != nil {
		metrics.IncClientOperation("replace", resultOf(err))
		return nil, err
	}
	metrics.IncClientOperation("replace", metrics.ResultSuccess)
	return s.withInvoices(ctx, client)
}

// Delete removes a client together with its invoices.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		metrics.IncClientOperation("delete", resultOf(err))
		return err
	}
	metrics.IncClientOperation("delete", metrics.ResultSuccess)
	return nil
}

func (s *Service) withInvoices(ctx context.Context, client *clients.Client) (*clients.Client, error) {
	list := []clients.Client{*client}
	if err := s.attachInvoices(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *Service) attachInvoices(ctx context.Context, list []clients.Client) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(list))
	for _, client := range list {
		ids = append(ids, client.ID)
	}
	grouped, err := s.invoices.ListByClients(ctx, ids)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Invoices = grouped[list[i].ID]
		if list[i].Invoices == nil {
			list[i].Invoices = []invoices.Invoice{}
		}
	}
	return nil
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, clients.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, clients.ErrDuplicateTaxID):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

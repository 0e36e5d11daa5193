package memory

import (
	"context"
	"sort"

	clients "energia-cloud/internal/clients/domain"
	invoices "energia-cloud/internal/invoices/domain"
)

// ClientRepository implements clients.Repository over a Store.
type ClientRepository struct {
	store *Store
}

// Create inserts a client, rejecting a duplicate cnpj.
func (r *ClientRepository) Create(ctx context.Context, fields clients.Fields) (*clients.Client, error) {
	_ = ctx
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taxIDTaken(fields.TaxID, 0) {
		return nil, clients.ErrDuplicateTaxID
	}
	s.nextClientID++
	now := s.now()
	client := clients.Client{
		ID:        s.nextClientID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	client.Apply(fields)
	s.clients[client.ID] = client
	return detached(client), nil
}

// List returns a page ordered by id.
func (r *ClientRepository) List(ctx context.Context, page clients.Page) ([]clients.Client, error) {
	_ = ctx
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.sortedClientIDs()
	result := make([]clients.Client, 0)
	for i := page.Skip; i < len(ids) && len(result) < page.Limit; i++ {
		result = append(result, *detached(s.clients[ids[i]]))
	}
	return result, nil
}

// Get loads one client.
func (r *ClientRepository) Get(ctx context.Context, id int64) (*clients.Client, error) {
	_ = ctx
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[id]
	if !ok {
		return nil, clients.ErrNotFound
	}
	return detached(client), nil
}

// Replace overwrites the mutable fields of a client.
func (r *ClientRepository) Replace(ctx context.Context, id int64, fields clients.Fields) (*clients.Client, error) {
	_ = ctx
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.clients[id]
	if !ok {
		return nil, clients.ErrNotFound
	}
	if s.taxIDTaken(fields.TaxID, id) {
		return nil, clients.ErrDuplicateTaxID
	}
	client.Apply(fields)
	client.UpdatedAt = s.now()
	s.clients[id] = client
	return detached(client), nil
}

// Delete removes a client and its invoices.
func (r *ClientRepository) Delete(ctx context.Context, id int64) error {
	_ = ctx
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[id]; !ok {
		return clients.ErrNotFound
	}
	delete(s.clients, id)
	for invoiceID, inv := range s.invoices {
		if inv.ClientID == id {
			delete(s.invoices, invoiceID)
		}
	}
	return nil
}

// Count returns the number of stored clients.
func (r *ClientRepository) Count(ctx context.Context) (int64, error) {
	_ = ctx
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.clients)), nil
}

func (s *Store) taxIDTaken(taxID string, exceptID int64) bool {
	for id, client := range s.clients {
		if id != exceptID && client.TaxID == taxID {
			return true
		}
	}
	return false
}

func (s *Store) sortedClientIDs() []int64 {
	ids := make([]int64, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func detached(client clients.Client) *clients.Client {
	client.Invoices = []invoices.Invoice{}
	return &client
}

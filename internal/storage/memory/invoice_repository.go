package memory

import (
	"context"
	"sort"

	invoices "energia-cloud/internal/invoices/domain"
)

// InvoiceRepository implements invoices.Repository over a Store.
type InvoiceRepository struct {
	store *Store
}

// Create appends an invoice; the owner must exist.
func (r *InvoiceRepository) Create(ctx context.Context, inv invoices.Invoice) (*invoices.Invoice, error) {
	_ = ctx
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.clients[inv.ClientID]; !ok {
		return nil, invoices.ErrClientNotFound
	}
	s.nextInvoiceID++
	inv.ID = s.nextInvoiceID
	inv.BillingDate.Time = inv.BillingDate.UTC()
	s.invoices[inv.ID] = inv
	return &inv, nil
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

// ListByClients groups the invoices of the given clients by client id.
func (r *InvoiceRepository) ListByClients(ctx context.Context, clientIDs []int64) (map[int64][]invoices.Invoice, error) {
	_ = ctx
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(clientIDs))
	for _, id := range clientIDs {
		wanted[id] = struct{}{}
	}
	result := make(map[int64][]invoices.Invoice, len(clientIDs))
	for _, inv := range s.sortedInvoices() {
		if _, ok := wanted[inv.ClientID]; ok {
			result[inv.ClientID] = append(result[inv.ClientID], inv)
		}
	}
	return result, nil
}

// Count returns the number of stored invoices.
func (r *InvoiceRepository) Count(ctx context.Context) (int64, error) {
	_ = ctx
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.invoices)), nil
}

func (s *Store) sortedInvoices() []invoices.Invoice {
	list := make([]invoices.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		list = append(list, inv)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].BillingDate.Equal(list[j].BillingDate.Time) {
			return list[i].BillingDate.Before(list[j].BillingDate.Time)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// Package memory keeps clients and invoices in process memory. It mirrors the
// Postgres schema rules (unique cnpj, invoice foreign key, cascade delete) and
// backs handler tests and local demos.
package memory

import (
	"sync"
	"time"

	clients "energia-cloud/internal/clients/domain"
	invoices "energia-cloud/internal/invoices/domain"
)

// Store holds both tables behind one lock.
type Store struct {
	mu sync.RWMutex

	clients       map[int64]clients.Client
	invoices      map[int64]invoices.Invoice
	nextClientID  int64
	nextInvoiceID int64
	now           func() time.Time
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		clients:  make(map[int64]clients.Client),
		invoices: make(map[int64]invoices.Invoice),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Clients returns the client repository view.
func (s *Store) Clients() *ClientRepository {
	return &ClientRepository{store: s}
}

// Invoices returns the invoice repository view.
func (s *Store) Invoices() *InvoiceRepository {
	return &InvoiceRepository{store: s}
}

// Summary returns the dashboard reader view.
func (s *Store) Summary() *SummaryReader {
	return &SummaryReader{store: s}
}

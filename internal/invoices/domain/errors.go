package invoices

import "errors"

// ErrClientNotFound is returned when the owning client does not exist.
var ErrClientNotFound = errors.New("invoices: client not found")

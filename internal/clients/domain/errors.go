package clients

import "errors"

var (
	// ErrNotFound indicates a missing client record.
	ErrNotFound = errors.New("clients: not found")
	// ErrDuplicateTaxID is returned when another client already uses the CNPJ.
	ErrDuplicateTaxID = errors.New("clients: duplicate cnpj")
)

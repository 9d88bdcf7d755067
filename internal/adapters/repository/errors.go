package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrNotFound           = errors.New("opportunity not found")
	ErrInvalidOpportunity = errors.New("invalid opportunity")
	ErrCatalogFull        = errors.New("catalog full")
)

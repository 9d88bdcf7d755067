package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMissingUser = errors.New("user id required")
)

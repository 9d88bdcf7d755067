package personalization

import "errors"

// Sentinel kinds for engine errors.
var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

package api

import (
	"time"

	"github.com/okian/ladder/pkg/logger"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit allows requests per window per client IP. A zero request
// count disables limiting.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(s *Server) {
		if requests >= 0 && window > 0 {
			s.rateRequests = requests
			s.rateWindow = window
		}
	}
}

// WithMaxCandidates caps the candidate list accepted by the rank endpoint.
func WithMaxCandidates(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxCandidates = n
		}
	}
}

// WithMaxFeedLimit caps the feed limit query parameter.
func WithMaxFeedLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxFeedLimit = n
		}
	}
}

// WithLogger sets a custom logger for the handlers.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCORS allows browser calls from origins. An empty list disables CORS
// handling.
func WithCORS(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

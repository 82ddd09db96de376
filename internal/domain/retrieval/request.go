package retrieval

import (
	"fmt"

	"github.com/kailas-cloud/georag/internal/domain/constraint"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length.
	MaxQueryLength = 4096
	DefaultTopK    = 10
)

// Request is a validated retrieval query.
type Request struct {
	query      string
	constraint constraint.Constraint
	topK       int
}

// NewRequest validates and normalizes retrieval parameters.
// topK <= 0 selects the configured default; no upper bound is enforced at
// this layer.
func NewRequest(query string, c constraint.Constraint, topK int) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("query is required")
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	return Request{query: query, constraint: c, topK: topK}, nil
}

// Query returns the free-text query.
func (r *Request) Query() string { return r.query }

// Constraint returns the explicit spatial constraint (zero value = none).
func (r *Request) Constraint() constraint.Constraint { return r.constraint }

// TopK returns the caller's result cap, or 0 when the default applies.
func (r *Request) TopK() int { return r.topK }

// WithConstraint returns a copy of the request carrying the given constraint.
// Used when a location was extracted from the query text.
func (r *Request) WithConstraint(c constraint.Constraint) Request {
	out := *r
	out.constraint = c
	return out
}

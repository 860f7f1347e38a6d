// Package store persists calculation results for later inspection. Only
// the CLI layer touches it; the engines never perform I/O.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Record is one saved calculation: the request that produced it and the
// full result, both as JSON.
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"` // saccr, pfe, im, var
	CreatedAt time.Time       `json:"created_at"`
	Request   json.RawMessage `json:"request"`
	Result    json.RawMessage `json:"result"`
}

// Store is the calculation-result store.
type Store interface {
	// Save persists a calculation and returns its generated ID.
	Save(ctx context.Context, kind string, request, result interface{}) (string, error)
	// Get returns a saved calculation by ID.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns recent calculations, newest first, optionally
	// filtered by kind. A non-positive limit returns everything.
	List(ctx context.Context, kind string, limit int) ([]Record, error)
	// Close releases the underlying resources.
	Close() error
}

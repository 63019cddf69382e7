// Package store persists shared diagrams for the HTTP service mode.
//
// A shared diagram is the generated text plus its encoded token, addressable
// by a short ID so a URL can be handed around without re-uploading the
// schema. Two backends exist: an in-memory store (default, also used by
// tests) and a MongoDB store for deployments that need persistence across
// restarts.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no diagram exists under the requested ID.
var ErrNotFound = errors.New("diagram not found")

// Diagram is one shared diagram record.
type Diagram struct {
	ID        string    `bson:"_id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Text      string    `bson:"text" json:"text"`
	Token     string    `bson:"token" json:"token"`
	Encoding  string    `bson:"encoding" json:"encoding"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Store persists shared diagrams.
type Store interface {
	// Put stores a diagram under its ID, overwriting any previous record.
	Put(ctx context.Context, d *Diagram) error

	// Get retrieves a diagram by ID; ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Diagram, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

package storage

import (
	"context"

	"github.com/matzehuels/assetcanvas/pkg/hierarchy"
)

// Null is a no-op backend that never stores anything.
// Useful for testing or when persistence should be disabled.
type Null struct{}

// NewNull creates a null backend.
func NewNull() *Null {
	return &Null{}
}

// Load always reports NOT_FOUND.
func (Null) Load(context.Context) (*hierarchy.Enterprise, error) {
	return nil, notFound("null", "default")
}

// Save does nothing.
func (Null) Save(context.Context, *hierarchy.Enterprise) error { return nil }

// Clear does nothing.
func (Null) Clear(context.Context) error { return nil }

// Close does nothing.
func (Null) Close() error { return nil }

// Name returns "null".
func (Null) Name() string { return "null" }

// Ensure Null implements Backend.
var _ Backend = (*Null)(nil)

// Package credentialstore persists named secrets for credential types.
//
// A credential (for example a pair of session cookies) is broken into
// individually named items; the store only ever sees the flat item list, so
// new credential types need no schema changes.
package credentialstore

import (
	"context"
	"errors"
)

var (
	// ErrItemNotFound is returned when a credential item expected to exist
	// is not stored.
	ErrItemNotFound = errors.New("credential item not found")
	// ErrInvalidData is returned when stored data cannot be decoded.
	ErrInvalidData = errors.New("credential item holds invalid data")
	// ErrInvalidAttributes is returned when a credential item with missing
	// attributes (such as an empty value) is handed to Store.
	ErrInvalidAttributes = errors.New("credential item has invalid attributes")
)

// Item is one named part of a credential.
type Item struct {
	// Name is the lookup key. It must be unique across all stored items.
	Name  string
	Value string
	// Description is stored alongside the secret for operator forensics.
	Description string
}

// Storable is implemented by credential types that can round-trip through
// a Store.
type Storable interface {
	// StorageItems returns the named items making up the credential,
	// carrying its current values.
	StorageItems() []Item
	// RestoreItems populates the credential from previously stored items.
	RestoreItems(items []Item) error
}

// Store is a durable, keyed secret store.
//
// Store (the write path) must never silently swallow an error: a freshly
// harvested credential that fails to persist is a caller-visible condition.
// IsStored may treat ErrItemNotFound as an ordinary false.
type Store interface {
	// IsStored reports whether every item of the credential exists.
	IsStored(ctx context.Context, c Storable) (bool, error)
	// Store inserts or updates every item of the credential.
	Store(ctx context.Context, c Storable) error
	// Restore populates the credential from storage.
	Restore(ctx context.Context, c Storable) error
	// Clear removes every item of the credential.
	Clear(ctx context.Context, c Storable) error
}

// Package storage provides abstractions for persisting a ledger.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/splitledger/internal/ledger"
)

var (
	// ErrDocumentNotFound is returned by Load when nothing has been saved at
	// the storage location.
	ErrDocumentNotFound = errors.New("ledger document not found")

	// ErrMalformedDocument is returned by Load when the stored ledger cannot
	// be decoded.
	ErrMalformedDocument = errors.New("malformed ledger document")
)

// Store defines the interface for ledger persistence.
// This abstraction allows swapping storage backends (JSON file, SQLite)
// without changing the service layer.
type Store interface {
	// Save persists the complete ledger, replacing whatever was stored.
	Save(ctx context.Context, l *ledger.Ledger) error

	// Load reads the stored ledger.
	// Returns ErrDocumentNotFound or ErrMalformedDocument (possibly wrapped)
	// when no usable ledger is stored.
	Load(ctx context.Context) (*ledger.Ledger, error)

	// Close releases any resources held by the store.
	Close() error
}

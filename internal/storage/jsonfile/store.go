package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store with a JSON file.
type Store struct {
	path string
	opts []ledger.Option
}

// New creates a Store for the file at path. Ledgers it loads are configured
// with opts.
func New(path string, opts ...ledger.Option) *Store {
	return &Store{path: path, opts: opts}
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Save writes the whole ledger to the file, creating parent directories.
func (s *Store) Save(ctx context.Context, l *ledger.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

// Load reads the ledger from the file.
func (s *Store) Load(ctx context.Context) (*ledger.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", storage.ErrDocumentNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return Unmarshal(data, s.opts...)
}

// Close is a no-op; the file is opened and closed by each call.
func (s *Store) Close() error {
	return nil
}

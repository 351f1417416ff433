package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("Load before any Save reports not found", func(t *testing.T) {
		_, err := store.Load(ctx)
		if !errors.Is(err, storage.ErrDocumentNotFound) {
			t.Errorf("Expected ErrDocumentNotFound, got %v", err)
		}
	})

	t.Run("Save then Load reproduces the ledger", func(t *testing.T) {
		original := ledger.New()
		for _, name := range []string{"Diana", "Charlie"} {
			if err := original.AddParticipant(name); err != nil {
				t.Fatalf("AddParticipant failed: %v", err)
			}
		}
		if _, err := original.RecordExpense("Steak", d("30"), models.SplitEqual, nil); err != nil {
			t.Fatalf("RecordExpense failed: %v", err)
		}
		shares := models.Shares{
			{Participant: "Diana", Amount: d("12.75")},
			{Participant: "Eve", Amount: d("7.25")},
		}
		if _, err := original.RecordExpense("Salad", d("20"), models.SplitCustom, shares); !errors.Is(err, models.ErrUnknownParticipant) {
			t.Fatalf("Expected ErrUnknownParticipant, got %v", err)
		}

		if err := store.Save(ctx, original); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		retrieved, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		if diff := cmp.Diff(original.Balances(), retrieved.Balances()); diff != "" {
			t.Errorf("Balances mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(original.Expenses(), retrieved.Expenses()); diff != "" {
			t.Errorf("Expenses mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Save replaces the previous snapshot", func(t *testing.T) {
		smaller := ledger.New()
		if err := smaller.AddParticipant("Frank"); err != nil {
			t.Fatalf("AddParticipant failed: %v", err)
		}
		if err := store.Save(ctx, smaller); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		retrieved, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got := retrieved.Participants(); len(got) != 1 || got[0] != "Frank" {
			t.Errorf("Participants mismatch: got %v, want [Frank]", got)
		}
		if len(retrieved.Expenses()) != 0 {
			t.Errorf("Expected no expenses, got %d", len(retrieved.Expenses()))
		}
	})

	t.Run("Load reports corrupt values as malformed", func(t *testing.T) {
		if _, err := store.db.ExecContext(ctx, "UPDATE participants SET balance = 'lots'"); err != nil {
			t.Fatalf("Failed to corrupt row: %v", err)
		}
		_, err := store.Load(ctx)
		if !errors.Is(err, storage.ErrMalformedDocument) {
			t.Errorf("Expected ErrMalformedDocument, got %v", err)
		}
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	l := ledger.New()
	if err := l.AddParticipant("Alice"); err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if err := first.Save(ctx, l); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer second.Close()

	retrieved, err := second.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !retrieved.HasParticipant("Alice") {
		t.Errorf("Expected Alice after reopening, got %v", retrieved.Participants())
	}
}

func TestNew_NotADatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	if err := os.WriteFile(dbPath, []byte("these are not the bytes of a database file, just plain text"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	store, err := New(dbPath)
	if err == nil {
		store.Close()
		t.Fatal("Expected an error opening a text file as a database")
	}
	if !errors.Is(err, storage.ErrMalformedDocument) {
		t.Errorf("Expected ErrMalformedDocument, got %v", err)
	}
}

// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - Balance: a participant's name and running balance
//   - Expense: an immutable record of a shared cost and how it was split
//   - Share: one participant's portion of a custom split
//   - ExpenseSummary: an expense enriched for display
//
// Participants are identified by name strings. A ledger holds at most one
// participant per name.
//
// # Amounts
//
// All currency values are decimal.Decimal. Sums of shares are compared
// exactly, so 0.1 + 0.2 equals 0.3.
//
// # Errors
//
// errors.go holds the sentinel errors reported by ledger operations. None of
// them are fatal; callers test for them with errors.Is and errors.As.
package models

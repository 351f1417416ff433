package models

import "github.com/shopspring/decimal"

// Balance represents one participant's running balance.
type Balance struct {
	// Name is the unique participant name.
	Name string

	// Amount is the signed running balance. It starts at zero and every
	// expense the participant shares in subtracts their portion.
	Amount decimal.Decimal
}

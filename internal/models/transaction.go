package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransactionKindDeposit  = "deposit"
	TransactionKindWithdraw = "withdraw"
)

type Transaction struct {
	// Assigned by storage, zero until persisted
	ID int64

	AccountNumber int64

	// Fee adjusted amount actually moved, not the amount requested
	Amount    decimal.Decimal
	Kind      string
	CreatedAt time.Time
}

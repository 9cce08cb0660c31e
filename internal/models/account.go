package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TierBasic = "basic"
	TierGold  = "gold"
)

// Balance above which an account is classified as gold
var goldThreshold = decimal.NewFromInt(1000)

type Account struct {
	Number    int64
	Balance   decimal.Decimal
	Tier      string
	CreatedAt time.Time

	// nil means the account is active
	DeletedAt *time.Time

	// Chronologically ordered, append only
	Transactions []Transaction
}

func (a Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// TierForBalance classifies a balance into an account tier.
// Gold requires the balance to be strictly greater than the threshold,
// so exactly 1000 is still basic.
func TierForBalance(balance decimal.Decimal) string {
	if balance.GreaterThan(goldThreshold) {
		return TierGold
	}
	return TierBasic
}

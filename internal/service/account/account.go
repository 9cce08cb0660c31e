// Package account implements the account policy engine: the deposit and
// withdrawal rules, the tier dependent withdrawal fee and the transaction
// records every balance change leaves behind.
package account

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/avdeev/bankacc/internal/apperrors"
	"github.com/avdeev/bankacc/internal/models"
	"github.com/avdeev/bankacc/internal/repository"
	"github.com/avdeev/bankacc/internal/service/locker"
)

// Basic tier withdrawals deduct the requested amount times this multiplier
var feeMultiplier = decimal.NewFromFloat(1.1)

// Recomputes and persists the account tier after a balance change.
// Implemented by the management service.
type reclassifier interface {
	ReclassifyTier(ctx context.Context, number int64, balance decimal.Decimal) error
}

type AccountService struct {
	storage repository.Storage
	tiers   reclassifier

	// Shared with the management service
	locks *locker.AccountLocker
}

func NewService(storage repository.Storage, tiers reclassifier, locks *locker.AccountLocker) *AccountService {
	return &AccountService{
		storage: storage,
		tiers:   tiers,
		locks:   locks,
	}
}

// GetAccount returns the active account with its transaction history.
// Returns apperrors.ErrAccountNotFound if the account is missing or soft deleted.
func (s *AccountService) GetAccount(ctx context.Context, number int64) (models.Account, error) {
	return s.storage.Accounts().GetActive(ctx, number)
}

// Deposit adds amount to the account balance, records a deposit transaction
// and reclassifies the tier from the new balance.
// The caller is responsible for rejecting non positive amounts.
// Returns the new balance rounded to 2 decimal places; full precision is persisted.
func (s *AccountService) Deposit(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error) {
	balance, err := s.mutate(ctx, number, func(account *models.Account) error {
		account.Balance = account.Balance.Add(amount)
		account.Transactions = append(account.Transactions, models.Transaction{
			AccountNumber: number,
			Amount:        amount,
			Kind:          models.TransactionKindDeposit,
		})

		return nil
	})

	if err != nil {
		return decimal.Zero, fmt.Errorf("can't deposit. Err: %w", err)
	}

	return balance.Round(2), nil
}

// Withdraw deducts the fee adjusted amount from the account balance, records
// a withdraw transaction for the amount actually deducted and reclassifies
// the tier from the new balance.
//
// Basic tier deducts amount * 1.1, gold tier deducts amount exactly. The
// sufficiency check runs before any deduction: a basic account needs headroom
// for principal and fee, a gold account for principal only. On failure
// nothing is persisted.
func (s *AccountService) Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error) {
	balance, err := s.mutate(ctx, number, func(account *models.Account) error {
		deducted := amount
		if account.Tier == models.TierBasic {
			deducted = amount.Mul(feeMultiplier)
		}

		if account.Balance.LessThan(amount) || account.Balance.LessThan(deducted) {
			return apperrors.ErrInsufficientFunds
		}

		account.Balance = account.Balance.Sub(deducted)
		account.Transactions = append(account.Transactions, models.Transaction{
			AccountNumber: number,
			Amount:        deducted,
			Kind:          models.TransactionKindWithdraw,
		})

		return nil
	})

	if err != nil {
		return decimal.Zero, fmt.Errorf("can't withdraw. Err: %w", err)
	}

	return balance.Round(2), nil
}

// mutate runs a balance changing round under the account lock: load the
// active account, apply fn, persist balance and new transactions atomically,
// then reclassify the tier from the new balance.
func (s *AccountService) mutate(ctx context.Context, number int64, fn func(*models.Account) error) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := s.locks.WithLock(number, func() error {
		err := s.storage.InTx(ctx, func(store repository.Storage) error {
			account, err := store.Accounts().GetActive(ctx, number)
			if err != nil {
				return err
			}

			if err := fn(&account); err != nil {
				return err
			}

			account, err = store.Accounts().Replace(ctx, account)
			if err != nil {
				return err
			}

			balance = account.Balance
			return nil
		})
		if err != nil {
			return err
		}

		return s.tiers.ReclassifyTier(ctx, number, balance)
	})

	return balance, err
}

// Package management implements fleet wide account operations: account
// lifecycle (create, soft delete), aggregate queries over the whole account
// set and the tier reclassification policy applied after balance changes.
package management

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avdeev/bankacc/internal/apperrors"
	"github.com/avdeev/bankacc/internal/models"
	"github.com/avdeev/bankacc/internal/repository"
	"github.com/avdeev/bankacc/internal/service/locker"
)

type ManagementService struct {
	storage repository.Storage

	// Shared with the account service, so soft delete can't interleave
	// with a deposit or withdrawal on the same account
	locks *locker.AccountLocker
}

func NewService(storage repository.Storage, locks *locker.AccountLocker) *ManagementService {
	return &ManagementService{
		storage: storage,
		locks:   locks,
	}
}

// CreateAccount stores a new account seeded from the draft (number, balance,
// tier) with empty transaction history.
// Returns apperrors.ErrAccountAlreadyExists if the number is taken.
func (s *ManagementService) CreateAccount(ctx context.Context, draft models.Account) (models.Account, error) {
	if draft.Tier == "" {
		draft.Tier = models.TierBasic
	}
	draft.Transactions = nil

	account, err := s.storage.Accounts().Insert(ctx, draft)
	if err != nil {
		return account, fmt.Errorf("can't create account. Err: %w", err)
	}

	return account, nil
}

// RemoveAccount soft deletes the account: sets the delete marker and keeps
// all stored data.
// Returns apperrors.ErrAccountNotFound if no account matches the number and
// apperrors.ErrAccountAlreadyDeleted if the marker is already set.
func (s *ManagementService) RemoveAccount(ctx context.Context, number int64) error {
	err := s.locks.WithLock(number, func() error {
		account, err := s.storage.Accounts().GetAny(ctx, number)
		if err != nil {
			return err
		}

		if account.IsDeleted() {
			return apperrors.ErrAccountAlreadyDeleted
		}

		now := time.Now()
		account.DeletedAt = &now

		_, err = s.storage.Accounts().Replace(ctx, account)
		return err
	})

	if err != nil {
		return fmt.Errorf("can't remove account. Err: %w", err)
	}

	return nil
}

// ReclassifyTier recomputes the account tier from the balance and persists it.
// It is its own step over the latest persisted state: the account is
// re-resolved and apperrors.ErrAccountNotFound returned if it vanished.
// Callers are expected to hold the account lock already, so it must not lock.
func (s *ManagementService) ReclassifyTier(ctx context.Context, number int64, balance decimal.Decimal) error {
	account, err := s.storage.Accounts().GetActive(ctx, number)
	if err != nil {
		return fmt.Errorf("can't reclassify account tier. Err: %w", err)
	}

	account.Tier = models.TierForBalance(balance)

	_, err = s.storage.Accounts().Replace(ctx, account)
	if err != nil {
		return fmt.Errorf("can't reclassify account tier. Err: %w", err)
	}

	return nil
}

func (s *ManagementService) CountAccounts(ctx context.Context) (int, error) {
	accounts, err := s.storage.Accounts().ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("can't count accounts. Err: %w", err)
	}

	return len(accounts), nil
}

// TotalBalance sums balances over all active accounts.
func (s *ManagementService) TotalBalance(ctx context.Context) (decimal.Decimal, error) {
	accounts, err := s.storage.Accounts().ListActive(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("can't calculate total balance. Err: %w", err)
	}

	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}

	return total, nil
}

func (s *ManagementService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.storage.Accounts().ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't list accounts. Err: %w", err)
	}

	return accounts, nil
}

func (s *ManagementService) ListDeletedAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.storage.Accounts().ListDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't list deleted accounts. Err: %w", err)
	}

	return accounts, nil
}

// ListAllTransactions reports every transaction of every active account
// ordered by creation time across the whole fleet.
func (s *ManagementService) ListAllTransactions(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.storage.Accounts().ListAllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't list transactions. Err: %w", err)
	}

	return transactions, nil
}

package repository

import (
	"context"

	"github.com/avdeev/bankacc/internal/models"
)

// Account repository interface
type AccountRepo interface {
	// Insert new account with its draft balance and tier
	// If account with the number exists already has to return apperrors.ErrAccountAlreadyExists
	Insert(ctx context.Context, account models.Account) (models.Account, error)

	// Get active account by number, transaction history included
	// If no active account matches must return apperrors.ErrAccountNotFound
	GetActive(ctx context.Context, number int64) (models.Account, error)

	// Get account by number whether it is soft deleted or not
	// If nothing matches must return apperrors.ErrAccountNotFound
	GetAny(ctx context.Context, number int64) (models.Account, error)

	// List accounts by soft delete status, without transaction history
	ListActive(ctx context.Context) ([]models.Account, error)
	ListDeleted(ctx context.Context) ([]models.Account, error)

	// Replace stored account state (balance, tier, delete marker) and persist
	// any transactions that are not stored yet (zero ID). Stored transactions
	// are immutable and never rewritten.
	// If no account matches must return apperrors.ErrAccountNotFound
	Replace(ctx context.Context, account models.Account) (models.Account, error)

	// Every transaction of every active account ordered by creation time
	// ascending across the whole fleet
	ListAllTransactions(ctx context.Context) ([]models.Transaction, error)
}

// Storage aggregates repositories and allows to run them in single db transaction
type Storage interface {
	Accounts() AccountRepo

	// Run fn within db transaction
	// Returned error rolls the transaction back, nil commits it
	InTx(ctx context.Context, fn func(Storage) error) error
}

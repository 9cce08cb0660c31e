package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avdeev/bankacc/internal/apperrors"
	"github.com/avdeev/bankacc/internal/models"
)

type AccountRepo struct {
	DB DBTX
}

const insertAccount = `-- name: InsertAccount
INSERT INTO accounts (number, balance, tier)
VALUES ($1, $2, $3)
RETURNING number, balance, tier, created_at, deleted_at
`

func (r *AccountRepo) Insert(ctx context.Context, account models.Account) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, insertAccount, account.Number, account.Balance, account.Tier)
	stored, err := pgx.CollectOneRow(rows, rowToAccount)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return stored, apperrors.ErrAccountAlreadyExists
		}

		return stored, fmt.Errorf("db error: %w", err)
	}

	return stored, nil
}

const getActiveAccount = `-- name: GetActiveAccount
SELECT number, balance, tier, created_at, deleted_at FROM accounts
WHERE number = $1 AND deleted_at IS NULL
`

func (r *AccountRepo) GetActive(ctx context.Context, number int64) (models.Account, error) {
	return r.getOne(ctx, getActiveAccount, number)
}

const getAnyAccount = `-- name: GetAnyAccount
SELECT number, balance, tier, created_at, deleted_at FROM accounts
WHERE number = $1
`

func (r *AccountRepo) GetAny(ctx context.Context, number int64) (models.Account, error) {
	return r.getOne(ctx, getAnyAccount, number)
}

func (r *AccountRepo) getOne(ctx context.Context, sql string, number int64) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, sql, number)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrAccountNotFound
	case err != nil:
		return account, fmt.Errorf("db error: %w", err)
	}

	account.Transactions, err = r.listAccountTransactions(ctx, number)
	if err != nil {
		return account, err
	}

	return account, nil
}

const listActiveAccounts = `-- name: ListActiveAccounts
SELECT number, balance, tier, created_at, deleted_at FROM accounts
WHERE deleted_at IS NULL
ORDER BY number
`

const listDeletedAccounts = `-- name: ListDeletedAccounts
SELECT number, balance, tier, created_at, deleted_at FROM accounts
WHERE deleted_at IS NOT NULL
ORDER BY number
`

func (r *AccountRepo) ListActive(ctx context.Context) ([]models.Account, error) {
	return r.list(ctx, listActiveAccounts)
}

func (r *AccountRepo) ListDeleted(ctx context.Context) ([]models.Account, error) {
	return r.list(ctx, listDeletedAccounts)
}

func (r *AccountRepo) list(ctx context.Context, sql string) ([]models.Account, error) {
	rows, _ := r.DB.Query(ctx, sql)
	accounts, err := pgx.CollectRows(rows, rowToAccount)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return accounts, nil
}

const replaceAccount = `-- name: ReplaceAccount
UPDATE accounts
SET balance = $2, tier = $3, deleted_at = $4
WHERE number = $1
RETURNING number, balance, tier, created_at, deleted_at
`

const insertTransaction = `-- name: InsertTransaction
INSERT INTO transactions (account_number, amount, kind)
VALUES ($1, $2, $3)
RETURNING id, account_number, amount, kind, created_at
`

// Replace updates the account row and stores transactions the account
// accumulated in memory (zero ID). Stored transactions are immutable and
// left untouched.
func (r *AccountRepo) Replace(ctx context.Context, account models.Account) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, replaceAccount, account.Number, account.Balance, account.Tier, account.DeletedAt)
	stored, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return stored, apperrors.ErrAccountNotFound
	case err != nil:
		return stored, fmt.Errorf("db error: %w", err)
	}

	stored.Transactions = make([]models.Transaction, 0, len(account.Transactions))
	for _, tr := range account.Transactions {
		if tr.ID != 0 {
			stored.Transactions = append(stored.Transactions, tr)
			continue
		}

		rows, _ := r.DB.Query(ctx, insertTransaction, account.Number, tr.Amount, tr.Kind)
		tr, err := pgx.CollectOneRow(rows, rowToTransaction)
		if err != nil {
			return stored, fmt.Errorf("db error: %w", err)
		}

		stored.Transactions = append(stored.Transactions, tr)
	}

	return stored, nil
}

const listAccountTransactions = `-- name: ListAccountTransactions
SELECT id, account_number, amount, kind, created_at FROM transactions
WHERE account_number = $1
ORDER BY created_at, id
`

func (r *AccountRepo) listAccountTransactions(ctx context.Context, number int64) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listAccountTransactions, number)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

const listAllTransactions = `-- name: ListAllTransactions
SELECT t.id, t.account_number, t.amount, t.kind, t.created_at
FROM transactions t
JOIN accounts a ON a.number = t.account_number
WHERE a.deleted_at IS NULL
ORDER BY t.created_at, t.id
`

func (r *AccountRepo) ListAllTransactions(ctx context.Context) ([]models.Transaction, error) {
	rows, _ := r.DB.Query(ctx, listAllTransactions)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.Number, &a.Balance, &a.Tier, &a.CreatedAt, &a.DeletedAt)
	return a, err
}

func rowToTransaction(row pgx.CollectableRow) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(&t.ID, &t.AccountNumber, &t.Amount, &t.Kind, &t.CreatedAt)
	return t, err
}

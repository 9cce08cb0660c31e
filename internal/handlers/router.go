package handlers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/avdeev/bankacc/internal/handlers/middleware"
	"github.com/avdeev/bankacc/internal/logger"
	"github.com/avdeev/bankacc/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	accountService accountService,
	managementService managementService,
	logger logger.Logger,
) http.Handler {
	api := http.NewServeMux()

	api.Handle("POST /accounts", handleCreateAccount(managementService, logger))
	api.Handle("GET /accounts", handleListAccounts(managementService, logger))
	api.Handle("GET /accounts/deleted", handleListDeletedAccounts(managementService, logger))
	api.Handle("GET /accounts/count", handleCountAccounts(managementService, logger))
	api.Handle("GET /accounts/total", handleTotalBalance(managementService, logger))
	api.Handle("GET /accounts/{number}", handleGetAccount(accountService, logger))
	api.Handle("PUT /accounts/{number}/deposit", handleDeposit(accountService, logger))
	api.Handle("PUT /accounts/{number}/withdraw", handleWithdraw(accountService, logger))
	api.Handle("DELETE /accounts/{number}", handleRemoveAccount(managementService, logger))
	api.Handle("GET /transactions", handleListTransactions(managementService, logger))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.RequestIDMiddleware(),
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

// Account policy engine as the handlers see it
type accountService interface {
	// Get active account with its transaction history
	// Has to return apperrors.ErrAccountNotFound if missing or soft deleted
	GetAccount(ctx context.Context, number int64) (models.Account, error)

	// Add amount to the balance, returns new balance rounded to 2 decimal places
	// Has to return apperrors.ErrAccountNotFound if missing or soft deleted
	Deposit(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error)

	// Deduct the fee adjusted amount from the balance
	// Has to return apperrors.ErrInsufficientFunds if the check fails
	Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error)
}

// Fleet management service as the handlers see it
type managementService interface {
	// Has to return apperrors.ErrAccountAlreadyExists on duplicate number
	CreateAccount(ctx context.Context, draft models.Account) (models.Account, error)

	// Soft delete the account
	// Has to return apperrors.ErrAccountNotFound or apperrors.ErrAccountAlreadyDeleted
	RemoveAccount(ctx context.Context, number int64) error

	CountAccounts(ctx context.Context) (int, error)
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListDeletedAccounts(ctx context.Context) ([]models.Account, error)
	ListAllTransactions(ctx context.Context) ([]models.Transaction, error)
}

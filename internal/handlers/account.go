package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avdeev/bankacc/internal/apperrors"
	"github.com/avdeev/bankacc/internal/handlers/render"
	"github.com/avdeev/bankacc/internal/logger"
	"github.com/avdeev/bankacc/internal/models"
)

type transactionResponse struct {
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type accountResponse struct {
	Number       int64                 `json:"number"`
	Balance      float64               `json:"balance"`
	Tier         string                `json:"tier"`
	CreatedAt    time.Time             `json:"created_at"`
	DeletedAt    *time.Time            `json:"deleted_at,omitempty"`
	Transactions []transactionResponse `json:"transactions,omitempty"`
}

func toAccountResponse(a models.Account) accountResponse {
	balance, _ := a.Balance.Round(2).Float64()

	resp := accountResponse{
		Number:    a.Number,
		Balance:   balance,
		Tier:      a.Tier,
		CreatedAt: a.CreatedAt,
		DeletedAt: a.DeletedAt,
	}

	for _, tr := range a.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tr))
	}

	return resp
}

func toTransactionResponse(tr models.Transaction) transactionResponse {
	amount, _ := tr.Amount.Round(2).Float64()

	return transactionResponse{
		ID:        tr.ID,
		Amount:    amount,
		Kind:      tr.Kind,
		CreatedAt: tr.CreatedAt,
	}
}

// Read account number from the request path
// Renders the error response itself, callers should just return on error
func accountNumber(w http.ResponseWriter, r *http.Request) (int64, error) {
	number, err := strconv.ParseInt(r.PathValue("number"), 10, 64)
	if err != nil {
		render.ServiceError(w, "Invalid account number", http.StatusBadRequest)
		return 0, err
	}

	return number, nil
}

func handleGetAccount(accountService accountService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		number, err := accountNumber(w, r)
		if err != nil {
			return
		}

		account, err := accountService.GetAccount(r.Context(), number)

		switch {
		case err == nil:
			render.JSON(w, toAccountResponse(account))
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Bank account not found", http.StatusNotFound)
		default:
			l.Error("Failed to get account", "error", err, "number", number)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleDeposit(accountService accountService, l logger.Logger) http.Handler {
	type request struct {
		Amount decimal.Decimal `json:"amount" validate:"required"`
	}

	type response struct {
		Balance float64 `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		number, err := accountNumber(w, r)
		if err != nil {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		// Rejecting non positive amounts is the boundary's concern
		if !req.Amount.IsPositive() {
			render.ServiceError(w, "Amount must be positive", http.StatusBadRequest)
			return
		}

		balance, err := accountService.Deposit(r.Context(), number, req.Amount)

		switch {
		case err == nil:
			value, _ := balance.Float64()
			render.JSON(w, response{Balance: value})
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Bank account not found", http.StatusNotFound)
		default:
			l.Error("Failed to deposit", "error", err, "number", number)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleWithdraw(accountService accountService, l logger.Logger) http.Handler {
	type request struct {
		Amount decimal.Decimal `json:"amount" validate:"required"`
	}

	type response struct {
		Balance float64 `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		number, err := accountNumber(w, r)
		if err != nil {
			return
		}

		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if !req.Amount.IsPositive() {
			render.ServiceError(w, "Amount must be positive", http.StatusBadRequest)
			return
		}

		balance, err := accountService.Withdraw(r.Context(), number, req.Amount)

		switch {
		case err == nil:
			value, _ := balance.Float64()
			render.JSON(w, response{Balance: value})
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Bank account not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrInsufficientFunds):
			render.ServiceError(w, "Insufficient funds", http.StatusPaymentRequired)
		default:
			l.Error("Failed to withdraw", "error", err, "number", number)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

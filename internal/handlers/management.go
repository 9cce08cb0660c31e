package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avdeev/bankacc/internal/apperrors"
	"github.com/avdeev/bankacc/internal/handlers/render"
	"github.com/avdeev/bankacc/internal/logger"
	"github.com/avdeev/bankacc/internal/models"
)

func handleCreateAccount(managementService managementService, l logger.Logger) http.Handler {
	type request struct {
		Number  int64           `json:"number" validate:"required"`
		Balance decimal.Decimal `json:"balance"`
		Tier    string          `json:"tier" validate:"omitempty,oneof=basic gold"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		if req.Balance.IsNegative() {
			render.ServiceError(w, "Balance must not be negative", http.StatusBadRequest)
			return
		}

		account, err := managementService.CreateAccount(r.Context(), models.Account{
			Number:  req.Number,
			Balance: req.Balance,
			Tier:    req.Tier,
		})

		switch {
		case err == nil:
			render.JSON(w, toAccountResponse(account))
		case errors.Is(err, apperrors.ErrAccountAlreadyExists):
			render.ServiceError(w, "Bank account already exists", http.StatusConflict)
		default:
			l.Error("Failed to create account", "error", err, "number", req.Number)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleRemoveAccount(managementService managementService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		number, err := accountNumber(w, r)
		if err != nil {
			return
		}

		err = managementService.RemoveAccount(r.Context(), number)

		switch {
		case err == nil:
			w.WriteHeader(http.StatusNoContent)
		case errors.Is(err, apperrors.ErrAccountNotFound):
			render.ServiceError(w, "Bank account not found", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrAccountAlreadyDeleted):
			render.ServiceError(w, "Bank account already deleted", http.StatusConflict)
		default:
			l.Error("Failed to remove account", "error", err, "number", number)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListAccounts(managementService managementService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accounts, err := managementService.ListAccounts(r.Context())
		if err != nil {
			l.Error("Failed to list accounts", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toAccountResponses(accounts))
	})
}

func handleListDeletedAccounts(managementService managementService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accounts, err := managementService.ListDeletedAccounts(r.Context())
		if err != nil {
			l.Error("Failed to list deleted accounts", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, toAccountResponses(accounts))
	})
}

func handleCountAccounts(managementService managementService, l logger.Logger) http.Handler {
	type response struct {
		Count int `json:"count"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count, err := managementService.CountAccounts(r.Context())
		if err != nil {
			l.Error("Failed to count accounts", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Count: count})
	})
}

func handleTotalBalance(managementService managementService, l logger.Logger) http.Handler {
	type response struct {
		Total float64 `json:"total"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		total, err := managementService.TotalBalance(r.Context())
		if err != nil {
			l.Error("Failed to calculate total balance", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		value, _ := total.Round(2).Float64()
		render.JSON(w, response{Total: value})
	})
}

func handleListTransactions(managementService managementService, l logger.Logger) http.Handler {
	type transaction struct {
		ID            int64     `json:"id"`
		AccountNumber int64     `json:"account_number"`
		Amount        float64   `json:"amount"`
		Kind          string    `json:"kind"`
		CreatedAt     time.Time `json:"created_at"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		trs, err := managementService.ListAllTransactions(r.Context())
		if err != nil {
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		transactions := make([]transaction, 0, len(trs))
		for _, tr := range trs {
			amount, _ := tr.Amount.Round(2).Float64()
			transactions = append(transactions, transaction{
				ID:            tr.ID,
				AccountNumber: tr.AccountNumber,
				Amount:        amount,
				Kind:          tr.Kind,
				CreatedAt:     tr.CreatedAt,
			})
		}

		render.JSON(w, transactions)
	})
}

func toAccountResponses(accounts []models.Account) []accountResponse {
	responses := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, toAccountResponse(account))
	}

	return responses
}

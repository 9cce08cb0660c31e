package apperrors

import (
	"errors"
)

var (
	ErrAccountNotFound       = errors.New("bank account not found")
	ErrAccountAlreadyExists  = errors.New("bank account already exists")
	ErrAccountAlreadyDeleted = errors.New("bank account already deleted")

	ErrInsufficientFunds = errors.New("insufficient funds to withdraw")
)

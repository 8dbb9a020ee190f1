package models

import (
	"errors"
	"strings"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	AccountType    string `json:"accountType"`
	InitialBalance string `json:"initialBalance,omitempty"`
}

func (r CreateAccountRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountType) == "" {
		errs = append(errs, "accountType is required")
	}

	if balance := strings.TrimSpace(r.InitialBalance); balance != "" {
		parsed, err := decimal.NewFromString(balance)
		if err != nil {
			errs = append(errs, "initialBalance must be numeric")
		} else if parsed.IsNegative() {
			errs = append(errs, "initialBalance cannot be negative")
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

// Balance returns the requested opening balance; empty means zero.
func (r CreateAccountRequest) Balance() decimal.Decimal {
	balance, err := decimal.NewFromString(strings.TrimSpace(r.InitialBalance))
	if err != nil {
		return decimal.Zero
	}
	return balance
}

type AccountResponse struct {
	ID            string `json:"id"`
	AccountNumber string `json:"accountNumber"`
	OwnerID       string `json:"ownerId"`
	AccountType   string `json:"accountType"`
	Balance       string `json:"balance"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func NewAccountResponse(account domain.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		OwnerID:       account.OwnerID,
		AccountType:   account.AccountType,
		Balance:       account.Balance.StringFixed(2),
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, NewAccountResponse(account))
	}
	return out
}

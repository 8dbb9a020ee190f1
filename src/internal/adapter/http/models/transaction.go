package models

import (
	"errors"
	"strings"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

// AmountRequest is the body of deposit and withdraw calls. Range and
// precision checks belong to the transaction service.
type AmountRequest struct {
	Amount string `json:"amount"`
}

func (r AmountRequest) Validate() error {
	amount := strings.TrimSpace(r.Amount)
	if amount == "" {
		return errors.New("amount is required")
	}
	if _, err := decimal.NewFromString(amount); err != nil {
		return errors.New("amount must be numeric")
	}
	return nil
}

func (r AmountRequest) Value() decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil {
		return decimal.Zero
	}
	return amount
}

type BalanceResponse struct {
	Balance string `json:"balance"`
}

type TransactionResponse struct {
	ID         string `json:"id"`
	AccountID  string `json:"accountId"`
	Type       string `json:"type"`
	Amount     string `json:"amount"`
	RecordedAt string `json:"recordedAt"`
}

func NewTransactionResponses(entries []domain.LedgerEntry) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, TransactionResponse{
			ID:         entry.ID,
			AccountID:  entry.AccountID,
			Type:       string(entry.Kind),
			Amount:     entry.Amount.StringFixed(2),
			RecordedAt: entry.RecordedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return out
}

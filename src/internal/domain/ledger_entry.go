package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindDeposit  EntryKind = "deposit"
	EntryKindWithdraw EntryKind = "withdraw"
)

// LedgerEntry is immutable once recorded.
type LedgerEntry struct {
	ID         string
	AccountID  string
	Kind       EntryKind
	Amount     decimal.Decimal
	RecordedAt time.Time
}

// Signed returns the amount as it affects the balance.
func (e LedgerEntry) Signed() decimal.Decimal {
	if e.Kind == EntryKindWithdraw {
		return e.Amount.Neg()
	}
	return e.Amount
}

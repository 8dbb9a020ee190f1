package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "Pending"
	AccountStatusApproved AccountStatus = "Approved"
	AccountStatusClosed   AccountStatus = "Closed"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusPending, AccountStatusApproved, AccountStatusClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Closed is terminal. Staying in the same non-terminal status is allowed so
// repeated approvals are no-ops.
func (s AccountStatus) CanTransitionTo(next AccountStatus) bool {
	switch s {
	case AccountStatusPending:
		return next == AccountStatusPending || next == AccountStatusApproved || next == AccountStatusClosed
	case AccountStatusApproved:
		return next == AccountStatusApproved || next == AccountStatusClosed
	default:
		return false
	}
}

type Account struct {
	ID            string
	AccountNumber string
	OwnerID       string
	AccountType   string
	Balance       decimal.Decimal
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

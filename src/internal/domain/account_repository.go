package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type AccountRepository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	GetByOwner(ctx context.Context, ownerID string) (Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	ListByStatus(ctx context.Context, status AccountStatus) ([]Account, error)
	Search(ctx context.Context, accountType string) ([]Account, error)
}

// AccountLocker runs fn with exclusive access to one account. Changes staged
// through LockedAccount are committed together when fn returns nil and
// discarded otherwise. Waiting too long for the lock yields ErrContention.
type AccountLocker interface {
	WithAccountLock(ctx context.Context, accountID string, fn func(ctx context.Context, locked LockedAccount) error) error
}

type LockedAccount interface {
	Account() Account
	SetBalance(ctx context.Context, balance decimal.Decimal) error
	SetStatus(ctx context.Context, status AccountStatus) error
	AppendEntry(ctx context.Context, kind EntryKind, amount decimal.Decimal) (LedgerEntry, error)
}

package service_interfaces

import (
	"context"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
)

type AccountService interface {
	CreateAccount(ctx context.Context, caller domain.Caller, accountType string, initialBalance decimal.Decimal) (domain.Account, error)
	Approve(ctx context.Context, caller domain.Caller, accountID string) (domain.Account, error)
	Close(ctx context.Context, caller domain.Caller, accountID string) (domain.Account, error)
	GetByID(ctx context.Context, caller domain.Caller, accountID string) (domain.Account, error)
	GetByOwner(ctx context.Context, caller domain.Caller, ownerID string) (domain.Account, error)
	ListAll(ctx context.Context, caller domain.Caller) ([]domain.Account, error)
	ListByStatus(ctx context.Context, caller domain.Caller, status domain.AccountStatus) ([]domain.Account, error)
	Search(ctx context.Context, caller domain.Caller, accountType string) ([]domain.Account, error)
}

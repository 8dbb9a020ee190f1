package service_interfaces

import (
	"context"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
)

type TransactionService interface {
	Deposit(ctx context.Context, caller domain.Caller, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, caller domain.Caller, amount decimal.Decimal) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, caller domain.Caller, accountID string) ([]domain.LedgerEntry, error)
	ListOwnTransactions(ctx context.Context, caller domain.Caller) ([]domain.LedgerEntry, error)
	ExportCSV(ctx context.Context, caller domain.Caller, accountNumber string) (services.LedgerExport, error)
}

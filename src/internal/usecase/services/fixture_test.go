package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	staff   = domain.Caller{UserID: "staff-1", Role: domain.RoleStaff}
	manager = domain.Caller{UserID: "manager-1", Role: domain.RoleManager}
)

func customer(id string) domain.Caller {
	return domain.Caller{UserID: id, Role: domain.RoleCustomer}
}

type fixture struct {
	store        *memory.Store
	accounts     *services.AccountService
	transactions *services.TransactionService
}

func newFixture(t *testing.T, lockTimeout time.Duration) fixture {
	t.Helper()
	store := memory.NewStore(lockTimeout)
	return fixture{
		store:        store,
		accounts:     services.NewAccountService(store, store),
		transactions: services.NewTransactionService(store, store, store),
	}
}

// openApproved creates and approves an account for owner with the given balance.
func (f fixture) openApproved(t *testing.T, owner string, balance int64) domain.Account {
	t.Helper()
	ctx := context.Background()

	acct, err := f.accounts.CreateAccount(ctx, customer(owner), "savings", decimal.NewFromInt(balance))
	require.NoError(t, err)

	approved, err := f.accounts.Approve(ctx, staff, acct.ID)
	require.NoError(t, err)
	return approved
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

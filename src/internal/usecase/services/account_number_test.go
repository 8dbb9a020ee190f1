package services

import (
	"context"
	"testing"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccountNumberIsTenDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		number, err := generateAccountNumber()
		require.NoError(t, err)
		assert.True(t, isTenDigitAccountNumber(number), number)
	}
}

func TestCreateAccountRetriesOnNumberCollision(t *testing.T) {
	store := memory.NewStore(time.Second)
	svc := NewAccountService(store, store)

	numbers := []string{"1111111111", "1111111111", "2222222222"}
	svc.newAccountNumber = func() (string, error) {
		next := numbers[0]
		numbers = numbers[1:]
		return next, nil
	}

	ctx := context.Background()
	first, err := svc.CreateAccount(ctx, domain.Caller{UserID: "u-1", Role: domain.RoleCustomer}, "savings", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "1111111111", first.AccountNumber)

	second, err := svc.CreateAccount(ctx, domain.Caller{UserID: "u-2", Role: domain.RoleCustomer}, "savings", decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "2222222222", second.AccountNumber)
	assert.Empty(t, numbers)
}

func TestCreateAccountGivesUpAfterRepeatedCollisions(t *testing.T) {
	store := memory.NewStore(time.Second)
	svc := NewAccountService(store, store)
	svc.newAccountNumber = func() (string, error) { return "1111111111", nil }

	ctx := context.Background()
	_, err := svc.CreateAccount(ctx, domain.Caller{UserID: "u-1", Role: domain.RoleCustomer}, "savings", decimal.Zero)
	require.NoError(t, err)

	_, err = svc.CreateAccount(ctx, domain.Caller{UserID: "u-2", Role: domain.RoleCustomer}, "savings", decimal.Zero)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKind(""), domain.KindOf(err))
}

func TestHasMoneyScale(t *testing.T) {
	assert.True(t, hasMoneyScale(decimal.RequireFromString("10")))
	assert.True(t, hasMoneyScale(decimal.RequireFromString("10.5")))
	assert.True(t, hasMoneyScale(decimal.RequireFromString("10.50")))
	assert.True(t, hasMoneyScale(decimal.RequireFromString("10.500")))
	assert.False(t, hasMoneyScale(decimal.RequireFromString("10.501")))
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to AccountStatus
		want     bool
	}{
		{AccountStatusPending, AccountStatusApproved, true},
		{AccountStatusPending, AccountStatusClosed, true},
		{AccountStatusApproved, AccountStatusClosed, true},
		{AccountStatusApproved, AccountStatusApproved, true},
		{AccountStatusApproved, AccountStatusPending, false},
		{AccountStatusClosed, AccountStatusApproved, false},
		{AccountStatusClosed, AccountStatusPending, false},
		{AccountStatusClosed, AccountStatusClosed, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindContention, KindOf(fmt.Errorf("lock account: %w", ErrContention)))
	assert.Equal(t, KindNoTransactions, KindOf(ErrNoTransactions))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("disk full")))
	assert.Equal(t, ErrorKind(""), KindOf(ErrAccountNumberTaken))
	assert.Equal(t, ErrorKind(""), KindOf(nil))

	assert.True(t, IsRetryable(fmt.Errorf("x: %w", ErrContention)))
	assert.False(t, IsRetryable(ErrInsufficientFunds))
}

func TestSignedAmount(t *testing.T) {
	deposit := LedgerEntry{Kind: EntryKindDeposit, Amount: decimal.NewFromInt(5)}
	withdraw := LedgerEntry{Kind: EntryKindWithdraw, Amount: decimal.NewFromInt(5)}

	assert.Equal(t, "5", deposit.Signed().String())
	assert.Equal(t, "-5", withdraw.Signed().String())
}

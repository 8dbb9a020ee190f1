package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(t *testing.T, s *Store, owner, number string, status domain.AccountStatus) domain.Account {
	t.Helper()
	acct, err := s.Create(context.Background(), domain.Account{
		AccountNumber: number,
		OwnerID:       owner,
		AccountType:   "savings",
		Balance:       decimal.NewFromInt(100),
		Status:        status,
	})
	require.NoError(t, err)
	return acct
}

func TestCreateEnforcesOwnerAndNumberUniqueness(t *testing.T) {
	s := NewStore(time.Second)
	newAccount(t, s, "u-1", "0000000001", domain.AccountStatusPending)

	_, err := s.Create(context.Background(), domain.Account{AccountNumber: "0000000002", OwnerID: "u-1", AccountType: "x"})
	require.ErrorIs(t, err, domain.ErrDuplicateAccount)

	_, err = s.Create(context.Background(), domain.Account{AccountNumber: "0000000001", OwnerID: "u-2", AccountType: "x"})
	require.ErrorIs(t, err, domain.ErrAccountNumberTaken)

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestWithAccountLockDiscardsChangesOnError(t *testing.T) {
	s := NewStore(time.Second)
	acct := newAccount(t, s, "u-1", "0000000001", domain.AccountStatusApproved)
	boom := errors.New("boom")

	err := s.WithAccountLock(context.Background(), acct.ID, func(ctx context.Context, locked domain.LockedAccount) error {
		require.NoError(t, locked.SetBalance(ctx, decimal.NewFromInt(150)))
		_, err := locked.AppendEntry(ctx, domain.EntryKindDeposit, decimal.NewFromInt(50))
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetByID(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(100)))

	entries, err := s.ListByAccount(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithAccountLockCommitsBalanceAndEntryTogether(t *testing.T) {
	s := NewStore(time.Second)
	acct := newAccount(t, s, "u-1", "0000000001", domain.AccountStatusApproved)

	err := s.WithAccountLock(context.Background(), acct.ID, func(ctx context.Context, locked domain.LockedAccount) error {
		if err := locked.SetBalance(ctx, decimal.NewFromInt(70)); err != nil {
			return err
		}
		_, err := locked.AppendEntry(ctx, domain.EntryKindWithdraw, decimal.NewFromInt(30))
		return err
	})
	require.NoError(t, err)

	got, err := s.GetByID(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(70)))

	entries, err := s.ListByAccount(context.Background(), acct.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryKindWithdraw, entries[0].Kind)
	assert.Equal(t, acct.ID, entries[0].AccountID)
}

func TestWithAccountLockTimesOutAsContention(t *testing.T) {
	s := NewStore(20 * time.Millisecond)
	acct := newAccount(t, s, "u-1", "0000000001", domain.AccountStatusApproved)

	held := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- s.WithAccountLock(context.Background(), acct.ID, func(context.Context, domain.LockedAccount) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := s.WithAccountLock(context.Background(), acct.ID, func(context.Context, domain.LockedAccount) error {
		return nil
	})
	require.ErrorIs(t, err, domain.ErrContention)
	assert.True(t, domain.IsRetryable(err))

	close(release)
	require.NoError(t, <-done)
}

func TestWithAccountLockUnknownAccount(t *testing.T) {
	s := NewStore(time.Second)
	err := s.WithAccountLock(context.Background(), "missing", func(context.Context, domain.LockedAccount) error {
		t.Fatal("callback must not run")
		return nil
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLockedAccountRejectsNegativeBalance(t *testing.T) {
	s := NewStore(time.Second)
	acct := newAccount(t, s, "u-1", "0000000001", domain.AccountStatusApproved)

	err := s.WithAccountLock(context.Background(), acct.ID, func(ctx context.Context, locked domain.LockedAccount) error {
		return locked.SetBalance(ctx, decimal.NewFromInt(-1))
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestListByStatusAndSearch(t *testing.T) {
	s := NewStore(time.Second)
	newAccount(t, s, "u-1", "0000000001", domain.AccountStatusPending)
	newAccount(t, s, "u-2", "0000000002", domain.AccountStatusApproved)

	approved, err := s.ListByStatus(context.Background(), domain.AccountStatusApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "u-2", approved[0].OwnerID)

	closed, err := s.ListByStatus(context.Background(), domain.AccountStatusClosed)
	require.NoError(t, err)
	assert.NotNil(t, closed)
	assert.Empty(t, closed)

	found, err := s.Search(context.Background(), "SAV")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestLedgerKeepsCommitOrderWhenClockStepsBack(t *testing.T) {
	s := NewStore(time.Second)
	acct := newAccount(t, s, "u-1", "0000000001", domain.AccountStatusApproved)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Minute)}
	for _, at := range ticks {
		s.now = func() time.Time { return at }
		err := s.WithAccountLock(context.Background(), acct.ID, func(ctx context.Context, locked domain.LockedAccount) error {
			_, err := locked.AppendEntry(ctx, domain.EntryKindDeposit, decimal.NewFromInt(1))
			return err
		})
		require.NoError(t, err)
	}

	ascending, err := s.ListByAccountAscending(context.Background(), acct.ID)
	require.NoError(t, err)
	require.Len(t, ascending, 2)
	assert.Equal(t, base, ascending[0].RecordedAt)
	assert.Equal(t, base.Add(-time.Minute), ascending[1].RecordedAt)

	newest, err := s.ListByAccount(context.Background(), acct.ID)
	require.NoError(t, err)
	assert.Equal(t, ascending[1].ID, newest[0].ID)
}

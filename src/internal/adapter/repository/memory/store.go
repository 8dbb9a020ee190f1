package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultLockTimeout = 2 * time.Second

// Store keeps accounts, ledger entries and users in process memory. It gives
// the same guarantees as the postgres store: one writer per account at a time,
// all-or-nothing commits, and owner uniqueness checked under the write lock.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	order    []string
	byOwner  map[string]string
	byNumber map[string]string
	entries  map[string][]domain.LedgerEntry
	users    map[string]domain.User
	locks    map[string]chan struct{}

	lockTimeout time.Duration
	now         func() time.Time
}

var (
	_ domain.AccountRepository     = (*Store)(nil)
	_ domain.AccountLocker         = (*Store)(nil)
	_ domain.LedgerEntryRepository = (*Store)(nil)
	_ domain.UserRepository        = (*Store)(nil)
)

func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}

	return &Store{
		accounts:    make(map[string]domain.Account),
		byOwner:     make(map[string]string),
		byNumber:    make(map[string]string),
		entries:     make(map[string][]domain.LedgerEntry),
		users:       make(map[string]domain.User),
		locks:       make(map[string]chan struct{}),
		lockTimeout: lockTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byOwner[account.OwnerID]; ok {
		return domain.Account{}, domain.ErrDuplicateAccount
	}
	if _, ok := s.byNumber[account.AccountNumber]; ok {
		return domain.Account{}, domain.ErrAccountNumberTaken
	}
	if account.Balance.IsNegative() {
		return domain.Account{}, fmt.Errorf("%w: balance cannot be negative", domain.ErrInvalidInput)
	}

	now := s.now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	s.accounts[account.ID] = account
	s.order = append(s.order, account.ID)
	s.byOwner[account.OwnerID] = account.ID
	s.byNumber[account.AccountNumber] = account.ID
	s.locks[account.ID] = make(chan struct{}, 1)

	return account, nil
}

func (s *Store) GetByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return account, nil
}

func (s *Store) GetByOwner(ctx context.Context, ownerID string) (domain.Account, error) {
	s.mu.RLock()
	id, ok := s.byOwner[ownerID]
	s.mu.RUnlock()
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *Store) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	s.mu.RLock()
	id, ok := s.byNumber[accountNumber]
	s.mu.RUnlock()
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *Store) List(_ context.Context) ([]domain.Account, error) {
	return s.filter(func(domain.Account) bool { return true }), nil
}

func (s *Store) ListByStatus(_ context.Context, status domain.AccountStatus) ([]domain.Account, error) {
	return s.filter(func(a domain.Account) bool { return a.Status == status }), nil
}

func (s *Store) Search(_ context.Context, accountType string) ([]domain.Account, error) {
	needle := strings.ToLower(accountType)
	return s.filter(func(a domain.Account) bool {
		return strings.Contains(strings.ToLower(a.AccountType), needle)
	}), nil
}

func (s *Store) filter(keep func(domain.Account) bool) []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.order))
	for _, id := range s.order {
		if account := s.accounts[id]; keep(account) {
			out = append(out, account)
		}
	}
	return out
}

func (s *Store) ListByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	entries, err := s.ListByAccountAscending(ctx, accountID)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (s *Store) ListByAccountAscending(_ context.Context, accountID string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[accountID]; !ok {
		return nil, domain.ErrNotFound
	}

	stored := s.entries[accountID]
	out := make([]domain.LedgerEntry, len(stored))
	copy(out, stored)
	return out, nil
}

// AddUser registers a user for the identity adapter.
func (s *Store) AddUser(user domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.Username] = user
	return user
}

func (s *Store) GetByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

func (s *Store) WithAccountLock(ctx context.Context, accountID string, fn func(ctx context.Context, locked domain.LockedAccount) error) error {
	s.mu.RLock()
	lock, ok := s.locks[accountID]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrNotFound
	}

	if err := s.acquire(ctx, lock); err != nil {
		return err
	}
	defer func() { <-lock }()

	account, err := s.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	staged := &lockedAccount{account: account, now: s.now}
	if err := fn(ctx, staged); err != nil {
		return err
	}

	s.commit(staged)
	return nil
}

func (s *Store) acquire(ctx context.Context, lock chan struct{}) error {
	timer := time.NewTimer(s.lockTimeout)
	defer timer.Stop()

	select {
	case lock <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: lock wait exceeded %s", domain.ErrContention, s.lockTimeout)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", domain.ErrContention, ctx.Err())
		}
		return ctx.Err()
	}
}

func (s *Store) commit(staged *lockedAccount) {
	if !staged.dirty && len(staged.appended) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if staged.dirty {
		s.accounts[staged.account.ID] = staged.account
	}
	s.entries[staged.account.ID] = append(s.entries[staged.account.ID], staged.appended...)
}

type lockedAccount struct {
	account  domain.Account
	appended []domain.LedgerEntry
	dirty    bool
	now      func() time.Time
}

func (l *lockedAccount) Account() domain.Account {
	return l.account
}

func (l *lockedAccount) SetBalance(_ context.Context, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("%w: balance cannot go below zero", domain.ErrInsufficientFunds)
	}

	l.account.Balance = balance
	l.account.UpdatedAt = l.now()
	l.dirty = true
	return nil
}

func (l *lockedAccount) SetStatus(_ context.Context, status domain.AccountStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	l.account.Status = status
	l.account.UpdatedAt = l.now()
	l.dirty = true
	return nil
}

func (l *lockedAccount) AppendEntry(_ context.Context, kind domain.EntryKind, amount decimal.Decimal) (domain.LedgerEntry, error) {
	if kind != domain.EntryKindDeposit && kind != domain.EntryKindWithdraw {
		return domain.LedgerEntry{}, fmt.Errorf("%w: unknown entry kind %q", domain.ErrInvalidInput, kind)
	}
	if !amount.IsPositive() {
		return domain.LedgerEntry{}, fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidAmount)
	}

	entry := domain.LedgerEntry{
		ID:         uuid.NewString(),
		AccountID:  l.account.ID,
		Kind:       kind,
		Amount:     amount,
		RecordedAt: l.now(),
	}
	l.appended = append(l.appended, entry)
	return entry, nil
}

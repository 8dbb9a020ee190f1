package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/metrics"
	"github.com/shopspring/decimal"
)

type TransactionService struct {
	accountRepo domain.AccountRepository
	entryRepo   domain.LedgerEntryRepository
	locker      domain.AccountLocker
	policy      AccessPolicy
}

func NewTransactionService(accountRepo domain.AccountRepository, entryRepo domain.LedgerEntryRepository, locker domain.AccountLocker) *TransactionService {
	return &TransactionService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		locker:      locker,
	}
}

// Deposit credits the caller's account and returns the new balance.
func (s *TransactionService) Deposit(ctx context.Context, caller domain.Caller, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.post(ctx, caller, domain.EntryKindDeposit, amount)
}

// Withdraw debits the caller's account and returns the new balance.
func (s *TransactionService) Withdraw(ctx context.Context, caller domain.Caller, amount decimal.Decimal) (decimal.Decimal, error) {
	return s.post(ctx, caller, domain.EntryKindWithdraw, amount)
}

func (s *TransactionService) post(ctx context.Context, caller domain.Caller, kind domain.EntryKind, amount decimal.Decimal) (balance decimal.Decimal, err error) {
	logger.Info("transaction service post request", logger.Fields{
		"ownerId": caller.UserID,
		"kind":    kind,
		"amount":  amount,
	})
	defer func() {
		metrics.RecordPosting(string(kind), metrics.Result(string(domain.KindOf(err)), err))
	}()

	if err := s.policy.Require(caller, CapTransact); err != nil {
		return decimal.Zero, err
	}
	account, err := s.accountRepo.GetByOwner(ctx, caller.UserID)
	if err != nil {
		logger.Error("transaction service resolve account failed", err, logger.Fields{
			"ownerId": caller.UserID,
		})
		return decimal.Zero, err
	}

	var entry domain.LedgerEntry
	err = s.locker.WithAccountLock(ctx, account.ID, func(ctx context.Context, locked domain.LockedAccount) error {
		current := locked.Account()
		if current.Status != domain.AccountStatusApproved {
			return fmt.Errorf("%w: status is %s", domain.ErrAccountNotApproved, current.Status)
		}
		if err := validateAmount(amount); err != nil {
			return err
		}

		next := current.Balance.Add(amount)
		if kind == domain.EntryKindWithdraw {
			if amount.GreaterThan(current.Balance) {
				return fmt.Errorf("%w: balance %s, requested %s", domain.ErrInsufficientFunds, current.Balance.StringFixed(moneyScale), amount.StringFixed(moneyScale))
			}
			next = current.Balance.Sub(amount)
		}
		if !withinMoneyLimit(next) {
			return fmt.Errorf("%w: resulting balance would exceed %s", domain.ErrInvalidAmount, maxMoney.StringFixed(moneyScale))
		}

		if err := locked.SetBalance(ctx, next); err != nil {
			return err
		}
		appended, err := locked.AppendEntry(ctx, kind, amount)
		if err != nil {
			return err
		}

		entry = appended
		balance = next
		return nil
	})
	if err != nil {
		logger.Error("transaction service post failed", err, logger.Fields{
			"accountId": account.ID,
			"kind":      kind,
			"amount":    amount,
		})
		return decimal.Zero, err
	}

	logger.Info("transaction service post success", logger.Fields{
		"accountId": account.ID,
		"entryId":   entry.ID,
		"kind":      kind,
		"balance":   balance,
	})
	return balance, nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidAmount)
	}
	if !hasMoneyScale(amount) {
		return fmt.Errorf("%w: amount must have at most 2 decimal places", domain.ErrInvalidAmount)
	}
	if !withinMoneyLimit(amount) {
		return fmt.Errorf("%w: amount cannot exceed %s", domain.ErrInvalidAmount, maxMoney.StringFixed(moneyScale))
	}
	return nil
}

// ListTransactions returns the account's ledger entries, newest first.
func (s *TransactionService) ListTransactions(ctx context.Context, caller domain.Caller, accountID string) ([]domain.LedgerEntry, error) {
	if err := s.policy.Require(caller, CapViewLedger); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(accountID))
	if err != nil {
		return nil, err
	}
	return s.listFor(ctx, caller, account)
}

// ListOwnTransactions returns the entries of the caller's own account.
func (s *TransactionService) ListOwnTransactions(ctx context.Context, caller domain.Caller) ([]domain.LedgerEntry, error) {
	if err := s.policy.Require(caller, CapViewLedger); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.GetByOwner(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.listFor(ctx, caller, account)
}

func (s *TransactionService) listFor(ctx context.Context, caller domain.Caller, account domain.Account) ([]domain.LedgerEntry, error) {
	if err := s.policy.RequireFor(caller, CapViewLedger, account); err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		logger.Error("transaction service list entries failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return nil, err
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	return entries, nil
}

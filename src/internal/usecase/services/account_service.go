package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/metrics"
	"github.com/shopspring/decimal"
)

const maxAccountNumberAttempts = 5

type AccountService struct {
	accountRepo      domain.AccountRepository
	locker           domain.AccountLocker
	policy           AccessPolicy
	newAccountNumber func() (string, error)
}

func NewAccountService(accountRepo domain.AccountRepository, locker domain.AccountLocker) *AccountService {
	return &AccountService{
		accountRepo:      accountRepo,
		locker:           locker,
		newAccountNumber: generateAccountNumber,
	}
}

func (s *AccountService) CreateAccount(ctx context.Context, caller domain.Caller, accountType string, initialBalance decimal.Decimal) (domain.Account, error) {
	logger.Info("account service create account request", logger.Fields{
		"ownerId":        caller.UserID,
		"accountType":    accountType,
		"initialBalance": initialBalance,
	})

	if err := s.policy.Require(caller, CapCreateAccount); err != nil {
		return domain.Account{}, err
	}

	accountType = strings.TrimSpace(accountType)
	if accountType == "" {
		return domain.Account{}, fmt.Errorf("%w: accountType is required", domain.ErrInvalidInput)
	}
	if initialBalance.IsNegative() {
		return domain.Account{}, fmt.Errorf("%w: initialBalance cannot be negative", domain.ErrInvalidInput)
	}
	if !hasMoneyScale(initialBalance) {
		return domain.Account{}, fmt.Errorf("%w: initialBalance must have at most 2 decimal places", domain.ErrInvalidInput)
	}
	if !withinMoneyLimit(initialBalance) {
		return domain.Account{}, fmt.Errorf("%w: initialBalance cannot exceed %s", domain.ErrInvalidInput, maxMoney.StringFixed(moneyScale))
	}

	for attempt := 1; attempt <= maxAccountNumberAttempts; attempt++ {
		number, err := s.newAccountNumber()
		if err != nil {
			return domain.Account{}, err
		}

		created, err := s.accountRepo.Create(ctx, domain.Account{
			AccountNumber: number,
			OwnerID:       caller.UserID,
			AccountType:   accountType,
			Balance:       initialBalance.Round(moneyScale),
			Status:        domain.AccountStatusPending,
		})
		if errors.Is(err, domain.ErrAccountNumberTaken) {
			logger.Warn("account service account number collision", logger.Fields{
				"attempt": attempt,
			})
			continue
		}
		if err != nil {
			logger.Error("account service create account failed", err, logger.Fields{
				"ownerId": caller.UserID,
			})
			return domain.Account{}, err
		}

		logger.Info("account service create account success", logger.Fields{
			"accountId":     created.ID,
			"accountNumber": created.AccountNumber,
			"ownerId":       created.OwnerID,
		})
		return created, nil
	}

	return domain.Account{}, fmt.Errorf("create account: no free account number after %d attempts", maxAccountNumberAttempts)
}

// Approve moves a Pending account to Approved. Approving an Approved account
// is a no-op; approving a Closed one is rejected.
func (s *AccountService) Approve(ctx context.Context, caller domain.Caller, accountID string) (domain.Account, error) {
	logger.Info("account service approve request", logger.Fields{
		"accountId": accountID,
		"actorId":   caller.UserID,
		"actorRole": caller.Role,
	})

	account, err := s.transition(ctx, caller, accountID, CapApproveAccount, domain.AccountStatusApproved)
	metrics.RecordTransition("approve", metrics.Result(string(domain.KindOf(err)), err))
	return account, err
}

// Close moves an account to the terminal Closed status. Closing twice is a no-op.
func (s *AccountService) Close(ctx context.Context, caller domain.Caller, accountID string) (domain.Account, error) {
	logger.Info("account service close request", logger.Fields{
		"accountId": accountID,
		"actorId":   caller.UserID,
		"actorRole": caller.Role,
	})

	account, err := s.transition(ctx, caller, accountID, CapCloseAccount, domain.AccountStatusClosed)
	metrics.RecordTransition("close", metrics.Result(string(domain.KindOf(err)), err))
	return account, err
}

func (s *AccountService) transition(ctx context.Context, caller domain.Caller, accountID string, capability Capability, target domain.AccountStatus) (domain.Account, error) {
	if err := s.policy.Require(caller, capability); err != nil {
		return domain.Account{}, err
	}

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return domain.Account{}, fmt.Errorf("%w: accountId is required", domain.ErrInvalidInput)
	}

	var result domain.Account
	err := s.locker.WithAccountLock(ctx, accountID, func(ctx context.Context, locked domain.LockedAccount) error {
		current := locked.Account()
		if err := s.policy.RequireFor(caller, capability, current); err != nil {
			return err
		}

		if current.Status == target {
			result = current
			return nil
		}
		if !current.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, target)
		}

		if err := locked.SetStatus(ctx, target); err != nil {
			return err
		}
		result = locked.Account()
		return nil
	})
	if err != nil {
		logger.Error("account service status transition failed", err, logger.Fields{
			"accountId": accountID,
			"target":    target,
		})
		return domain.Account{}, err
	}

	logger.Info("account service status transition success", logger.Fields{
		"accountId": result.ID,
		"status":    result.Status,
	})
	return result, nil
}

func (s *AccountService) GetByID(ctx context.Context, caller domain.Caller, accountID string) (domain.Account, error) {
	if err := s.policy.Require(caller, CapViewAccount); err != nil {
		return domain.Account{}, err
	}

	account, err := s.accountRepo.GetByID(ctx, strings.TrimSpace(accountID))
	if err != nil {
		return domain.Account{}, err
	}
	if err := s.policy.RequireFor(caller, CapViewAccount, account); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

func (s *AccountService) GetByOwner(ctx context.Context, caller domain.Caller, ownerID string) (domain.Account, error) {
	if err := s.policy.Require(caller, CapViewAccount); err != nil {
		return domain.Account{}, err
	}

	account, err := s.accountRepo.GetByOwner(ctx, strings.TrimSpace(ownerID))
	if err != nil {
		return domain.Account{}, err
	}
	if err := s.policy.RequireFor(caller, CapViewAccount, account); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

func (s *AccountService) ListAll(ctx context.Context, caller domain.Caller) ([]domain.Account, error) {
	if err := s.policy.Require(caller, CapListAccounts); err != nil {
		return nil, err
	}
	return s.accountRepo.List(ctx)
}

func (s *AccountService) ListByStatus(ctx context.Context, caller domain.Caller, status domain.AccountStatus) ([]domain.Account, error) {
	if err := s.policy.Require(caller, CapListAccounts); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	accounts, err := s.accountRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

func (s *AccountService) Search(ctx context.Context, caller domain.Caller, accountType string) ([]domain.Account, error) {
	if err := s.policy.Require(caller, CapListAccounts); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.Search(ctx, strings.TrimSpace(accountType))
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

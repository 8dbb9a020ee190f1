package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidTextRepr      = "22P02"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeQueryCanceled        = "57014"

	constraintOwnerUnique    = "accounts_owner_id_key"
	constraintNumberUnique   = "accounts_account_number_key"
	constraintBalanceNonNeg  = "accounts_balance_check"
	constraintAmountPositive = "ledger_entries_amount_check"
)

// translateError maps driver failures onto domain errors. Anything it does
// not recognise is returned wrapped with op and stays an infrastructure error.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrContention, err)
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch string(pqErr.Code) {
	case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected, codeQueryCanceled:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrContention, err)
	case codeUniqueViolation:
		switch pqErr.Constraint {
		case constraintOwnerUnique:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicateAccount, err)
		case constraintNumberUnique:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrAccountNumberTaken, err)
		}
	case codeCheckViolation:
		switch pqErr.Constraint {
		case constraintBalanceNonNeg:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrInsufficientFunds, err)
		case constraintAmountPositive:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidAmount, err)
		}
	case codeForeignKeyViolation:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidInput, err)
	case codeNumericOutOfRange:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrInvalidAmount, err)
	case codeInvalidTextRepr:
		// A malformed uuid can never match a row.
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNotFound, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == codeUniqueViolation
}

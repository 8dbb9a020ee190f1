package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// lockedAccount writes through the transaction that holds the row lock.
type lockedAccount struct {
	tx      *sqlx.Tx
	account domain.Account
}

func (l *lockedAccount) Account() domain.Account {
	return l.account
}

func (l *lockedAccount) SetBalance(ctx context.Context, balance decimal.Decimal) error {
	const query = `
UPDATE accounts
SET balance = $2,
	updated_at = NOW()
WHERE id = $1
RETURNING updated_at`

	var updatedAt time.Time
	if err := l.tx.QueryRowxContext(ctx, query, l.account.ID, balance).Scan(&updatedAt); err != nil {
		return translateError("update account balance", err)
	}

	l.account.Balance = balance
	l.account.UpdatedAt = updatedAt.UTC()
	return nil
}

func (l *lockedAccount) SetStatus(ctx context.Context, status domain.AccountStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	const query = `
UPDATE accounts
SET status = $2,
	updated_at = NOW()
WHERE id = $1
RETURNING updated_at`

	var updatedAt time.Time
	if err := l.tx.QueryRowxContext(ctx, query, l.account.ID, string(status)).Scan(&updatedAt); err != nil {
		return translateError("update account status", err)
	}

	l.account.Status = status
	l.account.UpdatedAt = updatedAt.UTC()
	return nil
}

func (l *lockedAccount) AppendEntry(ctx context.Context, kind domain.EntryKind, amount decimal.Decimal) (domain.LedgerEntry, error) {
	if kind != domain.EntryKindDeposit && kind != domain.EntryKindWithdraw {
		return domain.LedgerEntry{}, fmt.Errorf("%w: unknown entry kind %q", domain.ErrInvalidInput, kind)
	}

	// clock_timestamp is taken after the row lock, so recorded_at follows
	// the order in which postings were applied.
	const query = `
INSERT INTO ledger_entries (
	id,
	account_id,
	kind,
	amount,
	recorded_at
) VALUES ($1, $2, $3, $4, clock_timestamp())
RETURNING ` + entryColumns

	var row entryRow
	if err := l.tx.GetContext(ctx, &row, query, uuid.NewString(), l.account.ID, string(kind), amount); err != nil {
		return domain.LedgerEntry{}, translateError("append ledger entry", err)
	}

	return row.toDomain(), nil
}

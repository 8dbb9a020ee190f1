package postgres

import (
	"context"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const entryColumns = `id, account_id, kind, amount, recorded_at`

type entryRow struct {
	ID         string          `db:"id"`
	AccountID  string          `db:"account_id"`
	Kind       string          `db:"kind"`
	Amount     decimal.Decimal `db:"amount"`
	RecordedAt time.Time       `db:"recorded_at"`
}

func (r entryRow) toDomain() domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:         r.ID,
		AccountID:  r.AccountID,
		Kind:       domain.EntryKind(r.Kind),
		Amount:     r.Amount,
		RecordedAt: r.RecordedAt.UTC(),
	}
}

type LedgerEntryRepository struct {
	db *sqlx.DB
}

var _ domain.LedgerEntryRepository = (*LedgerEntryRepository)(nil)

func NewLedgerEntryRepository(db *sqlx.DB) *LedgerEntryRepository {
	return &LedgerEntryRepository{db: db}
}

func (r *LedgerEntryRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE account_id = $1
ORDER BY recorded_at DESC, seq DESC`
	return r.list(ctx, "list ledger entries", query, accountID)
}

func (r *LedgerEntryRepository) ListByAccountAscending(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	const query = `
SELECT ` + entryColumns + `
FROM ledger_entries
WHERE account_id = $1
ORDER BY recorded_at, seq`
	return r.list(ctx, "list ledger entries ascending", query, accountID)
}

func (r *LedgerEntryRepository) list(ctx context.Context, op, query, accountID string) ([]domain.LedgerEntry, error) {
	logger.Info("ledger entry repository "+op, logger.Fields{"accountId": accountID})

	var rows []entryRow
	if err := r.db.SelectContext(ctx, &rows, query, accountID); err != nil {
		logger.Error("ledger entry repository "+op+" failed", err, logger.Fields{"accountId": accountID})
		return nil, translateError(op, err)
	}

	entries := make([]domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries, nil
}

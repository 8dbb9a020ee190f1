package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const defaultLockTimeout = 2 * time.Second

const accountColumns = `id, account_number, owner_id, account_type, balance, status, created_at, updated_at`

type accountRow struct {
	ID            string          `db:"id"`
	AccountNumber string          `db:"account_number"`
	OwnerID       string          `db:"owner_id"`
	AccountType   string          `db:"account_type"`
	Balance       decimal.Decimal `db:"balance"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r accountRow) toDomain() domain.Account {
	return domain.Account{
		ID:            r.ID,
		AccountNumber: r.AccountNumber,
		OwnerID:       r.OwnerID,
		AccountType:   r.AccountType,
		Balance:       r.Balance,
		Status:        domain.AccountStatus(r.Status),
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

func toAccounts(rows []accountRow) []domain.Account {
	accounts := make([]domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.toDomain())
	}
	return accounts
}

type AccountRepository struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

var (
	_ domain.AccountRepository = (*AccountRepository)(nil)
	_ domain.AccountLocker     = (*AccountRepository)(nil)
)

func NewAccountRepository(db *sqlx.DB, lockTimeout time.Duration) *AccountRepository {
	if lockTimeout <= 0 {
		lockTimeout = defaultLockTimeout
	}
	return &AccountRepository{db: db, lockTimeout: lockTimeout}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"ownerId":       account.OwnerID,
		"accountNumber": account.AccountNumber,
		"accountType":   account.AccountType,
	})

	const query = `
INSERT INTO accounts (
	id,
	account_number,
	owner_id,
	account_type,
	balance,
	status
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + accountColumns

	var row accountRow
	if err := r.db.GetContext(
		ctx,
		&row,
		query,
		uuid.NewString(),
		account.AccountNumber,
		account.OwnerID,
		account.AccountType,
		account.Balance,
		string(account.Status),
	); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"ownerId":       account.OwnerID,
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, translateError("create account", err)
	}

	created := row.toDomain()
	logger.Info("account repository create success", logger.Fields{
		"accountId":     created.ID,
		"accountNumber": created.AccountNumber,
	})

	return created, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, "get account by id", query, id)
}

func (r *AccountRepository) GetByOwner(ctx context.Context, ownerID string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1`
	return r.getOne(ctx, "get account by owner", query, ownerID)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.getOne(ctx, "get account by account number", query, accountNumber)
}

func (r *AccountRepository) getOne(ctx context.Context, op, query string, arg string) (domain.Account, error) {
	var row accountRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		translated := translateError(op, err)
		if domain.KindOf(translated) == domain.KindNotFound {
			logger.Info("account repository record not found", logger.Fields{"op": op, "key": arg})
		} else {
			logger.Error("account repository get failed", err, logger.Fields{"op": op, "key": arg})
		}
		return domain.Account{}, translated
	}

	return row.toDomain(), nil
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at, id`
	return r.selectMany(ctx, "list accounts", query)
}

func (r *AccountRepository) ListByStatus(ctx context.Context, status domain.AccountStatus) ([]domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE status = $1 ORDER BY created_at, id`
	return r.selectMany(ctx, "list accounts by status", query, string(status))
}

func (r *AccountRepository) Search(ctx context.Context, accountType string) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_type ILIKE '%' || $1 || '%'
ORDER BY created_at, id`
	return r.selectMany(ctx, "search accounts", query, escapeLike(accountType))
}

func (r *AccountRepository) selectMany(ctx context.Context, op, query string, args ...any) ([]domain.Account, error) {
	var rows []accountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.Error("account repository "+op+" failed", err, nil)
		return nil, translateError(op, err)
	}

	return toAccounts(rows), nil
}

// WithAccountLock holds the account row with SELECT ... FOR UPDATE for the
// length of fn. lock_timeout bounds the wait so a busy row surfaces as
// ErrContention instead of queueing indefinitely.
func (r *AccountRepository) WithAccountLock(ctx context.Context, accountID string, fn func(ctx context.Context, locked domain.LockedAccount) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return translateError("begin account transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT set_config('lock_timeout', $1, true)`, lockTimeoutSetting(r.lockTimeout)); err != nil {
		return translateError("set lock timeout", err)
	}

	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	var row accountRow
	if err = tx.GetContext(ctx, &row, query, accountID); err != nil {
		logger.Error("account repository lock failed", err, logger.Fields{"accountId": accountID})
		return translateError("lock account", err)
	}

	locked := &lockedAccount{tx: tx, account: row.toDomain()}
	if err = fn(ctx, locked); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		logger.Error("account repository commit failed", err, logger.Fields{"accountId": accountID})
		return translateError("commit account transaction", err)
	}

	return nil
}

func lockTimeoutSetting(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return strconv.FormatInt(ms, 10) + "ms"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/jmoiron/sqlx"
)

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type UserRepository struct {
	db *sqlx.DB
}

var _ domain.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `
SELECT id, username, password_hash, role, created_at
FROM users
WHERE username = $1`

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, username); err != nil {
		translated := translateError("get user by username", err)
		if domain.KindOf(translated) != domain.KindNotFound {
			logger.Error("user repository get failed", err, logger.Fields{"username": username})
		}
		return domain.User{}, translated
	}

	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Role:         domain.Role(row.Role),
		CreatedAt:    row.CreatedAt.UTC(),
	}, nil
}

// Create provisions a login. Username collisions are reported as InvalidInput.
func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"username": user.Username,
		"role":     user.Role,
	})

	const query = `
INSERT INTO users (
	username,
	password_hash,
	role
) VALUES ($1, $2, $3)
RETURNING id, created_at`

	var createdAt time.Time
	if err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, string(user.Role)).Scan(&user.ID, &createdAt); err != nil {
		logger.Error("user repository create failed", err, logger.Fields{"username": user.Username})
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("create user: %w: username %q is taken", domain.ErrInvalidInput, user.Username)
		}
		return domain.User{}, translateError("create user", err)
	}

	user.CreatedAt = createdAt.UTC()
	logger.Info("user repository create success", logger.Fields{"userId": user.ID})
	return user, nil
}

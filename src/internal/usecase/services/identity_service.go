package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// IdentityService turns presented credentials into a Caller. It is the
// boundary adapter for an external identity provider; core services only
// ever see the resulting Caller.
type IdentityService struct {
	userRepo domain.UserRepository
}

func NewIdentityService(userRepo domain.UserRepository) *IdentityService {
	return &IdentityService{userRepo: userRepo}
}

func (s *IdentityService) Authenticate(ctx context.Context, username string, password string) (domain.Caller, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Caller{}, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Info("identity service unknown user", logger.Fields{
				"username": username,
			})
			return domain.Caller{}, ErrInvalidCredentials
		}
		logger.Error("identity service user lookup failed", err, logger.Fields{
			"username": username,
		})
		return domain.Caller{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("identity service password mismatch", logger.Fields{
				"username": username,
			})
			return domain.Caller{}, ErrInvalidCredentials
		}
		return domain.Caller{}, fmt.Errorf("verify password: %w", err)
	}

	if !user.Role.Valid() {
		return domain.Caller{}, fmt.Errorf("%w: unknown role %q", domain.ErrForbidden, user.Role)
	}

	return domain.Caller{UserID: user.ID, Role: user.Role}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}

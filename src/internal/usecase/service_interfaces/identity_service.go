package service_interfaces

import (
	"context"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type IdentityService interface {
	Authenticate(ctx context.Context, username string, password string) (domain.Caller, error)
}

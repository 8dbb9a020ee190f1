package service_interfaces

import "github.com/api-sage/banking-ledger/src/internal/usecase/services"

var (
	_ AccountService     = (*services.AccountService)(nil)
	_ TransactionService = (*services.TransactionService)(nil)
	_ IdentityService    = (*services.IdentityService)(nil)
)

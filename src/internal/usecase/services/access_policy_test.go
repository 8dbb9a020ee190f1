package services

import (
	"testing"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessPolicyRequire(t *testing.T) {
	tests := []struct {
		role    domain.Role
		cap     Capability
		allowed bool
	}{
		{domain.RoleCustomer, CapCreateAccount, true},
		{domain.RoleStaff, CapCreateAccount, false},
		{domain.RoleStaff, CapApproveAccount, true},
		{domain.RoleManager, CapApproveAccount, false},
		{domain.RoleCustomer, CapApproveAccount, false},
		{domain.RoleCustomer, CapCloseAccount, true},
		{domain.RoleManager, CapCloseAccount, false},
		{domain.RoleManager, CapListAccounts, true},
		{domain.RoleCustomer, CapListAccounts, false},
		{domain.RoleCustomer, CapTransact, true},
		{domain.RoleStaff, CapTransact, false},
		{domain.RoleManager, CapViewLedger, true},
		{domain.Role("admin"), CapViewLedger, false},
	}

	var policy AccessPolicy
	for _, tc := range tests {
		t.Run(string(tc.role)+"/"+string(tc.cap), func(t *testing.T) {
			err := policy.Require(domain.Caller{UserID: "u-1", Role: tc.role}, tc.cap)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrForbidden)
		})
	}
}

func TestAccessPolicyRequireForOwnership(t *testing.T) {
	var policy AccessPolicy
	account := domain.Account{ID: "a-1", OwnerID: "u-1"}

	require.NoError(t, policy.RequireFor(domain.Caller{UserID: "u-1", Role: domain.RoleCustomer}, CapViewLedger, account))
	require.ErrorIs(t, policy.RequireFor(domain.Caller{UserID: "u-2", Role: domain.RoleCustomer}, CapViewLedger, account), domain.ErrForbidden)
	require.NoError(t, policy.RequireFor(domain.Caller{UserID: "s-1", Role: domain.RoleStaff}, CapCloseAccount, account))
	require.ErrorIs(t, policy.RequireFor(domain.Caller{Role: domain.RoleStaff}, CapCloseAccount, account), domain.ErrForbidden)
}

package services

import (
	"fmt"

	"github.com/api-sage/banking-ledger/src/internal/domain"
)

type Capability string

const (
	CapCreateAccount  Capability = "account:create"
	CapApproveAccount Capability = "account:approve"
	CapCloseAccount   Capability = "account:close"
	CapViewAccount    Capability = "account:view"
	CapListAccounts   Capability = "account:list"
	CapTransact       Capability = "ledger:transact"
	CapViewLedger     Capability = "ledger:view"
)

type scope int

const (
	scopeOwn scope = iota + 1
	scopeAny
)

var grants = map[Capability]map[domain.Role]scope{
	CapCreateAccount:  {domain.RoleCustomer: scopeOwn},
	CapApproveAccount: {domain.RoleStaff: scopeAny},
	CapCloseAccount:   {domain.RoleStaff: scopeAny, domain.RoleCustomer: scopeOwn},
	CapViewAccount:    {domain.RoleStaff: scopeAny, domain.RoleManager: scopeAny, domain.RoleCustomer: scopeOwn},
	CapListAccounts:   {domain.RoleStaff: scopeAny, domain.RoleManager: scopeAny},
	CapTransact:       {domain.RoleCustomer: scopeOwn},
	CapViewLedger:     {domain.RoleStaff: scopeAny, domain.RoleManager: scopeAny, domain.RoleCustomer: scopeOwn},
}

// AccessPolicy is the single place where a caller's role is turned into a
// yes/no for an operation. Services call it instead of testing roles inline.
type AccessPolicy struct{}

// Require checks that the caller's role holds the capability at any scope.
func (AccessPolicy) Require(caller domain.Caller, capability Capability) error {
	if _, ok := lookup(caller, capability); !ok {
		return forbidden(caller, capability)
	}
	return nil
}

// RequireFor additionally checks ownership when the role only holds the
// capability for its own account.
func (AccessPolicy) RequireFor(caller domain.Caller, capability Capability, account domain.Account) error {
	sc, ok := lookup(caller, capability)
	if !ok {
		return forbidden(caller, capability)
	}
	if sc == scopeOwn && account.OwnerID != caller.UserID {
		return fmt.Errorf("%w: %s is limited to the caller's own account", domain.ErrForbidden, capability)
	}
	return nil
}

func lookup(caller domain.Caller, capability Capability) (scope, bool) {
	if caller.UserID == "" || !caller.Role.Valid() {
		return 0, false
	}
	sc, ok := grants[capability][caller.Role]
	return sc, ok
}

func forbidden(caller domain.Caller, capability Capability) error {
	return fmt.Errorf("%w: role %q cannot %s", domain.ErrForbidden, caller.Role, capability)
}

package domain

import "errors"

type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "InvalidInput"
	KindDuplicateAccount   ErrorKind = "DuplicateAccount"
	KindNotFound           ErrorKind = "NotFound"
	KindForbidden          ErrorKind = "Forbidden"
	KindInvalidTransition  ErrorKind = "InvalidTransition"
	KindInvalidAmount      ErrorKind = "InvalidAmount"
	KindAccountNotApproved ErrorKind = "AccountNotApproved"
	KindInsufficientFunds  ErrorKind = "InsufficientFunds"
	KindContention         ErrorKind = "Contention"
	KindNoTransactions     ErrorKind = "NoTransactions"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateAccount   = errors.New("user already has an account")
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("invalid account status transition")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrAccountNotApproved = errors.New("account is not approved")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrContention         = errors.New("account is busy, retry later")
	ErrNoTransactions     = errors.New("no transactions found for the account")

	// ErrAccountNumberTaken is internal to account creation; callers never see it.
	ErrAccountNumberTaken = errors.New("account number already in use")
)

var kinds = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidInput, KindInvalidInput},
	{ErrDuplicateAccount, KindDuplicateAccount},
	{ErrNotFound, KindNotFound},
	{ErrForbidden, KindForbidden},
	{ErrInvalidTransition, KindInvalidTransition},
	{ErrInvalidAmount, KindInvalidAmount},
	{ErrAccountNotApproved, KindAccountNotApproved},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrContention, KindContention},
	{ErrNoTransactions, KindNoTransactions},
}

// KindOf returns the kind of a domain error, or "" for infrastructure failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

func IsRetryable(err error) bool {
	return errors.Is(err, ErrContention)
}

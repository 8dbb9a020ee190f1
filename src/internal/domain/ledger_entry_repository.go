package domain

import "context"

type LedgerEntryRepository interface {
	ListByAccount(ctx context.Context, accountID string) ([]LedgerEntry, error)
	ListByAccountAscending(ctx context.Context, accountID string) ([]LedgerEntry, error)
}

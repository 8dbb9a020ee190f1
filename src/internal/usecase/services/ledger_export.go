package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

var csvHeader = []string{"Account Number", "Date", "Type", "Amount"}

// LedgerExport is a point-in-time copy of an account's ledger, oldest first.
type LedgerExport struct {
	AccountNumber string
	Entries       []domain.LedgerEntry
}

func (e LedgerExport) FileName() string {
	return fmt.Sprintf("transactions_account_%s.csv", e.AccountNumber)
}

// WriteCSV renders one row per entry after a header row. Output depends only
// on the entries, so repeated exports of the same ledger are identical.
func (e LedgerExport) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, entry := range e.Entries {
		row := []string{
			e.AccountNumber,
			entry.RecordedAt.UTC().Format(time.RFC3339),
			string(entry.Kind),
			entry.Amount.StringFixed(moneyScale),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (s *TransactionService) ExportCSV(ctx context.Context, caller domain.Caller, accountNumber string) (LedgerExport, error) {
	logger.Info("transaction service export request", logger.Fields{
		"accountNumber": accountNumber,
		"actorId":       caller.UserID,
	})

	if err := s.policy.Require(caller, CapViewLedger); err != nil {
		return LedgerExport{}, err
	}

	accountNumber = strings.TrimSpace(accountNumber)
	if !isTenDigitAccountNumber(accountNumber) {
		return LedgerExport{}, fmt.Errorf("%w: accountNumber must be exactly 10 digits", domain.ErrInvalidInput)
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return LedgerExport{}, err
	}
	if err := s.policy.RequireFor(caller, CapViewLedger, account); err != nil {
		return LedgerExport{}, err
	}
	if account.Status != domain.AccountStatusApproved {
		return LedgerExport{}, fmt.Errorf("%w: status is %s", domain.ErrAccountNotApproved, account.Status)
	}

	entries, err := s.entryRepo.ListByAccountAscending(ctx, account.ID)
	if err != nil {
		logger.Error("transaction service export list entries failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return LedgerExport{}, err
	}
	if len(entries) == 0 {
		return LedgerExport{}, domain.ErrNoTransactions
	}

	logger.Info("transaction service export success", logger.Fields{
		"accountId": account.ID,
		"rows":      len(entries),
	})
	return LedgerExport{AccountNumber: account.AccountNumber, Entries: entries}, nil
}

func isTenDigitAccountNumber(accountNumber string) bool {
	if len(accountNumber) != 10 {
		return false
	}

	for _, ch := range accountNumber {
		if ch < '0' || ch > '9' {
			return false
		}
	}

	return true
}

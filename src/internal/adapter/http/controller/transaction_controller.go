package controller

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type TransactionController struct {
	service service_interfaces.TransactionService
}

func NewTransactionController(service service_interfaces.TransactionService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(r chi.Router) {
	r.Post("/transactions/deposit", c.deposit)
	r.Post("/transactions/withdraw", c.withdraw)
	r.Get("/transactions/me", c.listMine)
	r.Get("/accounts/{id}/transactions", c.listForAccount)
	r.Get("/accounts/number/{accountNumber}/transactions.csv", c.exportCSV)
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	c.post(w, r, "Deposit successful", c.service.Deposit)
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	c.post(w, r, "Withdrawal successful", c.service.Withdraw)
}

type postFunc func(ctx context.Context, caller domain.Caller, amount decimal.Decimal) (decimal.Decimal, error)

func (c *TransactionController) post(w http.ResponseWriter, r *http.Request, message string, apply postFunc) {
	start := time.Now()
	caller, ok := callerOrReject[models.BalanceResponse](w, r, start)
	if !ok {
		return
	}

	var req models.AmountRequest
	if !decodeBody[models.BalanceResponse](w, r, &req, start) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError[models.BalanceResponse](w, r, http.StatusBadRequest, "validation failed", start, err.Error())
		return
	}

	balance, err := apply(r.Context(), caller, req.Value())
	if err != nil {
		respondServiceError[models.BalanceResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, message, models.BalanceResponse{Balance: balance.StringFixed(2)}, start)
}

func (c *TransactionController) listMine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[[]models.TransactionResponse](w, r, start)
	if !ok {
		return
	}

	entries, err := c.service.ListOwnTransactions(r.Context(), caller)
	if err != nil {
		respondServiceError[[]models.TransactionResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, "Transactions retrieved", models.NewTransactionResponses(entries), start)
}

func (c *TransactionController) listForAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[[]models.TransactionResponse](w, r, start)
	if !ok {
		return
	}

	entries, err := c.service.ListTransactions(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError[[]models.TransactionResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, "Transactions retrieved", models.NewTransactionResponses(entries), start)
}

func (c *TransactionController) exportCSV(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[struct{}](w, r, start)
	if !ok {
		return
	}

	export, err := c.service.ExportCSV(r.Context(), caller, chi.URLParam(r, "accountNumber"))
	if err != nil {
		respondServiceError[struct{}](w, r, err, start)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf); err != nil {
		respondServiceError[struct{}](w, r, err, start)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
	logResponse(r, http.StatusOK, map[string]any{"rows": len(export.Entries)}, start)
}

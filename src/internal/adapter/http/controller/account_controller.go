package controller

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
	"github.com/go-chi/chi/v5"
)

type AccountController struct {
	service service_interfaces.AccountService
}

func NewAccountController(service service_interfaces.AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(r chi.Router) {
	r.Post("/accounts", c.createAccount)
	r.Get("/accounts", c.listAccounts)
	r.Get("/accounts/approved", c.listApproved)
	r.Get("/accounts/me", c.getMine)
	r.Get("/accounts/{id}", c.getByID)
	r.Patch("/accounts/{id}/approve", c.approve)
	r.Patch("/accounts/{id}/close", c.close)
}

func (c *AccountController) createAccount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	caller, ok := callerOrReject[models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	var req models.CreateAccountRequest
	if !decodeBody[models.AccountResponse](w, r, &req, start) {
		return
	}
	if err := req.Validate(); err != nil {
		respondError[models.AccountResponse](w, r, http.StatusBadRequest, "validation failed", start, err.Error())
		return
	}

	account, err := c.service.CreateAccount(r.Context(), caller, req.AccountType, req.Balance())
	if err != nil {
		respondServiceError[models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusCreated, "Account created", models.NewAccountResponse(account), start)
}

func (c *AccountController) listAccounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[[]models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	var (
		accounts []domain.Account
		err      error
	)
	query := r.URL.Query()
	switch {
	case strings.TrimSpace(query.Get("status")) != "":
		accounts, err = c.service.ListByStatus(r.Context(), caller, parseStatus(query.Get("status")))
	case strings.TrimSpace(query.Get("search")) != "":
		accounts, err = c.service.Search(r.Context(), caller, query.Get("search"))
	default:
		accounts, err = c.service.ListAll(r.Context(), caller)
	}
	if err != nil {
		respondServiceError[[]models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, "Accounts retrieved", models.NewAccountResponses(accounts), start)
}

// listApproved pages through approved accounts, newest first.
func (c *AccountController) listApproved(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[models.Page[models.AccountResponse]](w, r, start)
	if !ok {
		return
	}

	pageReq, err := models.ParsePageRequest(r.URL.Query())
	if err != nil {
		respondError[models.Page[models.AccountResponse]](w, r, http.StatusBadRequest, "validation failed", start, err.Error())
		return
	}

	accounts, err := c.service.ListByStatus(r.Context(), caller, domain.AccountStatusApproved)
	if err != nil {
		respondServiceError[models.Page[models.AccountResponse]](w, r, err, start)
		return
	}
	slices.Reverse(accounts)

	page, err := models.Paginate(models.NewAccountResponses(accounts), pageReq)
	if errors.Is(err, models.ErrPageOutOfRange) {
		respondError[models.Page[models.AccountResponse]](w, r, http.StatusNotFound, "page not found", start)
		return
	}

	respond(w, r, http.StatusOK, "Approved accounts retrieved", page, start)
}

func (c *AccountController) getMine(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	account, err := c.service.GetByOwner(r.Context(), caller, caller.UserID)
	if err != nil {
		respondServiceError[models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, "Account retrieved", models.NewAccountResponse(account), start)
}

func (c *AccountController) getByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	account, err := c.service.GetByID(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError[models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, "Account retrieved", models.NewAccountResponse(account), start)
}

func (c *AccountController) approve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	account, err := c.service.Approve(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError[models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, "Account approved", models.NewAccountResponse(account), start)
}

func (c *AccountController) close(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)
	caller, ok := callerOrReject[models.AccountResponse](w, r, start)
	if !ok {
		return
	}

	account, err := c.service.Close(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError[models.AccountResponse](w, r, err, start)
		return
	}

	respond(w, r, http.StatusOK, "Account closed", models.NewAccountResponse(account), start)
}

// parseStatus accepts any casing of a lifecycle status name.
func parseStatus(raw string) domain.AccountStatus {
	raw = strings.TrimSpace(raw)
	for _, status := range []domain.AccountStatus{domain.AccountStatusPending, domain.AccountStatusApproved, domain.AccountStatusClosed} {
		if strings.EqualFold(raw, string(status)) {
			return status
		}
	}
	return domain.AccountStatus(raw)
}

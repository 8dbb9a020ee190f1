package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/banking-ledger/src/internal/commons"
	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
)

// statusFor maps an error kind onto the HTTP status the API reports for it.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidInput, domain.KindInvalidAmount:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound, domain.KindNoTransactions:
		return http.StatusNotFound
	case domain.KindDuplicateAccount, domain.KindInvalidTransition:
		return http.StatusConflict
	case domain.KindAccountNotApproved, domain.KindInsufficientFunds:
		return http.StatusUnprocessableEntity
	case domain.KindContention:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respond[T any](w http.ResponseWriter, r *http.Request, status int, message string, data T, start time.Time) {
	response := commons.SuccessResponse(message, data)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func respondError[T any](w http.ResponseWriter, r *http.Request, status int, message string, start time.Time, details ...string) {
	response := commons.ErrorResponse[T](message, details...)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

// respondServiceError reports a service failure. Infrastructure errors are
// logged in full but reach the client only as a generic message.
func respondServiceError[T any](w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	status := statusFor(err)
	kind := domain.KindOf(err)
	logError(r, err, logger.Fields{"status": status, "kind": kind})

	if status == http.StatusInternalServerError {
		respondError[T](w, r, status, "internal server error", start)
		return
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}

	response := commons.CodedErrorResponse[T](string(kind), err.Error())
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}

func callerOrReject[T any](w http.ResponseWriter, r *http.Request, start time.Time) (domain.Caller, bool) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		respondError[T](w, r, http.StatusUnauthorized, "unauthorized", start)
		return domain.Caller{}, false
	}
	return caller, true
}

func decodeBody[T any, R any](w http.ResponseWriter, r *http.Request, dst *R, start time.Time) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logError(r, err, nil)
		respondError[T](w, r, http.StatusBadRequest, "invalid request body", start, err.Error())
		return false
	}
	logRequest(r, *dst)
	return true
}

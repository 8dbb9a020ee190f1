package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/usecase/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type identityStub struct {
	authenticateFn func(ctx context.Context, username, password string) (domain.Caller, error)
}

func (s identityStub) Authenticate(ctx context.Context, username, password string) (domain.Caller, error) {
	return s.authenticateFn(ctx, username, password)
}

func validIdentity() identityStub {
	return identityStub{authenticateFn: func(_ context.Context, username, password string) (domain.Caller, error) {
		if username == "ada" && password == "s3cret" {
			return domain.Caller{UserID: "u-1", Role: domain.RoleCustomer}, nil
		}
		return domain.Caller{}, services.ErrInvalidCredentials
	}}
}

func TestBasicAuth_AllowsValidCredentials(t *testing.T) {
	var seen domain.Caller
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CallerFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("ada", "s3cret")

	rr := httptest.NewRecorder()
	BasicAuth(validIdentity())(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.Caller{UserID: "u-1", Role: domain.RoleCustomer}, seen)
}

func TestBasicAuth_RejectsInvalidCredentials(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	for name, req := range map[string]*http.Request{
		"wrong password": func() *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.SetBasicAuth("ada", "nope")
			return r
		}(),
		"missing header": httptest.NewRequest(http.MethodGet, "/", nil),
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			BasicAuth(validIdentity())(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestBasicAuth_IdentityFailureIsServerError(t *testing.T) {
	identity := identityStub{authenticateFn: func(context.Context, string, string) (domain.Caller, error) {
		return domain.Caller{}, errors.New("db down")
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("ada", "s3cret")
	rr := httptest.NewRecorder()
	BasicAuth(identity)(http.NotFoundHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithCaller(req.Context(), domain.Caller{UserID: "u-1", Role: domain.RoleCustomer}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other = other.WithContext(WithCaller(other.Context(), domain.Caller{UserID: "u-2", Role: domain.RoleCustomer}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, other)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	var deadline time.Time
	var ok bool
	handler := RequestTimeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, ok = r.Context().Deadline()
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/api-sage/banking-ledger/src/internal/domain"
	"github.com/api-sage/banking-ledger/src/internal/logger"
	"github.com/api-sage/banking-ledger/src/internal/usecase/service_interfaces"
	"github.com/api-sage/banking-ledger/src/internal/usecase/services"
)

type callerKey struct{}

// WithCaller stores the authenticated caller on ctx.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller placed by BasicAuth.
func CallerFromContext(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(domain.Caller)
	return caller, ok
}

// BasicAuth verifies HTTP Basic credentials against the identity service and
// attaches the resulting caller to the request context.
func BasicAuth(identity service_interfaces.IdentityService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity == nil {
				logger.Error("basic auth middleware missing identity service", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, r)
				return
			}

			caller, err := identity.Authenticate(r.Context(), username, password)
			if err != nil {
				if errors.Is(err, services.ErrInvalidCredentials) {
					unauthorized(w, r)
					return
				}
				if errors.Is(err, domain.ErrForbidden) {
					http.Error(w, "forbidden", http.StatusForbidden)
					return
				}
				logger.Error("basic auth middleware identity lookup failed", err, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}

			logger.Info("basic auth middleware authorized request", logger.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"userId": caller.UserID,
				"role":   caller.Role,
			})
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	logger.Info("basic auth middleware unauthorized request", logger.Fields{
		"method":      r.Method,
		"path":        r.URL.Path,
		"credentials": "invalid_or_missing",
	})
	w.Header().Set("WWW-Authenticate", `Basic realm="banking-ledger"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

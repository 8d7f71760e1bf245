package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/amiraziz/souq-backend/api/responses"
	"github.com/amiraziz/souq-backend/pkg/auth"
	"github.com/amiraziz/souq-backend/pkg/config"
	"github.com/amiraziz/souq-backend/pkg/enums"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

const guestIDHeader = "X-Guest-Id"

// Auth rejects requests without a valid bearer token.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(cfg, r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), logg, claims)))
		})
	}
}

// OptionalAuth attaches claims when a valid token is present but lets
// anonymous traffic through. Storefront reads work for guests; a bad token
// is still rejected rather than silently downgraded.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := claimsFromRequest(cfg, r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextWithClaims(r.Context(), logg, claims)))
		})
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok || role != enums.UserRoleAdmin {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GuestID lifts the device identifier header into the request context so
// anonymous carts and wishlists can be keyed per device.
func GuestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guestID := strings.TrimSpace(r.Header.Get(guestIDHeader))
			if guestID == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithGuestID(r.Context(), guestID)
			ctx = logg.WithGuestID(ctx, guestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFromRequest(cfg config.JWTConfig, r *http.Request) (*auth.AccessTokenClaims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed authorization header")
	}
	claims, err := auth.ParseAccessToken(cfg, strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid access token")
	}
	return claims, nil
}

func contextWithClaims(ctx context.Context, logg *logger.Logger, claims *auth.AccessTokenClaims) context.Context {
	ctx = WithUserID(ctx, claims.UserID.String())
	ctx = WithRole(ctx, claims.Role)
	if claims.Locale.IsValid() {
		ctx = context.WithValue(ctx, ctxLocale, claims.Locale)
	}
	return logg.WithUserID(ctx, claims.UserID.String())
}

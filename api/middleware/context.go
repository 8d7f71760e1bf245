package middleware

import (
	"context"

	"github.com/amiraziz/souq-backend/pkg/enums"
)

type contextKey string

const (
	ctxUserID  contextKey = "user_id"
	ctxRole    contextKey = "role"
	ctxLocale  contextKey = "locale"
	ctxGuestID contextKey = "guest_id"
)

// WithUserID stamps the authenticated user id onto the context. Handlers
// under test use it in place of the Auth middleware.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRole stamps the authenticated role onto the context.
func WithRole(ctx context.Context, role enums.UserRole) context.Context {
	return context.WithValue(ctx, ctxRole, role)
}

// WithGuestID stamps the device identifier onto the context.
func WithGuestID(ctx context.Context, guestID string) context.Context {
	return context.WithValue(ctx, ctxGuestID, guestID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxUserID).(string)
	return id, ok && id != ""
}

func RoleFromContext(ctx context.Context) (enums.UserRole, bool) {
	role, ok := ctx.Value(ctxRole).(enums.UserRole)
	return role, ok
}

func LocaleFromContext(ctx context.Context) enums.Locale {
	if locale, ok := ctx.Value(ctxLocale).(enums.Locale); ok && locale.IsValid() {
		return locale
	}
	return enums.LocaleEnglish
}

func GuestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxGuestID).(string)
	return id, ok && id != ""
}

package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/amiraziz/souq-backend/api/middleware"
	"github.com/amiraziz/souq-backend/internal/cart"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
)

// identityFromRequest builds the shopper identity from whatever the request
// carries: the authenticated user id, the guest device header, or both during
// the sign-in window.
func identityFromRequest(r *http.Request) (cart.Identity, error) {
	id := cart.Identity{}

	if guestID, ok := middleware.GuestIDFromContext(r.Context()); ok {
		id.GuestID = guestID
	}

	if raw, ok := middleware.UserIDFromContext(r.Context()); ok {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return cart.Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
		}
		id.UserID = userID
	}

	if id.GuestID == "" && !id.Authenticated() {
		return cart.Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "missing X-Guest-Id header or access token")
	}
	return id, nil
}

// userIDFromRequest is for endpoints that require a signed-in shopper.
func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

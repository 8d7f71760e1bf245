package controllers

import (
	"net/http"

	"github.com/amiraziz/souq-backend/api/middleware"
	"github.com/amiraziz/souq-backend/api/responses"
	"github.com/amiraziz/souq-backend/api/validators"
	"github.com/amiraziz/souq-backend/internal/cart"
	usersvc "github.com/amiraziz/souq-backend/internal/users"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

// Register creates an account and signs the shopper in. When the request
// carries a guest device id the anonymous cart and wishlist merge into the
// fresh account.
func Register(svc usersvc.Service, session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload usersvc.RegisterInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		auth, err := svc.Register(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mergeGuestState(r, session, logg, auth)
		responses.WriteSuccessStatus(w, http.StatusCreated, auth)
	}
}

// Login authenticates a shopper and runs the guest merge when a device id
// is present.
func Login(svc usersvc.Service, session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload usersvc.LoginInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		auth, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mergeGuestState(r, session, logg, auth)
		responses.WriteSuccess(w, auth)
	}
}

// Logout resets the device merge state so the next sign-in on this device
// merges again.
func Logout(session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if guestID, ok := middleware.GuestIDFromContext(r.Context()); ok {
			if err := session.OnSignedOut(r.Context(), guestID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "signed out"})
	}
}

// Me returns the authenticated shopper's profile.
func Me(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// Merge failures never block a successful authentication. The device phase
// resets so the next sign-in on this device retries the merge.
func mergeGuestState(r *http.Request, session cart.Session, logg *logger.Logger, auth usersvc.AuthDTO) {
	guestID, ok := middleware.GuestIDFromContext(r.Context())
	if !ok {
		return
	}
	if err := session.OnAuthenticated(r.Context(), guestID, auth.User.ID); err != nil {
		logg.Error(r.Context(), "guest merge failed", err)
	}
}

package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amiraziz/souq-backend/api/responses"
	"github.com/amiraziz/souq-backend/api/validators"
	usersvc "github.com/amiraziz/souq-backend/internal/users"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

type setBannedRequest struct {
	Banned *bool `json:"banned" validate:"required"`
}

// AdminSetUserBanned flips a shopper's banned flag.
func AdminSetUserBanned(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload setBannedRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetBanned(r.Context(), userID, *payload.Banned); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"banned": *payload.Banned})
	}
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// AdminResetUserPassword replaces a shopper's password.
func AdminResetUserPassword(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload resetPasswordRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ResetPassword(r.Context(), userID, payload.Password); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "password reset"})
	}
}

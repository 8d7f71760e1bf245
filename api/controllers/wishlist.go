package controllers

import (
	"net/http"

	"github.com/amiraziz/souq-backend/api/responses"
	"github.com/amiraziz/souq-backend/api/validators"
	"github.com/amiraziz/souq-backend/internal/cart"
	"github.com/amiraziz/souq-backend/internal/wishlist"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

type wishlistResponse struct {
	Items []wishlist.Entry `json:"items"`
}

// GetWishlist returns the shopper's wishlist.
func GetWishlist(session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := session.Wishlist(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wishlistResponse{Items: entries})
	}
}

// ToggleWishlist adds the product when absent and removes it when present.
func ToggleWishlist(session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload wishlist.Entry
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entries, err := session.ToggleWishlist(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, wishlistResponse{Items: entries})
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/amiraziz/souq-backend/api/responses"
	"github.com/amiraziz/souq-backend/api/validators"
	"github.com/amiraziz/souq-backend/internal/cart"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

type cartResponse struct {
	Items []cart.Line `json:"items"`
}

// GetCart returns the shopper's cart, server-side for signed-in users and
// device-keyed for guests.
func GetCart(session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lines, err := session.Cart(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: lines})
	}
}

// AddToCart adds a resolved variant line, bumping the quantity when the
// variant is already present.
func AddToCart(session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload cart.Line
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lines, err := session.AddToCart(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: lines})
	}
}

type updateQtyRequest struct {
	Qty int `json:"qty" validate:"required,min=1"`
}

// UpdateCartQty sets the quantity of an existing line.
func UpdateCartQty(session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID := strings.TrimSpace(chi.URLParam(r, "variantId"))
		if variantID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "variant id is required"))
			return
		}
		var payload updateQtyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lines, err := session.UpdateQty(r.Context(), id, variantID, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: lines})
	}
}

// RemoveFromCart deletes a line by variant id.
func RemoveFromCart(session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID := strings.TrimSpace(chi.URLParam(r, "variantId"))
		if variantID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "variant id is required"))
			return
		}
		lines, err := session.RemoveFromCart(r.Context(), id, variantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: lines})
	}
}

// ClearCart empties the cart everywhere the identity reaches.
func ClearCart(session cart.Session, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := identityFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := session.ClearCart(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Items: []cart.Line{}})
	}
}

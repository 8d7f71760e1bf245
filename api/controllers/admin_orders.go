package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amiraziz/souq-backend/api/middleware"
	"github.com/amiraziz/souq-backend/api/responses"
	"github.com/amiraziz/souq-backend/api/validators"
	ordersvc "github.com/amiraziz/souq-backend/internal/orders"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

// AdminGetOrder returns any order regardless of owner.
func AdminGetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminTransitionOrder moves an order to a new status. Transitioning to
// completed deducts stock exactly once.
func AdminTransitionOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload ordersvc.TransitionInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Actor == "" {
			if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
				payload.Actor = userID
			}
		}
		order, err := svc.Transition(r.Context(), orderID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminBulkTransitionOrders applies a status change to many orders and
// reports per-order failures without aborting the batch.
func AdminBulkTransitionOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ordersvc.BulkTransitionInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Actor == "" {
			if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
				payload.Actor = userID
			}
		}
		result, err := svc.BulkTransition(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

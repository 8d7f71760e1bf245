package orders

import (
	"github.com/google/uuid"

	"github.com/amiraziz/souq-backend/pkg/db/models"
	"github.com/amiraziz/souq-backend/pkg/enums"
	"github.com/amiraziz/souq-backend/pkg/types"
)

// PlaceOrderInput is the checkout payload. The items come from the caller's
// cart, never from the request body.
type PlaceOrderInput struct {
	Address types.Address `json:"address"`
	Notes   string        `json:"notes"`
}

// TransitionInput is one admin-initiated status change.
type TransitionInput struct {
	Status         enums.OrderStatus `json:"status"`
	Reason         string            `json:"reason"`
	TrackingNumber *string           `json:"trackingNumber"`
	Notes          *string           `json:"notes"`
	Actor          string            `json:"actor"`
}

// BulkTransitionInput applies one status change across many orders.
type BulkTransitionInput struct {
	OrderIDs []uuid.UUID       `json:"orderIds"`
	Status   enums.OrderStatus `json:"status"`
	Reason   string            `json:"reason"`
	Actor    string            `json:"actor"`
}

// BulkFailure records why one order in a bulk change was skipped.
type BulkFailure struct {
	OrderID uuid.UUID `json:"orderId"`
	Error   string    `json:"error"`
}

// BulkResultDTO reports partial success: the bulk flow continues past
// individual failures and aggregates them instead of aborting the batch.
type BulkResultDTO struct {
	Succeeded []uuid.UUID   `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

// PageDTO is one cursor page of a user's order history.
type PageDTO struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/internal/cart"
	"github.com/amiraziz/souq-backend/internal/stock"
	"github.com/amiraziz/souq-backend/pkg/db"
	"github.com/amiraziz/souq-backend/pkg/db/models"
	"github.com/amiraziz/souq-backend/pkg/enums"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
	"github.com/amiraziz/souq-backend/pkg/metrics"
	"github.com/amiraziz/souq-backend/pkg/types"
)

// ServiceParams groups dependencies for the order service.
type ServiceParams struct {
	Repo         *Repository
	Session      cart.Session
	Stock        stock.Service
	DB           *db.Client
	Logger       *logger.Logger
	Metrics      *metrics.CommerceMetrics
	ShippingFlat string
}

// Service owns checkout and the admin fulfillment workflow.
type Service interface {
	PlaceOrder(ctx context.Context, id cart.Identity, input PlaceOrderInput) (*models.Order, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	Transition(ctx context.Context, orderID uuid.UUID, input TransitionInput) (*models.Order, error)
	BulkTransition(ctx context.Context, input BulkTransitionInput) (BulkResultDTO, error)
}

type service struct {
	repo         *Repository
	session      cart.Session
	stock        stock.Service
	db           *db.Client
	logger       *logger.Logger
	metrics      *metrics.CommerceMetrics
	shippingFlat decimal.Decimal
}

// NewService builds an order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.Session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if params.Stock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock service is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	shipping := decimal.Zero
	if strings.TrimSpace(params.ShippingFlat) != "" {
		parsed, err := decimal.NewFromString(params.ShippingFlat)
		if err != nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid flat shipping amount %q", params.ShippingFlat)
		}
		shipping = parsed
	}
	return &service{
		repo:         params.Repo,
		session:      params.Session,
		stock:        params.Stock,
		db:           params.DB,
		logger:       params.Logger,
		metrics:      params.Metrics,
		shippingFlat: shipping,
	}, nil
}

// PlaceOrder freezes the identity's cart into an order document and clears
// the cart. Payment is cash on delivery; totals are computed server-side
// from the snapshot prices.
func (s *service) PlaceOrder(ctx context.Context, id cart.Identity, input PlaceOrderInput) (*models.Order, error) {
	if !id.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order")
	}
	if err := input.Address.Validate(); err != nil {
		return nil, err
	}

	lines, err := s.session.Cart(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Slug:      line.Slug,
			TitleEN:   line.TitleEN,
			TitleAR:   line.TitleAR,
			Image:     line.Image,
			Variant:   line.SelectedAttributes.Clone(),
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: lineTotal,
		})
	}

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        id.UserID,
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCOD,
		Subtotal:      subtotal,
		Shipping:      s.shippingFlat,
		Total:         subtotal.Add(s.shippingFlat),
		Address:       input.Address,
		StockDeducted: false,
		Activities: types.ActivityLog{}.Append(types.Activity{
			Message:   "order placed",
			Detail:    input.Notes,
			Actor:     id.UserID.String(),
			Timestamp: time.Now().UTC(),
		}),
		Items: items,
	}

	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.Create(ctx, tx, order)
	}); err != nil {
		return nil, err
	}

	// The cart is cleared exactly once, after the order document exists.
	if err := s.session.ClearCart(ctx, id); err != nil {
		s.logger.Error(s.logger.WithOrderID(ctx, order.ID.String()), "order placed but cart not cleared", err)
	}

	s.metrics.IncOrderPlaced()
	s.logger.Info(s.logger.WithOrderID(ctx, order.ID.String()), "order placed")
	return order, nil
}

// GetForUser fetches one order and enforces ownership.
func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", orderID)
	}
	return order, nil
}

// ListForUser returns the user's order history, newest first.
func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	return s.repo.ListByUser(ctx, userID, cursor, limit)
}

// Get fetches one order without an ownership check, for the admin workflow.
func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// Transition applies one admin status change. Reaching completed while the
// order's stock is not yet deducted triggers the deduction first; if that
// fails the whole transition fails and StockDeducted stays false. The status,
// the flag, tracking, notes and the new activity entry persist in one update.
func (s *service) Transition(ctx context.Context, orderID uuid.UUID, input TransitionInput) (*models.Order, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", input.Status)
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(input.Status) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict,
			"order %s cannot move from %s to %s", orderID, order.Status, input.Status)
	}

	if input.Status == enums.OrderStatusCompleted && !order.StockDeducted {
		if err := s.stock.Deduct(ctx, order); err != nil {
			return nil, err
		}
		order.StockDeducted = true
	}

	detail := fmt.Sprintf("%s -> %s", order.Status, input.Status)
	if strings.TrimSpace(input.Reason) != "" {
		detail += ": " + input.Reason
	}
	order.Activities = order.Activities.Append(types.Activity{
		Message:   "status changed",
		Detail:    detail,
		Actor:     input.Actor,
		Timestamp: time.Now().UTC(),
	})
	order.Status = input.Status
	if input.TrackingNumber != nil {
		order.TrackingNumber = input.TrackingNumber
	}
	if input.Notes != nil {
		order.Notes = input.Notes
	}

	if err := s.repo.UpdateWorkflow(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info(s.logger.WithOrderID(ctx, order.ID.String()), "order status changed")
	return order, nil
}

// BulkTransition applies one status change across many orders, continuing
// past individual failures and reporting partial success. The per-order
// errors are aggregated for the log; the batch itself only errors on empty
// input.
func (s *service) BulkTransition(ctx context.Context, input BulkTransitionInput) (BulkResultDTO, error) {
	if len(input.OrderIDs) == 0 {
		return BulkResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "no order ids given")
	}

	var result BulkResultDTO
	var combined error
	for _, orderID := range input.OrderIDs {
		_, err := s.Transition(ctx, orderID, TransitionInput{
			Status: input.Status,
			Reason: input.Reason,
			Actor:  input.Actor,
		})
		if err != nil {
			combined = multierr.Append(combined, fmt.Errorf("order %s: %w", orderID, err))
			result.Failed = append(result.Failed, BulkFailure{OrderID: orderID, Error: err.Error()})
			s.metrics.IncBulkOutcome("failed")
			continue
		}
		result.Succeeded = append(result.Succeeded, orderID)
		s.metrics.IncBulkOutcome("ok")
	}

	if combined != nil {
		s.logger.Warn(s.logger.WithField(ctx, "failed_count", len(result.Failed)), "bulk status change finished with failures: "+combined.Error())
	}
	return result, nil
}

package stock

import (
	"context"

	"github.com/amiraziz/souq-backend/internal/products"
	"github.com/amiraziz/souq-backend/pkg/db/models"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
	"github.com/amiraziz/souq-backend/pkg/metrics"
	"github.com/amiraziz/souq-backend/pkg/types"
)

// ServiceParams groups dependencies for the stock deduction service.
type ServiceParams struct {
	ProductRepo *products.Repository
	Logger      *logger.Logger
	Metrics     *metrics.CommerceMetrics
}

// Service applies the one-time stock decrement for a fulfilled order.
type Service interface {
	Deduct(ctx context.Context, order *models.Order) error
}

type service struct {
	productRepo *products.Repository
	logger      *logger.Logger
	metrics     *metrics.CommerceMetrics
}

// NewService builds a stock deduction service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		productRepo: params.ProductRepo,
		logger:      params.Logger,
		metrics:     params.Metrics,
	}, nil
}

// Deduct validates every line of the order against current stock and only
// then decrements the matched variants. An order already flagged as deducted
// is a success no-op; calling this twice must never double-decrement. The
// caller flips order.StockDeducted in the same update as the status change,
// and must not flip it when this returns an error.
func (s *service) Deduct(ctx context.Context, order *models.Order) error {
	if order == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	ctx = s.logger.WithOrderID(ctx, order.ID.String())

	if order.StockDeducted {
		s.metrics.IncDeduction("skipped")
		s.logger.Info(ctx, "stock already deducted for order, nothing to do")
		return nil
	}

	// Validation pass, read-only. Nothing may be written until every line
	// has passed; a partial deduction across a multi-item order is forbidden.
	for _, item := range order.Items {
		record, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			s.metrics.IncDeduction("failed")
			return err
		}
		if len(item.Variant) == 0 {
			// A variant-less line carries no per-variant stock to decrement.
			// Keyed on the frozen snapshot: a line that names attributes must
			// match a live variant even if the record's list has been emptied
			// since the order was placed.
			continue
		}
		variant := matchVariant(record.Variants, item.Variant)
		if variant == nil {
			s.metrics.IncDeduction("failed")
			return pkgerrors.Newf(pkgerrors.CodeNotFound,
				"product %q has no variant matching %s", record.CatalogSlug, item.Variant)
		}
		if variant.Quantity < item.Qty {
			s.metrics.IncDeduction("failed")
			return pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
				"product %q variant %s: requested %d, available %d",
				record.CatalogSlug, item.Variant, item.Qty, variant.Quantity)
		}
	}

	// Apply pass. Each record is re-read so the decrement acts on current
	// stock, and the versioned write detects a concurrent change between the
	// read and the write. One retry absorbs a single racing writer; a second
	// conflict aborts and the admin re-submits.
	for _, item := range order.Items {
		if err := s.applyLine(ctx, item, true); err != nil {
			s.metrics.IncDeduction("failed")
			return err
		}
	}

	s.metrics.IncDeduction("applied")
	s.logger.Info(ctx, "stock deducted for order")
	return nil
}

func (s *service) applyLine(ctx context.Context, item models.OrderItem, retry bool) error {
	record, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if len(item.Variant) == 0 {
		return nil
	}
	variant := matchVariant(record.Variants, item.Variant)
	if variant == nil {
		return pkgerrors.Newf(pkgerrors.CodeNotFound,
			"product %q has no variant matching %s", record.CatalogSlug, item.Variant)
	}
	if variant.Quantity < item.Qty {
		return pkgerrors.Newf(pkgerrors.CodeInsufficientStock,
			"product %q variant %s: requested %d, available %d",
			record.CatalogSlug, item.Variant, item.Qty, variant.Quantity)
	}

	next := record.Variants.Clone()
	for i := range next {
		if next[i].Attributes.Equal(variant.Attributes) {
			next[i].Quantity -= item.Qty
			break
		}
	}

	err = s.productRepo.ReplaceVariantsGuarded(ctx, record.ID, record.Version, next)
	if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeConflict && retry {
		s.logger.Warn(ctx, "concurrent stock change detected, retrying deduction for line")
		return s.applyLine(ctx, item, false)
	}
	return err
}

// matchVariant finds the variant whose attributes agree with the order
// line's frozen snapshot on every key the snapshot carries. Keys absent from
// the snapshot are not compared; a color-only catalog never demands a size
// match.
func matchVariant(list types.VariantList, snapshot types.AttributeBag) *types.Variant {
	for i := range list {
		matches := true
		for key, want := range snapshot {
			if list[i].Attributes[key] != want {
				matches = false
				break
			}
		}
		if matches {
			return &list[i]
		}
	}
	return nil
}

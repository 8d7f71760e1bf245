package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/pkg/db/models"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/pagination"
)

// Repository encapsulates order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided gorm DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Create inserts the order with its line items.
func (r *Repository) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(order).Error
}

// GetByID fetches one order with its line items.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns one cursor page of the user's order history, newest
// first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (PageDTO, error) {
	normalized := pagination.NormalizeLimit(limit)
	decoded, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))
	if decoded != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decoded.CreatedAt, decoded.CreatedAt, decoded.ID,
		)
	}

	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return PageDTO{}, err
	}

	page := PageDTO{Orders: rows}
	if len(rows) > normalized {
		page.Orders = rows[:normalized]
		last := page.Orders[normalized-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// UpdateWorkflow persists the admin-mutable fields in one update: status,
// stockDeducted, tracking number, notes and the activity log move together.
func (r *Repository) UpdateWorkflow(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"status":          order.Status,
			"stock_deducted":  order.StockDeducted,
			"tracking_number": order.TrackingNumber,
			"notes":           order.Notes,
			"activities":      order.Activities,
		}).Error
}

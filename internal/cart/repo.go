package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/pkg/db/models"
)

// Repository encapsulates the server-side per-user cart collection, keyed by
// variant id.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// ListByUser returns the user's cart in insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// GetLine fetches one line by its variant id, or nil when absent.
func (r *Repository) GetLine(ctx context.Context, userID uuid.UUID, variantID string) (*models.CartItem, error) {
	var row models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert creates a new line.
func (r *Repository) Insert(ctx context.Context, item models.CartItem) error {
	return r.db.WithContext(ctx).Create(&item).Error
}

// UpdateQty sets the quantity on an existing line.
func (r *Repository) UpdateQty(ctx context.Context, userID uuid.UUID, variantID string, qty int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		Update("qty", qty).Error
}

// DeleteLine removes one line if present.
func (r *Repository) DeleteLine(ctx context.Context, userID uuid.UUID, variantID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND variant_id = ?", userID, variantID).
		Delete(&models.CartItem{}).
		Error
}

// ReplaceAll overwrites the user's whole collection: delete every row, then
// insert one row per merged line. Runs inside tx so a crash mid-rewrite
// cannot leave the collection half-written.
func (r *Repository) ReplaceAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID, lines []Line) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.CartItem, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, line.ToModel(userID))
	}
	return tx.WithContext(ctx).Create(&rows).Error
}

// DeleteAllForUser clears the collection outright.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}

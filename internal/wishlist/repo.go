package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/pkg/db/models"
)

// Repository encapsulates server-side wishlist persistence. The per-user
// collection is keyed by product id.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// ListByUser returns the user's wishlist in insertion order.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistItem, error) {
	var rows []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// Has reports whether the product is already wishlisted.
func (r *Repository) Has(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}

// Add inserts an entry, ignoring a duplicate toggle.
func (r *Repository) Add(ctx context.Context, item models.WishlistItem) error {
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (id, user_id, product_id, slug, title_en, title_ar, image, price, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (user_id, product_id) DO NOTHING`,
			item.ID, item.UserID, item.ProductID, item.Slug, item.TitleEN, item.TitleAR, item.Image, item.Price).
		Error
}

// Remove deletes the user-product entry if it exists.
func (r *Repository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{}).
		Error
}

// ReplaceAll overwrites the user's whole collection: delete every row, then
// insert one row per merged entry. The two steps run inside tx so a crash
// mid-rewrite cannot leave the collection half-written.
func (r *Repository) ReplaceAll(ctx context.Context, tx *gorm.DB, userID uuid.UUID, entries []Entry) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.WishlistItem{}).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	rows := make([]models.WishlistItem, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entry.ToModel(userID))
	}
	return tx.WithContext(ctx).Create(&rows).Error
}

// DeleteAllForUser clears the collection outright.
func (r *Repository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.WishlistItem{}).
		Error
}

package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/pkg/db"
	"github.com/amiraziz/souq-backend/pkg/db/models"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/pagination"
	"github.com/amiraziz/souq-backend/pkg/types"
)

// Repository encapsulates dynamic product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided gorm DB.
func NewRepository(gdb *gorm.DB) *Repository {
	return &Repository{db: gdb}
}

// Create inserts a dynamic record. A duplicate catalog slug surfaces as a
// conflict; the creation flow is expected to have excluded assigned slugs
// already, so hitting this is a race, not a normal path.
func (r *Repository) Create(ctx context.Context, record *models.DynamicProduct) error {
	err := r.db.WithContext(ctx).Create(record).Error
	if err != nil && db.IsUniqueViolation(err, "") {
		return pkgerrors.Newf(pkgerrors.CodeConflict, "catalog slug %q already has a dynamic record", record.CatalogSlug)
	}
	return err
}

// GetByID fetches one record by primary key.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.DynamicProduct, error) {
	var record models.DynamicProduct
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetBySlug fetches the record attached to a catalog slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.DynamicProduct, error) {
	slug = strings.TrimSpace(slug)
	var record models.DynamicProduct
	err := r.db.WithContext(ctx).First(&record, "catalog_slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %q not found", slug)
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns one cursor page ordered by creation time descending.
func (r *Repository) List(ctx context.Context, cursor string, limit int) (PageDTO, error) {
	normalized := pagination.NormalizeLimit(limit)
	decoded, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return PageDTO{}, err
	}

	query := r.db.WithContext(ctx).
		Model(&models.DynamicProduct{}).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(limit))
	if decoded != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decoded.CreatedAt, decoded.CreatedAt, decoded.ID,
		)
	}

	var rows []models.DynamicProduct
	if err := query.Find(&rows).Error; err != nil {
		return PageDTO{}, err
	}

	page := PageDTO{Products: rows}
	if len(rows) > normalized {
		page.Products = rows[:normalized]
		last := page.Products[normalized-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

// AssignedSlugs returns every catalog slug that already has a dynamic record.
func (r *Repository) AssignedSlugs(ctx context.Context) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).
		Model(&models.DynamicProduct{}).
		Order("catalog_slug ASC").
		Pluck("catalog_slug", &slugs).Error
	return slugs, err
}

// Update persists the whole record and bumps its version.
func (r *Repository) Update(ctx context.Context, record *models.DynamicProduct) error {
	record.Version++
	return r.db.WithContext(ctx).Save(record).Error
}

// Delete removes one record by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DynamicProduct{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", id)
	}
	return nil
}

// ReplaceVariantsGuarded writes a new variants array only if the record's
// version still matches the one read earlier. Zero rows affected means a
// concurrent writer got there first and the caller must re-read and retry.
func (r *Repository) ReplaceVariantsGuarded(ctx context.Context, id uuid.UUID, expectedVersion int, list types.VariantList) error {
	result := r.db.WithContext(ctx).
		Model(&models.DynamicProduct{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(map[string]any{
			"variants": list,
			"version":  expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeConflict, "product %s changed concurrently", id)
	}
	return nil
}

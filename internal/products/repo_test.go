package products

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/pkg/db/models"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/types"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named in-memory database keeps every pooled connection on the same
	// schema while isolating tests from each other.
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS products_dynamic (
  id TEXT PRIMARY KEY,
  catalog_slug TEXT NOT NULL UNIQUE,
  title_en TEXT NOT NULL,
  title_ar TEXT NOT NULL,
  image TEXT,
  image_tags TEXT,
  price TEXT NOT NULL,
  variants TEXT NOT NULL DEFAULT '[]',
  version INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, gdb.Exec(ddl).Error)
	return gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, slug string, list types.VariantList) *models.DynamicProduct {
	t.Helper()
	record := &models.DynamicProduct{
		ID:          uuid.New(),
		CatalogSlug: slug,
		TitleEN:     "Linen Shirt",
		TitleAR:     "قميص كتان",
		Price:       decimal.NewFromInt(20),
		Variants:    list,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(record).Error)
	return record
}

func TestRepositoryGetBySlug(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	seeded := seedProduct(t, gdb, "linen-shirt", types.VariantList{
		{Attributes: types.AttributeBag{"color": "red"}, Quantity: 3},
	})

	got, err := repo.GetBySlug(ctx, "linen-shirt")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)
	assert.Len(t, got.Variants, 1)
	assert.Equal(t, "red", got.Variants[0].Attributes["color"])

	_, err = repo.GetBySlug(ctx, "missing")
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestRepositoryCreateDuplicateSlug(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	seedProduct(t, gdb, "linen-shirt", nil)

	err := repo.Create(ctx, &models.DynamicProduct{
		ID:          uuid.New(),
		CatalogSlug: "linen-shirt",
		TitleEN:     "Other",
		TitleAR:     "آخر",
		Price:       decimal.NewFromInt(5),
	})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestRepositoryAssignedSlugs(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	seedProduct(t, gdb, "b-slug", nil)
	seedProduct(t, gdb, "a-slug", nil)

	slugs, err := repo.AssignedSlugs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-slug", "b-slug"}, slugs)
}

func TestRepositoryReplaceVariantsGuarded(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	seeded := seedProduct(t, gdb, "linen-shirt", types.VariantList{
		{Attributes: types.AttributeBag{"color": "red"}, Quantity: 5},
	})

	next := types.VariantList{
		{Attributes: types.AttributeBag{"color": "red"}, Quantity: 3},
	}
	require.NoError(t, repo.ReplaceVariantsGuarded(ctx, seeded.ID, 0, next))

	got, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, 3, got.Variants[0].Quantity)

	// A stale version must not overwrite anything.
	err = repo.ReplaceVariantsGuarded(ctx, seeded.ID, 0, next)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeConflict, appErr.Code())
}

func TestRepositoryListPagination(t *testing.T) {
	gdb := setupProductsTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		record := &models.DynamicProduct{
			ID:          uuid.New(),
			CatalogSlug: "slug-" + string(rune('a'+i)),
			TitleEN:     "Item",
			TitleAR:     "منتج",
			Price:       decimal.NewFromInt(10),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, gdb.Create(record).Error)
	}

	first, err := repo.List(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, first.Products, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.List(ctx, first.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, second.Products, 1)
	assert.Empty(t, second.NextCursor)

	// Newest first across the pages.
	assert.True(t, first.Products[0].CreatedAt.After(second.Products[0].CreatedAt))
}

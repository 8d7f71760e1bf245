package stock

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/internal/products"
	"github.com/amiraziz/souq-backend/pkg/db/models"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
	"github.com/amiraziz/souq-backend/pkg/types"
)

func setupStock(t *testing.T) (Service, *products.Repository, *gorm.DB) {
	t.Helper()

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

	repo := products.NewRepository(gdb)
	svc, err := NewService(ServiceParams{
		ProductRepo: repo,
		Logger:      logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc, repo, gdb
}

func seedRecord(t *testing.T, gdb *gorm.DB, slug string, list types.VariantList) *models.DynamicProduct {
	t.Helper()
	record := &models.DynamicProduct{
		ID:          uuid.New(),
		CatalogSlug: slug,
		TitleEN:     "Shirt",
		TitleAR:     "قميص",
		Price:       decimal.NewFromInt(20),
		Variants:    list,
	}
	require.NoError(t, gdb.Create(record).Error)
	return record
}

func orderWith(items ...models.OrderItem) *models.Order {
	return &models.Order{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items:  items,
	}
}

func itemFor(productID uuid.UUID, snapshot types.AttributeBag, qty int) models.OrderItem {
	return models.OrderItem{
		ID:        uuid.New(),
		ProductID: productID,
		Variant:   snapshot,
		Qty:       qty,
	}
}

func TestDeductHappyPath(t *testing.T) {
	svc, repo, gdb := setupStock(t)
	ctx := context.Background()

	record := seedRecord(t, gdb, "shirt", types.VariantList{
		{Attributes: types.AttributeBag{"color": "red", "size": "M"}, Quantity: 5},
		{Attributes: types.AttributeBag{"color": "blue", "size": "M"}, Quantity: 2},
	})

	order := orderWith(itemFor(record.ID, types.AttributeBag{"color": "red", "size": "M"}, 3))
	require.NoError(t, svc.Deduct(ctx, order))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, quantityFor(t, got.Variants, "red"), "matched variant decremented")
	assert.Equal(t, 2, quantityFor(t, got.Variants, "blue"), "other variants untouched")
	assert.Equal(t, 1, got.Version, "versioned write bumps the guard")
}

func TestDeductIdempotentNoOp(t *testing.T) {
	svc, repo, gdb := setupStock(t)
	ctx := context.Background()

	record := seedRecord(t, gdb, "shirt", types.VariantList{
		{Attributes: types.AttributeBag{"color": "red"}, Quantity: 5},
	})

	order := orderWith(itemFor(record.ID, types.AttributeBag{"color": "red"}, 2))
	order.StockDeducted = true

	require.NoError(t, svc.Deduct(ctx, order))
	require.NoError(t, svc.Deduct(ctx, order))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, quantityFor(t, got.Variants, "red"), "no writes for an already-deducted order")
	assert.Equal(t, 0, got.Version)
}

func TestDeductValidatesAllBeforeApplyingAny(t *testing.T) {
	svc, repo, gdb := setupStock(t)
	ctx := context.Background()

	ok := seedRecord(t, gdb, "shirt", types.VariantList{
		{Attributes: types.AttributeBag{"color": "red"}, Quantity: 10},
	})
	short := seedRecord(t, gdb, "mug", types.VariantList{
		{Attributes: types.AttributeBag{"color": "white"}, Quantity: 1},
	})

	order := orderWith(
		itemFor(ok.ID, types.AttributeBag{"color": "red"}, 2),
		itemFor(short.ID, types.AttributeBag{"color": "white"}, 5),
	)

	err := svc.Deduct(ctx, order)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())
	assert.Contains(t, err.Error(), "requested 5")
	assert.Contains(t, err.Error(), "available 1")

	// The first line's stock must be untouched.
	got, err := repo.GetByID(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, quantityFor(t, got.Variants, "red"))
}

func TestDeductMatchesOnlySnapshotKeys(t *testing.T) {
	svc, repo, gdb := setupStock(t)
	ctx := context.Background()

	// Catalog variants carry color and size, but the order snapshot froze
	// color only; the match must not demand a size.
	record := seedRecord(t, gdb, "shirt", types.VariantList{
		{Attributes: types.AttributeBag{"color": "red", "size": "M"}, Quantity: 4},
	})

	order := orderWith(itemFor(record.ID, types.AttributeBag{"color": "red"}, 1))
	require.NoError(t, svc.Deduct(ctx, order))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, quantityFor(t, got.Variants, "red"))
}

func TestDeductErrorsNameTheEntity(t *testing.T) {
	svc, _, gdb := setupStock(t)
	ctx := context.Background()

	missing := uuid.New()
	err := svc.Deduct(ctx, orderWith(itemFor(missing, nil, 1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing.String())

	record := seedRecord(t, gdb, "shirt", types.VariantList{
		{Attributes: types.AttributeBag{"color": "red"}, Quantity: 4},
	})
	err = svc.Deduct(ctx, orderWith(itemFor(record.ID, types.AttributeBag{"color": "green"}, 1)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shirt")
	assert.Contains(t, err.Error(), "color=green")
}

func TestDeductSkipsVariantlessProducts(t *testing.T) {
	svc, repo, gdb := setupStock(t)
	ctx := context.Background()

	record := seedRecord(t, gdb, "mug", nil)
	order := orderWith(itemFor(record.ID, nil, 2))
	require.NoError(t, svc.Deduct(ctx, order))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Variants)
	assert.Equal(t, 0, got.Version)
}

func TestDeductFailsWhenSnapshotNamesVariantsButRecordHasNone(t *testing.T) {
	svc, _, gdb := setupStock(t)
	ctx := context.Background()

	// The order froze {color: red} but the product's variant list has been
	// emptied since. That line must fail loudly, not pass as variant-less;
	// a silent skip here would flip the deducted flag with nothing deducted.
	record := seedRecord(t, gdb, "shirt", nil)
	order := orderWith(itemFor(record.ID, types.AttributeBag{"color": "red"}, 1))

	err := svc.Deduct(ctx, order)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
	assert.Contains(t, err.Error(), "shirt")
	assert.Contains(t, err.Error(), "color=red")
}

func TestDeductSkipKeyedOnSnapshotNotCurrentVariants(t *testing.T) {
	svc, repo, gdb := setupStock(t)
	ctx := context.Background()

	// The inverse drift: a variant-less line against a product that has
	// since gained variants. No variant may be decremented for it.
	record := seedRecord(t, gdb, "mug", types.VariantList{
		{Attributes: types.AttributeBag{"color": "white"}, Quantity: 3},
	})
	order := orderWith(itemFor(record.ID, nil, 2))
	require.NoError(t, svc.Deduct(ctx, order))

	got, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, quantityFor(t, got.Variants, "white"))
	assert.Equal(t, 0, got.Version)
}

func quantityFor(t *testing.T, list types.VariantList, color string) int {
	t.Helper()
	for _, v := range list {
		if v.Attributes["color"] == color {
			return v.Quantity
		}
	}
	t.Fatalf("no variant with color %q", color)
	return 0
}

package wishlist

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  slug TEXT NOT NULL,
  title_en TEXT NOT NULL,
  title_ar TEXT NOT NULL,
  image TEXT,
  price TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`
	require.NoError(t, gdb.Exec(ddl).Error)
	return gdb
}

func TestRepositoryToggleRoundTrip(t *testing.T) {
	gdb := setupWishlistTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	userID, productID := uuid.New(), uuid.New()

	item := Entry{ID: productID, Slug: "shirt", TitleEN: "Shirt", TitleAR: "قميص", Price: decimal.NewFromInt(10)}.ToModel(userID)
	require.NoError(t, repo.Add(ctx, item))

	// A second add for the same product is a no-op, not an error.
	dup := Entry{ID: productID, Slug: "shirt", TitleEN: "Shirt", TitleAR: "قميص", Price: decimal.NewFromInt(10)}.ToModel(userID)
	require.NoError(t, repo.Add(ctx, dup))

	has, err := repo.Has(ctx, userID, productID)
	require.NoError(t, err)
	assert.True(t, has)

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, repo.Remove(ctx, userID, productID))
	has, err = repo.Has(ctx, userID, productID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestRepositoryReplaceAll(t *testing.T) {
	gdb := setupWishlistTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()
	userID := uuid.New()

	old := Entry{ID: uuid.New(), Slug: "old", TitleEN: "Old", TitleAR: "قديم", Price: decimal.NewFromInt(5)}
	require.NoError(t, repo.Add(ctx, old.ToModel(userID)))

	next := []Entry{
		{ID: uuid.New(), Slug: "a", TitleEN: "A", TitleAR: "أ", Price: decimal.NewFromInt(1)},
		{ID: uuid.New(), Slug: "b", TitleEN: "B", TitleAR: "ب", Price: decimal.NewFromInt(2)},
	}
	require.NoError(t, repo.ReplaceAll(ctx, nil, userID, next))

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotEqual(t, old.ID, row.ProductID, "replaced collection must not retain old rows")
	}
}

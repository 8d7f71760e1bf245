package cart

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amiraziz/souq-backend/internal/wishlist"
	"github.com/amiraziz/souq-backend/pkg/config"
	"github.com/amiraziz/souq-backend/pkg/db"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

// fakeDevice is an in-memory stand-in for the guest device store.
type fakeDevice struct {
	values map[string]string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{values: map[string]string{}}
}

func (f *fakeDevice) GuestKey(guestID, kind string) string {
	return strings.Join([]string{"souq", "guest", guestID, kind}, ":")
}

func (f *fakeDevice) Get(_ context.Context, key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeDevice) Set(_ context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

func (f *fakeDevice) Remove(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func setupSession(t *testing.T) (Session, *fakeDevice, *db.Client) {
	t.Helper()

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn, Driver: "sqlite"}, true, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ddl := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  slug TEXT NOT NULL,
  title_en TEXT NOT NULL,
  title_ar TEXT NOT NULL,
  image TEXT,
  unit_price TEXT NOT NULL,
  qty INTEGER NOT NULL,
  max_qty INTEGER NOT NULL,
  selected_attributes TEXT NOT NULL DEFAULT '{}',
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, variant_id)
);
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
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		require.NoError(t, client.DB().Exec(stmt).Error)
	}

	device := newFakeDevice()
	sess, err := NewSession(SessionParams{
		CartRepo:      NewRepository(client.DB()),
		WishlistRepo:  wishlist.NewRepository(client.DB()),
		Device:        device,
		DB:            client,
		Logger:        logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DefaultMaxQty: 99,
	})
	require.NoError(t, err)
	return sess, device, client
}

func guestLine(variantID string, qty, maxQty int) Line {
	return Line{
		VariantID: variantID,
		ProductID: uuid.New(),
		Slug:      "shirt",
		TitleEN:   "Shirt",
		TitleAR:   "قميص",
		UnitPrice: decimal.NewFromInt(20),
		Qty:       qty,
		MaxQty:    maxQty,
	}
}

func TestGuestCartWriteThrough(t *testing.T) {
	sess, device, _ := setupSession(t)
	ctx := context.Background()
	id := Identity{GuestID: "g1"}

	lines, err := sess.AddToCart(ctx, id, guestLine("p1-default", 1, 99))
	require.NoError(t, err)
	require.Len(t, lines, 1)

	// Each mutation is immediately visible in the device store.
	raw := device.values[device.GuestKey("g1", kindCart)]
	assert.Contains(t, raw, "p1-default")

	// Adding the same variant again bumps the quantity on one line.
	lines, err = sess.AddToCart(ctx, id, guestLine("p1-default", 1, 99))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Qty)
}

func TestGuestCartMalformedSnapshotReadsEmpty(t *testing.T) {
	sess, device, _ := setupSession(t)
	ctx := context.Background()
	id := Identity{GuestID: "g1"}

	device.values[device.GuestKey("g1", kindCart)] = "{not json]"

	lines, err := sess.Cart(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGuestUpdateAndRemove(t *testing.T) {
	sess, _, _ := setupSession(t)
	ctx := context.Background()
	id := Identity{GuestID: "g1"}

	_, err := sess.AddToCart(ctx, id, guestLine("v1", 1, 5))
	require.NoError(t, err)

	lines, err := sess.UpdateQty(ctx, id, "v1", 9)
	require.NoError(t, err)
	assert.Equal(t, 5, lines[0].Qty, "quantity clamps to the frozen maxQty")

	_, err = sess.UpdateQty(ctx, id, "missing", 2)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	lines, err = sess.RemoveFromCart(ctx, id, "v1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGuestToggleWishlist(t *testing.T) {
	sess, _, _ := setupSession(t)
	ctx := context.Background()
	id := Identity{GuestID: "g1"}
	entry := wishlist.Entry{ID: uuid.New(), Slug: "shirt", TitleEN: "Shirt", TitleAR: "قميص", Price: decimal.NewFromInt(20)}

	entries, err := sess.ToggleWishlist(ctx, id, entry)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = sess.ToggleWishlist(ctx, id, entry)
	require.NoError(t, err)
	assert.Empty(t, entries, "second toggle removes the entry")
}

func TestOnAuthenticatedMergesOnce(t *testing.T) {
	sess, device, _ := setupSession(t)
	ctx := context.Background()
	userID := uuid.New()
	guest := Identity{GuestID: "g1"}
	user := Identity{GuestID: "g1", UserID: userID}

	// Server cart has a line; guest adds the same variant plus a new one.
	serverLine := guestLine("v1", 2, 5)
	_, err := sess.AddToCart(ctx, Identity{UserID: userID}, serverLine)
	require.NoError(t, err)

	localSame := serverLine
	localSame.Qty = 2
	_, err = sess.AddToCart(ctx, guest, localSame)
	require.NoError(t, err)
	_, err = sess.AddToCart(ctx, guest, guestLine("v2", 1, 3))
	require.NoError(t, err)

	require.NoError(t, sess.OnAuthenticated(ctx, "g1", userID))

	lines, err := sess.Cart(ctx, user)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "v1", lines[0].VariantID, "server lines keep their position")
	assert.Equal(t, 4, lines[0].Qty, "quantities accumulate")
	assert.Equal(t, "v2", lines[1].VariantID)
	assert.Equal(t, 1, lines[1].Qty)

	// Re-firing the hook must not re-run the merge.
	require.NoError(t, sess.OnAuthenticated(ctx, "g1", userID))
	lines, err = sess.Cart(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 4, lines[0].Qty, "phase guard prevents double-accumulation")

	phase := device.values[device.GuestKey("g1", kindPhase)]
	assert.Equal(t, "merged", phase)
}

func TestOnAuthenticatedWishlistLocalWins(t *testing.T) {
	sess, _, _ := setupSession(t)
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	server := wishlist.Entry{ID: productID, Slug: "shirt", TitleEN: "Shirt", TitleAR: "قميص", Price: decimal.NewFromInt(10)}
	_, err := sess.ToggleWishlist(ctx, Identity{UserID: userID}, server)
	require.NoError(t, err)

	local := server
	local.Price = decimal.NewFromInt(12)
	_, err = sess.ToggleWishlist(ctx, Identity{GuestID: "g1"}, local)
	require.NoError(t, err)

	require.NoError(t, sess.OnAuthenticated(ctx, "g1", userID))

	entries, err := sess.Wishlist(ctx, Identity{UserID: userID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Price.Equal(decimal.NewFromInt(12)), "local entry overwrites the server entry")
}

func TestOnSignedOutResetsGuard(t *testing.T) {
	sess, device, _ := setupSession(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := sess.AddToCart(ctx, Identity{GuestID: "g1"}, guestLine("v1", 1, 5))
	require.NoError(t, err)
	require.NoError(t, sess.OnAuthenticated(ctx, "g1", userID))
	require.NoError(t, sess.OnSignedOut(ctx, "g1"))

	assert.Equal(t, "anonymous", device.values[device.GuestKey("g1", kindPhase)])

	// A fresh sign-in merges again, against the current state.
	require.NoError(t, sess.OnAuthenticated(ctx, "g1", userID))
	assert.Equal(t, "merged", device.values[device.GuestKey("g1", kindPhase)])
}

func TestClearCart(t *testing.T) {
	sess, device, _ := setupSession(t)
	ctx := context.Background()
	userID := uuid.New()
	id := Identity{GuestID: "g1", UserID: userID}

	_, err := sess.AddToCart(ctx, Identity{GuestID: "g1"}, guestLine("v1", 1, 5))
	require.NoError(t, err)
	_, err = sess.AddToCart(ctx, Identity{UserID: userID}, guestLine("v2", 1, 5))
	require.NoError(t, err)

	require.NoError(t, sess.ClearCart(ctx, id))

	_, present := device.values[device.GuestKey("g1", kindCart)]
	assert.False(t, present, "device snapshot removed")

	lines, err := sess.Cart(ctx, Identity{UserID: userID})
	require.NoError(t, err)
	assert.Empty(t, lines, "server collection emptied")
}

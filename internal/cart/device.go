package cart

import (
	"context"
	"encoding/json"

	"github.com/amiraziz/souq-backend/internal/wishlist"
)

// Device-store list kinds under one guest's key space.
const (
	kindCart     = "cart"
	kindWishlist = "wishlist"
	kindPhase    = "phase"
)

// DeviceStore is the guest-scoped string key-value store. Implemented by
// pkg/redis.Client; absent keys read as "".
type DeviceStore interface {
	GuestKey(guestID, kind string) string
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// decodeLines parses a stored cart snapshot. Absent or malformed values are
// an empty cart, never an error; a corrupt snapshot must not break browsing.
func decodeLines(raw string) []Line {
	if raw == "" {
		return []Line{}
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []Line{}
	}
	return lines
}

// decodeEntries parses a stored wishlist snapshot with the same defaults.
func decodeEntries(raw string) []wishlist.Entry {
	if raw == "" {
		return []wishlist.Entry{}
	}
	var entries []wishlist.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []wishlist.Entry{}
	}
	return entries
}

func encodeJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

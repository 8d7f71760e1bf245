package wishlist

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/pkg/db/models"
)

// Entry is the wire/device-store shape of one wishlisted product. The merge
// key is the product's dynamic-record id; wishlisting is per-product, never
// per-variant.
type Entry struct {
	ID      uuid.UUID       `json:"id"`
	Slug    string          `json:"slug"`
	TitleEN string          `json:"titleEn"`
	TitleAR string          `json:"titleAr"`
	Image   string          `json:"image"`
	Price   decimal.Decimal `json:"price"`
}

// EntryFromModel converts a stored row to the wire shape.
func EntryFromModel(item models.WishlistItem) Entry {
	return Entry{
		ID:      item.ProductID,
		Slug:    item.Slug,
		TitleEN: item.TitleEN,
		TitleAR: item.TitleAR,
		Image:   item.Image,
		Price:   item.Price,
	}
}

// ToModel converts the wire shape to a row for one user.
func (e Entry) ToModel(userID uuid.UUID) models.WishlistItem {
	return models.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: e.ID,
		Slug:      e.Slug,
		TitleEN:   e.TitleEN,
		TitleAR:   e.TitleAR,
		Image:     e.Image,
		Price:     e.Price,
	}
}

// Merge reconciles server and local wishlists with replace semantics: entries
// are keyed by product id, a local entry overwrites the server entry for the
// same key, and the result keeps server order with new local entries
// appended. There is no quantity to accumulate.
func Merge(server, local []Entry) []Entry {
	merged := make([]Entry, 0, len(server)+len(local))
	index := make(map[uuid.UUID]int, len(server))

	for _, entry := range server {
		if _, seen := index[entry.ID]; seen {
			continue
		}
		index[entry.ID] = len(merged)
		merged = append(merged, entry)
	}
	for _, entry := range local {
		if at, seen := index[entry.ID]; seen {
			merged[at] = entry
			continue
		}
		index[entry.ID] = len(merged)
		merged = append(merged, entry)
	}
	return merged
}

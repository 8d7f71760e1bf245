package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/pkg/db/models"
	"github.com/amiraziz/souq-backend/pkg/types"
)

// Line is the wire/device-store shape of one cart line. VariantID is the
// line identity; everything else is a display snapshot captured at add time.
// MaxQty freezes the variant's stock as seen when the shopper added it.
type Line struct {
	VariantID          string             `json:"variantId"`
	ProductID          uuid.UUID          `json:"productId"`
	Slug               string             `json:"slug"`
	TitleEN            string             `json:"titleEn"`
	TitleAR            string             `json:"titleAr"`
	Image              string             `json:"image"`
	UnitPrice          decimal.Decimal    `json:"unitPrice"`
	Qty                int                `json:"qty"`
	MaxQty             int                `json:"maxQty"`
	SelectedAttributes types.AttributeBag `json:"selectedAttributes"`
}

// LineFromModel converts a stored row to the wire shape.
func LineFromModel(item models.CartItem) Line {
	return Line{
		VariantID:          item.VariantID,
		ProductID:          item.ProductID,
		Slug:               item.Slug,
		TitleEN:            item.TitleEN,
		TitleAR:            item.TitleAR,
		Image:              item.Image,
		UnitPrice:          item.UnitPrice,
		Qty:                item.Qty,
		MaxQty:             item.MaxQty,
		SelectedAttributes: item.SelectedAttributes,
	}
}

// ToModel converts the wire shape to a row for one user.
func (l Line) ToModel(userID uuid.UUID) models.CartItem {
	attrs := l.SelectedAttributes
	if attrs == nil {
		attrs = types.AttributeBag{}
	}
	return models.CartItem{
		ID:                 uuid.New(),
		UserID:             userID,
		VariantID:          l.VariantID,
		ProductID:          l.ProductID,
		Slug:               l.Slug,
		TitleEN:            l.TitleEN,
		TitleAR:            l.TitleAR,
		Image:              l.Image,
		UnitPrice:          l.UnitPrice,
		Qty:                l.Qty,
		MaxQty:             l.MaxQty,
		SelectedAttributes: attrs,
	}
}

// Identity names who owns the cart being acted on. GuestID keys the device
// store; a non-nil UserID means the shopper is signed in and the server
// collections are the source of truth.
type Identity struct {
	GuestID string
	UserID  uuid.UUID
}

// Authenticated reports whether a user account backs this identity.
func (i Identity) Authenticated() bool {
	return i.UserID != uuid.Nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/pkg/types"
)

// CartItem is one authenticated user's server-side cart line. VariantID is
// the composite key derived from the dynamic product id and the selected
// attribute values; display fields are snapshots captured at add time.
type CartItem struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index:cart_items_user_id_idx;uniqueIndex:cart_items_user_variant_key"`
	VariantID          string             `gorm:"column:variant_id;not null;uniqueIndex:cart_items_user_variant_key"`
	ProductID          uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	Slug               string             `gorm:"column:slug;not null"`
	TitleEN            string             `gorm:"column:title_en;not null"`
	TitleAR            string             `gorm:"column:title_ar;not null"`
	Image              string             `gorm:"column:image"`
	UnitPrice          decimal.Decimal    `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Qty                int                `gorm:"column:qty;not null"`
	MaxQty             int                `gorm:"column:max_qty;not null"`
	SelectedAttributes types.AttributeBag `gorm:"column:selected_attributes;type:jsonb;not null;default:'{}'"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

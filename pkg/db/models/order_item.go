package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/pkg/types"
)

// OrderItem captures the snapshot of one line within an order. Variant holds
// the attribute values frozen at checkout; the stock deduction match is
// driven by exactly those keys.
type OrderItem struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index:order_items_order_id_idx"`
	ProductID uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	VariantID string             `gorm:"column:variant_id;not null"`
	Slug      string             `gorm:"column:slug;not null"`
	TitleEN   string             `gorm:"column:title_en;not null"`
	TitleAR   string             `gorm:"column:title_ar;not null"`
	Image     string             `gorm:"column:image"`
	Variant   types.AttributeBag `gorm:"column:variant;type:jsonb;not null;default:'{}'"`
	Qty       int                `gorm:"column:qty;not null"`
	UnitPrice decimal.Decimal    `gorm:"column:unit_price;type:numeric(12,2);not null"`
	LineTotal decimal.Decimal    `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}

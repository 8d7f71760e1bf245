package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/pkg/enums"
	"github.com/amiraziz/souq-backend/pkg/types"
)

// Order freezes a checkout. Core fields are immutable after creation; the
// admin workflow mutates Status, StockDeducted, TrackingNumber, Notes and
// appends to Activities. StockDeducted flips to true exactly once.
type Order struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	Status         enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null;default:'COD'"`
	Subtotal       decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Shipping       decimal.Decimal     `gorm:"column:shipping;type:numeric(12,2);not null"`
	Total          decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Address        types.Address       `gorm:"column:address;type:jsonb;not null"`
	StockDeducted  bool                `gorm:"column:stock_deducted;not null;default:false"`
	TrackingNumber *string             `gorm:"column:tracking_number"`
	Notes          *string             `gorm:"column:notes"`
	Activities     types.ActivityLog   `gorm:"column:activities;type:jsonb;not null;default:'[]'"`
	Items          []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

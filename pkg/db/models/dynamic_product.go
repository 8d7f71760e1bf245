package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/pkg/types"
)

// DynamicProduct is the transactional half of a product: price and stock.
// Marketing copy lives in the external content repository and is joined by
// CatalogSlug at read time. Exactly one record should exist per catalog slug;
// creation excludes already-assigned slugs rather than enforcing a database
// constraint, so the unique index here is a backstop.
type DynamicProduct struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CatalogSlug string             `gorm:"column:catalog_slug;not null;uniqueIndex:products_dynamic_slug_key"`
	TitleEN     string             `gorm:"column:title_en;not null"`
	TitleAR     string             `gorm:"column:title_ar;not null"`
	Image       string             `gorm:"column:image"`
	ImageTags   pq.StringArray     `gorm:"column:image_tags;type:text[]"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Variants    types.VariantList  `gorm:"column:variants;type:jsonb;not null;default:'[]'"`
	Version     int                `gorm:"column:version;not null;default:0"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the collection name the surrounding tooling expects.
func (DynamicProduct) TableName() string {
	return "products_dynamic"
}

package products

import (
	"github.com/shopspring/decimal"

	"github.com/amiraziz/souq-backend/internal/variants"
	"github.com/amiraziz/souq-backend/pkg/db/models"
	"github.com/amiraziz/souq-backend/pkg/types"
)

// CreateInput carries the fields an admin supplies when attaching a dynamic
// record to a catalog slug.
type CreateInput struct {
	CatalogSlug string            `json:"catalogSlug" validate:"required"`
	TitleEN     string            `json:"titleEn" validate:"required"`
	TitleAR     string            `json:"titleAr" validate:"required"`
	Image       string            `json:"image"`
	ImageTags   []string          `json:"imageTags"`
	Price       decimal.Decimal   `json:"price"`
	Variants    types.VariantList `json:"variants"`
}

// UpdateInput patches mutable fields; nil pointers leave a field untouched.
type UpdateInput struct {
	TitleEN   *string            `json:"titleEn"`
	TitleAR   *string            `json:"titleAr"`
	Image     *string            `json:"image"`
	ImageTags *[]string          `json:"imageTags"`
	Price     *decimal.Decimal   `json:"price"`
	Variants  *types.VariantList `json:"variants"`
}

// ResolveDTO is the add-to-cart view of one product for one selection.
type ResolveDTO struct {
	Product         models.DynamicProduct `json:"product"`
	Resolution      variants.Resolution   `json:"resolution"`
	VariantID       string                `json:"variantId"`
	DisplayPrice    string                `json:"displayPrice"`
	DefaultMaxQty   int                   `json:"defaultMaxQty"`
	EffectiveMaxQty int                   `json:"effectiveMaxQty"`
}

// PageDTO is one cursor page of dynamic product records.
type PageDTO struct {
	Products   []models.DynamicProduct `json:"products"`
	NextCursor string                  `json:"nextCursor,omitempty"`
}

// SlugsDTO lists catalog slugs that already carry a dynamic record, so the
// creation flow can exclude them.
type SlugsDTO struct {
	Assigned []string `json:"assigned"`
}

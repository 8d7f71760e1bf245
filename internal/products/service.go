package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/amiraziz/souq-backend/internal/pricing"
	"github.com/amiraziz/souq-backend/internal/variants"
	"github.com/amiraziz/souq-backend/pkg/db/models"
	pkgenums "github.com/amiraziz/souq-backend/pkg/enums"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
)

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo          *Repository
	Logger        *logger.Logger
	DefaultMaxQty int
}

// Service exposes business rules for dynamic product management and the
// storefront resolution flow.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.DynamicProduct, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.DynamicProduct, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.DynamicProduct, error)
	GetBySlug(ctx context.Context, slug string) (*models.DynamicProduct, error)
	List(ctx context.Context, cursor string, limit int) (PageDTO, error)
	AssignedSlugs(ctx context.Context) (SlugsDTO, error)
	Resolve(ctx context.Context, slug string, selected map[string]string, currency pkgenums.Currency) (ResolveDTO, error)
}

type service struct {
	repo          *Repository
	logger        *logger.Logger
	defaultMaxQty int
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.DefaultMaxQty <= 0 {
		params.DefaultMaxQty = 99
	}
	return &service{
		repo:          params.Repo,
		logger:        params.Logger,
		defaultMaxQty: params.DefaultMaxQty,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.DynamicProduct, error) {
	input.CatalogSlug = strings.TrimSpace(input.CatalogSlug)
	if input.CatalogSlug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog slug is required")
	}
	if strings.TrimSpace(input.TitleEN) == "" || strings.TrimSpace(input.TitleAR) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "both titles are required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	record := &models.DynamicProduct{
		ID:          uuid.New(),
		CatalogSlug: input.CatalogSlug,
		TitleEN:     strings.TrimSpace(input.TitleEN),
		TitleAR:     strings.TrimSpace(input.TitleAR),
		Image:       strings.TrimSpace(input.Image),
		ImageTags:   pq.StringArray(input.ImageTags),
		Price:       input.Price,
		Variants:    variants.Normalize(input.Variants),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info(s.logger.WithField(ctx, "product_id", record.ID.String()), "dynamic product created")
	return record, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.DynamicProduct, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.TitleEN != nil {
		record.TitleEN = strings.TrimSpace(*input.TitleEN)
	}
	if input.TitleAR != nil {
		record.TitleAR = strings.TrimSpace(*input.TitleAR)
	}
	if input.Image != nil {
		record.Image = strings.TrimSpace(*input.Image)
	}
	if input.ImageTags != nil {
		record.ImageTags = pq.StringArray(*input.ImageTags)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		record.Price = *input.Price
	}
	if input.Variants != nil {
		record.Variants = variants.Normalize(*input.Variants)
	}
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.DynamicProduct, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.DynamicProduct, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context, cursor string, limit int) (PageDTO, error) {
	return s.repo.List(ctx, cursor, limit)
}

func (s *service) AssignedSlugs(ctx context.Context) (SlugsDTO, error) {
	slugs, err := s.repo.AssignedSlugs(ctx)
	if err != nil {
		return SlugsDTO{}, err
	}
	return SlugsDTO{Assigned: slugs}, nil
}

// Resolve runs the variant engine for one product and selection and packages
// everything the add-to-cart flow needs: the effective selection, the derived
// line identity, the display price in the shopper's currency, and the
// quantity ceiling (variant stock, or the default ceiling for simple
// products).
func (s *service) Resolve(ctx context.Context, slug string, selected map[string]string, currency pkgenums.Currency) (ResolveDTO, error) {
	record, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return ResolveDTO{}, err
	}

	resolution := variants.Resolve(record.Variants, selected)

	dto := ResolveDTO{
		Product:       *record,
		Resolution:    resolution,
		DefaultMaxQty: s.defaultMaxQty,
	}
	if resolution.HasVariants {
		dto.VariantID = variants.VariantID(record.ID.String(), resolution.Selected)
	} else {
		dto.VariantID = variants.VariantID(record.ID.String(), nil)
	}
	dto.EffectiveMaxQty = s.defaultMaxQty
	if resolution.VariantStock != nil && *resolution.VariantStock < dto.EffectiveMaxQty {
		dto.EffectiveMaxQty = *resolution.VariantStock
	}

	if currency == "" {
		currency = pkgenums.CurrencyUSD
	}
	display, err := pricing.FormatDefault(record.Price, currency)
	if err != nil {
		return ResolveDTO{}, err
	}
	dto.DisplayPrice = display

	return dto, nil
}

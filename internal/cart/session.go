package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/amiraziz/souq-backend/internal/wishlist"
	"github.com/amiraziz/souq-backend/pkg/db"
	"github.com/amiraziz/souq-backend/pkg/enums"
	pkgerrors "github.com/amiraziz/souq-backend/pkg/errors"
	"github.com/amiraziz/souq-backend/pkg/logger"
	"github.com/amiraziz/souq-backend/pkg/metrics"
)

// SessionParams groups dependencies for the cart/wishlist session manager.
type SessionParams struct {
	CartRepo      *Repository
	WishlistRepo  *wishlist.Repository
	Device        DeviceStore
	DB            *db.Client
	Logger        *logger.Logger
	Metrics       *metrics.CommerceMetrics
	DefaultMaxQty int
}

// Session owns cart and wishlist state for both halves of a shopping
// session: the guest device store while anonymous, the server collections
// once signed in, and the identity merge that joins them.
type Session interface {
	Cart(ctx context.Context, id Identity) ([]Line, error)
	Wishlist(ctx context.Context, id Identity) ([]wishlist.Entry, error)
	AddToCart(ctx context.Context, id Identity, line Line) ([]Line, error)
	UpdateQty(ctx context.Context, id Identity, variantID string, qty int) ([]Line, error)
	RemoveFromCart(ctx context.Context, id Identity, variantID string) ([]Line, error)
	ToggleWishlist(ctx context.Context, id Identity, entry wishlist.Entry) ([]wishlist.Entry, error)
	OnAuthenticated(ctx context.Context, guestID string, userID uuid.UUID) error
	OnSignedOut(ctx context.Context, guestID string) error
	ClearCart(ctx context.Context, id Identity) error
}

type session struct {
	cartRepo      *Repository
	wishlistRepo  *wishlist.Repository
	device        DeviceStore
	db            *db.Client
	logger        *logger.Logger
	metrics       *metrics.CommerceMetrics
	defaultMaxQty int
}

// NewSession builds the session manager with the required dependencies.
func NewSession(params SessionParams) (Session, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Device == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device store is required")
	}
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	if params.DefaultMaxQty <= 0 {
		params.DefaultMaxQty = 99
	}
	return &session{
		cartRepo:      params.CartRepo,
		wishlistRepo:  params.WishlistRepo,
		device:        params.Device,
		db:            params.DB,
		logger:        params.Logger,
		metrics:       params.Metrics,
		defaultMaxQty: params.DefaultMaxQty,
	}, nil
}

// Cart returns the current cart for the identity: server rows when signed
// in, the device snapshot otherwise.
func (s *session) Cart(ctx context.Context, id Identity) ([]Line, error) {
	if id.Authenticated() {
		rows, err := s.cartRepo.ListByUser(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		lines := make([]Line, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, LineFromModel(row))
		}
		return lines, nil
	}
	raw, err := s.device.Get(ctx, s.device.GuestKey(id.GuestID, kindCart))
	if err != nil {
		return nil, err
	}
	return decodeLines(raw), nil
}

// Wishlist returns the current wishlist for the identity.
func (s *session) Wishlist(ctx context.Context, id Identity) ([]wishlist.Entry, error) {
	if id.Authenticated() {
		rows, err := s.wishlistRepo.ListByUser(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		entries := make([]wishlist.Entry, 0, len(rows))
		for _, row := range rows {
			entries = append(entries, wishlist.EntryFromModel(row))
		}
		return entries, nil
	}
	raw, err := s.device.Get(ctx, s.device.GuestKey(id.GuestID, kindWishlist))
	if err != nil {
		return nil, err
	}
	return decodeEntries(raw), nil
}

// AddToCart adds a line, or bumps the existing line for the same variant id
// by the added quantity, clamped to the line's frozen maxQty.
func (s *session) AddToCart(ctx context.Context, id Identity, line Line) ([]Line, error) {
	line.VariantID = strings.TrimSpace(line.VariantID)
	if line.VariantID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if line.Qty < 1 {
		line.Qty = 1
	}
	line.Qty = clampQty(line.Qty, line.MaxQty, s.defaultMaxQty)

	if id.Authenticated() {
		existing, err := s.cartRepo.GetLine(ctx, id.UserID, line.VariantID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			if err := s.cartRepo.Insert(ctx, line.ToModel(id.UserID)); err != nil {
				return nil, err
			}
		} else {
			qty := clampQty(existing.Qty+line.Qty, existing.MaxQty, s.defaultMaxQty)
			if err := s.cartRepo.UpdateQty(ctx, id.UserID, line.VariantID, qty); err != nil {
				return nil, err
			}
		}
		return s.Cart(ctx, id)
	}

	lines, err := s.Cart(ctx, id)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range lines {
		if lines[i].VariantID == line.VariantID {
			lines[i].Qty = clampQty(lines[i].Qty+line.Qty, lines[i].MaxQty, s.defaultMaxQty)
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, line)
	}
	if err := s.writeGuestCart(ctx, id.GuestID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateQty sets an existing line's quantity, clamped to [1, maxQty].
func (s *session) UpdateQty(ctx context.Context, id Identity, variantID string, qty int) ([]Line, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if id.Authenticated() {
		existing, err := s.cartRepo.GetLine(ctx, id.UserID, variantID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cart line %q not found", variantID)
		}
		qty = clampQty(qty, existing.MaxQty, s.defaultMaxQty)
		if err := s.cartRepo.UpdateQty(ctx, id.UserID, variantID, qty); err != nil {
			return nil, err
		}
		return s.Cart(ctx, id)
	}

	lines, err := s.Cart(ctx, id)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range lines {
		if lines[i].VariantID == variantID {
			lines[i].Qty = clampQty(qty, lines[i].MaxQty, s.defaultMaxQty)
			found = true
			break
		}
	}
	if !found {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cart line %q not found", variantID)
	}
	if err := s.writeGuestCart(ctx, id.GuestID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveFromCart drops the line for the variant id if present.
func (s *session) RemoveFromCart(ctx context.Context, id Identity, variantID string) ([]Line, error) {
	if id.Authenticated() {
		if err := s.cartRepo.DeleteLine(ctx, id.UserID, variantID); err != nil {
			return nil, err
		}
		return s.Cart(ctx, id)
	}

	lines, err := s.Cart(ctx, id)
	if err != nil {
		return nil, err
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.VariantID != variantID {
			kept = append(kept, line)
		}
	}
	if err := s.writeGuestCart(ctx, id.GuestID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// ToggleWishlist flips the product's wishlist membership.
func (s *session) ToggleWishlist(ctx context.Context, id Identity, entry wishlist.Entry) ([]wishlist.Entry, error) {
	if entry.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if id.Authenticated() {
		has, err := s.wishlistRepo.Has(ctx, id.UserID, entry.ID)
		if err != nil {
			return nil, err
		}
		if has {
			err = s.wishlistRepo.Remove(ctx, id.UserID, entry.ID)
		} else {
			err = s.wishlistRepo.Add(ctx, entry.ToModel(id.UserID))
		}
		if err != nil {
			return nil, err
		}
		return s.Wishlist(ctx, id)
	}

	entries, err := s.Wishlist(ctx, id)
	if err != nil {
		return nil, err
	}
	kept := make([]wishlist.Entry, 0, len(entries)+1)
	removed := false
	for _, e := range entries {
		if e.ID == entry.ID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	if !removed {
		kept = append(kept, entry)
	}
	if err := s.writeGuestWishlist(ctx, id.GuestID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// OnAuthenticated runs the identity merge exactly once per sign-in: guest
// state folds into the server collections and both stores end up holding the
// merged result. The session phase stored alongside the guest's lists is the
// idempotency guard; a session already merged is a no-op. The four network
// steps run in a fixed order (read server cart, read server wishlist,
// overwrite server cart, overwrite server wishlist) so the overwrites always
// act on the merged result. A failure partway leaves the phase at anonymous
// so the next sign-in re-runs the merge against whatever state survived.
func (s *session) OnAuthenticated(ctx context.Context, guestID string, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(guestID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "guest id is required")
	}
	ctx = s.logger.WithGuestID(s.logger.WithUserID(ctx, userID.String()), guestID)

	phaseKey := s.device.GuestKey(guestID, kindPhase)
	phase, err := s.device.Get(ctx, phaseKey)
	if err != nil {
		return err
	}
	if enums.SessionPhase(phase) == enums.SessionPhaseMerged {
		s.metrics.IncMerge("skipped")
		s.logger.Info(ctx, "identity merge already ran for this session")
		return nil
	}
	if err := s.device.Set(ctx, phaseKey, enums.SessionPhaseMerging.String()); err != nil {
		return err
	}

	if err := s.runMerge(ctx, guestID, userID); err != nil {
		s.metrics.IncMerge("failed")
		s.logger.Error(ctx, "identity merge failed partway, stores may diverge until the next run", err)
		if resetErr := s.device.Set(ctx, phaseKey, enums.SessionPhaseAnonymous.String()); resetErr != nil {
			s.logger.Error(ctx, "resetting session phase after failed merge", resetErr)
		}
		return err
	}

	if err := s.device.Set(ctx, phaseKey, enums.SessionPhaseMerged.String()); err != nil {
		return err
	}
	s.metrics.IncMerge("merged")
	s.logger.Info(ctx, "identity merge completed")
	return nil
}

func (s *session) runMerge(ctx context.Context, guestID string, userID uuid.UUID) error {
	serverCartRows, err := s.cartRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	serverWishlistRows, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	// The device snapshot is read fresh rather than trusting anything held
	// in memory, so edits from another tab are not lost.
	rawCart, err := s.device.Get(ctx, s.device.GuestKey(guestID, kindCart))
	if err != nil {
		return err
	}
	rawWishlist, err := s.device.Get(ctx, s.device.GuestKey(guestID, kindWishlist))
	if err != nil {
		return err
	}

	serverCart := make([]Line, 0, len(serverCartRows))
	for _, row := range serverCartRows {
		serverCart = append(serverCart, LineFromModel(row))
	}
	serverWishlist := make([]wishlist.Entry, 0, len(serverWishlistRows))
	for _, row := range serverWishlistRows {
		serverWishlist = append(serverWishlist, wishlist.EntryFromModel(row))
	}

	mergedCart := Merge(serverCart, decodeLines(rawCart), s.defaultMaxQty)
	mergedWishlist := wishlist.Merge(serverWishlist, decodeEntries(rawWishlist))

	// Full delete-then-rewrite per collection, each inside its own
	// transaction. A crash between the two rewrites leaves the wishlist one
	// merge behind; the next sign-in heals it.
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.cartRepo.ReplaceAll(ctx, tx, userID, mergedCart)
	}); err != nil {
		return err
	}
	if err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return s.wishlistRepo.ReplaceAll(ctx, tx, userID, mergedWishlist)
	}); err != nil {
		return err
	}

	if err := s.writeGuestCart(ctx, guestID, mergedCart); err != nil {
		return err
	}
	return s.writeGuestWishlist(ctx, guestID, mergedWishlist)
}

// OnSignedOut resets the merge guard so the next sign-in re-runs the merge.
// Guest state is deliberately left in place.
func (s *session) OnSignedOut(ctx context.Context, guestID string) error {
	if strings.TrimSpace(guestID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "guest id is required")
	}
	return s.device.Set(ctx, s.device.GuestKey(guestID, kindPhase), enums.SessionPhaseAnonymous.String())
}

// ClearCart empties the cart everywhere the identity reaches: the device
// snapshot always, the server collection when signed in. Runs once after a
// successful order placement.
func (s *session) ClearCart(ctx context.Context, id Identity) error {
	if id.GuestID != "" {
		if err := s.device.Remove(ctx, s.device.GuestKey(id.GuestID, kindCart)); err != nil {
			return err
		}
	}
	if id.Authenticated() {
		return s.cartRepo.DeleteAllForUser(ctx, id.UserID)
	}
	return nil
}

func (s *session) writeGuestCart(ctx context.Context, guestID string, lines []Line) error {
	encoded, err := encodeJSON(lines)
	if err != nil {
		return err
	}
	return s.device.Set(ctx, s.device.GuestKey(guestID, kindCart), encoded)
}

func (s *session) writeGuestWishlist(ctx context.Context, guestID string, entries []wishlist.Entry) error {
	encoded, err := encodeJSON(entries)
	if err != nil {
		return err
	}
	return s.device.Set(ctx, s.device.GuestKey(guestID, kindWishlist), encoded)
}

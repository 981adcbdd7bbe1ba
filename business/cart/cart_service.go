package cart

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/business/pricing"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"mixMatchBundles/pkg/metrics"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hook names the page or request that triggered a reconciliation.
type Hook string

const (
	HookCartRender    Hook = "cart_render"
	HookCheckoutStart Hook = "checkout_start"
	HookMiniCart      Hook = "mini_cart"
	HookCartLoaded    Hook = "cart_loaded"
)

// SessionStore keeps per-session state. GetSelection returns nil, nil when
// the session has no pending selection; GetCart returns an empty cart.
type SessionStore interface {
	GetSelection(ctx context.Context, sessionID string) (*domain.PendingSelection, error)
	SaveSelection(ctx context.Context, sessionID string, sel domain.PendingSelection) error
	DeleteSelection(ctx context.Context, sessionID string) error
	GetCart(ctx context.Context, sessionID string) (domain.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	FindByCode(ctx context.Context, code string) (domain.Coupon, error)
	MarkSuperseded(ctx context.Context, code string, at time.Time) error
}

type BundleRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Bundle, error)
}

type Previewer interface {
	Preview(ctx context.Context, bundleID uint64, selections []domain.Selection) (domain.PreviewResult, error)
}

type Catalog interface {
	ResolveSellable(ctx context.Context, productID, variationID uint64) (domain.Product, error)
}

type Options struct {
	CouponPrefix string
	Precision    int32
}

// AddBundleRequest carries the shopper's selection. ClientDiscount is what
// the browser displayed; the stored amount is always recomputed.
type AddBundleRequest struct {
	Selections     []domain.Selection
	ClientDiscount decimal.Decimal
}

type AddItemRequest struct {
	ProductID   uint64
	VariationID uint64
	Quantity    int
}

// ItemError reports which cart line could not be added.
type ItemError struct {
	ProductID   uint64
	VariationID uint64
	Err         error
}

func (e *ItemError) Error() string {
	if e.VariationID != 0 {
		return fmt.Sprintf("product %d (variation %d): %v", e.ProductID, e.VariationID, e.Err)
	}
	return fmt.Sprintf("product %d: %v", e.ProductID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// View is a cart as rendered to the shopper. LiveDiscount is what a
// quantity-based fee would grant for the current lines; it is informational.
type View struct {
	Cart         domain.Cart              `json:"cart"`
	Selection    *domain.PendingSelection `json:"selection,omitempty"`
	CouponState  domain.CouponState       `json:"coupon_state"`
	LiveDiscount *pricing.LiveFee         `json:"live_bundle_discount,omitempty"`
}

type CartService struct {
	store     SessionStore
	coupons   CouponRepository
	bundles   BundleRepository
	previewer Previewer
	catalog   Catalog
	opts      Options
	now       func() time.Time
}

func NewCartService(store SessionStore, coupons CouponRepository, bundles BundleRepository, previewer Previewer, catalog Catalog, opts Options) *CartService {
	return &CartService{
		store:     store,
		coupons:   coupons,
		bundles:   bundles,
		previewer: previewer,
		catalog:   catalog,
		opts:      opts,
		now:       time.Now,
	}
}

// AddBundleToCart stores the pending selection for the session. Cart lines
// are not touched; the shopper's browser adds them one by one afterwards.
// A previous selection is superseded and its coupon taken off the cart.
func (s *CartService) AddBundleToCart(ctx context.Context, sessionID string, bundleID uint64, req AddBundleRequest) (*domain.PendingSelection, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if len(req.Selections) == 0 {
		return nil, domain.NewValidationError("selections", "please select at least one product")
	}

	preview, err := s.previewer.Preview(ctx, bundleID, req.Selections)
	if err != nil {
		return nil, err
	}
	if len(preview.Products) == 0 {
		return nil, domain.NewValidationError("selections", "none of the selected products can be purchased")
	}

	if !req.ClientDiscount.IsZero() && !req.ClientDiscount.Equal(preview.DiscountAmount) {
		logger.Warn("client bundle discount differs from server price",
			"bundle_id", bundleID,
			"client", req.ClientDiscount.String(),
			"server", preview.DiscountAmount.String(),
		)
	}

	if err := s.supersede(ctx, sessionID); err != nil {
		return nil, err
	}

	sel := domain.PendingSelection{
		BundleID:       bundleID,
		DiscountAmount: preview.DiscountAmount,
		ProductIDs:     []uint64{},
		VariationIDs:   []uint64{},
		CreatedAt:      s.now().UTC(),
	}
	for _, item := range req.Selections {
		sel.ProductIDs = appendUnique(sel.ProductIDs, item.ProductID)
		if item.VariationID != 0 {
			sel.VariationIDs = appendUnique(sel.VariationIDs, item.VariationID)
		}
	}

	if err := s.store.SaveSelection(ctx, sessionID, sel); err != nil {
		return nil, err
	}

	logger.Info("bundle selection stored",
		"bundle_id", bundleID,
		"items", preview.ItemCount,
		"discount", sel.DiscountAmount.String(),
	)

	return &sel, nil
}

// supersede removes the coupon of the current pending selection from the
// cart and marks it superseded so it can never be applied again.
func (s *CartService) supersede(ctx context.Context, sessionID string) error {
	old, err := s.store.GetSelection(ctx, sessionID)
	if err != nil {
		return err
	}
	if old == nil || old.CouponCode == "" {
		return nil
	}

	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		return err
	}
	if cart.RemoveCoupon(old.CouponCode) {
		cart.Recalculate(s.opts.Precision)
		if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
			return err
		}
	}

	if err := s.coupons.MarkSuperseded(ctx, old.CouponCode, s.now().UTC()); err != nil && !errors.Is(err, domain.ErrCouponNotFound) {
		return err
	}

	logger.Info("bundle selection superseded", "bundle_id", old.BundleID, "coupon", old.CouponCode)

	return nil
}

// AddToCart adds one product line. The first line that belongs to the
// pending selection creates the synthetic coupon and applies it.
func (s *CartService) AddToCart(ctx context.Context, sessionID string, req AddItemRequest) (*domain.Cart, error) {
	if req.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "quantity must be at least 1")
	}

	cart, err := s.EnsureDiscountApplied(ctx, sessionID, HookCartLoaded)
	if err != nil {
		return nil, err
	}

	item, err := s.catalog.ResolveSellable(ctx, req.ProductID, req.VariationID)
	if err != nil {
		return nil, &ItemError{ProductID: req.ProductID, VariationID: req.VariationID, Err: err}
	}

	line := domain.CartItem{
		ProductID:   req.ProductID,
		VariationID: req.VariationID,
		Name:        item.Name,
		Quantity:    req.Quantity,
		UnitPrice:   item.Price,
	}

	if item.ManageStock {
		inCart := 0
		for _, it := range cart.Items {
			if it.ProductID == line.ProductID && it.VariationID == line.VariationID {
				inCart = it.Quantity
			}
		}
		if inCart+req.Quantity > item.StockQuantity {
			return nil, &ItemError{
				ProductID:   req.ProductID,
				VariationID: req.VariationID,
				Err:         domain.NewValidationError("quantity", fmt.Sprintf("only %d left in stock", item.StockQuantity)),
			}
		}
	}

	cart.AddItem(line)

	sel, err := s.store.GetSelection(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sel != nil && sel.Matches(line) {
		if sel.CouponCode == "" && sel.DiscountAmount.IsPositive() {
			code, err := s.createCoupon(ctx, sessionID, sel)
			if err != nil {
				return nil, err
			}
			sel.CouponCode = code
			if err := s.store.SaveSelection(ctx, sessionID, *sel); err != nil {
				return nil, err
			}
		}
		if sel.CouponCode != "" {
			s.applyCoupon(ctx, cart, sel.CouponCode)
		}
	}

	cart.Recalculate(s.opts.Precision)

	if err := s.store.SaveCart(ctx, sessionID, *cart); err != nil {
		return nil, err
	}

	return cart, nil
}

func (s *CartService) createCoupon(ctx context.Context, sessionID string, sel *domain.PendingSelection) (string, error) {
	code := s.opts.CouponPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	restricted := make([]uint64, 0, len(sel.ProductIDs)+len(sel.VariationIDs))
	restricted = append(restricted, sel.ProductIDs...)
	restricted = append(restricted, sel.VariationIDs...)

	coupon := &domain.Coupon{
		Code:          code,
		Amount:        sel.DiscountAmount,
		BundleID:      sel.BundleID,
		ProductIDs:    restricted,
		IndividualUse: true,
		UsageLimit:    1,
		SessionID:     sessionID,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.coupons.Create(ctx, coupon); err != nil {
		return "", err
	}

	metrics.CouponsCreated.Inc()
	logger.Info("bundle coupon created", "bundle_id", sel.BundleID, "coupon", code, "amount", sel.DiscountAmount.String())

	return code, nil
}

// applyCoupon puts the coupon on the cart unless it is already there. A
// coupon that is gone or no longer usable is skipped without error.
func (s *CartService) applyCoupon(ctx context.Context, cart *domain.Cart, code string) bool {
	if cart.HasCoupon(code) {
		return false
	}

	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrCouponNotFound) {
			logger.Warn("pending bundle coupon no longer exists", "coupon", code)
		} else {
			logger.Error("failed to load bundle coupon", "coupon", code, "error", err)
		}
		return false
	}

	if coupon.SupersededAt != nil || !coupon.CanBeUsed() {
		logger.Warn("pending bundle coupon cannot be applied", "coupon", code, "state", coupon.State())
		return false
	}

	return cart.ApplyCoupon(domain.AppliedCoupon{
		Code:       coupon.Code,
		Amount:     coupon.Amount,
		ProductIDs: coupon.ProductIDs,
	})
}

// EnsureDiscountApplied makes sure the pending selection's coupon is on the
// session cart. It can be called on every request; after the first
// successful application it changes nothing. At checkout start the coupons
// already on the cart are re-checked and dropped once deleted, superseded
// or used up.
func (s *CartService) EnsureDiscountApplied(ctx context.Context, sessionID string, hook Hook) (*domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	cart, err := s.store.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sel, err := s.store.GetSelection(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	changed := false
	if hook == HookCheckoutStart {
		changed, err = s.dropUnusableCoupons(ctx, &cart)
		if err != nil {
			return nil, err
		}
	}

	outcome := "missing"
	switch {
	case sel == nil || sel.CouponCode == "":
		outcome = "none"
	case cart.HasCoupon(sel.CouponCode):
		outcome = "present"
	case s.applyCoupon(ctx, &cart, sel.CouponCode):
		outcome = "applied"
		changed = true
		logger.Debug("bundle coupon applied", "hook", hook, "coupon", sel.CouponCode)
	}

	if changed {
		cart.Recalculate(s.opts.Precision)
		if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
			return nil, err
		}
	}

	metrics.Reconciliations.WithLabelValues(string(hook), outcome).Inc()

	return &cart, nil
}

// dropUnusableCoupons removes bundle coupons whose record is gone or can no
// longer be redeemed. It reports whether the cart changed.
func (s *CartService) dropUnusableCoupons(ctx context.Context, cart *domain.Cart) (bool, error) {
	changed := false

	for _, code := range cart.CouponCodes() {
		if !strings.HasPrefix(code, s.opts.CouponPrefix) {
			continue
		}

		coupon, err := s.coupons.FindByCode(ctx, code)
		switch {
		case errors.Is(err, domain.ErrCouponNotFound):
			logger.Warn("expired bundle coupon removed from cart", "coupon", code)
		case err != nil:
			return false, err
		case coupon.SupersededAt != nil || !coupon.CanBeUsed():
			logger.Warn("unusable bundle coupon removed from cart", "coupon", code, "state", coupon.State())
		default:
			continue
		}

		if cart.RemoveCoupon(code) {
			changed = true
		}
	}

	return changed, nil
}

// GetCartView reconciles and returns the cart with the selection state.
func (s *CartService) GetCartView(ctx context.Context, sessionID string, hook Hook) (*View, error) {
	cart, err := s.EnsureDiscountApplied(ctx, sessionID, hook)
	if err != nil {
		return nil, err
	}

	sel, err := s.store.GetSelection(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	view := &View{
		Cart:        *cart,
		Selection:   sel,
		CouponState: domain.SelectionState(sel, cart),
	}

	if sel == nil {
		return view, nil
	}

	b, err := s.bundles.FindByID(ctx, sel.BundleID)
	if err != nil {
		if errors.Is(err, domain.ErrBundleNotFound) {
			return view, nil
		}
		return nil, err
	}

	fee := pricing.FeeDiscount(*sel, *cart, b.DiscountTiers, s.opts.Precision)
	if sel.CouponCode != "" && !fee.Discount.Equal(sel.DiscountAmount) {
		logger.Debug("bundle discount drift", "bundle_id", b.ID, "committed", sel.DiscountAmount.String(), "live", fee.Discount.String())
	}
	view.LiveDiscount = &fee

	return view, nil
}

// CancelSelection drops the pending selection and takes its coupon off the
// cart. The unused coupon is left for the janitor.
func (s *CartService) CancelSelection(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	sel, err := s.store.GetSelection(ctx, sessionID)
	if err != nil {
		return err
	}
	if sel == nil {
		return domain.ErrSelectionNotFound
	}

	if sel.CouponCode != "" {
		cart, err := s.store.GetCart(ctx, sessionID)
		if err != nil {
			return err
		}
		if cart.RemoveCoupon(sel.CouponCode) {
			cart.Recalculate(s.opts.Precision)
			if err := s.store.SaveCart(ctx, sessionID, cart); err != nil {
				return err
			}
		}
	}

	return s.store.DeleteSelection(ctx, sessionID)
}

// ClearSession empties the cart and forgets the pending selection.
func (s *CartService) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteCart(ctx, sessionID); err != nil {
		return err
	}

	return s.store.DeleteSelection(ctx, sessionID)
}

func appendUnique(ids []uint64, id uint64) []uint64 {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

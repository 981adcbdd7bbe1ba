package orders

import (
	"context"
	"errors"
	"fmt"
	"mixMatchBundles/business/cart"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"time"
)

// OrdersRepository persists orders. CreateOrder redeems the order's coupons
// together with the insert and fails with domain.ErrCouponUnavailable when
// one of them can no longer be redeemed.
type OrdersRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetAllOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id uint64) (domain.Order, error)
}

type CouponLookup interface {
	FindByCode(ctx context.Context, code string) (domain.Coupon, error)
}

type CartSession interface {
	EnsureDiscountApplied(ctx context.Context, sessionID string, hook cart.Hook) (*domain.Cart, error)
	ClearSession(ctx context.Context, sessionID string) error
}

type SelectionReader interface {
	GetSelection(ctx context.Context, sessionID string) (*domain.PendingSelection, error)
}

type OrdersService struct {
	orderRepo  OrdersRepository
	coupons    CouponLookup
	carts      CartSession
	selections SelectionReader
	precision  int32
	now        func() time.Time
}

func NewOrdersService(orderRepo OrdersRepository, coupons CouponLookup, carts CartSession, selections SelectionReader, precision int32) *OrdersService {
	return &OrdersService{
		orderRepo:  orderRepo,
		coupons:    coupons,
		carts:      carts,
		selections: selections,
		precision:  precision,
		now:        time.Now,
	}
}

// PlaceOrder turns the session cart into an order. Applied coupons are
// re-checked and redeemed with the order, and the cart and pending
// selection are cleared, so the bundle discount cannot leak into the
// shopper's next cart.
func (s *OrdersService) PlaceOrder(ctx context.Context, sessionID string) (domain.Order, error) {
	c, err := s.carts.EnsureDiscountApplied(ctx, sessionID, cart.HookCheckoutStart)
	if err != nil {
		return domain.Order{}, err
	}
	if c.IsEmpty() {
		return domain.Order{}, domain.ErrEmptyCart
	}

	if err := s.dropUnusableCoupons(ctx, c); err != nil {
		return domain.Order{}, err
	}

	sel, err := s.selections.GetSelection(ctx, sessionID)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		SessionID:   sessionID,
		Items:       c.Items,
		CouponCodes: c.CouponCodes(),
		Subtotal:    c.Subtotal,
		Discount:    c.Discount,
		Total:       c.Total,
		Status:      domain.OrderStatusPending,
		CreatedAt:   s.now().UTC(),
	}
	if sel != nil && sel.CouponCode != "" && c.HasCoupon(sel.CouponCode) {
		order.BundleID = sel.BundleID
	}

	if err := s.orderRepo.CreateOrder(ctx, &order); err != nil {
		if !errors.Is(err, domain.ErrCouponUnavailable) {
			logger.Error("failed to create order", "session_id", sessionID, "error", err)
		}
		return domain.Order{}, err
	}

	if err := s.carts.ClearSession(ctx, sessionID); err != nil {
		logger.Error("failed to clear session after order", "order_id", order.ID, "error", err)
	}

	logger.Info("order placed",
		"order_id", order.ID,
		"bundle_id", order.BundleID,
		"total", order.Total.String(),
		"coupons", len(order.CouponCodes),
	)

	return order, nil
}

// dropUnusableCoupons takes coupons that were swept, superseded or used up
// off the cart and recalculates it.
func (s *OrdersService) dropUnusableCoupons(ctx context.Context, c *domain.Cart) error {
	changed := false

	for _, code := range c.CouponCodes() {
		coupon, err := s.coupons.FindByCode(ctx, code)
		switch {
		case errors.Is(err, domain.ErrCouponNotFound):
			logger.Warn("ordered coupon no longer exists", "coupon", code)
		case err != nil:
			return fmt.Errorf("failed to check coupon %s: %w", code, err)
		case coupon.SupersededAt != nil || !coupon.CanBeUsed():
			logger.Warn("ordered coupon cannot be redeemed", "coupon", code, "state", coupon.State())
		default:
			continue
		}

		if c.RemoveCoupon(code) {
			changed = true
		}
	}

	if changed {
		c.Recalculate(s.precision)
	}

	return nil
}

func (s *OrdersService) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	return s.orderRepo.GetAllOrders(ctx)
}

func (s *OrdersService) GetOrder(ctx context.Context, id uint64) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("context error: %w", err)
	}

	return s.orderRepo.GetOrder(ctx, id)
}

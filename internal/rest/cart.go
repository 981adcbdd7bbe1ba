package rest

import (
	"context"
	"errors"
	"mixMatchBundles/business/cart"
	"mixMatchBundles/domain"
	"mixMatchBundles/internal/middleware"
	"mixMatchBundles/pkg/logger"
	"mixMatchBundles/pkg/metrics"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

type (
	PricingService interface {
		Preview(ctx context.Context, bundleID uint64, selections []domain.Selection) (domain.PreviewResult, error)
	}

	CartService interface {
		AddBundleToCart(ctx context.Context, sessionID string, bundleID uint64, req cart.AddBundleRequest) (*domain.PendingSelection, error)
		AddToCart(ctx context.Context, sessionID string, req cart.AddItemRequest) (*domain.Cart, error)
		GetCartView(ctx context.Context, sessionID string, hook cart.Hook) (*cart.View, error)
		CancelSelection(ctx context.Context, sessionID string) error
	}

	CartHandler struct {
		pricingService PricingService
		cartService    CartService
		validator      *validator.Validate
		timeout        time.Duration
	}

	SelectionRequest struct {
		ProductID   uint64 `json:"product_id" validate:"required"`
		VariationID uint64 `json:"variation_id"`
	}

	PreviewRequest struct {
		Selections []SelectionRequest `json:"selections" validate:"dive"`
	}

	AddBundleRequest struct {
		Selections []SelectionRequest `json:"selections" validate:"required,min=1,dive"`
		Total      decimal.Decimal    `json:"total"`
		Discount   decimal.Decimal    `json:"discount"`
	}

	AddItemRequest struct {
		ProductID   uint64 `json:"product_id" validate:"required"`
		VariationID uint64 `json:"variation_id"`
		Quantity    int    `json:"quantity" validate:"required,gte=1"`
	}

	FailedItem struct {
		ProductID   uint64 `json:"product_id"`
		VariationID uint64 `json:"variation_id,omitempty"`
		Reason      string `json:"reason"`
	}

	MiniCart struct {
		ItemCount   int                `json:"item_count"`
		Subtotal    decimal.Decimal    `json:"subtotal"`
		Discount    decimal.Decimal    `json:"discount"`
		Total       decimal.Decimal    `json:"total"`
		CouponState domain.CouponState `json:"coupon_state"`
	}
)

func NewCartHandler(pricingService PricingService, cartService CartService) *CartHandler {
	return &CartHandler{
		pricingService: pricingService,
		cartService:    cartService,
		validator:      validator.New(),
		timeout:        10 * time.Second,
	}
}

func toSelections(in []SelectionRequest) []domain.Selection {
	out := make([]domain.Selection, 0, len(in))
	for _, s := range in {
		out = append(out, domain.Selection{ProductID: s.ProductID, VariationID: s.VariationID})
	}
	return out
}

// Preview prices the shopper's current selection.
func (h *CartHandler) Preview(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.PreviewLatency)
	defer timer.ObserveDuration()

	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.pricingService.Preview(ctx, id, toSelections(req.Selections))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

// AddBundleToCart stores the selection; the browser then adds each product.
func (h *CartHandler) AddBundleToCart(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	var req AddBundleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sel, err := h.cartService.AddBundleToCart(ctx, middleware.SessionID(c), id, cart.AddBundleRequest{
		Selections:     toSelections(req.Selections),
		ClientDiscount: req.Discount,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(sel))
}

func (h *CartHandler) CancelSelection(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cartService.CancelSelection(ctx, middleware.SessionID(c)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Bundle selection cancelled"))
}

// AddToCart adds one product line and returns the refreshed cart. A failure
// names the item that could not be added.
func (h *CartHandler) AddToCart(c echo.Context) error {
	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.cartService.AddToCart(ctx, middleware.SessionID(c), cart.AddItemRequest{
		ProductID:   req.ProductID,
		VariationID: req.VariationID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		var itemErr *cart.ItemError
		if errors.As(err, &itemErr) {
			logger.Warn("Failed to add item to cart", "product_id", itemErr.ProductID, "error", itemErr.Err)
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
				"message": "some items could not be added to the cart",
				"failed_items": []FailedItem{{
					ProductID:   itemErr.ProductID,
					VariationID: itemErr.VariationID,
					Reason:      itemErr.Err.Error(),
				}},
			})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *CartHandler) view(c echo.Context, hook cart.Hook) (*cart.View, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	return h.cartService.GetCartView(ctx, middleware.SessionID(c), hook)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	v, err := h.view(c, cart.HookCartRender)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(v))
}

func (h *CartHandler) GetMiniCart(c echo.Context) error {
	v, err := h.view(c, cart.HookMiniCart)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(MiniCart{
		ItemCount:   v.Cart.ItemCount(),
		Subtotal:    v.Cart.Subtotal,
		Discount:    v.Cart.Discount,
		Total:       v.Cart.Total,
		CouponState: v.CouponState,
	}))
}

func (h *CartHandler) StartCheckout(c echo.Context) error {
	v, err := h.view(c, cart.HookCheckoutStart)
	if err != nil {
		return writeError(c, err)
	}
	if v.Cart.IsEmpty() {
		return writeError(c, domain.ErrEmptyCart)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(v))
}

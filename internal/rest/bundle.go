package rest

import (
	"context"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	BundleService interface {
		ListBundles(ctx context.Context, enabledOnly bool) ([]domain.Bundle, error)
		GetBundle(ctx context.Context, id uint64) (*domain.Bundle, error)
		CreateBundle(ctx context.Context, bundle *domain.Bundle) (*domain.Bundle, error)
		UpdateBundle(ctx context.Context, bundle *domain.Bundle) (*domain.Bundle, error)
		DeleteBundle(ctx context.Context, id uint64) error
	}

	BundleHandler struct {
		bundleService BundleService
		validator     *validator.Validate
		timeout       time.Duration
	}

	TierRequest struct {
		Quantity int     `json:"quantity" validate:"required,gte=1"`
		Discount float64 `json:"discount" validate:"gte=0,lte=100"`
	}

	BundleRequest struct {
		Name            string        `json:"name" validate:"required,max=200"`
		Description     string        `json:"description"`
		ProductIDs      []uint64      `json:"product_ids" validate:"required,min=1,dive,gt=0"`
		DiscountTiers   []TierRequest `json:"discount_tiers" validate:"required,min=1,dive"`
		ShowTitle       bool          `json:"show_title"`
		ShowDescription bool          `json:"show_description"`
		ShowPrice       bool          `json:"show_price"`
		ShowTierTable   bool          `json:"show_tier_table"`
		PrimaryColor    string        `json:"primary_color" validate:"omitempty,hexcolor"`
		AccentColor     string        `json:"accent_color" validate:"omitempty,hexcolor"`
		ButtonText      string        `json:"button_text" validate:"max=100"`
		UseQuantity     bool          `json:"use_quantity"`
		MaxQuantity     int           `json:"max_quantity" validate:"gte=0"`
		Enabled         bool          `json:"enabled"`
		CartBehavior    string        `json:"cart_behavior" validate:"omitempty,oneof=sidecart redirect"`
	}
)

func NewBundleHandler(bundleService BundleService) *BundleHandler {
	return &BundleHandler{
		bundleService: bundleService,
		validator:     validator.New(),
		timeout:       10 * time.Second,
	}
}

func (r BundleRequest) toDomain() *domain.Bundle {
	tiers := make([]domain.DiscountTier, 0, len(r.DiscountTiers))
	for _, t := range r.DiscountTiers {
		tiers = append(tiers, domain.DiscountTier{Quantity: t.Quantity, Discount: t.Discount})
	}

	return &domain.Bundle{
		Name:            r.Name,
		Description:     r.Description,
		ProductIDs:      r.ProductIDs,
		DiscountTiers:   tiers,
		ShowTitle:       r.ShowTitle,
		ShowDescription: r.ShowDescription,
		ShowPrice:       r.ShowPrice,
		ShowTierTable:   r.ShowTierTable,
		PrimaryColor:    r.PrimaryColor,
		AccentColor:     r.AccentColor,
		ButtonText:      r.ButtonText,
		UseQuantity:     r.UseQuantity,
		MaxQuantity:     r.MaxQuantity,
		Enabled:         r.Enabled,
		CartBehavior:    domain.CartBehavior(r.CartBehavior),
	}
}

func (h *BundleHandler) bind(c echo.Context) (*domain.Bundle, error) {
	var req BundleRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind bundle request", err)
		return nil, c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Warn("Failed to validate bundle request", err)
		return nil, c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	return req.toDomain(), nil
}

// saveFailed reports persistence errors with the driver text so the store
// manager can see what went wrong.
func saveFailed(c echo.Context, msg string, err error) error {
	if isClientError(err) {
		return writeError(c, err)
	}

	logger.Error(msg, err)
	return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
}

func (h *BundleHandler) CreateBundle(c echo.Context) error {
	bundle, err := h.bind(c)
	if bundle == nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	created, err := h.bundleService.CreateBundle(ctx, bundle)
	if err != nil {
		return saveFailed(c, "Failed to create bundle", err)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(created))
}

func (h *BundleHandler) UpdateBundle(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	bundle, err := h.bind(c)
	if bundle == nil {
		return err
	}
	bundle.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	updated, err := h.bundleService.UpdateBundle(ctx, bundle)
	if err != nil {
		return saveFailed(c, "Failed to update bundle", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(updated))
}

func (h *BundleHandler) DeleteBundle(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.bundleService.DeleteBundle(ctx, id); err != nil {
		return saveFailed(c, "Failed to delete bundle", err)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Bundle deleted successfully"))
}

// ListBundles returns enabled bundles for the storefront.
func (h *BundleHandler) ListBundles(c echo.Context) error {
	return h.list(c, true)
}

// ListAllBundles includes disabled bundles for the admin screen.
func (h *BundleHandler) ListAllBundles(c echo.Context) error {
	return h.list(c, false)
}

func (h *BundleHandler) list(c echo.Context, enabledOnly bool) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bundles, err := h.bundleService.ListBundles(ctx, enabledOnly)
	if err != nil {
		logger.Error("Failed to list bundles", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bundles))
}

func (h *BundleHandler) GetBundle(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	bundle, err := h.bundleService.GetBundle(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if !bundle.Enabled {
		return writeError(c, domain.ErrBundleNotFound)
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(bundle))
}

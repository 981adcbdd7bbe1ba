//go:build !integration

package rest

import (
	"context"
	"fmt"
	"mixMatchBundles/business/cart"
	"mixMatchBundles/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPricing struct {
	got []domain.Selection
}

func (s *stubPricing) Preview(ctx context.Context, bundleID uint64, selections []domain.Selection) (domain.PreviewResult, error) {
	if bundleID != 1 {
		return domain.PreviewResult{}, domain.ErrBundleNotFound
	}
	s.got = selections
	return domain.PreviewResult{BundleID: 1, ItemCount: len(selections), Subtotal: decimal.NewFromInt(20)}, nil
}

type stubCart struct {
	addErr error
}

func (s *stubCart) AddBundleToCart(ctx context.Context, sessionID string, bundleID uint64, req cart.AddBundleRequest) (*domain.PendingSelection, error) {
	return &domain.PendingSelection{BundleID: bundleID}, nil
}

func (s *stubCart) AddToCart(ctx context.Context, sessionID string, req cart.AddItemRequest) (*domain.Cart, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &domain.Cart{}, nil
}

func (s *stubCart) GetCartView(ctx context.Context, sessionID string, hook cart.Hook) (*cart.View, error) {
	return &cart.View{CouponState: domain.CouponStateNone}, nil
}

func (s *stubCart) CancelSelection(ctx context.Context, sessionID string) error {
	return domain.ErrSelectionNotFound
}

func serve(t *testing.T, h echo.HandlerFunc, method, path, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(params) > 0 {
		c.SetParamNames("id")
		c.SetParamValues(params...)
	}

	require.NoError(t, h(c))
	return rec
}

func TestPreview(t *testing.T) {
	pricing := &stubPricing{}
	h := NewCartHandler(pricing, &stubCart{})

	rec := serve(t, h.Preview, http.MethodPost, "/bundles/1/preview",
		`{"selections":[{"product_id":10},{"product_id":10,"variation_id":12}]}`, "1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []domain.Selection{{ProductID: 10}, {ProductID: 10, VariationID: 12}}, pricing.got)

	rec = serve(t, h.Preview, http.MethodPost, "/bundles/9/preview", `{"selections":[]}`, "9")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h.Preview, http.MethodPost, "/bundles/x/preview", `{}`, "x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreview_RejectsUntypedSelections(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubCart{})

	for _, body := range []string{
		`{"selections":"10,11"}`,
		`{"selections":[10,11]}`,
		`{"selections":[{"variation_id":3}]}`,
	} {
		rec := serve(t, h.Preview, http.MethodPost, "/bundles/1/preview", body, "1")
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestAddBundleToCart_RequiresSelections(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubCart{})

	rec := serve(t, h.AddBundleToCart, http.MethodPost, "/bundles/1/cart", `{"selections":[]}`, "1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h.AddBundleToCart, http.MethodPost, "/bundles/1/cart",
		`{"selections":[{"product_id":10},{"product_id":11}],"discount":"1.00","total":"19.00"}`, "1")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestAddToCart_NamesFailedItem(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubCart{addErr: &cart.ItemError{
		ProductID: 10,
		Err:       domain.ErrProductNotForSale,
	}})

	rec := serve(t, h.AddToCart, http.MethodPost, "/cart/items", `{"product_id":10,"quantity":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"failed_items"`)
	assert.Contains(t, rec.Body.String(), `"product_id":10`)

	rec = serve(t, h.AddToCart, http.MethodPost, "/cart/items", `{"product_id":10,"quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelSelection_NotFound(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubCart{})

	rec := serve(t, h.CancelSelection, http.MethodDelete, "/bundles/selection", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartCheckout_EmptyCart(t *testing.T) {
	h := NewCartHandler(&stubPricing{}, &stubCart{})

	rec := serve(t, h.StartCheckout, http.MethodGet, "/checkout", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

type stubOrders struct {
	err error
}

func (s *stubOrders) PlaceOrder(ctx context.Context, sessionID string) (domain.Order, error) {
	return domain.Order{}, s.err
}

func (s *stubOrders) GetAllOrders(ctx context.Context) ([]domain.Order, error) {
	return nil, s.err
}

func (s *stubOrders) GetOrder(ctx context.Context, id uint64) (domain.Order, error) {
	return domain.Order{}, s.err
}

func TestPlaceOrder_CouponGoneIsConflict(t *testing.T) {
	h := NewOrdersHandler(&stubOrders{err: fmt.Errorf("coupon mmbundle_x: %w", domain.ErrCouponUnavailable)})

	rec := serve(t, h.PlaceOrder, http.MethodPost, "/checkout", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "no longer available")
}

type stubBundles struct {
	created *domain.Bundle
	err     error
}

func (s *stubBundles) ListBundles(ctx context.Context, enabledOnly bool) ([]domain.Bundle, error) {
	return nil, nil
}

func (s *stubBundles) GetBundle(ctx context.Context, id uint64) (*domain.Bundle, error) {
	if id == 2 {
		return &domain.Bundle{ID: 2}, nil
	}
	return &domain.Bundle{ID: id, Enabled: true}, nil
}

func (s *stubBundles) CreateBundle(ctx context.Context, b *domain.Bundle) (*domain.Bundle, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = b
	return b, nil
}

func (s *stubBundles) UpdateBundle(ctx context.Context, b *domain.Bundle) (*domain.Bundle, error) {
	return b, nil
}

func (s *stubBundles) DeleteBundle(ctx context.Context, id uint64) error {
	return nil
}

func TestCreateBundle(t *testing.T) {
	svc := &stubBundles{}
	h := NewBundleHandler(svc)

	rec := serve(t, h.CreateBundle, http.MethodPost, "/admin/bundles",
		`{"name":"Snacks","product_ids":[101,102,103],"discount_tiers":[{"quantity":5,"discount":20},{"quantity":3,"discount":10}],"primary_color":"#ff0000"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, []uint64{101, 102, 103}, []uint64(svc.created.ProductIDs))
	assert.Len(t, svc.created.DiscountTiers, 2)
}

func TestCreateBundle_Invalid(t *testing.T) {
	h := NewBundleHandler(&stubBundles{})

	for name, body := range map[string]string{
		"missing name":      `{"product_ids":[1],"discount_tiers":[{"quantity":2,"discount":5}]}`,
		"no products":       `{"name":"A","product_ids":[],"discount_tiers":[{"quantity":2,"discount":5}]}`,
		"no tiers":          `{"name":"A","product_ids":[1]}`,
		"string products":   `{"name":"A","product_ids":"1,2","discount_tiers":[{"quantity":2,"discount":5}]}`,
		"discount over 100": `{"name":"A","product_ids":[1],"discount_tiers":[{"quantity":2,"discount":150}]}`,
		"bad behavior":      `{"name":"A","product_ids":[1],"discount_tiers":[{"quantity":2,"discount":5}],"cart_behavior":"popup"}`,
	} {
		rec := serve(t, h.CreateBundle, http.MethodPost, "/admin/bundles", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestCreateBundle_ServiceValidation(t *testing.T) {
	h := NewBundleHandler(&stubBundles{err: domain.NewValidationError("discount_tiers", "each tier quantity must be unique")})

	rec := serve(t, h.CreateBundle, http.MethodPost, "/admin/bundles",
		`{"name":"A","product_ids":[1],"discount_tiers":[{"quantity":2,"discount":5},{"quantity":2,"discount":8}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unique")
}

func TestGetBundle_DisabledIsHidden(t *testing.T) {
	h := NewBundleHandler(&stubBundles{})

	rec := serve(t, h.GetBundle, http.MethodGet, "/bundles/2", "", "2")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h.GetBundle, http.MethodGet, "/bundles/3", "", "3")
	assert.Equal(t, http.StatusOK, rec.Code)
}

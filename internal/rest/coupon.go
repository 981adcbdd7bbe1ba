package rest

import (
	"context"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type CouponJanitor interface {
	Sweep(ctx context.Context) (domain.SweepResult, error)
	Summary(ctx context.Context) ([]domain.CouponSummary, error)
}

type CouponHandler struct {
	janitor CouponJanitor
	timeout time.Duration
}

func NewCouponHandler(janitor CouponJanitor) *CouponHandler {
	return &CouponHandler{
		janitor: janitor,
		timeout: 30 * time.Second,
	}
}

func (h *CouponHandler) Sweep(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.janitor.Sweep(ctx)
	if err != nil {
		logger.Error("Failed to sweep coupons", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(result))
}

func (h *CouponHandler) Summary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	rows, err := h.janitor.Summary(ctx)
	if err != nil {
		logger.Error("Failed to summarize coupons", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rows))
}

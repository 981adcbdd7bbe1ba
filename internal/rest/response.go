package rest

import (
	"context"
	"errors"
	"mixMatchBundles/domain"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func isClientError(err error) bool {
	return domain.IsValidationError(err) || notFound(err) ||
		errors.Is(err, domain.ErrEmptyCart) ||
		errors.Is(err, domain.ErrProductNotForSale) ||
		errors.Is(err, domain.ErrInvalidLogin) ||
		errors.Is(err, domain.ErrCouponUnavailable) ||
		errors.Is(err, context.DeadlineExceeded)
}

func notFound(err error) bool {
	return errors.Is(err, domain.ErrBundleNotFound) ||
		errors.Is(err, domain.ErrProductNotFound) ||
		errors.Is(err, domain.ErrCouponNotFound) ||
		errors.Is(err, domain.ErrSelectionNotFound) ||
		errors.Is(err, domain.ErrOrderNotFound)
}

// writeError answers the errors a caller can act on. Anything else goes to
// the central error handler, which hides the detail outside debug mode.
func writeError(c echo.Context, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: ve.Message, Field: ve.Field})
	case notFound(err):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrProductNotForSale):
		return c.JSON(http.StatusUnprocessableEntity, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrCouponUnavailable):
		return c.JSON(http.StatusConflict, ResponseError{Message: domain.ErrCouponUnavailable.Error()})
	case errors.Is(err, domain.ErrInvalidLogin):
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, ResponseError{Message: "request timed out"})
	default:
		return err
	}
}

func paramID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.NewValidationError("id", "invalid id")
	}
	return id, nil
}

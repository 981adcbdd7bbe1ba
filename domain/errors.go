package domain

import "errors"

var (
	ErrBundleNotFound    = errors.New("bundle not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNotForSale = errors.New("product is not available for purchase")
	ErrCouponNotFound    = errors.New("coupon not found")
	// ErrCouponUnavailable: the coupon was swept, superseded or used up
	// between checkout start and order placement.
	ErrCouponUnavailable = errors.New("bundle discount is no longer available, please review your cart")
	ErrSelectionNotFound = errors.New("no pending bundle selection")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidLogin      = errors.New("invalid username or password")
)

// ValidationError is a user-facing input problem.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

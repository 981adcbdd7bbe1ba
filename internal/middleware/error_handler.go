package middleware

import (
	"errors"
	"mixMatchBundles/pkg/logger"
	"net/http"

	jsonres "mixMatchBundles/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escaped the handlers. Unexpected errors
// get a generic message; the detail is only included when debug is set.
func ErrorHandler(debug bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := jsonres.Error("INTERNAL_ERROR", "Something went wrong, please try again", nil)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			body = jsonres.Error(http.StatusText(code), http.StatusText(code), nil)
			if msg, ok := he.Message.(string); ok {
				body.Message = msg
			}
		}

		if code >= http.StatusInternalServerError {
			logger.Error("Unhandled request error",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
			if debug {
				body.Detail = err.Error()
			}
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, body)
		}
		if writeErr != nil {
			logger.Error("Failed to write error response", writeErr)
		}
	}
}

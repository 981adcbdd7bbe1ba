package middleware

import (
	"fmt"
	"mixMatchBundles/pkg/logger"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pobyzaarif/goshortcute"
)

const sessionContextKey = "session_id"

type SessionConfig struct {
	CookieName string
	// AES key, 16, 24 or 32 bytes
	Key    string
	Secure bool
	MaxAge time.Duration
}

// Session attaches a shopper session id to the request. Guests without a
// valid cookie get a new session and a sealed cookie carrying its id.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := ""
			if cookie, err := c.Cookie(cfg.CookieName); err == nil {
				sessionID = openSessionCookie(cookie.Value, cfg.Key)
			}

			if sessionID == "" {
				sessionID = uuid.NewString()

				sealed, err := sealSessionCookie(sessionID, cfg.Key)
				if err != nil {
					logger.Error("Failed to seal session cookie", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "failed to start session")
				}

				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    sealed,
					Path:     "/",
					MaxAge:   int(cfg.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Debug("guest session started", "session_id", sessionID)
			}

			c.Set(sessionContextKey, sessionID)

			return next(c)
		}
	}
}

// SessionID returns the id set by Session, or "" outside a session route.
func SessionID(c echo.Context) string {
	id, _ := c.Get(sessionContextKey).(string)
	return id
}

func sealSessionCookie(sessionID, key string) (string, error) {
	payload := fmt.Sprintf("%s|%d", sessionID, time.Now().Unix())

	encrypted, err := goshortcute.AESCBCEncrypt([]byte(payload), []byte(key))
	if err != nil {
		return "", err
	}

	return goshortcute.StringtoBase64Encode(encrypted), nil
}

// openSessionCookie returns "" for anything that was not sealed by us.
func openSessionCookie(value, key string) (sessionID string) {
	if value == "" {
		return ""
	}

	// block decryption panics on ciphertext that is not whole blocks
	defer func() {
		if r := recover(); r != nil {
			sessionID = ""
		}
	}()

	decoded := goshortcute.StringtoBase64Decode(value)
	payload, err := goshortcute.AESCBCDecrypt([]byte(decoded), []byte(key))
	if err != nil {
		return ""
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 2 {
		return ""
	}

	if _, err := uuid.Parse(parts[0]); err != nil {
		return ""
	}

	return parts[0]
}

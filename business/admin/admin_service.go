package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/logger"
	"mixMatchBundles/pkg/utils"
	"time"
)

const RoleAdmin = "ADMIN"

type Credentials struct {
	Username     string
	PasswordHash string
}

// TokenStore remembers issued tokens so a logout can revoke them.
type TokenStore interface {
	StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error
	RevokeToken(ctx context.Context, token string) error
}

type adminService struct {
	creds    Credentials
	tokens   TokenStore
	tokenTTL time.Duration
}

func NewAdminService(creds Credentials, tokens TokenStore, tokenTTL time.Duration) *adminService {
	return &adminService{
		creds:    creds,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
}

// Login checks the store manager credentials and issues an admin token.
func (s *adminService) Login(ctx context.Context, username, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context error: %w", err)
	}

	if s.creds.PasswordHash == "" {
		logger.Error("Admin login attempted without a configured password hash")
		return "", domain.ErrInvalidLogin
	}

	if subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) != 1 {
		logger.Warn("Admin login with unknown username", "username", username)
		return "", domain.ErrInvalidLogin
	}

	if !utils.CheckPassword(password, s.creds.PasswordHash) {
		logger.Warn("Admin password incorrect", "username", username)
		return "", domain.ErrInvalidLogin
	}

	token, err := utils.GenerateJWT(username, RoleAdmin, s.tokenTTL)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", errors.New("failed to generate token")
	}

	if err := s.tokens.StoreToken(ctx, username, token, s.tokenTTL); err != nil {
		logger.Error("Failed to store token", err)
		return "", errors.New("failed to generate token")
	}

	return token, nil
}

func (s *adminService) Logout(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return s.tokens.RevokeToken(ctx, token)
}

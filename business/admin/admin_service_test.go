//go:build !integration

package admin

import (
	"context"
	"mixMatchBundles/domain"
	"mixMatchBundles/pkg/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokens map[string]string

func (m memoryTokens) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	m[token] = userID
	return nil
}

func (m memoryTokens) RevokeToken(ctx context.Context, token string) error {
	delete(m, token)
	return nil
}

func newService(t *testing.T, tokens memoryTokens) *adminService {
	t.Helper()
	utils.SetJWTSecret("test-secret")

	hash, err := utils.HashPassword("s3cret")
	require.NoError(t, err)

	return NewAdminService(Credentials{Username: "admin", PasswordHash: string(hash)}, tokens, time.Hour)
}

func TestLogin(t *testing.T) {
	tokens := memoryTokens{}
	svc := newService(t, tokens)

	token, err := svc.Login(context.Background(), "admin", "s3cret")
	require.NoError(t, err)

	claims, err := utils.ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "admin", tokens[token])

	require.NoError(t, svc.Logout(context.Background(), token))
	assert.Empty(t, tokens)
}

func TestLogin_Rejected(t *testing.T) {
	tokens := memoryTokens{}
	svc := newService(t, tokens)

	_, err := svc.Login(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidLogin)

	_, err = svc.Login(context.Background(), "root", "s3cret")
	assert.ErrorIs(t, err, domain.ErrInvalidLogin)

	assert.Empty(t, tokens)

	unconfigured := NewAdminService(Credentials{Username: "admin"}, tokens, time.Hour)
	_, err = unconfigured.Login(context.Background(), "admin", "")
	assert.ErrorIs(t, err, domain.ErrInvalidLogin)
}

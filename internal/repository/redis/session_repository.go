package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mixMatchBundles/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRepository keeps the pending bundle selection and the cart of a
// shopper session. Both expire ttl after their last write.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

func selectionKey(sessionID string) string {
	return fmt.Sprintf("session:%s:bundle_selection", sessionID)
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("session:%s:cart", sessionID)
}

func (r *SessionRepository) GetSelection(ctx context.Context, sessionID string) (*domain.PendingSelection, error) {
	val, err := r.client.Get(ctx, selectionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bundle selection from Redis: %w", err)
	}

	var sel domain.PendingSelection
	if err := json.Unmarshal([]byte(val), &sel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bundle selection: %w", err)
	}

	return &sel, nil
}

func (r *SessionRepository) SaveSelection(ctx context.Context, sessionID string, sel domain.PendingSelection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal bundle selection: %w", err)
	}

	if err := r.client.Set(ctx, selectionKey(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store bundle selection in Redis: %w", err)
	}

	return nil
}

func (r *SessionRepository) DeleteSelection(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, selectionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete bundle selection: %w", err)
	}

	return nil
}

// GetCart returns an empty cart when the session has none.
func (r *SessionRepository) GetCart(ctx context.Context, sessionID string) (domain.Cart, error) {
	val, err := r.client.Get(ctx, cartKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Cart{}, nil
		}
		return domain.Cart{}, fmt.Errorf("failed to get cart from Redis: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return cart, nil
}

// SaveCart also refreshes the selection TTL so an active cart keeps its
// bundle discount.
func (r *SessionRepository) SaveCart(ctx context.Context, sessionID string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, cartKey(sessionID), data, r.ttl)
	pipe.Expire(ctx, selectionKey(sessionID), r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store cart in Redis: %w", err)
	}

	return nil
}

func (r *SessionRepository) DeleteCart(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return nil
}

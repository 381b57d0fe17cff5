package cache

import (
	"context"
	"time"

	"coursestream/internal/domain"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	refreshPrefix = "refresh_token:"
	resetPrefix   = "reset_token:"

	RefreshTTL = 7 * 24 * time.Hour
	ResetTTL   = 24 * time.Hour
)

type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) SaveRefresh(ctx context.Context, userID string, refreshToken string) error {
	return c.client.Set(ctx, refreshPrefix+refreshToken, userID, RefreshTTL).Err()
}

// ConsumeRefresh returns the owner of refreshToken and removes it in one
// GETDEL, so a token can be rotated only once.
func (c *TokenCache) ConsumeRefresh(ctx context.Context, refreshToken string) (string, error) {
	return c.getDel(ctx, refreshPrefix+refreshToken)
}

func (c *TokenCache) DeleteRefresh(ctx context.Context, refreshToken string) error {
	return c.client.Del(ctx, refreshPrefix+refreshToken).Err()
}

func (c *TokenCache) SaveResetToken(ctx context.Context, token string, userID string) error {
	return c.client.Set(ctx, resetPrefix+token, userID, ResetTTL).Err()
}

func (c *TokenCache) GetResetToken(ctx context.Context, token string) (string, error) {
	return c.get(ctx, resetPrefix+token)
}

// ConsumeResetToken returns the user a reset token was issued for and
// removes it in one GETDEL.
func (c *TokenCache) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	return c.getDel(ctx, resetPrefix+token)
}

func (c *TokenCache) get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", errors.Wrap(err, "redis get")
	}
	return val, nil
}

func (c *TokenCache) getDel(ctx context.Context, key string) (string, error) {
	val, err := c.client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrInvalidToken
	}
	if err != nil {
		return "", errors.Wrap(err, "redis getdel")
	}
	return val, nil
}

package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("token not found")

// Store keeps short-lived auth state: refresh tokens, revoked access tokens
// and login attempt counters.
type Store interface {
	SaveRefreshToken(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error
	// ConsumeRefreshToken returns the owning user and deletes the token.
	ConsumeRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error)
	RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error)

	IsRateLimited(ctx context.Context, key string, limit int) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error
	ResetRateLimit(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore accepts either host:port or a redis:// URL.
func NewRedisStore(addr, password string, db int) (Store, error) {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		opts = parsed
	}
	return &redisStore{client: redis.NewClient(opts), prefix: "rentguy"}, nil
}

func (r *redisStore) key(parts ...string) string {
	return r.prefix + ":" + strings.Join(parts, ":")
}

func (r *redisStore) SaveRefreshToken(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	return r.client.Set(ctx, r.key("refresh", tokenHash), userID.String(), ttl).Err()
}

func (r *redisStore) ConsumeRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	val, err := r.client.GetDel(ctx, r.key("refresh", tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenNotFound
		}
		return uuid.Nil, err
	}
	return uuid.Parse(val)
}

func (r *redisStore) RevokeAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key("revoked", tokenID), "1", ttl).Err()
}

func (r *redisStore) IsAccessTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key("revoked", tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisStore) IsRateLimited(ctx context.Context, key string, limit int) (bool, error) {
	count, err := r.client.Get(ctx, r.key("ratelimit", key)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return count >= limit, nil
}

func (r *redisStore) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	k := r.key("ratelimit", key)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisStore) ResetRateLimit(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key("ratelimit", key)).Err()
}

func (r *redisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clinicbook/appointment-system/internal/core/domain"
)

const callerTTL = 5 * time.Minute

// CallerCache caches bearer-token resolutions so every authenticated request
// does not cost two Mongo lookups. Entries expire after callerTTL; a miss
// falls back to the store, so the TTL is a cache policy, not a token
// lifetime.
// Key format: caller:<token>
type CallerCache struct {
	client *redis.Client
}

// NewCallerCache creates a CallerCache wrapping the given Redis client.
func NewCallerCache(client *redis.Client) *CallerCache {
	return &CallerCache{client: client}
}

type cachedCaller struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Get returns the cached caller for a token, or (nil, nil) on a miss.
func (c *CallerCache) Get(ctx context.Context, token string) (*domain.Caller, error) {
	raw, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("caller cache get: %w", err)
	}

	var cc cachedCaller
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, fmt.Errorf("caller cache decode: %w", err)
	}
	return &domain.Caller{ID: cc.ID, Username: cc.Username, Role: domain.Role(cc.Role)}, nil
}

// Set stores the caller under the token key with the cache TTL.
func (c *CallerCache) Set(ctx context.Context, token string, caller *domain.Caller) error {
	raw, err := json.Marshal(cachedCaller{ID: caller.ID, Username: caller.Username, Role: string(caller.Role)})
	if err != nil {
		return fmt.Errorf("caller cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(token), raw, callerTTL).Err()
}

// Invalidate drops the cached entry for a token.
func (c *CallerCache) Invalidate(ctx context.Context, token string) error {
	return c.client.Del(ctx, c.key(token)).Err()
}

func (c *CallerCache) key(token string) string {
	return "caller:" + token
}

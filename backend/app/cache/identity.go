package cache

import (
	"account-service/backend/app/models"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// IdentityCache keeps resolved users keyed by the (username, email) pair carried
// in token claims. A nil client disables it; every failure is treated as a miss.
// Entries hold the JSON form of models.User, so the password hash is never cached.
type IdentityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewIdentityCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *IdentityCache {
	return &IdentityCache{client: client, ttl: ttl, log: log}
}

// Key length-prefixes the username so no two (username, email) pairs share a key.
func Key(username, email string) string {
	return "account:identity:" + strconv.Itoa(len(username)) + ":" + username + ":" + email
}

func (c *IdentityCache) Get(ctx context.Context, username, email string) (*models.User, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, Key(username, email)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("identity cache read")
		}
		return nil, false
	}
	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (c *IdentityCache) Set(ctx context.Context, u *models.User) {
	if c == nil || c.client == nil || u == nil {
		return
	}
	data, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, Key(u.Username, u.Email), data, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Msg("identity cache write")
	}
}

func (c *IdentityCache) Delete(ctx context.Context, username, email string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, Key(username, email)).Err(); err != nil {
		c.log.Warn().Err(err).Msg("identity cache delete")
	}
}

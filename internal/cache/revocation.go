package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:"

// Revocations stores, per username, the moment before which every issued
// token is void. Markers expire after ttl, which should match the token
// lifetime: older tokens have expired by then anyway.
type Revocations struct {
	cache Cache
	ttl   time.Duration
}

func NewRevocations(c Cache, ttl time.Duration) *Revocations {
	return &Revocations{cache: c, ttl: ttl}
}

func revokedKey(username string) string {
	return revokedPrefix + username
}

// Revoke voids every token for username issued before at.
func (r *Revocations) Revoke(ctx context.Context, username string, at time.Time) error {
	return r.cache.Set(ctx, revokedKey(username), at.Unix(), r.ttl).Err()
}

// RevokedAt returns the marker for username, or the zero time when none exists.
func (r *Revocations) RevokedAt(ctx context.Context, username string) (time.Time, error) {
	raw, err := r.cache.Get(ctx, revokedKey(username)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(sec, 0), nil
}

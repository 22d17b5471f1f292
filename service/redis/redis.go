package redis

import (
	"errors"
	"time"

	"github.com/kreana/goapi/base/ctx"
)

const (
	// Forever means a key never expires
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: key not found")
	// ErrNoTTL is returned when the key exists without expiration
	ErrNoTTL = errors.New("redis: key has no ttl")
)

// Service is the subset of redis commands the api uses
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	Del(context ctx.Ctx, ks ...string) (int, error)
	// TTL returns the remaining time to live in seconds
	TTL(context ctx.Ctx, key string) (int, error)
}

package redis

import (
	"time"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/service/cache/provider"
	"github.com/kreana/goapi/service/redis"
)

type impl struct {
	redis redis.Service
}

func NewRedis(redis redis.Service) provider.Provider {
	return &impl{redis}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	if val, err := im.redis.Get(c, key); err != nil {
		if err == redis.ErrNotFound {
			return nil, time.Duration(0), provider.ErrNotFound
		}
		c.WithField("err", err).WithField("key", key).Error("redis.Get failed")
		return nil, time.Duration(0), err
	} else if ttl, err := im.redis.TTL(c, key); err == redis.ErrNoTTL {
		return val, time.Duration(0), nil
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.TTL failed")
		return nil, time.Duration(0), err
	} else {
		return val, time.Duration(ttl) * time.Second, nil
	}
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.redis.Set(c, key, value, ttl); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Set failed")
		return err
	}
	return nil
}

func (im *impl) Take(c ctx.Ctx, key string) ([]byte, error) {
	val, err := im.redis.Get(c, key)
	if err == redis.ErrNotFound {
		return nil, provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Get failed")
		return nil, err
	}
	// the caller that deletes the key owns the value
	if n, err := im.redis.Del(c, key); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Del failed")
		return nil, err
	} else if n == 0 {
		return nil, provider.ErrNotFound
	}
	return val, nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	if _, err := im.redis.Del(c, key); err != nil {
		c.WithField("err", err).WithField("key", key).Error("redis.Del failed")
		return err
	}
	return nil
}

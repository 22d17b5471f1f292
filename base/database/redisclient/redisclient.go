package redisclient

import (
	"context"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/kreana/goapi/base/backoff"
	"github.com/kreana/goapi/base/log"
)

const (
	dialTimeout  = 2 * time.Second
	readTimeout  = 1500 * time.Millisecond
	writeTimeout = 1500 * time.Millisecond

	maxIdle   = 16
	maxActive = 128

	retryCount = 3
)

// MustConnectRedis connects to one redis uri
// NOTE This function panics if the connection fails.
func MustConnectRedis(uri, password string) *redis.Pool {
	p, err := ConnectRedis(uri, password)
	if err != nil {
		log.Log().WithFields(log.Fields{"redisURI": uri, "err": err}).Panic("fail to dial Redis")
	}
	return p
}

// ConnectRedis connects to one redis uri, retrying the first ping with exponential backoff
func ConnectRedis(uri, password string) (*redis.Pool, error) {
	opts := []redis.DialOption{
		redis.DialConnectTimeout(dialTimeout),
		redis.DialReadTimeout(readTimeout),
		redis.DialWriteTimeout(writeTimeout),
	}
	if password != "" {
		opts = append(opts, redis.DialPassword(password))
	}
	p := &redis.Pool{
		MaxIdle:     maxIdle,
		MaxActive:   maxActive,
		Wait:        true,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", uri, opts...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			// No need to test if it's been recycled less than 1 sec.
			if time.Since(t) < time.Second {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}

	err := backoff.Retry(context.Background(), backoff.NewExponential(time.Second, 8*time.Second), retryCount, func() error {
		c := p.Get()
		defer c.Close()
		_, err := c.Do("PING")
		if err != nil {
			log.Log().WithFields(log.Fields{"redisURI": uri, "err": err}).Error("fail to ping Redis")
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Log().WithField("redisURI", uri).Info("redis connected")
	return p, nil
}

package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/metrics"
	"github.com/kreana/goapi/domain/keys"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2

	// retTTLNoExpire is the return value of TTL when the key exists but has
	// no associated expire
	retTTLNoExpire = -1
)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New redis service on top of a connection pool
func New(name string, metrics metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  metrics,
		pool: pool,
	}
}

func (r *redImpl) getConn() (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()
	conn := r.pool.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name)
		return nil, err
	}
	return conn, nil
}

func (r *redImpl) connDo(context ctx.Ctx, commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn()
	if err != nil {
		return nil, err
	}

	reply, err := conn.Do(commandName, args...)

	// release the connection asap, the pool blocks when MaxActive is reached
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
	return reply, err
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	tags := []string{"func", "get", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	val, err := redis.Bytes(r.connDo(context, "GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	} else if err != nil {
		context.WithField("err", err).Error("GET redis failed")
		return nil, err
	}
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)
	return val, nil
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	tags := []string{"func", "set", "cluster", r.name, "prefix", keys.GetPrefix(key)}
	defer r.met.BumpTime("time", tags...).End()

	var err error
	if expire == Forever {
		_, err = r.connDo(context, "SET", key, val)
	} else {
		_, err = r.connDo(context, "SET", key, val, "PX", int(expire/time.Millisecond))
	}
	if err != nil {
		context.WithField("err", err).Error("set redis failed")
	}
	return err
}

func (r *redImpl) Del(context ctx.Ctx, ks ...string) (int, error) {
	if len(ks) == 0 {
		return 0, nil
	}
	tags := []string{"func", "del", "cluster", r.name, "prefix", keys.GetPrefix(ks[0])}
	defer r.met.BumpTime("time", tags...).End()

	res, err := redis.Int(r.connDo(context, "DEL", redis.Args{}.AddFlat(ks)...))
	if err != nil {
		context.WithField("err", err).Error("DEL redis failed")
		return 0, err
	}
	return res, nil
}

func (r *redImpl) TTL(context ctx.Ctx, key string) (int, error) {
	defer r.met.BumpTime("time", "func", "TTL", "cluster", r.name, "prefix", keys.GetPrefix(key)).End()
	res, err := redis.Int(r.connDo(context, "TTL", key))
	if err != nil {
		context.WithField("err", err).Error("TTL redis failed")
		return 0, err
	}

	if res == retTTLNoKey {
		return res, ErrNotFound
	} else if res == retTTLNoExpire {
		return res, ErrNoTTL
	}
	return res, nil
}

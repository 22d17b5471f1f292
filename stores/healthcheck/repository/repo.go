package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kreana/goapi/base/ctx"
	hcdomain "github.com/kreana/goapi/domain/healthcheck"
	"github.com/kreana/goapi/domain/keys"
	"github.com/kreana/goapi/service/cache/provider"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *mongoclient.Client
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type impl struct {
	mgoClient Pinger
	cache     provider.Provider
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(
	mgoClient Pinger,
	cache provider.Provider,
) hcdomain.HealthCheckRepo {
	return &impl{
		mgoClient: mgoClient,
		cache:     cache,
	}
}

func (im *impl) PingDB(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.mgoClient.Ping(ctx, readpref.Primary()); err != nil {
		context.WithField("err", err).Error("ping mongo error")
		return err
	}
	return nil
}

func (im *impl) PingCache(context ctx.Ctx) error {
	ctx, cancel := ctx.WithTimeout(context, pingTimeout)
	defer cancel()
	if err := im.cache.Set(ctx, keys.RedisKey(keys.PfxHealthCheck, "testset"), []byte("1"), 30*time.Second); err != nil {
		context.WithField("err", err).Error("test cache set failed")
		return err
	}
	return nil
}

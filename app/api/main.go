package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/kreana/goapi/base/backoff"
	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/database/mongoclient"
	"github.com/kreana/goapi/base/database/redisclient"
	"github.com/kreana/goapi/base/goroutine"
	"github.com/kreana/goapi/base/log"
	"github.com/kreana/goapi/base/metrics"
	bValidator "github.com/kreana/goapi/base/validator"
	"github.com/kreana/goapi/domain"
	mmiddleware "github.com/kreana/goapi/middleware"
	"github.com/kreana/goapi/service/cache/provider"
	"github.com/kreana/goapi/service/cache/provider/primitive"
	redisProvider "github.com/kreana/goapi/service/cache/provider/redis"
	"github.com/kreana/goapi/service/publisher"
	"github.com/kreana/goapi/service/query"
	"github.com/kreana/goapi/service/redis"
	auth_delivery "github.com/kreana/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/kreana/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/kreana/goapi/stores/auth/usecase"
	factory_delivery "github.com/kreana/goapi/stores/factory/delivery/http"
	factory_repository "github.com/kreana/goapi/stores/factory/repository"
	factory_usecase "github.com/kreana/goapi/stores/factory/usecase"
	hc_delivery "github.com/kreana/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/kreana/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/kreana/goapi/stores/healthcheck/usecase"
)

const amqpDialRetries = 5

func main() {
	context := ctx.Background()
	defer log.Sync()

	metrics.Setup(metrics.Config{
		Host: viper.GetString("datadog.host"),
		Port: viper.GetInt("datadog.port"),
	})

	// init echo
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(bValidator.New())

	// init mongo client
	context.Info("init mongo")
	mongoClient := mongoclient.MustConnectMongoClient(mongoclient.Config{
		URI:                viper.GetString("mongo.uri"),
		AuthDBName:         viper.GetString("mongo.authDBName"),
		DBName:             viper.GetString("mongo.dbName"),
		SSL:                viper.GetBool("mongo.enableSSL"),
		PoolSizeMultiplier: viper.GetFloat64("mongo.poolSizeMultiplier"),
	})
	q := query.New(mongoClient, metrics.New("query"))
	if viper.GetBool("mongo.checkIndex") {
		if err := factory_repository.EnsureIndexes(context, q); err != nil {
			context.WithField("err", err).Panic("factory_repository.EnsureIndexes failed")
		}
	}

	// nonces live in redis when it is configured so every replica accepts a login
	cacheSizeMB := viper.GetInt("cache.sizeMB")
	var nonceCache provider.Provider
	if uri := viper.GetString("redis.uri"); uri != "" {
		context.Info("init redis cache")
		name := viper.GetString("redis.name")
		pool := redisclient.MustConnectRedis(uri, viper.GetString("redis.password"))
		nonceCache = redisProvider.NewRedis(redis.New(name, metrics.New(name), pool))
	} else {
		context.Warn("redis.uri is empty, keeping nonces in process")
		nonceCache = primitive.NewPrimitive("nonce", cacheSizeMB)
	}
	receiptCache := primitive.NewPrimitive("receipts", cacheSizeMB)

	// event sinks
	sinks := []publisher.Sink{}
	if url := viper.GetString("amqp.url"); url != "" {
		var sink publisher.Sink
		err := backoff.Retry(context, backoff.NewExponential(time.Second, 30*time.Second), amqpDialRetries, func() error {
			s, err := publisher.NewAmqp(url, viper.GetString("amqp.exchange"))
			if err != nil {
				context.WithField("err", err).Warn("publisher.NewAmqp failed")
				return err
			}
			sink = s
			return nil
		})
		if err != nil {
			context.WithField("err", err).Panic("can't reach the broker")
		}
		sinks = append(sinks, sink)
	}
	if botKey := viper.GetString("discord.botKey"); botKey != "" {
		sink, err := publisher.NewDiscord(botKey, viper.GetString("discord.channelId"))
		if err != nil {
			context.WithField("err", err).Panic("publisher.NewDiscord failed")
		}
		sinks = append(sinks, sink)
	}
	pub := publisher.New(publisher.Config{
		QueueLength: viper.GetInt("publisher.queueLength"),
		Sinks:       sinks,
	})

	// init ledger
	genesis, err := genesisFromConfig()
	if err != nil {
		context.WithField("err", err).Panic("invalid ledger.genesis")
	}
	ledger, err := factory_usecase.New(context, factory_usecase.Config{
		FactoryAddress: domain.Address(viper.GetString("ledger.factoryAddress")),
		Genesis:        genesis,
	}, factory_repository.New(q), pub)
	if err != nil {
		context.WithField("err", err).Panic("factory_usecase.New failed")
	}

	signingMsg := viper.GetString("auth.signatureMsg")
	auth := auth_usecase.New(auth_usecase.Config{
		JwtSecret:          viper.GetString("auth.jwtSecret"),
		SigningMsgTemplate: signingMsg,
		Nonces:             nonceCache,
	})
	hc := hc_usecase.New(hc_repo.New(mongoClient, nonceCache))

	authMiddleware := auth_middleware.New(auth, ledger)

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, signingMsg)
	factory_delivery.New(e, ledger, authMiddleware, receiptCache)

	goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}, goroutine.WithName("http"), goroutine.WithAfterRecovered(func(p interface{}, stack []byte) {
		log.Log().WithFields(log.Fields{"panic": p, "stack": string(stack)}).Error("http server panicked")
	}))

	// Wait for interrupt signal to gracefully shutdown the server with a timeout.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")

	timeout := viper.GetDuration("server.shutdownTimeout")
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := ctx.WithTimeout(context, timeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}

	// stop the workers before the broker connections go away
	pub.Close()
	for _, s := range sinks {
		if closer, ok := s.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				log.Log().WithFields(log.Fields{"sink": s.Name(), "err": err}).Warn("closing sink failed")
			}
		}
	}
	if err := mongoClient.Disconnect(ctx); err != nil {
		log.Log().WithField("err", err).Warn("mongo disconnect failed")
	}
}

package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/kreana/goapi/base/log"
)

const (
	mgSocketTimeout = 60 * time.Second
	connectTimeout  = 10 * time.Second
)

// Client wraps mongo.Client
type Client struct {
	DbName string
	*mongo.Client
}

// Config of the mongo connection. Ledger commits use multi document transactions
// so the uri must point to a replica set.
type Config struct {
	URI                string
	AuthDBName         string
	DBName             string
	SSL                bool
	PoolSizeMultiplier float64
}

// MustConnectMongoClient returns MongoDB connection client if connected successfully, or it will trigger panic
func MustConnectMongoClient(cfg Config) *Client {
	cli, err := ConnectMongoClient(cfg)
	if err != nil {
		log.Log().WithFields(log.Fields{"mongoURI": cfg.URI, "err": err}).Panic("fail to dial Mongo")
	}
	return cli
}

// ConnectMongoClient returns mongo driver client
func ConnectMongoClient(cfg Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	connSetting, err := connstring.Parse(cfg.URI)
	if err != nil {
		log.Log().WithFields(log.Fields{
			"dbName": cfg.DBName,
			"err":    err,
		}).Error("fail to parse connstring")
		return nil, err
	}

	clientOpts := options.Client()
	clientOpts.ApplyURI(cfg.URI)
	clientOpts.SetSocketTimeout(mgSocketTimeout)

	// If AuthSource is not set in connstring, set it to authDBName
	if connSetting.Username != "" && connSetting.AuthSource == "" && cfg.AuthDBName != "" {
		clientOpts.SetAuth(options.Credential{
			AuthMechanism:           connSetting.AuthMechanism,
			AuthMechanismProperties: connSetting.AuthMechanismProperties,
			Username:                connSetting.Username,
			Password:                connSetting.Password,
			PasswordSet:             connSetting.PasswordSet,
			AuthSource:              cfg.AuthDBName,
		})
	}

	if cfg.PoolSizeMultiplier > 0 {
		// each host has its own pool
		poolSize := int(float64(runtime.NumCPU()) * cfg.PoolSizeMultiplier)
		poolSize = (poolSize + len(connSetting.Hosts) - 1) / len(connSetting.Hosts)
		clientOpts.SetMinPoolSize(uint64(poolSize / 4))
		clientOpts.SetMaxPoolSize(uint64(poolSize))
		log.Log().WithField("poolSize", poolSize).Info("mongo driver pool size")
	}

	if cfg.SSL {
		clientOpts.SetTLSConfig(&tls.Config{})
	}

	// ledger writes wait for a majority of the replica set
	clientOpts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	clientOpts.SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Log().WithFields(log.Fields{
			"mongoHosts": connSetting.Hosts,
			"dbName":     cfg.DBName,
			"err":        err,
		}).Error("fail to connect mongo db")
		return nil, err
	}

	// Test if mongoDBName is valid
	if _, err := client.Database(cfg.DBName).ListCollectionNames(ctx, bson.D{}); err != nil {
		log.Log().WithFields(log.Fields{
			"mongoHosts": connSetting.Hosts,
			"dbName":     cfg.DBName,
			"err":        err,
		}).Error("fail to test mongo db")
		return nil, err
	}

	log.Log().WithFields(log.Fields{
		"mongoHosts": connSetting.Hosts,
		"db":         cfg.DBName,
	}).Info("mongo connected")
	return &Client{
		Client: client,
		DbName: cfg.DBName,
	}, nil
}

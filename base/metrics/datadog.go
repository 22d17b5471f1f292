package metrics

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DataDog/datadog-go/statsd"

	"github.com/kreana/goapi/base/env"
	"github.com/kreana/goapi/base/log"
)

const (
	ddClientsSize    = 8 // needs to be 2^n
	ddClientsIdxMask = ddClientsSize - 1

	// buffer 10 counters before sending to statsd
	bufferMetrics = 10
)

var (
	initOnce = sync.Once{}
	cfg      = Config{Port: 8125}

	// ddClientsIdx is used for accessing ddClients by round robin scheduling
	ddClientsIdx = int32(0)
	ddClients    []statsCli
)

// Config decides where metrics are sent. An empty Host logs metrics at debug level instead.
type Config struct {
	Host    string
	Port    int
	EnvName string
	AppName string
}

// Setup must be called before the first metric is bumped
func Setup(c Config) {
	if c.Port == 0 {
		c.Port = 8125
	}
	if c.EnvName == "" {
		c.EnvName = env.EnvName()
	}
	if c.AppName == "" {
		c.AppName = env.AppName()
	}
	cfg = c
}

func initDDClient() {
	ddClients = make([]statsCli, ddClientsSize)
	if cfg.Host == "" {
		for i := range ddClients {
			ddClients[i] = &LogClient{}
		}
		return
	}

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	log.Log().WithField("addr", addr).Info("connecting to datadog agent")
	for i := 0; i < ddClientsSize; i++ {
		cli, err := statsd.NewBuffered(addr, bufferMetrics)
		if err != nil {
			log.Log().WithFields(log.Fields{"addr": addr, "err": err}).Panic("can't talk to datadog agent")
		}
		ddClients[i] = cli
	}
}

type statsCli interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Count(name string, value int64, tags []string, rate float64) error
	Histogram(name string, value float64, tags []string, rate float64) error
	TimeInMilliseconds(name string, value float64, tags []string, rate float64) error
}

func client() statsCli {
	initOnce.Do(initDDClient)
	i := atomic.AddInt32(&ddClientsIdx, 1) & ddClientsIdxMask
	return ddClients[i]
}

type ddTimeTracker struct {
	start time.Time
	key   string
	tags  []string
}

func (dt *ddTimeTracker) End() {
	d := time.Since(dt.start)
	dur := float64(d) / float64(time.Millisecond)
	if err := client().TimeInMilliseconds(dt.key, dur, dt.tags, 1); err != nil {
		log.Log().WithFields(log.Fields{"err": err, "key": dt.key, "val": dur, "func": "BumpTime"}).Error("Bump fail")
	}
}

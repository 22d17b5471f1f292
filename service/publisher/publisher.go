package publisher

import (
	"context"
	"time"

	"github.com/viney-shih/goroutines"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/base/log"
	"github.com/kreana/goapi/base/metrics"
	"github.com/kreana/goapi/base/utils"
	"github.com/kreana/goapi/domain/factory"
)

const sendTimeout = 10 * time.Second

var timeNow = time.Now

// Service is a factory.Publisher owning its workers
type Service interface {
	factory.Publisher
	Close()
}

// Sink receives the events of a committed receipt
type Sink interface {
	Name() string
	Send(c ctx.Ctx, events []factory.Event) error
}

type Config struct {
	// QueueLength bounds the receipts waiting on each sink
	QueueLength int
	Sinks       []Sink
}

// lane delivers to one sink on a single worker, so a sink sees receipts in commit order
type lane struct {
	sink Sink
	pool *goroutines.Pool
}

type impl struct {
	lanes []lane
	met   metrics.Service
}

// New fans receipts out to every sink, each sink on its own worker. Sink failures
// and panics are logged, they never reach the transaction that emitted them.
func New(cfg Config) Service {
	if cfg.QueueLength <= 0 {
		cfg.QueueLength = 1024
	}
	im := &impl{met: metrics.New("publisher")}
	for _, sink := range cfg.Sinks {
		im.lanes = append(im.lanes, lane{
			sink: sink,
			pool: goroutines.NewPool(1, goroutines.WithTaskQueueLength(cfg.QueueLength), goroutines.WithPreAllocWorkers(1)),
		})
	}
	return im
}

func (im *impl) Publish(c ctx.Ctx, receipt *factory.Receipt) {
	events := receipt.Events()
	if len(events) == 0 {
		return
	}
	// the request context ends with the response, sends outlive it
	bg := ctx.Ctx{Context: context.Background(), Logger: c.Logger.WithField("txHash", receipt.TxHash)}
	for _, l := range im.lanes {
		sink := l.sink
		if err := l.pool.Schedule(func() { im.send(bg, sink, events) }); err != nil {
			im.met.BumpSum("schedule.err", 1, "sink", sink.Name())
			bg.WithField("err", err).WithField("sink", sink.Name()).Error("pool.Schedule failed")
		}
	}
}

func (im *impl) send(c ctx.Ctx, sink Sink, events []factory.Event) {
	defer im.met.BumpTime("send.time", "sink", sink.Name()).End()
	defer func() {
		if p := recover(); p != nil {
			im.met.BumpSum("send.panic", 1, "sink", sink.Name())
			c.WithFields(log.Fields{
				"sink":  sink.Name(),
				"err":   p,
				"stack": string(utils.Stack(3)),
			}).Error("panic")
		}
	}()

	c, cancel := ctx.WithTimeout(c, sendTimeout)
	defer cancel()
	if err := sink.Send(c, events); err != nil {
		im.met.BumpSum("send.err", 1, "sink", sink.Name())
		c.WithField("err", err).WithField("sink", sink.Name()).Error("sink.Send failed")
		return
	}
	im.met.BumpSum("send.ok", float64(len(events)), "sink", sink.Name())
}

// Close waits for queued sends and stops the workers
func (im *impl) Close() {
	for _, l := range im.lanes {
		l.pool.Release()
	}
}

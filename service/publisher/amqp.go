package publisher

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kreana/goapi/base/ctx"
	"github.com/kreana/goapi/domain/factory"
)

type amqpChannel interface {
	PublishWithContext(c context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpSink struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
}

// NewAmqp publishes every event to a durable topic exchange, routed by event name
func NewAmqp(url, exchange string) (*amqpSink, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &amqpSink{conn: conn, ch: ch, exchange: exchange}, nil
}

func (s *amqpSink) Name() string {
	return "amqp"
}

func (s *amqpSink) Send(c ctx.Ctx, events []factory.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, evt := range events {
		body, err := json.Marshal(evt)
		if err != nil {
			c.WithField("err", err).Error("json.Marshal failed")
			return err
		}
		msg := amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    timeNow().UTC(),
			Type:         string(evt.Name),
			Headers: amqp.Table{
				"blockNumber": int64(evt.BlockNumber),
				"logIndex":    int64(evt.Index),
			},
			Body: body,
		}
		if err := s.ch.PublishWithContext(c, s.exchange, string(evt.Name), false, false, msg); err != nil {
			c.WithField("err", err).WithField("event", evt.Name).Error("ch.PublishWithContext failed")
			return err
		}
	}
	return nil
}

func (s *amqpSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ch.Close(); err != nil {
		return err
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

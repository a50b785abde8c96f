package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/BearBump/QRLink/internal/broker/messages"
)

const (
	headerEventType = "event_type"
	headerEventID   = "event_id"
)

type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Producer struct {
	w writer
}

func NewProducer(brokers []string) *Producer {
	return newProducerWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	})
}

func newProducerWithWriter(w writer) *Producer {
	return &Producer{w: w}
}

// PublishCustomerEvent writes ev as JSON keyed by customer id, so the
// hash balancer keeps one customer's events on one partition.
func (p *Producer) PublishCustomerEvent(ctx context.Context, topic string, ev messages.CustomerEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal customer event")
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   ev.Key(),
		Value: value,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(ev.Type)},
			{Key: headerEventID, Value: []byte(ev.EventID)},
		},
		Time: ev.OccurredAt,
	}); err != nil {
		return errors.Wrapf(err, "kafka publish %s", ev.Type)
	}
	return nil
}

func (p *Producer) Close() error {
	if c, ok := p.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

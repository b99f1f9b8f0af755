// Package publisher forwards engine ticks to Kafka, one message per token
// keyed by symbol so a token's updates stay ordered within a partition.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/segmentio/kafka-go"

	"gamefi-market/src/logger"
	"gamefi-market/src/models"
)

// messageWriter is the part of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PriceMessage is the value of one published Kafka message
type PriceMessage struct {
	models.MPriceData
	TickTimestamp time.Time `json:"tick_timestamp"`
}

// KafkaPublisher implements interfaces.IPricePublisher
type KafkaPublisher struct {
	writer messageWriter
	Logger *logger.Logger
}

// -----------------------------------------------------------------------------

// NewKafkaPublisher creates a hash-balanced writer for cfg.Topic
func NewKafkaPublisher(cfg models.MPublisherConfig, log *logger.Logger) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka publisher requires a topic")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return newKafkaPublisher(writer, log), nil
}

func newKafkaPublisher(w messageWriter, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, Logger: log}
}

// -----------------------------------------------------------------------------

// Publish writes one message per token of snapshot, in symbol order
func (p *KafkaPublisher) Publish(ctx context.Context, snapshot models.MPriceSnapshot) error {
	symbols := make([]string, 0, len(snapshot.Prices))
	for sym := range snapshot.Prices {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	msgs := make([]kafka.Message, 0, len(symbols))
	for _, sym := range symbols {
		data, err := json.Marshal(PriceMessage{MPriceData: snapshot.Prices[sym], TickTimestamp: snapshot.Timestamp})
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(sym),
			Value: data,
			Time:  snapshot.Timestamp,
		})
	}

	if len(msgs) == 0 {
		return nil
	}
	return p.writer.WriteMessages(ctx, msgs...)
}

// -----------------------------------------------------------------------------

// Run publishes every snapshot from updates until the channel closes or ctx
// is done. Publish failures are logged; the next tick is still attempted.
func (p *KafkaPublisher) Run(ctx context.Context, updates <-chan models.MPriceSnapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := p.Publish(ctx, snapshot); err != nil {
				p.Logger.Error("Failed to publish tick %v: %v", snapshot.Timestamp, err)
			}
		}
	}
}

// -----------------------------------------------------------------------------

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

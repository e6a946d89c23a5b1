package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nattawatz/flightdesk/internal/logger"
	"github.com/segmentio/kafka-go"
)

// EventHandler processes one decoded reservation event. Returning an error
// stops the consume loop.
type EventHandler func(ctx context.Context, event ReservationEvent) error

// Consumer reads reservation events off one topic as part of a consumer group.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			MinBytes:          1,
			MaxBytes:          1 << 20,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume decodes and hands each message to handler, committing the offset
// only after the handler succeeds. Undecodable messages are logged and
// committed so they do not wedge the group.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		var event ReservationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.ErrorLogger.Errorf("skip undecodable message on %s at offset %d: %v", msg.Topic, msg.Offset, err)
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return err
			}
			continue
		}

		if err := handler(ctx, event); err != nil {
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

package kafka

import (
	"context"
	"errors"

	"github.com/IBM/sarama"
)

var ErrNoHandler = errors.New("kafka: consumer handler required")

type MessageHandler interface {
	Handle(ctx context.Context, msg *sarama.ConsumerMessage) error
}

type MessageHandlerFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

func (f MessageHandlerFunc) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	return f(ctx, msg)
}

// Consumer reads funnel event topics as a member of a consumer group.
type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
}

// NewConsumer joins groupID. With fromOldest a new group starts at the
// beginning of each topic instead of at the newest offset.
func NewConsumer(brokers []string, groupID string, fromOldest bool, handler MessageHandler) (*Consumer, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if handler == nil {
		return nil, ErrNoHandler
	}
	cfg := sarama.NewConfig()
	cfg.ClientID = "boilerfunnel-consumer"
	cfg.Version = sarama.V2_5_0_0
	if fromOldest {
		cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: g, handler: handler}, nil
}

// Run consumes until ctx is cancelled, rejoining after each rebalance.
func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		if err := c.group.Consume(ctx, topics, groupHandler{handler: c.handler}); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handler MessageHandler
}

func (groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim marks only messages the handler accepted; the rest are
// redelivered after the next rebalance.
func (h groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := h.handler.Handle(sess.Context(), msg); err != nil {
			continue
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}

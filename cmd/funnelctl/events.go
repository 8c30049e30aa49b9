package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/IBM/sarama"
	"github.com/spf13/cobra"

	"boilerfunnel/internal/infra/broker/kafka"
	"boilerfunnel/internal/infra/config"
	"boilerfunnel/internal/infra/outbox"
)

var errNoBrokers = errors.New("no brokers: pass --brokers or set KAFKA_BROKERS")

func eventsCmd() *cobra.Command {
	var (
		brokers    []string
		group      string
		fromOldest bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail funnel events published by the outbox relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				cfg = config.Defaults()
			}
			if len(brokers) == 0 {
				brokers = cfg.KafkaBrokers
			}
			if len(brokers) == 0 {
				return errNoBrokers
			}
			printer := eventPrinter{out: cmd.OutOrStdout()}
			consumer, err := kafka.NewConsumer(brokers, group, fromOldest, printer)
			if err != nil {
				return err
			}
			defer consumer.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			err = consumer.Run(ctx, funnelTopics(cfg.KafkaTopicPrefix))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringSliceVar(&brokers, "brokers", nil, "Kafka brokers, defaults to KAFKA_BROKERS")
	cmd.Flags().StringVar(&group, "group", "funnelctl", "Consumer group id")
	cmd.Flags().BoolVar(&fromOldest, "from-beginning", false, "Start a new group at the oldest offset")
	return cmd
}

func funnelTopics(prefix string) []string {
	return []string{
		outbox.Topic(prefix, "submission.created"),
		outbox.Topic(prefix, "product.created"),
	}
}

type cloudEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Subject string `json:"subject"`
	Time    string `json:"time"`
}

type eventPrinter struct {
	out io.Writer
}

// Handle prints one line per event. Payloads that are not CloudEvents are
// printed raw so nothing is silently skipped.
func (p eventPrinter) Handle(_ context.Context, msg *sarama.ConsumerMessage) error {
	var evt cloudEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil || evt.Type == "" {
		_, werr := fmt.Fprintf(p.out, "%s\t%s\n", msg.Topic, msg.Value)
		return werr
	}
	_, err := fmt.Fprintf(p.out, "%s\t%s\t%s\t%s\n", evt.Time, evt.Type, evt.Subject, evt.ID)
	return err
}

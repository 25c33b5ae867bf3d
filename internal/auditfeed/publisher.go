// Package auditfeed forwards committed changelog entries to a Kafka topic so
// external systems (SIEM, data warehouse) can consume the audit trail. The
// feed is fire-and-forget: the relational changelog stays the sole source of
// truth, and publish failures are logged, never surfaced to the save.
package auditfeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"conforma/internal/changelog"
)

// Publisher produces one record per changelog entry, keyed by project id so
// one project's audit trail stays ordered within its partition.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// New connects to the brokers and ensures the topic exists.
func New(ctx context.Context, brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect audit feed brokers: %w", err)
	}

	admin := kadm.NewClient(client)
	if _, err := admin.CreateTopic(ctx, 1, 1, nil, topic); err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		client.Close()
		return nil, fmt.Errorf("ensure audit feed topic %q: %w", topic, err)
	}

	return &Publisher{client: client, topic: topic, logger: logger}, nil
}

// Publish produces the entries asynchronously. Errors are logged and dropped.
func (p *Publisher) Publish(ctx context.Context, entries []changelog.Entry) {
	for _, entry := range entries {
		raw, err := json.Marshal(entry)
		if err != nil {
			p.logger.ErrorContext(ctx, "audit feed marshal failed",
				slog.String("entry_id", entry.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		record := &kgo.Record{
			Topic: p.topic,
			Key:   []byte(entry.ProjectID.String()),
			Value: raw,
		}
		p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
			if err != nil {
				p.logger.ErrorContext(ctx, "audit feed publish failed",
					slog.String("topic", p.topic),
					slog.String("error", err.Error()),
				)
			}
		})
	}
}

// Close flushes buffered records and releases the client.
func (p *Publisher) Close() {
	_ = p.client.Flush(context.Background())
	p.client.Close()
}

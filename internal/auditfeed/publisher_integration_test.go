//go:build integration

package auditfeed_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"conforma/internal/auditfeed"
	"conforma/internal/changelog"
	id "conforma/pkg/domain"
	"conforma/pkg/testutil/containers"
)

type PublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redpanda = mgr.GetRedpanda(s.T())
}

func (s *PublisherSuite) TestPublishedEntriesArriveInOrder() {
	ctx := context.Background()
	topic := "conforma.changelog.test." + uuid.NewString()

	publisher, err := auditfeed.New(ctx, s.redpanda.Brokers, topic, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)

	projectID := id.ProjectID(uuid.New())
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	entries := []changelog.Entry{
		{
			ID: uuid.New(), ProjectID: projectID, RequirementID: "4.1",
			ActorID: "auditor-1", ActorDisplayName: "Jane Auditor",
			Field: "status", OldValue: "not_evaluated", NewValue: "partial",
			CreatedAt: now,
		},
		{
			ID: uuid.New(), ProjectID: projectID, RequirementID: "4.1",
			ActorID: "auditor-1", ActorDisplayName: "Jane Auditor",
			Field: "notes", OldValue: "", NewValue: "first pass",
			CreatedAt: now,
		},
	}
	publisher.Publish(ctx, entries)
	publisher.Close()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	deadline, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var received []changelog.Entry
	for len(received) < len(entries) {
		fetches := consumer.PollFetches(deadline)
		s.Require().NoError(fetches.Err())
		fetches.EachRecord(func(record *kgo.Record) {
			s.Equal(projectID.String(), string(record.Key))
			var entry changelog.Entry
			s.Require().NoError(json.Unmarshal(record.Value, &entry))
			received = append(received, entry)
		})
	}

	s.Require().Len(received, 2)
	s.Equal("status", received[0].Field)
	s.Equal("notes", received[1].Field)
	s.Equal(projectID, received[0].ProjectID)
	s.Equal("Jane Auditor", received[0].ActorDisplayName)
}

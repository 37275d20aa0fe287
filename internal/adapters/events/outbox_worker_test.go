package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/adpilot/marketops/internal/domain"
	"github.com/adpilot/marketops/internal/ports"
)

type stubOutbox struct {
	records      []domain.OutboxRecord
	published    []uuid.UUID
	failed       []uuid.UUID
	deadLettered []uuid.UUID
}

func (s *stubOutbox) Append(_ context.Context, _ ports.OutboxEvent) error { return nil }

func (s *stubOutbox) ClaimUnpublished(_ context.Context, limit int, _ string, _ time.Time) ([]domain.OutboxRecord, error) {
	if limit < len(s.records) {
		return s.records[:limit], nil
	}
	return s.records, nil
}

func (s *stubOutbox) MarkPublished(_ context.Context, id uuid.UUID, _ string, _ time.Time) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubOutbox) MarkFailed(_ context.Context, id uuid.UUID, _ string, _ string, _ time.Time) error {
	s.failed = append(s.failed, id)
	return nil
}

func (s *stubOutbox) MarkDeadLettered(_ context.Context, id uuid.UUID, _ string, _ string, _ time.Time) error {
	s.deadLettered = append(s.deadLettered, id)
	return nil
}

type stubPublisher struct {
	err  error
	sent []string
	keys []string
}

func (p *stubPublisher) Publish(_ context.Context, eventType string, _ []byte, partitionKey string) error {
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, eventType)
	p.keys = append(p.keys, partitionKey)
	return nil
}

type stubRecorder struct {
	published    int
	deadLettered int
	batches      int
}

func (r *stubRecorder) RecordSyncRun(string, int, int) {}

func (r *stubRecorder) ObservePlatformCall(domain.Platform, time.Time, error) {}

func (r *stubRecorder) RecordOutboxBatch(published, deadLettered int) {
	r.published += published
	r.deadLettered += deadLettered
	r.batches++
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessOncePublishesClaimedRecords(t *testing.T) {
	t.Parallel()
	outbox := &stubOutbox{records: []domain.OutboxRecord{
		{OutboxID: uuid.New(), EventType: "sync.completed", PartitionKey: "user-1", Payload: []byte(`{}`)},
		{OutboxID: uuid.New(), EventType: "platform.connected", PartitionKey: "user-2", Payload: []byte(`{}`)},
	}}
	publisher := &stubPublisher{}
	worker := NewOutboxWorker(discardLogger(), outbox, publisher, nil, 0, 0, 0, 0)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if len(publisher.sent) != 2 {
		t.Fatalf("published = %d, want 2", len(publisher.sent))
	}
	if publisher.keys[0] != "user-1" || publisher.keys[1] != "user-2" {
		t.Fatalf("partition keys = %v", publisher.keys)
	}
	if len(outbox.published) != 2 || len(outbox.failed) != 0 {
		t.Fatalf("marks: published=%d failed=%d", len(outbox.published), len(outbox.failed))
	}
}

func TestProcessOnceMarksFailureForRetry(t *testing.T) {
	t.Parallel()
	outbox := &stubOutbox{records: []domain.OutboxRecord{
		{OutboxID: uuid.New(), EventType: "sync.completed", RetryCount: 0},
	}}
	publisher := &stubPublisher{err: errors.New("broker down")}
	worker := NewOutboxWorker(discardLogger(), outbox, publisher, nil, 0, 0, 0, 5)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if len(outbox.failed) != 1 || len(outbox.deadLettered) != 0 {
		t.Fatalf("marks: failed=%d dlq=%d, want one retryable failure", len(outbox.failed), len(outbox.deadLettered))
	}
}

func TestProcessOnceDeadLettersAtRetryLimit(t *testing.T) {
	t.Parallel()
	outbox := &stubOutbox{records: []domain.OutboxRecord{
		{OutboxID: uuid.New(), EventType: "sync.completed", RetryCount: 4},
	}}
	publisher := &stubPublisher{err: errors.New("broker down")}
	worker := NewOutboxWorker(discardLogger(), outbox, publisher, nil, 0, 0, 0, 5)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if len(outbox.deadLettered) != 1 || len(outbox.failed) != 0 {
		t.Fatalf("marks: dlq=%d failed=%d, want dead letter at the limit", len(outbox.deadLettered), len(outbox.failed))
	}
}

func TestProcessOnceSkipsRecordsAlreadyOverLimit(t *testing.T) {
	t.Parallel()
	outbox := &stubOutbox{records: []domain.OutboxRecord{
		{OutboxID: uuid.New(), EventType: "sync.completed", RetryCount: 5},
	}}
	publisher := &stubPublisher{}
	worker := NewOutboxWorker(discardLogger(), outbox, publisher, nil, 0, 0, 0, 5)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if len(publisher.sent) != 0 {
		t.Fatalf("record over the retry limit must not be published")
	}
	if len(outbox.deadLettered) != 1 {
		t.Fatalf("record over the retry limit must be dead-lettered")
	}
}

func TestProcessOnceRecordsBatchCounters(t *testing.T) {
	t.Parallel()
	outbox := &stubOutbox{records: []domain.OutboxRecord{
		{OutboxID: uuid.New(), EventType: "sync.completed", PartitionKey: "user-1", Payload: []byte(`{}`)},
		{OutboxID: uuid.New(), EventType: "platform.connected", PartitionKey: "user-2", Payload: []byte(`{}`)},
		{OutboxID: uuid.New(), EventType: "sync.completed", RetryCount: 5},
	}}
	publisher := &stubPublisher{}
	recorder := &stubRecorder{}
	worker := NewOutboxWorker(discardLogger(), outbox, publisher, recorder, 0, 0, 0, 5)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if recorder.published != 2 || recorder.deadLettered != 1 {
		t.Fatalf("recorded published=%d deadLettered=%d, want 2 and 1", recorder.published, recorder.deadLettered)
	}
}

func TestProcessOnceSkipsRecorderOnEmptyBatch(t *testing.T) {
	t.Parallel()
	recorder := &stubRecorder{}
	worker := NewOutboxWorker(discardLogger(), &stubOutbox{}, &stubPublisher{}, recorder, 0, 0, 0, 5)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process once: %v", err)
	}
	if recorder.batches != 0 {
		t.Fatalf("empty batch must not record a counter sample")
	}
}

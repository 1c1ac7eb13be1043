package jobs

import (
	"context"
	"log/slog"

	"marketplace/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const relayBatchSize = 100

// OutboxRelayJob drains the notification outbox. Runs every second, loads a
// batch of unpublished events, publishes each to the sink and marks it
// published. Delivery is at-least-once: a crash between publish and mark
// replays the event on the next tick.
type OutboxRelayJob struct {
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOutboxRelayJob creates the relay job.
func NewOutboxRelayJob(
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) *OutboxRelayJob {
	return &OutboxRelayJob{
		outbox:    outbox,
		publisher: publisher,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

// Start begins draining the outbox every second.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		j.relayBatch(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started (running every second)")
	return nil
}

// Stop stops the relay job.
func (j *OutboxRelayJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

func (j *OutboxRelayJob) relayBatch(ctx context.Context) {
	events, err := j.outbox.GetUnpublished(ctx, relayBatchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to load unpublished events", "error", err)
		return
	}

	for _, event := range events {
		if err = j.publisher.Publish(ctx, event.Payload); err != nil {
			j.logger.ErrorContext(ctx, "Failed to publish event",
				"eventID", event.ID, "orderID", event.Payload.OrderID.String(), "error", err)
			continue
		}

		if err = j.outbox.MarkPublished(ctx, event.ID); err != nil {
			j.logger.ErrorContext(ctx, "Failed to mark event published",
				"eventID", event.ID, "error", err)
		}
	}
}

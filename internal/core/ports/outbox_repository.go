package ports

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// OutboxEvent is a status-change notification staged for publication. Events
// are written in the same transaction as the transition that produced them
// and relayed to the notification sink by a background job.
type OutboxEvent struct {
	ID      int64
	Payload order.StatusChanged
}

// OutboxRepository is the persistence contract for staged notifications.
type OutboxRepository interface {
	// Add stages one event inside the current transaction.
	Add(ctx context.Context, event order.StatusChanged) error

	// GetUnpublished returns up to limit staged events, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]OutboxEvent, error)

	// MarkPublished records that the event reached the sink. Relay is
	// at-least-once: a crash between publish and mark causes a duplicate,
	// never a loss.
	MarkPublished(ctx context.Context, id int64) error
}

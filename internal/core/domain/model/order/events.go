package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// StatusChanged is the domain event recorded for every successful transition.
// Exactly one event is recorded per transition; the notification pipeline
// delivers it best-effort after the transaction commits.
type StatusChanged struct {
	OrderID    kernel.UUID
	From       Status
	To         Status
	ActorID    kernel.UUID
	OccurredAt time.Time
}

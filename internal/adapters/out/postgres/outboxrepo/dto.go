// Package outboxrepo persists staged status-change notifications. Events are
// written in the same transaction as the transition that produced them and
// drained by the relay job after commit.
package outboxrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
)

// OutboxEventDTO is one staged notification row. PublishedAt is null until
// the relay confirms delivery to the sink.
type OutboxEventDTO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	FromStatus  string    `gorm:"type:varchar(32)"`
	ToStatus    string    `gorm:"type:varchar(32)"`
	ActorID     uuid.UUID `gorm:"type:uuid"`
	OccurredAt  time.Time
	PublishedAt *time.Time `gorm:"index"`
}

// TableName overrides GORM's default naming to use "outbox_events".
func (OutboxEventDTO) TableName() string {
	return "outbox_events"
}

func fromDomain(event order.StatusChanged) OutboxEventDTO {
	return OutboxEventDTO{
		OrderID:    event.OrderID.Bytes(),
		FromStatus: event.From.String(),
		ToStatus:   event.To.String(),
		ActorID:    event.ActorID.Bytes(),
		OccurredAt: event.OccurredAt,
	}
}

func toDomain(dto OutboxEventDTO) (ports.OutboxEvent, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ports.OutboxEvent{}, err
	}
	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return ports.OutboxEvent{}, err
	}
	from, err := statusOrUnknown(dto.FromStatus)
	if err != nil {
		return ports.OutboxEvent{}, err
	}
	to, err := order.StatusFromString(dto.ToStatus)
	if err != nil {
		return ports.OutboxEvent{}, err
	}

	return ports.OutboxEvent{
		ID: dto.ID,
		Payload: order.StatusChanged{
			OrderID:    orderID,
			From:       from,
			To:         to,
			ActorID:    actorID,
			OccurredAt: dto.OccurredAt,
		},
	}, nil
}

// statusOrUnknown parses a status, accepting the unknown marker that order
// creation events carry in their From field.
func statusOrUnknown(s string) (order.Status, error) {
	if s == order.StatusUnknown.String() {
		return order.StatusUnknown, nil
	}
	return order.StatusFromString(s)
}

// Package commands contains the write operations of the fulfillment ledger.
// Implements the Command pattern: one command + handler pair per transition of
// the order state machine. All handlers follow the same shape: validate the
// command, load the aggregate in a transaction, apply the domain transition,
// persist with compare-and-set, stage the notification event, commit.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OutboxRepoFactory provides the outbox repository within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// OrderUoW manages a transaction over the order aggregate and its staged
	// notifications. Every transition writes both or neither.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		OutboxRepoFactory
	}

	// OrderUoWFactory creates new unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

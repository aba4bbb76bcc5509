// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package events publishes account and inventory events to RabbitMQ.

Events are notifications only: the database stays the source of truth, and a
failed publish never fails the request that produced it. Services call [Emit],
which logs and swallows publisher errors.
*/
package events

import (
	"context"
	"log/slog"
	"time"
)

// # Event Types

const (
	AccountRegistered = "account.registered"
	AccountApproved   = "account.approved"
	AccountRejected   = "account.rejected"
	AccountSuspended  = "account.suspended"
	AccountActivated  = "account.activated"
	AccountDeleted    = "account.deleted"
	AccountLocked     = "account.locked"
	AccountUnlocked   = "account.unlocked"
	AdminCreated      = "account.admin_created"
	FabricUsed        = "fabric.usage_recorded"
)

// Event is the JSON message body placed on the queue.
type Event struct {
	Type       string         `json:"type"`
	UserID     string         `json:"user_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

// Publish implements [Publisher].
func (Nop) Publish(context.Context, Event) error { return nil }

// Emit publishes event and logs any failure instead of returning it.
// A nil publisher is treated as [Nop].
func Emit(ctx context.Context, publisher Publisher, logger *slog.Logger, event Event) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "event_publish_failed",
			slog.String("type", event.Type),
			slog.String("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}

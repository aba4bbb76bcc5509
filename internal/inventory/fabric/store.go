// Copyright (c) 2026 Vivi Sews. All rights reserved.

package fabric

import "context"

// Repository persists fabrics and their usage history. Every method is
// scoped to userID and reports another user's rows as NotFound.
type Repository interface {
	List(ctx context.Context, userID string) ([]*Fabric, error)
	Get(ctx context.Context, userID, id string) (*Fabric, error)
	Create(ctx context.Context, fabric *Fabric) error
	Update(ctx context.Context, fabric *Fabric) error
	Delete(ctx context.Context, userID, id string) error

	// TogglePin flips is_pinned and returns the new value.
	TogglePin(ctx context.Context, userID, id string) (bool, error)

	// RecordUsage inserts entry and lowers the fabric's yardage atomically.
	RecordUsage(ctx context.Context, entry *UsageEntry) (*UsageResult, error)

	// UsageHistory lists the user's usage, newest first, with fabric names.
	UsageHistory(ctx context.Context, userID string) ([]*UsageEntry, error)
}

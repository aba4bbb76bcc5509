// Copyright (c) 2026 Vivi Sews. All rights reserved.

package pattern

import "context"

// Repository persists patterns, scoped to their owner.
type Repository interface {
	List(ctx context.Context, userID string) ([]*Pattern, error)
	Get(ctx context.Context, userID, id string) (*Pattern, error)
	Create(ctx context.Context, pattern *Pattern) error
	Update(ctx context.Context, pattern *Pattern) error
	Delete(ctx context.Context, userID, id string) error
	TogglePin(ctx context.Context, userID, id string) (bool, error)
}

// Copyright (c) 2026 Vivi Sews. All rights reserved.

package project

import "context"

// Repository persists projects, scoped to their owner.
type Repository interface {
	List(ctx context.Context, userID string) ([]*Project, error)
	Get(ctx context.Context, userID, id string) (*Project, error)
	Create(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, userID, id string) error
}

// Copyright (c) 2026 Vivi Sews. All rights reserved.

package fabric_test

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/vivisews/vivisews/internal/inventory/fabric"
	"github.com/vivisews/vivisews/internal/platform/apperr"
)

// memoryRepository is an owner-scoped in-memory fabric.Repository.
type memoryRepository struct {
	mu      sync.Mutex
	fabrics map[string]*fabric.Fabric
	usage   []*fabric.UsageEntry
	clock   time.Time

	failUsage error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		fabrics: map[string]*fabric.Fabric{},
		clock:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryRepository) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memoryRepository) owned(userID, id string) (*fabric.Fabric, error) {
	stored, ok := m.fabrics[id]
	if !ok || stored.UserID != userID {
		return nil, apperr.NotFound("Fabric")
	}
	return stored, nil
}

func (m *memoryRepository) List(_ context.Context, userID string) ([]*fabric.Fabric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*fabric.Fabric{}
	for _, stored := range m.fabrics {
		if stored.UserID == userID {
			copied := *stored
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsPinned != result[j].IsPinned {
			return result[i].IsPinned
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *memoryRepository) Get(_ context.Context, userID, id string) (*fabric.Fabric, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.owned(userID, id)
	if err != nil {
		return nil, err
	}
	copied := *stored
	return &copied, nil
}

func (m *memoryRepository) Create(_ context.Context, item *fabric.Fabric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	item.CreatedAt, item.UpdatedAt = now, now
	copied := *item
	m.fabrics[item.ID] = &copied
	return nil
}

func (m *memoryRepository) Update(_ context.Context, item *fabric.Fabric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.owned(item.UserID, item.ID); err != nil {
		return err
	}
	item.UpdatedAt = m.tick()
	copied := *item
	m.fabrics[item.ID] = &copied
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.owned(userID, id); err != nil {
		return err
	}
	delete(m.fabrics, id)
	return nil
}

func (m *memoryRepository) TogglePin(_ context.Context, userID, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.owned(userID, id)
	if err != nil {
		return false, err
	}
	stored.IsPinned = !stored.IsPinned
	return stored.IsPinned, nil
}

func (m *memoryRepository) RecordUsage(_ context.Context, entry *fabric.UsageEntry) (*fabric.UsageResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, err := m.owned(entry.UserID, entry.FabricID)
	if err != nil {
		return nil, err
	}
	if m.failUsage != nil {
		return nil, m.failUsage
	}

	left := fabric.ClampRemaining(stored.TotalYards, entry.YardsUsed)
	result := &fabric.UsageResult{YardsLeft: left, YardsDeducted: fabric.Deducted(stored.TotalYards, entry.YardsUsed)}

	entry.UsageDate = m.tick()
	copied := *entry
	m.usage = append(m.usage, &copied)
	stored.TotalYards = left
	return result, nil
}

func (m *memoryRepository) UsageHistory(_ context.Context, userID string) ([]*fabric.UsageEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := []*fabric.UsageEntry{}
	for _, entry := range slices.Backward(m.usage) {
		if entry.UserID != userID {
			continue
		}
		copied := *entry
		if stored, ok := m.fabrics[entry.FabricID]; ok {
			copied.FabricName = stored.Name
		}
		result = append(result, &copied)
	}
	return result, nil
}

// Copyright (c) 2026 Vivi Sews. All rights reserved.

package pattern_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivisews/vivisews/internal/inventory/pattern"
	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/pkg/pointer"
)

const (
	owner    = "0190f5a2-6f1c-7c3e-9a55-2f1d7c9b0e01"
	stranger = "0190f5a2-6f1c-7c3e-9a55-2f1d7c9b0e02"
)

type memoryRepository struct {
	mu   sync.Mutex
	rows map[string]pattern.Pattern
}

func (m *memoryRepository) owned(userID, id string) (pattern.Pattern, error) {
	row, ok := m.rows[id]
	if !ok || row.UserID != userID {
		return pattern.Pattern{}, apperr.NotFound("Pattern")
	}
	return row, nil
}

func (m *memoryRepository) List(_ context.Context, userID string) ([]*pattern.Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*pattern.Pattern{}
	for _, row := range m.rows {
		if row.UserID == userID {
			copied := row
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memoryRepository) Get(_ context.Context, userID, id string) (*pattern.Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, err := m.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (m *memoryRepository) Create(_ context.Context, item *pattern.Pattern) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[item.ID] = *item
	return nil
}

func (m *memoryRepository) Update(_ context.Context, item *pattern.Pattern) error {
	return m.Create(context.Background(), item)
}

func (m *memoryRepository) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.owned(userID, id); err != nil {
		return err
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryRepository) TogglePin(_ context.Context, userID, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, err := m.owned(userID, id)
	if err != nil {
		return false, err
	}
	row.IsPinned = !row.IsPinned
	m.rows[id] = row
	return row.IsPinned, nil
}

func newService() *pattern.Service {
	return pattern.NewService(&memoryRepository{rows: map[string]pattern.Pattern{}}, nil)
}

func status(err error) int {
	if appError := apperr.As(err); appError != nil {
		return appError.HTTPStatus
	}
	return 0
}

func TestCreate(t *testing.T) {
	created, err := newService().Create(context.Background(), owner, pattern.Input{
		Name:       pointer.To("Archer shirt"),
		Designer:   pointer.To("Grainline"),
		Category:   pointer.To(pattern.CategoryTops),
		Difficulty: pointer.To(pattern.DifficultyIntermediate),
		Notions:    pointer.To("  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Grainline", *created.Designer)
	assert.Nil(t, created.Notions)
	assert.False(t, created.IsPinned)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input pattern.Input
	}{
		{"missing_name", pattern.Input{Designer: pointer.To("Vogue")}},
		{"bad_category", pattern.Input{Name: pointer.To("Hat"), Category: pointer.To("hats")}},
		{"bad_difficulty", pattern.Input{Name: pointer.To("Hat"), Difficulty: pointer.To("easy")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService().Create(context.Background(), owner, tt.input)
			assert.Equal(t, http.StatusBadRequest, status(err))
		})
	}
}

func TestUpdateAndPin(t *testing.T) {
	service := newService()
	ctx := context.Background()
	created, err := service.Create(ctx, owner, pattern.Input{
		Name:     pointer.To("Tote"),
		Category: pointer.To(pattern.CategoryBags),
	})
	require.NoError(t, err)

	updated, err := service.Update(ctx, owner, created.ID, pattern.Input{SizeRange: pointer.To("One size")})
	require.NoError(t, err)
	assert.Equal(t, "Tote", updated.Name)
	assert.Equal(t, pattern.CategoryBags, *updated.Category)
	assert.Equal(t, "One size", *updated.SizeRange)

	pinned, err := service.TogglePin(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.True(t, pinned)

	pinned, err = service.TogglePin(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.False(t, pinned)

	_, err = service.TogglePin(ctx, stranger, created.ID)
	assert.Equal(t, http.StatusNotFound, status(err))

	_, err = service.Get(ctx, stranger, created.ID)
	assert.Equal(t, http.StatusNotFound, status(err))
}

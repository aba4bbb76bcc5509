// Copyright (c) 2026 Vivi Sews. All rights reserved.

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vivisews/vivisews/internal/platform/database/schema"
)

func TestList(t *testing.T) {
	assert.Equal(t, "id, fabric_id", schema.List([]string{schema.InventoryUsage.ID, schema.InventoryUsage.FabricID}))
	assert.Equal(t, "u.id, u.yards_used", schema.Qualified("u", []string{schema.InventoryUsage.ID, schema.InventoryUsage.YardsUsed}))
}

func TestColumnsMatchFieldCount(t *testing.T) {
	assert.Len(t, schema.InventoryFabric.Columns(), 18)
	assert.Len(t, schema.InventoryUsage.Columns(), 8)
	assert.Len(t, schema.InventoryProject.Columns(), 10)
	assert.Len(t, schema.InventoryPattern.Columns(), 18)
}

func TestUserAccountProjectionSkipsDeletedAt(t *testing.T) {
	columns := schema.UserAccount.Columns()
	assert.Len(t, columns, 14)
	assert.NotContains(t, columns, schema.UserAccount.DeletedAt)
	assert.Equal(t, "id", columns[0])
}

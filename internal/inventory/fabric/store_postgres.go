// Copyright (c) 2026 Vivi Sews. All rights reserved.

package fabric

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/database/schema"
	"github.com/vivisews/vivisews/internal/platform/dberr"
	"github.com/vivisews/vivisews/internal/platform/postgres"
)

const resource = "Fabric"

var (
	fabricTable = schema.InventoryFabric
	usageTable  = schema.InventoryUsage
)

// PostgresRepository implements [Repository] on the fabrics and usage_history tables.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the fabric Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanFabric(row pgx.Row) (*Fabric, error) {
	fabric := &Fabric{}
	err := row.Scan(
		&fabric.ID, &fabric.UserID, &fabric.Name, &fabric.Type, &fabric.FiberContent,
		&fabric.Weight, &fabric.Color, &fabric.Pattern, &fabric.Width, &fabric.TotalYards,
		&fabric.CostPerYard, &fabric.TotalCost, &fabric.Source, &fabric.Notes,
		&fabric.IsPinned, &fabric.ImageURL, &fabric.CreatedAt, &fabric.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fabric, nil
}

func (repository *PostgresRepository) List(context context.Context, userID string) ([]*Fabric, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC, %s DESC`,
		schema.List(fabricTable.Columns()), fabricTable.Table, fabricTable.UserID,
		fabricTable.IsPinned, fabricTable.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list_fabrics")
	}
	defer rows.Close()

	fabrics := []*Fabric{}
	for rows.Next() {
		fabric, err := scanFabric(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource, "scan_fabric")
		}
		fabrics = append(fabrics, fabric)
	}
	return fabrics, dberr.Wrap(rows.Err(), resource, "list_fabrics")
}

func (repository *PostgresRepository) Get(context context.Context, userID, id string) (*Fabric, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.List(fabricTable.Columns()), fabricTable.Table, fabricTable.ID, fabricTable.UserID,
	)

	fabric, err := scanFabric(repository.pool.QueryRow(context, query, id, userID))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "get_fabric")
	}
	return fabric, nil
}

func (repository *PostgresRepository) Create(context context.Context, fabric *Fabric) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING %s, %s
	`,
		fabricTable.Table,
		fabricTable.ID, fabricTable.UserID, fabricTable.Name, fabricTable.Type, fabricTable.FiberContent,
		fabricTable.Weight, fabricTable.Color, fabricTable.Pattern, fabricTable.Width, fabricTable.TotalYards,
		fabricTable.CostPerYard, fabricTable.TotalCost, fabricTable.Source, fabricTable.Notes,
		fabricTable.IsPinned, fabricTable.ImageURL, fabricTable.CreatedAt, fabricTable.UpdatedAt,
		fabricTable.CreatedAt, fabricTable.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		fabric.ID, fabric.UserID, fabric.Name, fabric.Type, fabric.FiberContent,
		fabric.Weight, fabric.Color, fabric.Pattern, fabric.Width, fabric.TotalYards,
		fabric.CostPerYard, fabric.TotalCost, fabric.Source, fabric.Notes,
		fabric.IsPinned, fabric.ImageURL,
	).Scan(&fabric.CreatedAt, &fabric.UpdatedAt)
	return dberr.Wrap(err, resource, "create_fabric")
}

func (repository *PostgresRepository) Update(context context.Context, fabric *Fabric) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10,
			%s = $11, %s = $12, %s = $13, %s = $14, %s = $15, %s = $16, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		fabricTable.Table,
		fabricTable.Name, fabricTable.Type, fabricTable.FiberContent, fabricTable.Weight,
		fabricTable.Color, fabricTable.Pattern, fabricTable.Width, fabricTable.TotalYards,
		fabricTable.CostPerYard, fabricTable.TotalCost, fabricTable.Source, fabricTable.Notes,
		fabricTable.IsPinned, fabricTable.ImageURL, fabricTable.UpdatedAt,
		fabricTable.ID, fabricTable.UserID,
		fabricTable.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		fabric.ID, fabric.UserID, fabric.Name, fabric.Type, fabric.FiberContent, fabric.Weight,
		fabric.Color, fabric.Pattern, fabric.Width, fabric.TotalYards,
		fabric.CostPerYard, fabric.TotalCost, fabric.Source, fabric.Notes,
		fabric.IsPinned, fabric.ImageURL,
	).Scan(&fabric.UpdatedAt)
	return dberr.Wrap(err, resource, "update_fabric")
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		fabricTable.Table, fabricTable.ID, fabricTable.UserID,
	)

	cmd, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, resource, "delete_fabric")
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

func (repository *PostgresRepository) TogglePin(context context.Context, userID, id string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = NOT %s, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		fabricTable.Table, fabricTable.IsPinned, fabricTable.IsPinned, fabricTable.UpdatedAt,
		fabricTable.ID, fabricTable.UserID, fabricTable.IsPinned,
	)

	var pinned bool
	err := repository.pool.QueryRow(context, query, id, userID).Scan(&pinned)
	return pinned, dberr.Wrap(err, resource, "toggle_fabric_pin")
}

/*
RecordUsage inserts a usage row and lowers the fabric's yardage in one transaction.

The fabric row is locked first so concurrent usage reports against the same
fabric serialize. Any failure rolls back both writes.
*/
func (repository *PostgresRepository) RecordUsage(context context.Context, entry *UsageEntry) (*UsageResult, error) {
	result := &UsageResult{}

	err := postgres.InTx(context, repository.pool, func(tx pgx.Tx) error {
		lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 FOR UPDATE`,
			fabricTable.TotalYards, fabricTable.Table, fabricTable.ID, fabricTable.UserID,
		)

		var totalYards float64
		if err := tx.QueryRow(context, lockQuery, entry.FabricID, entry.UserID).Scan(&totalYards); err != nil {
			return dberr.Wrap(err, resource, "lock_fabric")
		}

		if entry.ProjectID != nil {
			projectQuery := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 AND %s = $2`,
				schema.InventoryProject.Table, schema.InventoryProject.ID, schema.InventoryProject.UserID,
			)
			var exists int
			if err := tx.QueryRow(context, projectQuery, *entry.ProjectID, entry.UserID).Scan(&exists); err != nil {
				return dberr.Wrap(err, "Project", "check_usage_project")
			}
		}

		insertQuery := fmt.Sprintf(`
			INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
			RETURNING %s
		`,
			usageTable.Table,
			usageTable.ID, usageTable.FabricID, usageTable.UserID, usageTable.ProjectID,
			usageTable.YardsUsed, usageTable.ProjectName, usageTable.Notes, usageTable.UsageDate,
			usageTable.UsageDate,
		)

		err := tx.QueryRow(context, insertQuery,
			entry.ID, entry.FabricID, entry.UserID, entry.ProjectID,
			entry.YardsUsed, entry.ProjectName, entry.Notes,
		).Scan(&entry.UsageDate)
		if err != nil {
			return dberr.Wrap(err, "Usage", "insert_usage")
		}

		// NUMERIC arithmetic keeps the stored yardage exact.
		updateQuery := fmt.Sprintf(`
			UPDATE %s SET %s = GREATEST(%s - $1::numeric, 0), %s = NOW()
			WHERE %s = $2
			RETURNING %s
		`,
			fabricTable.Table, fabricTable.TotalYards, fabricTable.TotalYards, fabricTable.UpdatedAt,
			fabricTable.ID,
			fabricTable.TotalYards,
		)
		if err := tx.QueryRow(context, updateQuery, entry.YardsUsed, entry.FabricID).Scan(&result.YardsLeft); err != nil {
			return dberr.Wrap(err, resource, "update_fabric_yards")
		}
		result.YardsDeducted = Deducted(totalYards, entry.YardsUsed)
		return nil
	})
	if err != nil {
		return nil, dberr.Wrap(err, resource, "record_usage")
	}
	return result, nil
}

func (repository *PostgresRepository) UsageHistory(context context.Context, userID string) ([]*UsageEntry, error) {
	query := fmt.Sprintf(`
		SELECT %s, f.%s
		FROM %s u
		JOIN %s f ON u.%s = f.%s
		WHERE u.%s = $1
		ORDER BY u.%s DESC
	`,
		schema.Qualified("u", usageTable.Columns()), fabricTable.Name,
		usageTable.Table, fabricTable.Table, usageTable.FabricID, fabricTable.ID,
		usageTable.UserID, usageTable.UsageDate,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Usage", "list_usage")
	}
	defer rows.Close()

	entries := []*UsageEntry{}
	for rows.Next() {
		entry := &UsageEntry{}
		err := rows.Scan(
			&entry.ID, &entry.FabricID, &entry.UserID, &entry.ProjectID, &entry.YardsUsed,
			&entry.ProjectName, &entry.Notes, &entry.UsageDate, &entry.FabricName,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Usage", "scan_usage")
		}
		entries = append(entries, entry)
	}
	return entries, dberr.Wrap(rows.Err(), "Usage", "list_usage")
}

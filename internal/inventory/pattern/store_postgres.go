// Copyright (c) 2026 Vivi Sews. All rights reserved.

package pattern

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/database/schema"
	"github.com/vivisews/vivisews/internal/platform/dberr"
)

const resource = "Pattern"

var table = schema.InventoryPattern

// PostgresRepository implements [Repository] on the patterns table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanPattern(row pgx.Row) (*Pattern, error) {
	pattern := &Pattern{}
	err := row.Scan(
		&pattern.ID, &pattern.UserID, &pattern.Name, &pattern.Description, &pattern.Designer,
		&pattern.PatternNumber, &pattern.Category, &pattern.Difficulty, &pattern.SizeRange,
		&pattern.FabricRequirements, &pattern.Notions, &pattern.Instructions, &pattern.PDFURL,
		&pattern.ThumbnailURL, &pattern.IsPinned, &pattern.Notes, &pattern.CreatedAt, &pattern.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pattern, nil
}

// writable lists the columns set by Create and Update, in argument order after id and user_id.
func writable() []string {
	return []string{
		table.Name, table.Description, table.Designer, table.PatternNumber, table.Category,
		table.Difficulty, table.SizeRange, table.FabricRequirements, table.Notions,
		table.Instructions, table.PDFURL, table.ThumbnailURL, table.IsPinned, table.Notes,
	}
}

func (pattern *Pattern) writableValues() []any {
	return []any{
		pattern.Name, pattern.Description, pattern.Designer, pattern.PatternNumber, pattern.Category,
		pattern.Difficulty, pattern.SizeRange, pattern.FabricRequirements, pattern.Notions,
		pattern.Instructions, pattern.PDFURL, pattern.ThumbnailURL, pattern.IsPinned, pattern.Notes,
	}
}

func (repository *PostgresRepository) List(context context.Context, userID string) ([]*Pattern, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC, %s DESC`,
		schema.List(table.Columns()), table.Table, table.UserID, table.IsPinned, table.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list_patterns")
	}
	defer rows.Close()

	patterns := []*Pattern{}
	for rows.Next() {
		pattern, err := scanPattern(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource, "scan_pattern")
		}
		patterns = append(patterns, pattern)
	}
	return patterns, dberr.Wrap(rows.Err(), resource, "list_patterns")
}

func (repository *PostgresRepository) Get(context context.Context, userID, id string) (*Pattern, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.List(table.Columns()), table.Table, table.ID, table.UserID,
	)

	pattern, err := scanPattern(repository.pool.QueryRow(context, query, id, userID))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "get_pattern")
	}
	return pattern, nil
}

func (repository *PostgresRepository) Create(context context.Context, pattern *Pattern) error {
	columns := append([]string{table.ID, table.UserID}, writable()...)
	placeholders := ""
	for i := range columns {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES (%s, NOW(), NOW())
		RETURNING %s, %s
	`,
		table.Table, schema.List(columns), table.CreatedAt, table.UpdatedAt,
		placeholders,
		table.CreatedAt, table.UpdatedAt,
	)

	args := append([]any{pattern.ID, pattern.UserID}, pattern.writableValues()...)
	err := repository.pool.QueryRow(context, query, args...).Scan(&pattern.CreatedAt, &pattern.UpdatedAt)
	return dberr.Wrap(err, resource, "create_pattern")
}

func (repository *PostgresRepository) Update(context context.Context, pattern *Pattern) error {
	assignments := ""
	for i, column := range writable() {
		assignments += fmt.Sprintf("%s = $%d, ", column, i+3)
	}

	query := fmt.Sprintf(`
		UPDATE %s SET %s%s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		table.Table, assignments, table.UpdatedAt,
		table.ID, table.UserID,
		table.UpdatedAt,
	)

	args := append([]any{pattern.ID, pattern.UserID}, pattern.writableValues()...)
	err := repository.pool.QueryRow(context, query, args...).Scan(&pattern.UpdatedAt)
	return dberr.Wrap(err, resource, "update_pattern")
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.ID, table.UserID)

	cmd, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, resource, "delete_pattern")
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
		table.Table, table.IsPinned, table.IsPinned, table.UpdatedAt,
		table.ID, table.UserID, table.IsPinned,
	)

	var pinned bool
	err := repository.pool.QueryRow(context, query, id, userID).Scan(&pinned)
	return pinned, dberr.Wrap(err, resource, "toggle_pattern_pin")
}

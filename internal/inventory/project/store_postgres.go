// Copyright (c) 2026 Vivi Sews. All rights reserved.

package project

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/database/schema"
	"github.com/vivisews/vivisews/internal/platform/dberr"
)

const resource = "Project"

var table = schema.InventoryProject

// PostgresRepository implements [Repository] on the projects table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func scanProject(row pgx.Row) (*Project, error) {
	project := &Project{}
	err := row.Scan(
		&project.ID, &project.UserID, &project.Name, &project.Description, &project.Status,
		&project.ImageURL, &project.TargetDate, &project.Notes, &project.CreatedAt, &project.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (repository *PostgresRepository) List(context context.Context, userID string) ([]*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		schema.List(table.Columns()), table.Table, table.UserID, table.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "list_projects")
	}
	defer rows.Close()

	projects := []*Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resource, "scan_project")
		}
		projects = append(projects, project)
	}
	return projects, dberr.Wrap(rows.Err(), resource, "list_projects")
}

func (repository *PostgresRepository) Get(context context.Context, userID, id string) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		schema.List(table.Columns()), table.Table, table.ID, table.UserID,
	)

	project, err := scanProject(repository.pool.QueryRow(context, query, id, userID))
	if err != nil {
		return nil, dberr.Wrap(err, resource, "get_project")
	}
	return project, nil
}

func (repository *PostgresRepository) Create(context context.Context, project *Project) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING %s, %s
	`,
		table.Table,
		table.ID, table.UserID, table.Name, table.Description, table.Status,
		table.ImageURL, table.TargetDate, table.Notes, table.CreatedAt, table.UpdatedAt,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		project.ID, project.UserID, project.Name, project.Description, project.Status,
		project.ImageURL, project.TargetDate, project.Notes,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
	return dberr.Wrap(err, resource, "create_project")
}

func (repository *PostgresRepository) Update(context context.Context, project *Project) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		table.Table,
		table.Name, table.Description, table.Status, table.ImageURL, table.TargetDate, table.Notes, table.UpdatedAt,
		table.ID, table.UserID,
		table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		project.ID, project.UserID, project.Name, project.Description, project.Status,
		project.ImageURL, project.TargetDate, project.Notes,
	).Scan(&project.UpdatedAt)
	return dberr.Wrap(err, resource, "update_project")
}

func (repository *PostgresRepository) Delete(context context.Context, userID, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.ID, table.UserID)

	cmd, err := repository.pool.Exec(context, query, id, userID)
	if err != nil {
		return dberr.Wrap(err, resource, "delete_project")
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound(resource)
	}
	return nil
}

// Copyright (c) 2026 Vivi Sews. All rights reserved.

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/vivisews/vivisews/internal/platform/apperr"
	"github.com/vivisews/vivisews/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	uniqueErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"}

	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"unique_violation", uniqueErr, apperr.CodeConflict},
		{"foreign_key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, apperr.CodeValidation},
		{"unknown", errors.New("connection reset"), apperr.CodeInternal},
		{"already_classified", apperr.Forbidden("no"), apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dberr.Wrap(tt.err, "Fabric", "fabric_find")
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "Fabric", "noop"))
	assert.Equal(t, "Fabric not found", dberr.Wrap(pgx.ErrNoRows, "Fabric", "x").Error())
	assert.True(t, dberr.IsUniqueViolation(fmt.Errorf("insert: %w", uniqueErr)))
	assert.False(t, dberr.IsUniqueViolation(pgx.ErrNoRows))
}

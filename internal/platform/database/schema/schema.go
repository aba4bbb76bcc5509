// Copyright (c) 2026 Vivi Sews. All rights reserved.

// Package schema names the tables and columns of the account and inventory
// tables so repositories build their SQL from one definition.
package schema

import "strings"

// List joins column names for a SELECT or RETURNING clause.
func List(columns []string) string {
	return strings.Join(columns, ", ")
}

// Qualified prefixes every column with alias, as in "f.name".
func Qualified(alias string, columns []string) string {
	qualified := make([]string, len(columns))
	for i, column := range columns {
		qualified[i] = alias + "." + column
	}
	return strings.Join(qualified, ", ")
}

// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package uuid generates and checks the identifiers used as primary keys.

Every row (accounts, fabrics, usage entries, projects, patterns) and every
stored upload is named by a UUIDv7, which sorts by creation time and keeps
PostgreSQL B-tree inserts append-only.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only if the OS random source is unavailable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s is a canonical, hyphenated UUID of any version.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

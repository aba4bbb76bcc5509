// Copyright (c) 2026 Vivi Sews. All rights reserved.

/*
Package pointer helps with the optional fields of partial-update payloads,
where a nil pointer means "leave unchanged".
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Fallback dereferences p, returning fallback when p is nil.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}

package serde

import "slices"

// View restricts which struct fields take part in mapping.
type View string

// NoView maps every field.
const NoView View = ""

// Includes reports whether a field listing views is mapped under v.
// A field listing no views is always mapped.
func (v View) Includes(views []string) bool {
	if v == NoView || len(views) == 0 {
		return true
	}
	return slices.Contains(views, string(v))
}

// Package models defines the data types shared by the typekeeper packages.
package models

import (
	"cmp"
	"slices"
)

// Record is a stored credential. Its identity on disk is derived from
// Username; submitting the same Username again replaces the stored Password.
type Record struct {
	Username string
	Password string
}

// SortByUsername sorts records in place by Username.
func SortByUsername(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Username, b.Username)
	})
}

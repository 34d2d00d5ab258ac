// Package store wraps the mongo collections behind small per-resource
// types so handlers stay testable against in-memory fakes.
package store

import "errors"

var (
	ErrNotFound = errors.New("document not found")

	// ErrAlreadyLiked is returned when the conditional like update
	// matches zero documents. A missing blog produces the same result,
	// the two cases are not distinguished.
	ErrAlreadyLiked = errors.New("already liked")
)

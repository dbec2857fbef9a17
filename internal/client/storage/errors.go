// Package storage defines the client-side persistence contracts: the
// active session, the per-workspace pull checkpoint, the local time entry
// cache and the pending push queue.
package storage

import "errors"

// Common client storage errors
var (
	// ErrSessionNotFound indicates that no session is stored
	ErrSessionNotFound = errors.New("session not found")

	// ErrEntryNotFound indicates that a time entry was not found
	ErrEntryNotFound = errors.New("time entry not found")
)

package models

import "errors"

var (
	// ErrStoreUnavailable is returned when the structured store cannot be opened
	// or a transaction against it fails.
	ErrStoreUnavailable = errors.New("structured store unavailable")

	// ErrMirrorWriteFailed marks a failed best-effort write to the legacy mirror.
	// Mutations only log and count it; SyncMirror returns it.
	ErrMirrorWriteFailed = errors.New("legacy mirror write failed")

	// ErrMigrationFailed is returned when the one-time legacy transfer aborts.
	// The guard flag stays unset so the next initialization retries.
	ErrMigrationFailed = errors.New("legacy migration failed")
)

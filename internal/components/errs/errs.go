// Package errs holds the sentinel errors shared by hunters, processors and
// the storage layer. Callers match them with errors.Is.
package errs

import "errors"

var (
	// ErrNotFound is returned when a hunter or processor key is unknown.
	ErrNotFound = errors.New("not found")
	// ErrConfig is returned for a malformed processor specification.
	ErrConfig = errors.New("invalid configuration")
	// ErrNetwork is returned when fetching a live source fails.
	ErrNetwork = errors.New("network error")
	// ErrStorageOpen is returned when a storage file cannot be opened or validated.
	ErrStorageOpen = errors.New("storage open error")
	// ErrCannotOpen narrows ErrStorageOpen to "the file does not exist or
	// is not reachable", it is always returned together with ErrStorageOpen.
	ErrCannotOpen = errors.New("cannot open storage")
	// ErrStorageWrite is returned for failures during schema setup or upserts.
	ErrStorageWrite = errors.New("storage write error")
)

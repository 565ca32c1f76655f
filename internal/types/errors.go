package types

import "errors"

// Error kinds shared by the clipboard, storage and daemon packages.
// Callers match them with errors.Is.
var (
	// ErrRead means the clipboard could not be read this tick
	ErrRead = errors.New("clipboard read failed")

	// ErrDecode means an image payload could not be decoded
	ErrDecode = errors.New("image decode failed")

	// ErrPersistenceUnavailable means the history could not be loaded or saved
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrWrite means a payload could not be restored to the clipboard
	ErrWrite = errors.New("clipboard write failed")
)

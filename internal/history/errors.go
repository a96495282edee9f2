package history

import "errors"

var (
	// ErrClosed is returned by stores used after Close.
	ErrClosed = errors.New("history: store closed")

	// ErrUnknownBackend indicates an unrecognized store backend name.
	ErrUnknownBackend = errors.New("history: unknown store backend")

	// ErrMalformedSample marks a persisted entry that cannot be decoded.
	// Loaders skip such entries instead of surfacing the error.
	ErrMalformedSample = errors.New("history: malformed sample")
)

package core

import "errors"

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// ErrSessionNotFound is returned by a SessionStore for unknown session ids.
var ErrSessionNotFound = errors.New("session not found")

// ErrLabNotFound is returned by a LabStore for unknown or missing lab sessions.
var ErrLabNotFound = errors.New("lab session not found")

package core

import "github.com/google/uuid"

// Frame is a raw encoded signaling message.
type Frame []byte

// ConnID names one live transport connection.
type ConnID string

func NewConnID() ConnID { return ConnID(uuid.NewString()) }

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
// Two handles are the same connection when their IDs are equal.
type SignalConnection interface {
	ID() ConnID
	TrySend(Frame) error
	Close()
}

package app

import (
	"errors"

	"github.com/dkeye/labwatch/internal/core"
)

type SendFailureAction int

const (
	DropMessage SendFailureAction = iota
	CloseConnection
)

// Policy decides what happens to a connection whose send queue rejected a frame.
// Signaling frames are never retried.
type Policy interface {
	OnSendFailure(conn core.SignalConnection, err error) SendFailureAction
}

// SimplePolicy closes connections that stopped draining their queue; the
// transport's disconnect path then cleans the registry.
type SimplePolicy struct{}

func (SimplePolicy) OnSendFailure(_ core.SignalConnection, err error) SendFailureAction {
	if errors.Is(err, core.ErrBackpressure) {
		return CloseConnection
	}
	return DropMessage
}

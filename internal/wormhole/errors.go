package wormhole

import (
	"errors"
	"fmt"

	"github.com/dyastin0/wormhole-client/internal/wire"
)

// Sentinel errors identifying the run's terminal condition. For ErrDial and
// ErrProtocol, Run wraps the underlying cause with fmt.Errorf("%w: ...") so
// errors.Is still matches after unwrapping. ErrTransportClosed and
// ErrShutdown are never returned: Run logs their text and returns nil.
var (
	// ErrDial covers TLS dial and transport setup failures, plus failures
	// opening, writing to, or reading the response header from the control
	// stream during registration.
	ErrDial = errors.New("wormhole: dial failed")

	// ErrProtocol covers a malformed or unexpected message from the server
	// on the control stream, a failure reading the response body, and a
	// local Request or Header that fails to serialize.
	ErrProtocol = errors.New("wormhole: protocol error")

	// ErrTransportClosed marks the transport ending without a local
	// shutdown request, including the close that follows an End message.
	ErrTransportClosed = errors.New("wormhole: transport closed")

	// ErrShutdown marks a run ended by local cancellation (ctx.Done).
	ErrShutdown = errors.New("wormhole: shutdown signalled")
)

// ServerError wraps a TypeError frame's message from the rendezvous server.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("wormhole: server error: %s", e.Message)
}

// RegistrationRejected reports a well-formed but unsuccessful registration
// (name taken, or the proto isn't supported for this name). It is not
// returned as a Run error: the caller logs it and Run resolves normally.
type RegistrationRejected struct {
	Status wire.Status
	Name   string
}

func (e *RegistrationRejected) Error() string {
	switch e.Status {
	case wire.StatusNameTaken:
		return fmt.Sprintf("'%s' is already in use", e.Name)
	case wire.StatusUnsupportedProto:
		return fmt.Sprintf("wormhole: proto not supported for %q", e.Name)
	default:
		return fmt.Sprintf("wormhole: registration rejected for %q (status %d)", e.Name, e.Status)
	}
}

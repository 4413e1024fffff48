package connect

import (
	"github.com/google/uuid"

	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/registry"
)

// Phase is the handshake progress of a connection attempt.
type Phase int

const (
	PhaseDisconnected Phase = iota
	PhaseInitializing
	PhaseAwaitingSocket
	PhaseConnecting
	PhaseConnected
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseDisconnected:
		return "Disconnected"
	case PhaseInitializing:
		return "Initializing"
	case PhaseAwaitingSocket:
		return "AwaitingSocket"
	case PhaseConnecting:
		return "Connecting"
	case PhaseConnected:
		return "Connected"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// InFlight reports whether the handshake is still running.
func (p Phase) InFlight() bool {
	return p == PhaseInitializing || p == PhaseAwaitingSocket || p == PhaseConnecting
}

// AttemptID tags every provider callback with the attempt it belongs to.
type AttemptID = uuid.UUID

// Failure is the error kept on a failed attempt for display.
type Failure struct {
	Code    ble.ErrorCode
	Message string
}

// Attempt is one handshake with one peripheral.
type Attempt struct {
	ID       AttemptID
	Target   registry.Record
	SocketID string // set once the provider reports connection info
	Info     ble.ConnectionInfo
	Phase    Phase
	Err      *Failure
}

// Package status projects scan and connection state into the small status
// value the presentation layer renders, and pushes every change to
// watchers.
package status

import (
	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/connect"
	"github.com/chaz8081/glasslink/internal/scan"
)

// Status is the coarse state shown to the user.
type Status int

const (
	StatusDisconnected Status = iota
	StatusScanning
	StatusInitializing
	StatusConnecting
	StatusConnected
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusScanning:
		return "Scanning"
	case StatusInitializing:
		return "Initializing"
	case StatusConnecting:
		return "Connecting"
	case StatusConnected:
		return "Connected"
	case StatusFailed:
		return "Failed"
	default:
		return "Disconnected"
	}
}

// Snapshot is one observation of the session. It is comparable so
// publishers can skip duplicates.
type Snapshot struct {
	Status      Status
	Phase       connect.Phase
	Scanning    bool
	ScanBlocked bool
	Devices     int
	Target      string // name of the device being connected
	TargetID    string
	Pending     string // optimistic message; never drives Phase
	Err         string // connection failure code name
	ScanErr     string // scan failure code name
	Notice      string // last rejected user intent
}

// Text is the line shown to the user.
func (s Snapshot) Text() string {
	switch s.Status {
	case StatusFailed:
		return "Failed: " + s.Err
	case StatusInitializing:
		if s.Pending != "" {
			return s.Pending
		}
	}
	return s.Status.String()
}

// ScanView is the read side of the scan controller.
type ScanView interface {
	State() scan.State
	Blocked() bool
	LastError() (ble.ScanErrorCode, bool)
}

// ConnView is the read side of the connection machine.
type ConnView interface {
	Attempt() (connect.Attempt, bool)
	Pending() string
}

// Derive computes the Snapshot for the given component state.
func Derive(sc ScanView, conn ConnView, devices int, notice string) Snapshot {
	snap := Snapshot{
		Phase:       connect.PhaseDisconnected,
		Scanning:    sc.State() == scan.Active,
		ScanBlocked: sc.Blocked(),
		Devices:     devices,
		Pending:     conn.Pending(),
		Notice:      notice,
	}
	if code, failed := sc.LastError(); failed {
		snap.ScanErr = code.String()
	}

	a, ok := conn.Attempt()
	if ok {
		snap.Phase = a.Phase
		snap.Target = a.Target.Name
		snap.TargetID = a.Target.ID
		if a.Err != nil {
			snap.Err = a.Err.Message
		}
	}

	switch snap.Phase {
	case connect.PhaseInitializing:
		snap.Status = StatusInitializing
	case connect.PhaseAwaitingSocket, connect.PhaseConnecting:
		snap.Status = StatusConnecting
	case connect.PhaseConnected:
		snap.Status = StatusConnected
	case connect.PhaseFailed:
		snap.Status = StatusFailed
	default:
		if snap.Scanning {
			snap.Status = StatusScanning
		}
	}
	return snap
}

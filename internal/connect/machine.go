// Package connect implements the glasses connection handshake:
// Initializing -> AwaitingSocket -> Connecting -> Connected, with Failed and
// Disconnected exits. The machine only advances on provider callbacks and
// ignores callbacks that do not belong to the current attempt.
package connect

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/registry"
)

var (
	// ErrAlreadyConnected is returned by Select while an attempt is Connected.
	ErrAlreadyConnected = errors.New("connect: already connected")
	// ErrInvalidReset is returned by Reset unless the machine is Failed or Disconnected.
	ErrInvalidReset = errors.New("connect: reset only allowed from Failed or Disconnected")
)

// ScanGate is the part of the scan controller the machine drives.
type ScanGate interface {
	StopForConnection()
	Release()
}

// Config wires a Machine to its collaborators.
type Config struct {
	Connector ble.Connector
	Scan      ScanGate
	// SinkFor returns the sink handed to the provider for an attempt. Nil
	// delivers callbacks straight to the Machine, which is only safe when the
	// provider calls back on the caller's goroutine.
	SinkFor func(id AttemptID) ble.StatusSink
	// OnChange is called after every phase transition.
	OnChange func()
	// NewID generates attempt identifiers. Defaults to uuid.New.
	NewID func() AttemptID
}

// Machine holds at most one Attempt. It is not safe for concurrent use;
// callers serialize access (see package session).
type Machine struct {
	cfg     Config
	attempt *Attempt
	// pending is the optimistic status text shown right after Select; it
	// never feeds back into the phase.
	pending string
}

// NewMachine creates a Machine in PhaseDisconnected.
func NewMachine(cfg Config) *Machine {
	if cfg.NewID == nil {
		cfg.NewID = uuid.New
	}
	return &Machine{cfg: cfg}
}

// Phase returns the current phase; Disconnected when there is no attempt.
func (m *Machine) Phase() Phase {
	if m.attempt == nil {
		return PhaseDisconnected
	}
	return m.attempt.Phase
}

// Attempt returns a copy of the current attempt.
func (m *Machine) Attempt() (Attempt, bool) {
	if m.attempt == nil {
		return Attempt{}, false
	}
	a := *m.attempt
	if a.Err != nil {
		failure := *a.Err
		a.Err = &failure
	}
	return a, true
}

// Pending returns the optimistic status message, if any.
func (m *Machine) Pending() string { return m.pending }

// Select starts a fresh attempt against dev, abandoning any attempt that
// has not reached Connected.
func (m *Machine) Select(dev registry.Record) error {
	if prev := m.attempt; prev != nil {
		if prev.Phase == PhaseConnected {
			return ErrAlreadyConnected
		}
		slog.Info("[CONN] abandoning attempt", "attempt", prev.ID, "phase", prev.Phase, "mac", prev.Target.ID)
		if prev.Phase.InFlight() {
			m.cfg.Connector.Abort()
		}
	}

	m.cfg.Scan.StopForConnection()

	a := &Attempt{ID: m.cfg.NewID(), Target: dev, Phase: PhaseInitializing}
	m.attempt = a
	m.pending = fmt.Sprintf("Initializing connection with %s...", dev.Name)
	slog.Info("[CONN] initializing", "attempt", a.ID, "name", dev.Name, "mac", dev.ID)
	m.changed()

	m.cfg.Connector.InitConnection(ble.Device{Name: dev.Name, MAC: dev.ID, RSSI: dev.RSSI}, m.sinkFor(a.ID))
	return nil
}

// HandleConnectionInfo binds the negotiated socket and asks the provider to
// connect. Info missing the socket or address is dropped without a
// transition.
func (m *Machine) HandleConnectionInfo(id AttemptID, info ble.ConnectionInfo) {
	a := m.current(id, "connection info")
	if a == nil {
		return
	}
	if a.Phase != PhaseInitializing {
		slog.Warn("[CONN] out-of-order connection info", "attempt", id, "phase", a.Phase)
		return
	}
	if info.SocketID == "" || info.MAC == "" {
		slog.Warn("[CONN] incomplete connection info dropped", "attempt", id,
			"has_socket", info.SocketID != "", "has_mac", info.MAC != "")
		return
	}

	a.SocketID = info.SocketID
	a.Info = info
	m.pending = ""
	m.transition(a, PhaseAwaitingSocket)

	m.cfg.Connector.Connect(info.SocketID, info.MAC, m.sinkFor(a.ID))
	m.transition(a, PhaseConnecting)
}

// HandleConnected marks the attempt Connected. From here the provider owns
// the heartbeat.
func (m *Machine) HandleConnected(id AttemptID) {
	a := m.current(id, "connected")
	if a == nil {
		return
	}
	if a.Phase != PhaseConnecting {
		slog.Warn("[CONN] out-of-order connected", "attempt", id, "phase", a.Phase)
		return
	}
	m.transition(a, PhaseConnected)
}

// HandleDisconnected clears the attempt and lets scanning resume.
func (m *Machine) HandleDisconnected(id AttemptID) {
	a := m.current(id, "disconnected")
	if a == nil {
		return
	}
	if a.Phase == PhaseFailed {
		slog.Debug("[CONN] disconnect after failure ignored", "attempt", id)
		return
	}
	slog.Info("[CONN] disconnected", "attempt", id, "from", a.Phase)
	m.clear()
}

// HandleFailed moves the attempt to Failed and keeps the code for display.
func (m *Machine) HandleFailed(id AttemptID, code ble.ErrorCode) {
	a := m.current(id, "failed")
	if a == nil {
		return
	}
	if a.Phase == PhaseFailed {
		return
	}
	m.fail(a, code)
}

// HandleTimeout fails an attempt whose handshake is still in flight.
func (m *Machine) HandleTimeout(id AttemptID) {
	a := m.current(id, "timeout")
	if a == nil || !a.Phase.InFlight() {
		return
	}
	m.fail(a, ble.ErrorHandshakeTimeout)
	m.cfg.Connector.Abort()
}

// Reset clears a Failed attempt, or confirms Disconnected, and re-enables
// scanning.
func (m *Machine) Reset() error {
	if m.attempt != nil && m.attempt.Phase != PhaseFailed {
		return ErrInvalidReset
	}
	m.clear()
	return nil
}

func (m *Machine) fail(a *Attempt, code ble.ErrorCode) {
	a.Err = &Failure{Code: code, Message: code.String()}
	m.pending = ""
	slog.Error("[CONN] connection failed", "attempt", a.ID, "phase", a.Phase, "code", code)
	m.transition(a, PhaseFailed)
}

func (m *Machine) clear() {
	had := m.attempt != nil || m.pending != ""
	m.attempt = nil
	m.pending = ""
	m.cfg.Scan.Release()
	if had {
		m.changed()
	}
}

func (m *Machine) transition(a *Attempt, to Phase) {
	slog.Debug("[CONN] transition", "attempt", a.ID, "from", a.Phase, "to", to)
	a.Phase = to
	m.changed()
}

// current returns the live attempt if id refers to it.
func (m *Machine) current(id AttemptID, what string) *Attempt {
	if m.attempt == nil || m.attempt.ID != id {
		slog.Debug("[CONN] stale callback ignored", "callback", what, "attempt", id)
		return nil
	}
	return m.attempt
}

func (m *Machine) sinkFor(id AttemptID) ble.StatusSink {
	if m.cfg.SinkFor != nil {
		return m.cfg.SinkFor(id)
	}
	return directSink{m: m, id: id}
}

func (m *Machine) changed() {
	if m.cfg.OnChange != nil {
		m.cfg.OnChange()
	}
}

// directSink calls back into the Machine on the provider's goroutine.
type directSink struct {
	m  *Machine
	id AttemptID
}

func (s directSink) OnConnectionInfo(info ble.ConnectionInfo) { s.m.HandleConnectionInfo(s.id, info) }
func (s directSink) OnConnected()                             { s.m.HandleConnected(s.id) }
func (s directSink) OnDisconnected()                          { s.m.HandleDisconnected(s.id) }
func (s directSink) OnFailed(code ble.ErrorCode)              { s.m.HandleFailed(s.id, code) }

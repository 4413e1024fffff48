// Package scan owns the scan lifecycle: it starts and stops the provider's
// LE scan with the fixed glasses service filter and feeds discoveries into
// the device registry.
package scan

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/registry"
)

var (
	// ErrBlocked is returned by Toggle while a connection attempt owns the radio.
	ErrBlocked = errors.New("scan: blocked by connection attempt")
	// ErrAdapterOff is returned by Toggle when the local radio is powered off.
	ErrAdapterOff = errors.New("scan: bluetooth adapter is off")
)

// State is the scan session state.
type State int

const (
	Idle State = iota
	Active
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// Config wires a Controller to its collaborators.
type Config struct {
	Scanner  ble.Scanner
	Registry *registry.Registry
	// Power gates Toggle on the radio being switched on. Nil means always on.
	Power ble.PowerState
	// SinkFor returns the sink handed to the provider for a scan session.
	// Nil delivers callbacks straight to the Controller, which is only safe
	// when the provider calls back on the caller's goroutine.
	SinkFor func(session uint64) ble.ScanSink
	// OnChange is called after every state change.
	OnChange func()
}

// Controller mediates between the provider and the registry. It is not safe
// for concurrent use; callers serialize access (see package session).
type Controller struct {
	cfg Config

	state   State
	blocked bool
	session uint64
	lastErr ble.ScanErrorCode
}

// NewController creates an idle Controller.
func NewController(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// State returns the current scan state.
func (c *Controller) State() State { return c.state }

// Blocked reports whether a connection attempt has suspended scanning.
func (c *Controller) Blocked() bool { return c.blocked }

// LastError returns the failure that ended the most recent session, if any.
func (c *Controller) LastError() (ble.ScanErrorCode, bool) {
	return c.lastErr, c.lastErr != 0
}

// Toggle starts a scan when idle and stops it when active.
func (c *Controller) Toggle() error {
	if c.state == Active {
		c.stop()
		slog.Info("[SCAN] stopped", "session", c.session)
		return nil
	}
	if c.blocked {
		return ErrBlocked
	}
	if c.cfg.Power != nil {
		on, err := c.cfg.Power.Powered()
		if err != nil {
			return fmt.Errorf("scan: read adapter power: %w", err)
		}
		if !on {
			return ErrAdapterOff
		}
	}

	c.cfg.Registry.Reset()
	c.session++
	c.lastErr = 0
	c.state = Active
	c.changed()

	filter := ble.ScanFilter{ServiceUUID: ble.ServiceUUID}
	slog.Info("[SCAN] started", "session", c.session, "service", filter.ServiceUUID)
	c.cfg.Scanner.StartScan(filter, ble.ScanModeLowLatency, c.sinkFor(c.session))
	return nil
}

// HandleDeviceDiscovered offers dev to the registry if it belongs to the
// active session. Late results from a stopped session are dropped.
func (c *Controller) HandleDeviceDiscovered(session uint64, dev ble.Device) bool {
	if c.state != Active || session != c.session {
		slog.Debug("[SCAN] dropping late discovery", "mac", dev.MAC, "session", session)
		return false
	}
	inserted := c.cfg.Registry.Offer(registry.Record{ID: dev.MAC, Name: dev.Name, RSSI: dev.RSSI})
	if inserted {
		slog.Debug("[SCAN] discovered device", "name", dev.Name, "mac", dev.MAC, "rssi", dev.RSSI)
		c.changed()
	}
	return inserted
}

// HandleScanFailed ends the active session. There is no automatic retry.
func (c *Controller) HandleScanFailed(session uint64, code ble.ScanErrorCode) {
	if c.state != Active || session != c.session {
		slog.Debug("[SCAN] ignoring failure from stale session", "session", session, "code", code)
		return
	}
	slog.Error("[SCAN] scan failed", "session", session, "code", code)
	c.state = Idle
	c.lastErr = code
	c.changed()
}

// StopForConnection stops any active scan and blocks Toggle until Release.
// The registry keeps its records so the list stays visible.
func (c *Controller) StopForConnection() {
	wasBlocked := c.blocked
	c.blocked = true
	if c.state == Active {
		c.stop()
		slog.Info("[SCAN] suspended for connection", "session", c.session)
		return
	}
	if !wasBlocked {
		c.changed()
	}
}

// Release lifts the block set by StopForConnection.
func (c *Controller) Release() {
	if !c.blocked {
		return
	}
	c.blocked = false
	c.changed()
}

// Shutdown stops an active scan without touching the block.
func (c *Controller) Shutdown() {
	if c.state == Active {
		c.stop()
	}
}

func (c *Controller) stop() {
	c.cfg.Scanner.StopScan()
	c.state = Idle
	c.changed()
}

func (c *Controller) sinkFor(session uint64) ble.ScanSink {
	if c.cfg.SinkFor != nil {
		return c.cfg.SinkFor(session)
	}
	return directSink{c: c, session: session}
}

func (c *Controller) changed() {
	if c.cfg.OnChange != nil {
		c.cfg.OnChange()
	}
}

// directSink calls back into the Controller on the provider's goroutine.
type directSink struct {
	c       *Controller
	session uint64
}

func (s directSink) OnDeviceDiscovered(dev ble.Device) { s.c.HandleDeviceDiscovered(s.session, dev) }

func (s directSink) OnScanFailed(code ble.ScanErrorCode) { s.c.HandleScanFailed(s.session, code) }

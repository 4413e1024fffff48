// Package session is the single owned state object for one application
// run. It wires the device registry, scan controller, connection machine and
// status reporter together and serializes every mutation through one event
// loop. User intents and provider callbacks are fire-and-forget.
package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/connect"
	"github.com/chaz8081/glasslink/internal/registry"
	"github.com/chaz8081/glasslink/internal/scan"
	"github.com/chaz8081/glasslink/internal/status"
)

// ErrUnknownDevice is reported when a selected ID is not in the registry.
var ErrUnknownDevice = errors.New("session: device not in registry")

// Options configures a Session.
type Options struct {
	// Power gates scan start on the radio being on. Nil means always on.
	Power ble.PowerState
	// HandshakeTimeout fails an attempt still in flight after this long.
	// Zero disables the timeout.
	HandshakeTimeout time.Duration
}

// Session owns the core state. Create one per application run.
type Session struct {
	reg      *registry.Registry
	scan     *scan.Controller
	machine  *connect.Machine
	reporter *status.Reporter
	box      *mailbox
	opts     Options

	// Owned by the loop goroutine.
	notice string
	timer  *time.Timer
}

// New creates a Session driving the given provider. Call Run to start
// processing.
func New(scanner ble.Scanner, connector ble.Connector, opts Options) *Session {
	s := &Session{
		reg:      registry.New(),
		reporter: status.NewReporter(),
		box:      newMailbox(),
		opts:     opts,
	}
	s.scan = scan.NewController(scan.Config{
		Scanner:  scanner,
		Registry: s.reg,
		Power:    opts.Power,
		SinkFor: func(session uint64) ble.ScanSink {
			return scanSink{box: s.box, session: session}
		},
		OnChange: s.publish,
	})
	s.machine = connect.NewMachine(connect.Config{
		Connector: connector,
		Scan:      s.scan,
		SinkFor: func(id connect.AttemptID) ble.StatusSink {
			return statusSink{box: s.box, attempt: id}
		},
		OnChange: s.publish,
	})
	return s
}

// Run processes events until ctx is done, then stops any active scan.
func (s *Session) Run(ctx context.Context) error {
	slog.Info("[SESSION] running")
	defer s.shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.box.signal:
			for _, ev := range s.box.drain() {
				s.handle(ev)
			}
		}
	}
}

// ToggleScan starts or stops scanning.
func (s *Session) ToggleScan() { s.box.post(toggleEvent{}) }

// SelectDevice starts a connection attempt to the registry entry with id.
func (s *Session) SelectDevice(id string) { s.box.post(selectEvent{id: id}) }

// Reset clears a failed attempt and re-enables scanning.
func (s *Session) Reset() { s.box.post(resetEvent{}) }

// Devices returns the discovered peripherals in discovery order.
func (s *Session) Devices() iter.Seq[registry.Record] { return s.reg.List() }

// Status returns the observable status.
func (s *Session) Status() status.View { return s.reporter }

// Sync waits until every event posted before the call has been processed.
func (s *Session) Sync(ctx context.Context) error {
	done := make(chan struct{})
	s.box.post(barrierEvent{done: done})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Session) handle(ev event) {
	switch ev := ev.(type) {
	case toggleEvent:
		s.notice = ""
		if err := s.scan.Toggle(); err != nil {
			s.reject("toggle scan", err)
		}
		s.publish()

	case selectEvent:
		s.notice = ""
		rec, ok := s.reg.Lookup(ev.id)
		if !ok {
			s.reject("select device", fmt.Errorf("%w: %s", ErrUnknownDevice, ev.id))
			s.publish()
			return
		}
		if err := s.machine.Select(rec); err != nil {
			s.reject("select device", err)
			s.publish()
			return
		}
		s.armTimeout()

	case resetEvent:
		s.notice = ""
		if err := s.machine.Reset(); err != nil {
			s.reject("reset", err)
		}
		s.disarmTimeout()
		s.publish()

	case discoveredEvent:
		s.scan.HandleDeviceDiscovered(ev.session, ev.dev)
	case scanFailedEvent:
		s.scan.HandleScanFailed(ev.session, ev.code)

	case connectionInfoEvent:
		s.machine.HandleConnectionInfo(ev.attempt, ev.info)
	case connectedEvent:
		s.machine.HandleConnected(ev.attempt)
	case disconnectedEvent:
		s.machine.HandleDisconnected(ev.attempt)
	case failedEvent:
		s.machine.HandleFailed(ev.attempt, ev.code)
	case timeoutEvent:
		s.machine.HandleTimeout(ev.attempt)

	case barrierEvent:
		close(ev.done)

	default:
		slog.Error("[SESSION] unknown event", "type", fmt.Sprintf("%T", ev))
	}
}

func (s *Session) reject(intent string, err error) {
	slog.Warn("[SESSION] intent rejected", "intent", intent, "error", err)
	s.notice = err.Error()
}

// armTimeout schedules a timeout for the attempt Select just created.
func (s *Session) armTimeout() {
	s.disarmTimeout()
	if s.opts.HandshakeTimeout <= 0 {
		return
	}
	a, ok := s.machine.Attempt()
	if !ok {
		return
	}
	id := a.ID
	s.timer = time.AfterFunc(s.opts.HandshakeTimeout, func() {
		s.box.post(timeoutEvent{attempt: id})
	})
}

func (s *Session) disarmTimeout() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// publish recomputes the snapshot; the reporter drops duplicates.
func (s *Session) publish() {
	s.reporter.Publish(status.Derive(s.scan, s.machine, s.reg.Len(), s.notice))
}

func (s *Session) shutdown() {
	s.disarmTimeout()
	s.scan.Shutdown()
	slog.Info("[SESSION] stopped")
}

package session

import (
	"sync"

	"github.com/chaz8081/glasslink/internal/ble"
	"github.com/chaz8081/glasslink/internal/connect"
)

// event is a message for the session loop. User intents and provider
// callbacks alike become events so every mutation runs on one goroutine.
type event any

type (
	toggleEvent struct{}
	selectEvent struct{ id string }
	resetEvent  struct{}

	discoveredEvent struct {
		session uint64
		dev     ble.Device
	}
	scanFailedEvent struct {
		session uint64
		code    ble.ScanErrorCode
	}

	connectionInfoEvent struct {
		attempt connect.AttemptID
		info    ble.ConnectionInfo
	}
	connectedEvent    struct{ attempt connect.AttemptID }
	disconnectedEvent struct{ attempt connect.AttemptID }
	failedEvent       struct {
		attempt connect.AttemptID
		code    ble.ErrorCode
	}
	timeoutEvent struct{ attempt connect.AttemptID }

	barrierEvent struct{ done chan struct{} }
)

// mailbox is an unbounded FIFO. post never blocks, so providers that call
// back synchronously from inside StartScan or InitConnection cannot
// deadlock the loop.
type mailbox struct {
	mu     sync.Mutex
	queue  []event
	signal chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{signal: make(chan struct{}, 1)}
}

func (m *mailbox) post(ev event) {
	m.mu.Lock()
	m.queue = append(m.queue, ev)
	m.mu.Unlock()

	select {
	case m.signal <- struct{}{}:
	default:
	}
}

// drain removes and returns everything queued so far.
func (m *mailbox) drain() []event {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.queue
	m.queue = nil
	return q
}

// scanSink tags discovery callbacks with their scan session.
type scanSink struct {
	box     *mailbox
	session uint64
}

func (s scanSink) OnDeviceDiscovered(dev ble.Device) {
	s.box.post(discoveredEvent{session: s.session, dev: dev})
}

func (s scanSink) OnScanFailed(code ble.ScanErrorCode) {
	s.box.post(scanFailedEvent{session: s.session, code: code})
}

// statusSink tags handshake callbacks with their attempt.
type statusSink struct {
	box     *mailbox
	attempt connect.AttemptID
}

func (s statusSink) OnConnectionInfo(info ble.ConnectionInfo) {
	s.box.post(connectionInfoEvent{attempt: s.attempt, info: info})
}

func (s statusSink) OnConnected() { s.box.post(connectedEvent{attempt: s.attempt}) }

func (s statusSink) OnDisconnected() { s.box.post(disconnectedEvent{attempt: s.attempt}) }

func (s statusSink) OnFailed(code ble.ErrorCode) {
	s.box.post(failedEvent{attempt: s.attempt, code: code})
}

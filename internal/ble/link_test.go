package ble

import (
	"sync"
	"testing"
	"time"

	"github.com/chaz8081/glasslink/internal/ble/protocol"
)

// recordingSink records StatusSink callbacks.
type recordingSink struct {
	mu           sync.Mutex
	infos        []ConnectionInfo
	connected    int
	disconnected int
	failed       []ErrorCode
}

func (s *recordingSink) OnConnectionInfo(info ConnectionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, info)
}

func (s *recordingSink) OnConnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected++
}

func (s *recordingSink) OnDisconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnected++
}

func (s *recordingSink) OnFailed(code ErrorCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, code)
}

func (s *recordingSink) connectionInfos() []ConnectionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ConnectionInfo(nil), s.infos...)
}

func (s *recordingSink) connectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *recordingSink) disconnectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disconnected
}

func (s *recordingSink) failures() []ErrorCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ErrorCode(nil), s.failed...)
}

func newTestLink(sink StatusSink) (*glassesLink, *mockConnection) {
	conn := newMockConnection()
	return &glassesLink{
		mac:     "AA:BB",
		conn:    conn,
		control: conn.control,
		// Long interval so no keepalive is written during a test.
		opts:    HeartbeatOptions{Interval: time.Hour, Timeout: 2 * time.Hour},
		sink:    sink,
		release: func(*glassesLink) {},
	}, conn
}

func TestLinkForwardsConnectionInfo(t *testing.T) {
	sink := &recordingSink{}
	link, _ := newTestLink(sink)

	link.handleNotification(protocol.MarshalResponsePacket(protocol.ResponsePacket{
		Type:        protocol.ResponseTypeConnectionInfo,
		SocketID:    "sock1",
		MAC:         "AA:BB",
		GlassesType: 1,
	}))

	if len(sink.infos) != 1 {
		t.Fatalf("got %d connection infos, want 1", len(sink.infos))
	}
	want := ConnectionInfo{SocketID: "sock1", MAC: "AA:BB", GlassesType: 1}
	if sink.infos[0] != want {
		t.Errorf("info = %+v, want %+v", sink.infos[0], want)
	}
}

func TestLinkConnectAckStartsHeartbeat(t *testing.T) {
	sink := &recordingSink{}
	link, _ := newTestLink(sink)

	link.handleNotification(protocol.MarshalResponsePacket(protocol.ResponsePacket{
		Type: protocol.ResponseTypeConnectAck,
	}))
	defer link.hb.Stop()

	if sink.connected != 1 {
		t.Errorf("OnConnected called %d times, want 1", sink.connected)
	}
	if link.hb == nil {
		t.Error("heartbeat should be running after CONNECT_ACK")
	}
}

func TestLinkLostReportsOnce(t *testing.T) {
	sink := &recordingSink{}
	link, conn := newTestLink(sink)

	link.lost()
	link.lost()

	if conn.disconnects != 1 {
		t.Errorf("Disconnect called %d times, want 1", conn.disconnects)
	}

	if sink.disconnected != 1 {
		t.Errorf("OnDisconnected called %d times, want 1", sink.disconnected)
	}

	// Notifications after loss are ignored.
	link.handleNotification(protocol.MarshalResponsePacket(protocol.ResponsePacket{
		Type: protocol.ResponseTypeConnectAck,
	}))
	if sink.connected != 0 {
		t.Errorf("OnConnected called %d times after loss, want 0", sink.connected)
	}
}

func TestLinkIgnoresGarbage(t *testing.T) {
	sink := &recordingSink{}
	link, _ := newTestLink(sink)

	link.handleNotification([]byte{0xFF})

	if len(sink.infos) != 0 || sink.connected != 0 || len(sink.failed) != 0 {
		t.Error("undecodable notification should not reach the sink")
	}
}

func TestLinkErrorResponseFailsOnce(t *testing.T) {
	sink := &recordingSink{}
	link, conn := newTestLink(sink)
	errPacket := protocol.MarshalResponsePacket(protocol.ResponsePacket{
		Type:      protocol.ResponseTypeError,
		ErrorCode: uint32(ErrorParamInvalid),
	})

	link.handleNotification(errPacket)
	link.handleNotification(errPacket)
	link.lost()

	if len(sink.failed) != 1 || sink.failed[0] != ErrorParamInvalid {
		t.Errorf("failed = %v, want [%v]", sink.failed, ErrorParamInvalid)
	}
	if sink.disconnected != 0 {
		t.Errorf("OnDisconnected called %d times after ERROR, want 0", sink.disconnected)
	}
	if conn.disconnects != 1 {
		t.Errorf("Disconnect called %d times, want 1", conn.disconnects)
	}
}

package ble

import (
	"log/slog"
	"sync"

	"github.com/chaz8081/glasslink/internal/ble/protocol"
)

// glassesLink is one GATT connection carrying the handshake and heartbeat.
type glassesLink struct {
	mac     string
	conn    Connection
	control Characteristic
	opts    HeartbeatOptions
	release func(*glassesLink)

	mu     sync.Mutex
	sink   StatusSink
	hb     *heartbeat
	closed bool
}

func (l *glassesLink) setSink(sink StatusSink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

func (l *glassesLink) write(typ protocol.RequestType, socketID string) error {
	return l.control.Write(protocol.MarshalRequest(typ, socketID))
}

func (l *glassesLink) handleNotification(buf []byte) {
	resp, err := protocol.UnmarshalResponsePacket(buf)
	if err != nil {
		slog.Debug("[BLE] undecodable notification", "mac", l.mac, "error", err)
		return
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	sink := l.sink
	if l.hb != nil {
		l.hb.Beat()
	}
	l.mu.Unlock()

	switch resp.Type {
	case protocol.ResponseTypeKeepalive:
	case protocol.ResponseTypeConnectionInfo:
		sink.OnConnectionInfo(ConnectionInfo{
			SocketID:    resp.SocketID,
			MAC:         resp.MAC,
			Account:     resp.Account,
			GlassesType: int(resp.GlassesType),
		})
	case protocol.ResponseTypeConnectAck:
		l.startHeartbeat()
		sink.OnConnected()
	case protocol.ResponseTypeError:
		code := ErrorCodeFromWire(resp.ErrorCode)
		slog.Warn("[BLE] glasses reported error", "mac", l.mac, "code", code)
		if sink := l.shutdown(); sink != nil {
			sink.OnFailed(code)
		}
	default:
		slog.Debug("[BLE] unknown response type", "mac", l.mac, "type", resp.Type)
	}
}

func (l *glassesLink) startHeartbeat() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.hb != nil || l.closed {
		return
	}
	l.hb = newHeartbeat(l.opts, func() error {
		return l.write(protocol.RequestTypeKeepalive, "")
	}, l.lost)
	l.hb.Start()
}

// lost reports a dropped link exactly once.
func (l *glassesLink) lost() {
	sink := l.shutdown()
	if sink == nil {
		return
	}
	slog.Warn("[BLE] link lost", "mac", l.mac)
	sink.OnDisconnected()
}

// close tears the link down without reporting.
func (l *glassesLink) close() {
	l.shutdown()
}

// shutdown closes the link once and returns the sink it was reporting to,
// or nil if it was already closed.
func (l *glassesLink) shutdown() StatusSink {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	sink := l.sink
	l.sink = nil
	hb := l.hb
	l.mu.Unlock()

	if hb != nil {
		hb.Stop()
	}
	l.release(l)
	if err := l.conn.Disconnect(); err != nil {
		slog.Debug("[BLE] disconnect", "mac", l.mac, "error", err)
	}
	return sink
}

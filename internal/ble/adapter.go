// Package ble defines the boundary between glasslink and the radio: the
// scanning and connection provider interfaces, the callback sinks the
// provider reports into, and the provider-reported error codes. It also
// contains the tinygo-bluetooth implementation of that boundary.
package ble

import "github.com/google/uuid"

//go:generate mockgen -destination=mock_ble.go -package=ble github.com/chaz8081/glasslink/internal/ble Scanner,Connector,ScanSink,StatusSink,PowerState

// Glasses BLE UUIDs
const (
	ServiceUUIDString = "00009100-0000-1000-8000-00805f9b34fb"
	ControlCharUUID   = "00009101-0000-1000-8000-00805f9b34fb"
	NotifyCharUUID    = "00009102-0000-1000-8000-00805f9b34fb"
)

// ServiceUUID is the fixed service identifier every scan filters on.
var ServiceUUID = uuid.MustParse(ServiceUUIDString)

// ScanMode selects the radio duty cycle for a scan.
type ScanMode int

const (
	ScanModeLowPower ScanMode = iota
	ScanModeBalanced
	ScanModeLowLatency
)

func (m ScanMode) String() string {
	switch m {
	case ScanModeLowPower:
		return "low_power"
	case ScanModeBalanced:
		return "balanced"
	case ScanModeLowLatency:
		return "low_latency"
	default:
		return "unknown"
	}
}

// ScanFilter restricts discovery to peripherals advertising ServiceUUID.
type ScanFilter struct {
	ServiceUUID uuid.UUID
}

// Device represents a discovered BLE peripheral.
type Device struct {
	Name string
	MAC  string
	RSSI int
}

// ConnectionInfo is what the provider reports once the init phase has
// negotiated a socket. Empty strings mean the field was absent.
type ConnectionInfo struct {
	SocketID    string
	MAC         string
	Account     string
	GlassesType int
}

// ScanSink receives discovery callbacks. Calls may arrive on any goroutine.
type ScanSink interface {
	OnDeviceDiscovered(dev Device)
	OnScanFailed(code ScanErrorCode)
}

// StatusSink receives handshake and link callbacks. Calls may arrive on any
// goroutine, including after the attempt they belong to was abandoned.
type StatusSink interface {
	OnConnectionInfo(info ConnectionInfo)
	OnConnected()
	OnDisconnected()
	OnFailed(code ErrorCode)
}

// Scanner abstracts LE scanning. Both calls return immediately; results and
// failures are delivered to the sink.
type Scanner interface {
	StartScan(filter ScanFilter, mode ScanMode, sink ScanSink)
	StopScan()
}

// Connector abstracts the two-step glasses handshake. All calls return
// immediately; progress is delivered to the sink. At most one link is open:
// InitConnection closes whatever an earlier call opened.
type Connector interface {
	// InitConnection opens the link to dev and asks for connection info.
	InitConnection(dev Device, sink StatusSink)
	// Connect binds the negotiated socket and starts the heartbeat.
	Connect(socketID, mac string, sink StatusSink)
	// Abort closes the current link, including one still being dialled,
	// without reporting to its sink.
	Abort()
}

// PowerState reports whether the local radio is switched on.
type PowerState interface {
	Powered() (bool, error)
}

package ble

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chaz8081/glasslink/internal/ble/protocol"
)

// scanStopWait bounds how long StopScan waits for the scan goroutine.
const scanStopWait = 2 * time.Second

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	ConnectTimeout time.Duration // budget for GATT connect + discovery
	Heartbeat      HeartbeatOptions
}

// DefaultProviderOptions returns sensible defaults.
func DefaultProviderOptions() ProviderOptions {
	return ProviderOptions{
		ConnectTimeout: 10 * time.Second,
		Heartbeat:      DefaultHeartbeatOptions(),
	}
}

// Provider implements Scanner and Connector over a Radio. It holds at most
// one link to the glasses.
type Provider struct {
	radio Radio
	opts  ProviderOptions

	mu       sync.Mutex
	scanDone chan struct{} // closed when the running scan goroutine exits
	gen      uint64        // bumped by InitConnection and Abort
	link     *glassesLink
}

// NewProvider creates a Provider driving radio.
func NewProvider(radio Radio, opts ProviderOptions) *Provider {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	return &Provider{radio: radio, opts: opts}
}

// NewTinygoProvider creates a Provider on the default system adapter.
func NewTinygoProvider(opts ProviderOptions) *Provider {
	return NewProvider(newTinygoRadio(), opts)
}

// Enable powers on the adapter.
func (p *Provider) Enable() error {
	if err := p.radio.Enable(); err != nil {
		return fmt.Errorf("ble: enable adapter: %w", err)
	}
	return nil
}

// StartScan begins an LE scan in the background. Every advertisement that
// carries the filter's service UUID is forwarded; deduplication is left to
// the caller because a name often only arrives in a later scan response.
func (p *Provider) StartScan(filter ScanFilter, mode ScanMode, sink ScanSink) {
	p.mu.Lock()
	if p.scanDone != nil {
		p.mu.Unlock()
		go sink.OnScanFailed(ScanFailedAlreadyStarted)
		return
	}
	done := make(chan struct{})
	p.scanDone = done
	p.mu.Unlock()

	// tinygo has no duty-cycle setting; the platform default is used.
	slog.Debug("[BLE] scan starting", "service", filter.ServiceUUID, "mode", mode)

	go func() {
		err := p.radio.Scan(filter.ServiceUUID.String(), sink.OnDeviceDiscovered)

		p.mu.Lock()
		if p.scanDone == done {
			p.scanDone = nil
		}
		p.mu.Unlock()
		close(done)

		if err != nil {
			slog.Error("[BLE] scan failed", "error", err)
			sink.OnScanFailed(ScanFailedInternalError)
		}
	}()
}

// StopScan stops the adapter and waits for the scan goroutine to exit, so
// a StartScan right after it is not refused. Results already in flight may
// still reach the old sink.
func (p *Provider) StopScan() {
	p.mu.Lock()
	done := p.scanDone
	p.mu.Unlock()
	if done == nil {
		return
	}

	if err := p.radio.StopScan(); err != nil {
		slog.Debug("[BLE] stop scan", "error", err)
	}
	select {
	case <-done:
	case <-time.After(scanStopWait):
		slog.Warn("[BLE] scan did not stop in time", "wait", scanStopWait)
	}
}

// InitConnection closes any open link, connects to dev, subscribes to the
// notify characteristic and writes an INIT request. The glasses answer with
// CONNECTION_INFO.
func (p *Provider) InitConnection(dev Device, sink StatusSink) {
	gen, prev := p.supersede()
	if prev != nil {
		slog.Info("[BLE] closing previous link", "mac", prev.mac)
		prev.close()
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.opts.ConnectTimeout)
		defer cancel()

		link, err := p.dial(ctx, dev.MAC, sink)
		if err != nil {
			if !p.isCurrent(gen) {
				slog.Debug("[BLE] superseded dial failed", "mac", dev.MAC, "error", err)
				return
			}
			slog.Error("[BLE] init connection failed", "mac", dev.MAC, "error", err)
			sink.OnFailed(ErrorBLEConnectFailed)
			return
		}

		p.mu.Lock()
		if p.gen != gen {
			p.mu.Unlock()
			slog.Info("[BLE] dropping superseded link", "mac", dev.MAC)
			link.close()
			return
		}
		p.link = link
		p.mu.Unlock()

		if err := link.write(protocol.RequestTypeInit, ""); err != nil {
			slog.Error("[BLE] write init request", "mac", dev.MAC, "error", err)
			link.close()
			sink.OnFailed(ErrorSocketConnectFailed)
			return
		}
		slog.Info("[BLE] init request sent", "mac", dev.MAC, "name", dev.Name)
	}()
}

// Connect binds the negotiated socket on the initialised link. The glasses
// answer with CONNECT_ACK, after which the heartbeat runs.
func (p *Provider) Connect(socketID, mac string, sink StatusSink) {
	if _, err := uuid.Parse(socketID); err != nil {
		slog.Error("[BLE] invalid socket id", "socket", socketID, "error", err)
		go sink.OnFailed(ErrorParamInvalid)
		return
	}

	p.mu.Lock()
	link := p.link
	p.mu.Unlock()
	if link == nil || link.mac != mac {
		slog.Error("[BLE] connect without init", "mac", mac)
		go sink.OnFailed(ErrorParamInvalid)
		return
	}

	link.setSink(sink)
	go func() {
		if err := link.write(protocol.RequestTypeConnect, socketID); err != nil {
			slog.Error("[BLE] write connect request", "mac", mac, "error", err)
			link.close()
			sink.OnFailed(ErrorSocketConnectFailed)
		}
	}()
}

// Abort closes the current link, or discards one still being dialled,
// without reporting.
func (p *Provider) Abort() {
	_, prev := p.supersede()
	if prev != nil {
		slog.Info("[BLE] aborting link", "mac", prev.mac)
		prev.close()
	}
}

// Close disconnects the open link without reporting callbacks.
func (p *Provider) Close() error {
	p.Abort()
	return nil
}

// supersede starts a new generation and detaches the current link.
func (p *Provider) supersede() (uint64, *glassesLink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	prev := p.link
	p.link = nil
	return p.gen, prev
}

func (p *Provider) isCurrent(gen uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen == gen
}

// dial opens a GATT connection and resolves the handshake characteristics.
func (p *Provider) dial(ctx context.Context, mac string, sink StatusSink) (*glassesLink, error) {
	conn, err := p.radio.Connect(ctx, mac)
	if err != nil {
		return nil, err
	}

	control, err := conn.DiscoverCharacteristic(ServiceUUIDString, ControlCharUUID)
	if err != nil {
		_ = conn.Disconnect()
		return nil, fmt.Errorf("ble: control characteristic: %w", err)
	}
	notify, err := conn.DiscoverCharacteristic(ServiceUUIDString, NotifyCharUUID)
	if err != nil {
		_ = conn.Disconnect()
		return nil, fmt.Errorf("ble: notify characteristic: %w", err)
	}

	link := &glassesLink{
		mac:     mac,
		conn:    conn,
		control: control,
		opts:    p.opts.Heartbeat,
		sink:    sink,
		release: p.forget,
	}
	conn.OnDisconnect(link.lost)
	if err := notify.Subscribe(link.handleNotification); err != nil {
		_ = conn.Disconnect()
		return nil, fmt.Errorf("ble: enable notifications: %w", err)
	}
	return link, nil
}

// forget detaches link if it is still the current one.
func (p *Provider) forget(link *glassesLink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.link == link {
		p.link = nil
	}
}

// Compile-time checks that Provider implements the provider interfaces.
var (
	_ Scanner   = (*Provider)(nil)
	_ Connector = (*Provider)(nil)
)

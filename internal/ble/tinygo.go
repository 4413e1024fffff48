package ble

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"tinygo.org/x/bluetooth"
)

// tinygoRadio implements Radio on top of tinygo-org/bluetooth. Device
// addresses are whatever the platform uses: MAC strings on Linux and
// Windows, CoreBluetooth UUIDs on macOS.
type tinygoRadio struct {
	adapter *bluetooth.Adapter

	// mu protects the connections map.
	mu          sync.Mutex
	connections map[string]*tinygoConnection // keyed by device address
}

func newTinygoRadio() *tinygoRadio {
	return &tinygoRadio{
		adapter:     bluetooth.DefaultAdapter,
		connections: make(map[string]*tinygoConnection),
	}
}

func (r *tinygoRadio) Enable() error {
	if err := r.adapter.Enable(); err != nil {
		return err
	}

	// The adapter-level handler is the only place tinygo reports a peer
	// dropping the link.
	r.adapter.SetConnectHandler(func(device bluetooth.Device, connected bool) {
		if connected {
			return
		}
		conn := r.take(device.Address.String())
		if conn != nil {
			conn.fireDisconnect()
		}
	})
	return nil
}

func (r *tinygoRadio) Scan(serviceUUID string, onResult func(Device)) error {
	svc, err := bluetooth.ParseUUID(serviceUUID)
	if err != nil {
		return fmt.Errorf("ble: parse service UUID: %w", err)
	}
	return r.adapter.Scan(func(_ *bluetooth.Adapter, result bluetooth.ScanResult) {
		if !result.HasServiceUUID(svc) {
			return
		}
		onResult(Device{
			Name: result.LocalName(),
			MAC:  result.Address.String(),
			RSSI: int(result.RSSI),
		})
	})
}

func (r *tinygoRadio) StopScan() error {
	return r.adapter.StopScan()
}

func (r *tinygoRadio) Connect(ctx context.Context, mac string) (Connection, error) {
	var addr bluetooth.Address
	addr.Set(mac)

	// tinygo/bluetooth's Connect blocks internally with its own timeout.
	// We wrap it to also respect our ctx cancellation.
	type connectResult struct {
		device bluetooth.Device
		err    error
	}
	ch := make(chan connectResult, 1)
	go func() {
		device, err := r.adapter.Connect(addr, bluetooth.ConnectionParams{})
		ch <- connectResult{device, err}
	}()

	select {
	case <-ctx.Done():
		// A connect that completes after we gave up must not stay open.
		go func() {
			if late := <-ch; late.err == nil {
				slog.Info("[BLE] closing late connection", "mac", mac)
				_ = late.device.Disconnect()
			}
		}()
		return nil, fmt.Errorf("ble: connect to %s: %w", mac, ctx.Err())
	case result := <-ch:
		if result.err != nil {
			return nil, fmt.Errorf("ble: connect to %s: %w", mac, result.err)
		}
		conn := &tinygoConnection{radio: r, id: mac, device: &result.device}
		r.mu.Lock()
		r.connections[mac] = conn
		r.mu.Unlock()
		return conn, nil
	}
}

// take removes and returns the tracked connection for id.
func (r *tinygoRadio) take(id string) *tinygoConnection {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn := r.connections[id]
	delete(r.connections, id)
	return conn
}

// untrack stops tracking conn and reports whether it was still tracked.
func (r *tinygoRadio) untrack(conn *tinygoConnection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connections[conn.id] != conn {
		return false
	}
	delete(r.connections, conn.id)
	return true
}

// Compile-time check that tinygoRadio implements Radio.
var _ Radio = (*tinygoRadio)(nil)

type tinygoConnection struct {
	radio  *tinygoRadio
	id     string
	device *bluetooth.Device

	mu           sync.Mutex
	disconnectCb func()
}

func (c *tinygoConnection) DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error) {
	svcUUID, err := bluetooth.ParseUUID(serviceUUID)
	if err != nil {
		return nil, err
	}
	charUUIDParsed, err := bluetooth.ParseUUID(charUUID)
	if err != nil {
		return nil, err
	}

	svcs, err := c.device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return nil, fmt.Errorf("ble: discover services: %w", err)
	}
	if len(svcs) == 0 {
		return nil, fmt.Errorf("ble: service %s not found", serviceUUID)
	}

	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{charUUIDParsed})
	if err != nil {
		return nil, fmt.Errorf("ble: discover characteristics: %w", err)
	}
	if len(chars) == 0 {
		return nil, fmt.Errorf("ble: characteristic %s not found", charUUID)
	}

	return &tinygoCharacteristic{char: &chars[0]}, nil
}

func (c *tinygoConnection) Disconnect() error {
	// Untrack first so the adapter handler stays quiet for our own disconnect.
	// A connection the peer already dropped is no longer tracked.
	if !c.radio.untrack(c) {
		return nil
	}
	return c.device.Disconnect()
}

func (c *tinygoConnection) OnDisconnect(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnectCb = cb
}

func (c *tinygoConnection) fireDisconnect() {
	c.mu.Lock()
	cb := c.disconnectCb
	c.mu.Unlock()
	if cb != nil {
		cb()
	}
}

type tinygoCharacteristic struct {
	char *bluetooth.DeviceCharacteristic
}

func (c *tinygoCharacteristic) Write(data []byte) error {
	_, err := c.char.WriteWithoutResponse(data)
	return err
}

func (c *tinygoCharacteristic) Subscribe(cb func([]byte)) error {
	return c.char.EnableNotifications(cb)
}

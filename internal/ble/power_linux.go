//go:build linux

package ble

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	bluezBusName          = "org.bluez"
	bluezAdapterInterface = "org.bluez.Adapter1"
	bluezObjectPath       = "/org/bluez"
)

// BluezPower reads the Powered property of a BlueZ adapter over the system bus.
type BluezPower struct {
	conn    *dbus.Conn
	adapter dbus.ObjectPath
}

// NewSystemPower connects to the system bus and queries the adapter with the
// given id (for example "hci0").
func NewSystemPower(adapterID string) (PowerState, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("ble: connect to system bus: %w", err)
	}
	return &BluezPower{conn: conn, adapter: adapterPath(adapterID)}, nil
}

// Powered reports whether the adapter radio is on.
func (b *BluezPower) Powered() (bool, error) {
	var v dbus.Variant
	obj := b.conn.Object(bluezBusName, b.adapter)
	if err := obj.Call("org.freedesktop.DBus.Properties.Get", 0,
		bluezAdapterInterface, "Powered").Store(&v); err != nil {
		return false, fmt.Errorf("ble: read %s Powered: %w", b.adapter, err)
	}
	return poweredFromVariant(v)
}

func adapterPath(id string) dbus.ObjectPath {
	return dbus.ObjectPath(bluezObjectPath + "/" + id)
}

func poweredFromVariant(v dbus.Variant) (bool, error) {
	powered, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("ble: Powered has type %s, want bool", v.Signature())
	}
	return powered, nil
}

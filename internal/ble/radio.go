package ble

import "context"

// Characteristic represents a BLE GATT characteristic.
type Characteristic interface {
	// Write sends data to the characteristic without waiting for a response.
	Write(data []byte) error
	// Subscribe registers a callback for notifications on this characteristic.
	Subscribe(callback func(data []byte)) error
}

// Connection represents an active BLE connection to a peripheral.
type Connection interface {
	// DiscoverCharacteristic finds a characteristic by UUID within a service.
	DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error)
	// Disconnect terminates the connection. The OnDisconnect callback does
	// not fire for a disconnect we asked for.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the peer drops the link.
	OnDisconnect(callback func())
}

// Radio abstracts the BLE hardware adapter for testing.
type Radio interface {
	// Enable powers on the BLE adapter.
	Enable() error
	// Scan blocks until StopScan, calling onResult for every advertisement
	// that carries serviceUUID.
	Scan(serviceUUID string, onResult func(Device)) error
	// StopScan ends a running Scan.
	StopScan() error
	// Connect establishes a connection to the device with the given address.
	Connect(ctx context.Context, mac string) (Connection, error)
}

package ble

import "fmt"

// ScanErrorCode is a provider-reported scan failure. Values match the
// Android ScanCallback codes so logs read the same across platforms.
type ScanErrorCode int

const (
	ScanFailedAlreadyStarted ScanErrorCode = iota + 1
	ScanFailedRegistration
	ScanFailedInternalError
	ScanFailedFeatureUnsupported
	ScanFailedOutOfHardwareResources
	ScanFailedTooFrequently
)

var scanErrorNames = map[ScanErrorCode]string{
	ScanFailedAlreadyStarted:         "SCAN_FAILED_ALREADY_STARTED",
	ScanFailedRegistration:           "SCAN_FAILED_APPLICATION_REGISTRATION_FAILED",
	ScanFailedInternalError:          "SCAN_FAILED_INTERNAL_ERROR",
	ScanFailedFeatureUnsupported:     "SCAN_FAILED_FEATURE_UNSUPPORTED",
	ScanFailedOutOfHardwareResources: "SCAN_FAILED_OUT_OF_HARDWARE_RESOURCES",
	ScanFailedTooFrequently:          "SCAN_FAILED_SCANNING_TOO_FREQUENTLY",
}

func (c ScanErrorCode) String() string {
	if name, ok := scanErrorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("SCAN_FAILED_%d", int(c))
}

// ErrorCode is a provider-reported connection failure.
type ErrorCode int

const (
	ErrorUnknown ErrorCode = iota
	ErrorParamInvalid
	ErrorBLEConnectFailed
	ErrorSocketConnectFailed
	ErrorHandshakeTimeout
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorParamInvalid:
		return "PARAM_INVALID"
	case ErrorBLEConnectFailed:
		return "BLE_CONNECT_FAILED"
	case ErrorSocketConnectFailed:
		return "SOCKET_CONNECT_FAILED"
	case ErrorHandshakeTimeout:
		return "HANDSHAKE_TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// ErrorCodeFromWire maps the error_code field of a glasses response packet.
// Unrecognised values collapse to ErrorUnknown.
func ErrorCodeFromWire(v uint32) ErrorCode {
	switch c := ErrorCode(v); c {
	case ErrorParamInvalid, ErrorBLEConnectFailed, ErrorSocketConnectFailed:
		return c
	default:
		return ErrorUnknown
	}
}

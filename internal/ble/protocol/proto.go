// Package protocol implements protobuf encoding for the glasses handshake
// packets exchanged over the control and notify characteristics.
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// RequestType is the type field in a Request packet.
type RequestType uint32

const (
	RequestTypeInit      RequestType = 1
	RequestTypeConnect   RequestType = 2
	RequestTypeKeepalive RequestType = 3
)

// ResponseType is the type field in a ResponsePacket.
type ResponseType uint32

const (
	ResponseTypeKeepalive      ResponseType = 0
	ResponseTypeConnectionInfo ResponseType = 1
	ResponseTypeConnectAck     ResponseType = 2
	ResponseTypeError          ResponseType = 3
)

// ResponsePacket is the decoded notification from the glasses.
type ResponsePacket struct {
	Type        ResponseType
	GlassesType uint32
	SocketID    string
	MAC         string
	Account     string
	ErrorCode   uint32
}

// MarshalRequest encodes a Request protobuf.
//
//	field 1 (uint32): type
//	field 2 (string): socket_uuid, omitted when empty
func MarshalRequest(typ RequestType, socketID string) []byte {
	var buf []byte
	// Field 1: tag = (1 << 3) | 0 = 0x08, varint
	buf = append(buf, 0x08)
	buf = appendVarint(buf, uint64(typ))
	if socketID != "" {
		// Field 2: tag = (2 << 3) | 2 = 0x12, length-delimited
		buf = append(buf, 0x12)
		buf = appendVarint(buf, uint64(len(socketID)))
		buf = append(buf, socketID...)
	}
	return buf
}

// MarshalResponsePacket encodes a ResponsePacket. The glasses produce these;
// we only need it to drive fakes.
//
//	field 1 (uint32): type
//	field 2 (uint32): glasses_type
//	field 3 (string): socket_uuid
//	field 4 (string): mac
//	field 5 (string): account
//	field 6 (uint32): error_code
func MarshalResponsePacket(resp ResponsePacket) []byte {
	var buf []byte
	buf = append(buf, 0x08)
	buf = appendVarint(buf, uint64(resp.Type))
	if resp.GlassesType != 0 {
		buf = append(buf, 0x10)
		buf = appendVarint(buf, uint64(resp.GlassesType))
	}
	buf = appendString(buf, 0x1a, resp.SocketID)
	buf = appendString(buf, 0x22, resp.MAC)
	buf = appendString(buf, 0x2a, resp.Account)
	if resp.ErrorCode != 0 {
		buf = append(buf, 0x30)
		buf = appendVarint(buf, uint64(resp.ErrorCode))
	}
	return buf
}

// UnmarshalResponsePacket decodes a ResponsePacket from raw protobuf bytes.
// Unknown fields are skipped.
func UnmarshalResponsePacket(data []byte) (*ResponsePacket, error) {
	resp := &ResponsePacket{}
	for len(data) > 0 {
		tag, n, err := readVarint(data)
		if err != nil {
			return nil, fmt.Errorf("protocol: reading tag: %w", err)
		}
		data = data[n:]
		fieldNum := uint8(tag >> 3)
		wireType := uint8(tag & 0x07)

		switch wireType {
		case 0: // varint
			val, n, err := readVarint(data)
			if err != nil {
				return nil, fmt.Errorf("protocol: reading varint for field %d: %w", fieldNum, err)
			}
			data = data[n:]
			switch fieldNum {
			case 1:
				resp.Type = ResponseType(val)
			case 2:
				resp.GlassesType = uint32(val)
			case 6:
				resp.ErrorCode = uint32(val)
			}
		case 2: // length-delimited
			if len(data) < 1 {
				return nil, errors.New("protocol: truncated length in response packet")
			}
			length, n, err := readVarint(data)
			if err != nil {
				return nil, fmt.Errorf("protocol: reading length for field %d: %w", fieldNum, err)
			}
			data = data[n:]
			if uint64(len(data)) < length {
				return nil, fmt.Errorf("protocol: field %d length %d exceeds remaining %d bytes", fieldNum, length, len(data))
			}
			val := string(data[:length])
			switch fieldNum {
			case 3:
				resp.SocketID = val
			case 4:
				resp.MAC = val
			case 5:
				resp.Account = val
			}
			data = data[length:]
		default:
			return nil, fmt.Errorf("protocol: unsupported wire type %d for field %d", wireType, fieldNum)
		}
	}
	return resp, nil
}

// appendString appends a length-delimited string field, skipping empty values.
func appendString(buf []byte, tag byte, s string) []byte {
	if s == "" {
		return buf
	}
	buf = append(buf, tag)
	buf = appendVarint(buf, uint64(len(s)))
	return append(buf, s...)
}

// appendVarint appends a protobuf varint to buf.
func appendVarint(buf []byte, v uint64) []byte {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	return append(buf, tmp[:n]...)
}

// readVarint reads a protobuf varint from data, returning value and bytes consumed.
func readVarint(data []byte) (uint64, int, error) {
	val, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, 0, errors.New("protocol: invalid varint")
	}
	return val, n, nil
}

// Package codec implements the wire format used between the service
// provider and the client engine: a fixed 16-byte SOME/IP-style header
// followed by a flat, little-endian payload with no padding or length
// prefixing beyond what the header already carries.
package codec

import (
	"encoding/binary"

	"emperror.dev/errors"
)

// HeaderSize is the size in bytes of the fixed message header.
const HeaderSize = 16

// MessageType identifies the purpose of a framed message.
type MessageType uint8

const (
	MessageTypeRequest         MessageType = 0x00
	MessageTypeRequestNoReturn MessageType = 0x01
	MessageTypeNotification    MessageType = 0x02
	MessageTypeResponse        MessageType = 0x80
	MessageTypeError           MessageType = 0x81
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypeRequest, MessageTypeRequestNoReturn, MessageTypeNotification, MessageTypeResponse, MessageTypeError:
		return true
	default:
		return false
	}
}

// ReturnCode mirrors the SOME/IP subset of return codes this system uses.
type ReturnCode uint8

const (
	ReturnCodeOK                 ReturnCode = 0x00
	ReturnCodeNotOK              ReturnCode = 0x01
	ReturnCodeUnknownMethod      ReturnCode = 0x03
	ReturnCodeNotReady           ReturnCode = 0x04
	ReturnCodeTimeout            ReturnCode = 0x06
	ReturnCodeMalformedMessage   ReturnCode = 0x09
	ReturnCodeWrongMessageType   ReturnCode = 0x0A
)

// ProtocolVersion and InterfaceVersion are fixed for this deployment; the
// system does not negotiate beyond MAJOR.MINOR = 1.0.
const (
	ProtocolVersion  uint8 = 0x01
	InterfaceVersion uint8 = 0x01
)

// ErrMalformedMessage is returned whenever a buffer is too short for its
// declared shape or an enumeration byte falls outside its domain.
var ErrMalformedMessage = errors.Sentinel("codec: malformed message")

// Header is the bit-exact envelope described in spec §3:
//
//	service_id(u16) | method_or_event_id(u16) | length(u32) | client_id(u16) |
//	session_id(u16) | protocol_version(u8) | interface_version(u8) |
//	message_type(u8) | return_code(u8) | payload(length-8 bytes)
type Header struct {
	ServiceID        uint16
	MethodOrEventID  uint16
	Length           uint32 // payload length + 8 (the bytes after Length itself that aren't payload)
	ClientID         uint16
	SessionID        uint16
	ProtocolVersion  uint8
	InterfaceVersion uint8
	MessageType      MessageType
	ReturnCode       ReturnCode
}

// PayloadLen returns the number of payload bytes this header declares.
func (h Header) PayloadLen() int {
	if h.Length < 8 {
		return 0
	}
	return int(h.Length - 8)
}

// EncodeHeader serializes h into a new HeaderSize-byte (16-byte) array.
func EncodeHeader(h Header) [HeaderSize]byte {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint16(buf[0:2], h.ServiceID)
	binary.LittleEndian.PutUint16(buf[2:4], h.MethodOrEventID)
	binary.LittleEndian.PutUint32(buf[4:8], h.Length)
	binary.LittleEndian.PutUint16(buf[8:10], h.ClientID)
	binary.LittleEndian.PutUint16(buf[10:12], h.SessionID)
	buf[12] = h.ProtocolVersion
	buf[13] = h.InterfaceVersion
	buf[14] = byte(h.MessageType)
	buf[15] = byte(h.ReturnCode)
	return buf
}

// DecodeHeader parses the fixed header from buf. buf may be longer than
// HeaderSize; only the first HeaderSize bytes are consumed.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrMalformedMessage
	}
	h := Header{
		ServiceID:       binary.LittleEndian.Uint16(buf[0:2]),
		MethodOrEventID: binary.LittleEndian.Uint16(buf[2:4]),
		Length:          binary.LittleEndian.Uint32(buf[4:8]),
		ClientID:        binary.LittleEndian.Uint16(buf[8:10]),
		SessionID:       binary.LittleEndian.Uint16(buf[10:12]),
		ProtocolVersion: buf[12],
		InterfaceVersion: buf[13],
		MessageType:     MessageType(buf[14]),
		ReturnCode:      ReturnCode(buf[15]),
	}
	if !h.MessageType.Valid() {
		return Header{}, ErrMalformedMessage
	}
	return h, nil
}

// EncodeMessage frames a header and payload into a single wire buffer,
// filling in Length from len(payload).
func EncodeMessage(h Header, payload []byte) []byte {
	h.Length = uint32(len(payload)) + 8
	head := EncodeHeader(h)
	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, head[:]...)
	out = append(out, payload...)
	return out
}

// DecodeMessage splits a wire buffer into its header and payload, verifying
// that at least the declared payload length is present. Bytes beyond the
// declared length are dropped, not rejected.
func DecodeMessage(buf []byte) (Header, []byte, error) {
	h, err := DecodeHeader(buf)
	if err != nil {
		return Header{}, nil, err
	}
	want := h.PayloadLen()
	rest := buf[HeaderSize:]
	if len(rest) < want {
		return Header{}, nil, ErrMalformedMessage
	}
	return h, rest[:want], nil
}

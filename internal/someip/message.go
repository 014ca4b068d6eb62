package someip

import (
	"net"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

// codecNotificationHeader builds the header for a provider-emitted event.
func codecNotificationHeader(svc ServiceKey, eventID uint16) codec.Header {
	return codec.Header{
		ServiceID:        uint16(svc.ServiceID),
		MethodOrEventID:  eventID,
		ProtocolVersion:  codec.ProtocolVersion,
		InterfaceVersion: codec.InterfaceVersion,
		MessageType:      codec.MessageTypeNotification,
		ReturnCode:       codec.ReturnCodeOK,
	}
}

// requestHeader builds the header for a client-issued method call.
func requestHeader(svc ServiceKey, methodID, clientID, sessionID uint16) codec.Header {
	return codec.Header{
		ServiceID:        uint16(svc.ServiceID),
		MethodOrEventID:  methodID,
		ClientID:         clientID,
		SessionID:        sessionID,
		ProtocolVersion:  codec.ProtocolVersion,
		InterfaceVersion: codec.InterfaceVersion,
		MessageType:      codec.MessageTypeRequest,
		ReturnCode:       codec.ReturnCodeOK,
	}
}

// responseHeader builds the header for a successful response to h.
func responseHeader(h codec.Header) codec.Header {
	return codec.Header{
		ServiceID:        h.ServiceID,
		MethodOrEventID:  h.MethodOrEventID,
		ClientID:         h.ClientID,
		SessionID:        h.SessionID,
		ProtocolVersion:  codec.ProtocolVersion,
		InterfaceVersion: codec.InterfaceVersion,
		MessageType:      codec.MessageTypeResponse,
		ReturnCode:       codec.ReturnCodeOK,
	}
}

// errorHeader builds the header for an ERROR reply to h.
func errorHeader(h codec.Header, rc codec.ReturnCode) codec.Header {
	return codec.Header{
		ServiceID:        h.ServiceID,
		MethodOrEventID:  h.MethodOrEventID,
		ClientID:         h.ClientID,
		SessionID:        h.SessionID,
		ProtocolVersion:  codec.ProtocolVersion,
		InterfaceVersion: codec.InterfaceVersion,
		MessageType:      codec.MessageTypeError,
		ReturnCode:       rc,
	}
}

// frameMessage is a thin rename of codec.EncodeMessage kept local to this
// package so callers read "frame" at the transport layer and "encode" at
// the codec layer.
func frameMessage(h codec.Header, payload []byte) []byte {
	return codec.EncodeMessage(h, payload)
}

// Respond sends a RESPONSE frame for the request h back to src.
func (r *Runtime) Respond(src *net.UDPAddr, h codec.Header, payload []byte) error {
	return r.Endpoint.Send(src, frameMessage(responseHeader(h), payload))
}

// RespondError sends an ERROR frame for the request h back to src.
func (r *Runtime) RespondError(src *net.UDPAddr, h codec.Header, rc codec.ReturnCode) error {
	return r.Endpoint.Send(src, frameMessage(errorHeader(h, rc), nil))
}

// SendRequest frames and sends a method call, registering it in the
// in-flight table and returning the channel its eventual result arrives on
// plus a cancel func, per spec §4.5's "Issue request" responsibility.
func (r *Runtime) SendRequest(dst *net.UDPAddr, svc ServiceKey, methodID, clientID uint16, payload []byte) (<-chan PendingResult, func()) {
	sessionID := r.Sessions.Next(clientID, svc)
	h := requestHeader(svc, methodID, clientID, sessionID)
	resultCh, cancel := r.InFlight.Register(svc, sessionID, MethodKey{ServiceKey: svc, MethodID: methodID})
	if err := r.Endpoint.Send(dst, frameMessage(h, payload)); err != nil {
		cancel()
		ch := make(chan PendingResult, 1)
		ch <- PendingResult{Err: err}
		close(ch)
		return ch, func() {}
	}
	return resultCh, cancel
}

// SendRequestNoReturn frames and sends a fire-and-forget method call (no
// response is expected, so no in-flight record is created).
func (r *Runtime) SendRequestNoReturn(dst *net.UDPAddr, svc ServiceKey, methodID, clientID uint16, payload []byte) error {
	sessionID := r.Sessions.Next(clientID, svc)
	h := requestHeader(svc, methodID, clientID, sessionID)
	h.MessageType = codec.MessageTypeRequestNoReturn
	return r.Endpoint.Send(dst, frameMessage(h, payload))
}

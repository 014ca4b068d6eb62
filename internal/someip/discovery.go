package someip

import (
	"encoding/binary"
	"net"

	"emperror.dev/errors"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

// discoveryServiceID is the reserved pseudo service id discovery frames are
// framed under — it never collides with a real service id from the catalog
// (those are all 0x1000-range).
const discoveryServiceID uint16 = 0xFFFF

// Discovery frame kinds, carried in the wire header's method_or_event_id
// field since discovery traffic reuses the same 16-byte envelope as regular
// SOME/IP messages (spec §3 does not require a separate framing for SD).
const (
	discoveryOffer        uint16 = 0x0001
	discoveryStopOffer    uint16 = 0x0002
	discoverySubscribe    uint16 = 0x0003
	discoverySubscribeAck uint16 = 0x0004
)

// OfferFrame announces that a service instance is reachable at Port on the
// sending host's address.
type OfferFrame struct {
	Service  ServiceKey
	Port     uint16
	TTL      uint16 // seconds
}

func encodeOffer(o OfferFrame, kind uint16) []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint16(payload[0:2], uint16(o.Service.ServiceID))
	binary.LittleEndian.PutUint16(payload[2:4], o.Service.InstanceID)
	binary.LittleEndian.PutUint16(payload[4:6], o.Port)
	binary.LittleEndian.PutUint16(payload[6:8], o.TTL)
	h := codec.Header{
		ServiceID:       discoveryServiceID,
		MethodOrEventID: kind,
		MessageType:     codec.MessageTypeNotification,
		ReturnCode:      codec.ReturnCodeOK,
	}
	return codec.EncodeMessage(h, payload)
}

func decodeOffer(payload []byte) (OfferFrame, error) {
	if len(payload) < 8 {
		return OfferFrame{}, codec.ErrMalformedMessage
	}
	return OfferFrame{
		Service: ServiceKey{
			ServiceID:  serviceIDFromWire(binary.LittleEndian.Uint16(payload[0:2])),
			InstanceID: binary.LittleEndian.Uint16(payload[2:4]),
		},
		Port: binary.LittleEndian.Uint16(payload[4:6]),
		TTL:  binary.LittleEndian.Uint16(payload[6:8]),
	}, nil
}

// SubscribeFrame requests or acknowledges delivery of one event-group.
type SubscribeFrame struct {
	Group     EventGroupKey
	ClientPort uint16
}

func encodeSubscribe(s SubscribeFrame, ack bool) []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint16(payload[0:2], uint16(s.Group.ServiceID))
	binary.LittleEndian.PutUint16(payload[2:4], s.Group.InstanceID)
	binary.LittleEndian.PutUint16(payload[4:6], s.Group.GroupID)
	binary.LittleEndian.PutUint16(payload[6:8], s.ClientPort)
	kind := discoverySubscribe
	if ack {
		kind = discoverySubscribeAck
	}
	h := codec.Header{
		ServiceID:       discoveryServiceID,
		MethodOrEventID: kind,
		MessageType:     codec.MessageTypeNotification,
		ReturnCode:      codec.ReturnCodeOK,
	}
	return codec.EncodeMessage(h, payload)
}

func decodeSubscribe(payload []byte) (SubscribeFrame, error) {
	if len(payload) < 8 {
		return SubscribeFrame{}, codec.ErrMalformedMessage
	}
	return SubscribeFrame{
		Group: EventGroupKey{
			ServiceKey: ServiceKey{
				ServiceID:  serviceIDFromWire(binary.LittleEndian.Uint16(payload[0:2])),
				InstanceID: binary.LittleEndian.Uint16(payload[2:4]),
			},
			GroupID: binary.LittleEndian.Uint16(payload[4:6]),
		},
		ClientPort: binary.LittleEndian.Uint16(payload[6:8]),
	}, nil
}

// isDiscoveryFrame reports whether a decoded header belongs to the
// discovery pseudo-service, and if so which kind of frame it is.
func isDiscoveryFrame(h codec.Header) (uint16, bool) {
	if h.ServiceID != discoveryServiceID {
		return 0, false
	}
	return h.MethodOrEventID, true
}

func udpAddrFor(host string, port uint16) (*net.UDPAddr, error) {
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, formatPort(port)))
	if err != nil {
		return nil, errors.Wrap(err, "someip/discovery: could not resolve address")
	}
	return addr, nil
}

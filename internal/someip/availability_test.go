package someip

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := NewRuntime("test-client", 0, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Endpoint.Close() })
	return rt
}

func TestClientAvailabilityOfferTransitionsToDiscovered(t *testing.T) {
	rt := newTestRuntime(t)
	svc := testService()
	desired := map[ServiceKey][]EventGroupKey{
		svc: {{ServiceKey: svc, GroupID: 1}},
	}

	var gotState ClientState
	avail := NewClientAvailability(rt, rt.Endpoint.LocalPort(), desired, func(_ ServiceKey, state ClientState) {
		gotState = state
	})

	assert.Equal(t, ClientUnknown, avail.State(svc))

	src := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: int(rt.Endpoint.LocalPort())}
	offer := encodeOffer(OfferFrame{Service: svc, Port: rt.Endpoint.LocalPort(), TTL: 3}, discoveryOffer)
	_, payload, err := codec.DecodeMessage(offer)
	require.NoError(t, err)

	avail.handleDiscovery(src, discoveryOffer, payload)

	assert.Equal(t, ClientDiscovered, avail.State(svc))
	assert.Equal(t, ClientDiscovered, gotState)

	ep, ok := avail.Endpoint(svc)
	require.True(t, ok)
	assert.Equal(t, int(rt.Endpoint.LocalPort()), ep.Port)
}

func TestClientAvailabilitySubscribeAckTransitionsToLive(t *testing.T) {
	rt := newTestRuntime(t)
	svc := testService()
	group := EventGroupKey{ServiceKey: svc, GroupID: 1}
	desired := map[ServiceKey][]EventGroupKey{svc: {group}}

	avail := NewClientAvailability(rt, rt.Endpoint.LocalPort(), desired, nil)
	src := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: int(rt.Endpoint.LocalPort())}

	ackWire := encodeSubscribe(SubscribeFrame{Group: group, ClientPort: rt.Endpoint.LocalPort()}, true)
	_, payload, err := codec.DecodeMessage(ackWire)
	require.NoError(t, err)

	avail.handleDiscovery(src, discoverySubscribeAck, payload)
	assert.Equal(t, ClientLive, avail.State(svc))
}

func TestClientAvailabilityStopOfferTransitionsToUnknown(t *testing.T) {
	rt := newTestRuntime(t)
	svc := testService()
	desired := map[ServiceKey][]EventGroupKey{svc: {{ServiceKey: svc, GroupID: 1}}}

	avail := NewClientAvailability(rt, rt.Endpoint.LocalPort(), desired, nil)
	src := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: int(rt.Endpoint.LocalPort())}

	offer := encodeOffer(OfferFrame{Service: svc, Port: rt.Endpoint.LocalPort(), TTL: 3}, discoveryOffer)
	_, offerPayload, err := codec.DecodeMessage(offer)
	require.NoError(t, err)
	avail.handleDiscovery(src, discoveryOffer, offerPayload)
	require.Equal(t, ClientDiscovered, avail.State(svc))

	stop := encodeOffer(OfferFrame{Service: svc, Port: rt.Endpoint.LocalPort(), TTL: 0}, discoveryStopOffer)
	_, stopPayload, err := codec.DecodeMessage(stop)
	require.NoError(t, err)
	avail.handleDiscovery(src, discoveryStopOffer, stopPayload)

	assert.Equal(t, ClientUnknown, avail.State(svc))
}

func TestClientAvailabilityIgnoresUndesiredService(t *testing.T) {
	rt := newTestRuntime(t)
	svc := testService()
	other := ServiceKey{ServiceID: svc.ServiceID + 1, InstanceID: svc.InstanceID}
	desired := map[ServiceKey][]EventGroupKey{svc: {{ServiceKey: svc, GroupID: 1}}}

	avail := NewClientAvailability(rt, rt.Endpoint.LocalPort(), desired, nil)
	src := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 1}

	offer := encodeOffer(OfferFrame{Service: other, Port: 1, TTL: 3}, discoveryOffer)
	_, payload, err := codec.DecodeMessage(offer)
	require.NoError(t, err)

	avail.handleDiscovery(src, discoveryOffer, payload)
	assert.Equal(t, ClientUnknown, avail.State(other))
}

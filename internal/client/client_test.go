package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

// fakeProvider is a minimal stand-in for the provider node: it acks
// Subscribe frames immediately and, for every registered method, replies
// with whatever payload the test configured.
type fakeProvider struct {
	conn *net.UDPConn
}

func newFakeProvider(t *testing.T) *fakeProvider {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &fakeProvider{conn: conn}
}

func (p *fakeProvider) port(t *testing.T) uint16 {
	t.Helper()
	return uint16(p.conn.LocalAddr().(*net.UDPAddr).Port)
}

// serve answers every Subscribe with an ack, and every method request by
// invoking respond(header, payload) for the test to build a canned reply.
func (p *fakeProvider) serve(t *testing.T, ctx context.Context, respond func(h codec.Header, payload []byte) (codec.Header, []byte)) {
	t.Helper()
	go func() {
		<-ctx.Done()
		_ = p.conn.Close()
	}()
	go func() {
		buf := make([]byte, 64*1024)
		for {
			n, src, err := p.conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			h, payload, err := codec.DecodeMessage(buf[:n])
			if err != nil {
				continue
			}
			if h.ServiceID == 0xFFFF {
				// discovery frame: ack any Subscribe
				if h.MethodOrEventID == 0x0003 { // discoverySubscribe
					ackPayload := make([]byte, len(payload))
					copy(ackPayload, payload)
					ackHeader := codec.Header{ServiceID: 0xFFFF, MethodOrEventID: 0x0004, MessageType: codec.MessageTypeNotification, ReturnCode: codec.ReturnCodeOK}
					_, _ = p.conn.WriteToUDP(codec.EncodeMessage(ackHeader, ackPayload), src)
				}
				continue
			}
			if respond == nil {
				continue
			}
			respHeader, respPayload := respond(h, payload)
			_, _ = p.conn.WriteToUDP(codec.EncodeMessage(respHeader, respPayload), src)
		}
	}()
}

// testClient builds a real Client/Runtime/ClientAvailability wired against a
// fakeProvider already offering svc. It returns right after sending the
// offer; tests start provider.serve and call waitLive to reach LIVE.
func testClient(t *testing.T, svc someip.ServiceKey) (*Client, *fakeProvider, context.CancelFunc) {
	t.Helper()

	rt, err := someip.NewRuntime("test-gateway", 0, 500*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Endpoint.Close() })

	provider := newFakeProvider(t)

	cl := New(rt, nil, 0x0002)
	desired := map[someip.ServiceKey][]someip.EventGroupKey{
		svc: {{ServiceKey: svc, GroupID: catalog.EventGroup}},
	}
	avail := someip.NewClientAvailability(rt, rt.Endpoint.LocalPort(), desired, cl.HandleAvailabilityChange)
	cl.Avail = avail

	ctx, cancel := context.WithCancel(context.Background())
	rt.Start(ctx)

	// announce the fake provider's offer directly over the wire so the
	// client's own discovery dispatch path runs exactly as it would in
	// production.
	offerWire := buildOfferFrame(t, svc, provider.port(t))
	_, err = provider.conn.WriteToUDP(offerWire, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: int(rt.Endpoint.LocalPort())})
	require.NoError(t, err)

	return cl, provider, cancel
}

func buildOfferFrame(t *testing.T, svc someip.ServiceKey, port uint16) []byte {
	t.Helper()
	payload := make([]byte, 8)
	putUint16LE(payload[0:2], uint16(svc.ServiceID))
	putUint16LE(payload[2:4], svc.InstanceID)
	putUint16LE(payload[4:6], port)
	putUint16LE(payload[6:8], 3)
	h := codec.Header{ServiceID: 0xFFFF, MethodOrEventID: 0x0001, MessageType: codec.MessageTypeNotification, ReturnCode: codec.ReturnCodeOK}
	return codec.EncodeMessage(h, payload)
}

func putUint16LE(buf []byte, v uint16) {
	buf[0] = byte(v)
	buf[1] = byte(v >> 8)
}

func waitLive(t *testing.T, cl *Client, svc someip.ServiceKey) {
	t.Helper()
	require.Eventually(t, func() bool {
		return cl.IsLive(svc)
	}, 2*time.Second, 10*time.Millisecond, "service never reached LIVE")
}

func TestCallReturnsServiceUnavailableWhenNotLive(t *testing.T) {
	rt, err := someip.NewRuntime("test-gateway-unavailable", 0, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Endpoint.Close() })

	cl := New(rt, nil, 0x0002)
	svc := doorServiceKey
	avail := someip.NewClientAvailability(rt, rt.Endpoint.LocalPort(), map[someip.ServiceKey][]someip.EventGroupKey{svc: nil}, nil)
	cl.Avail = avail

	_, err = cl.GetLockState(context.Background(), codec.PositionFR)
	require.Error(t, err)
	var terr *taxonomy.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, taxonomy.KindServiceUnavailable, terr.Kind)
}

func TestSetLockStateRoundTripsThroughFakeProvider(t *testing.T) {
	cl, provider, cancel := testClient(t, doorServiceKey)
	defer cancel()

	provider.serve(t, context.Background(), func(h codec.Header, payload []byte) (codec.Header, []byte) {
		req, err := codec.DecodeSetLockStateReq(payload)
		require.NoError(t, err)
		resp := codec.SetLockStateResp{DoorID: req.DoorID, Result: codec.ResultSuccess}
		respHeader := codec.Header{
			ServiceID: h.ServiceID, MethodOrEventID: h.MethodOrEventID, ClientID: h.ClientID, SessionID: h.SessionID,
			MessageType: codec.MessageTypeResponse, ReturnCode: codec.ReturnCodeOK,
		}
		return respHeader, resp.Encode()
	})

	waitLive(t, cl, doorServiceKey)

	ctx, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	resp, err := cl.SetLockState(ctx, codec.PositionFR, codec.LockCommandLock)
	require.NoError(t, err)
	assert.Equal(t, codec.PositionFR, resp.DoorID)
	assert.Equal(t, codec.ResultSuccess, resp.Result)
}

func TestCallSurfacesProviderErrorResponse(t *testing.T) {
	cl, provider, cancel := testClient(t, doorServiceKey)
	defer cancel()

	provider.serve(t, context.Background(), func(h codec.Header, _ []byte) (codec.Header, []byte) {
		respHeader := codec.Header{
			ServiceID: h.ServiceID, MethodOrEventID: h.MethodOrEventID, ClientID: h.ClientID, SessionID: h.SessionID,
			MessageType: codec.MessageTypeError, ReturnCode: codec.ReturnCodeUnknownMethod,
		}
		return respHeader, nil
	})

	waitLive(t, cl, doorServiceKey)

	ctx, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	_, err := cl.GetLockState(ctx, codec.PositionFR)
	require.Error(t, err)
	var terr *taxonomy.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, taxonomy.KindUnknownMethod, terr.Kind)
}

func TestCallTimesOutWhenProviderNeverResponds(t *testing.T) {
	cl, provider, cancel := testClient(t, doorServiceKey)
	defer cancel()
	// acks the subscription so the service goes LIVE, never answers requests
	provider.serve(t, context.Background(), nil)

	waitLive(t, cl, doorServiceKey)

	ctx, cancel2 := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel2()
	_, err := cl.GetLockState(ctx, codec.PositionFR)
	require.Error(t, err)
	var terr *taxonomy.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, taxonomy.KindTimeout, terr.Kind)
}

func TestRegisterDoorClientDispatchesNotifications(t *testing.T) {
	cl, provider, cancel := testClient(t, doorServiceKey)
	defer cancel()
	provider.serve(t, context.Background(), nil)
	waitLive(t, cl, doorServiceKey)

	lockCh := make(chan codec.OnLockStateChangedData, 1)
	stateCh := make(chan codec.OnDoorStateChangedData, 1)
	cl.RegisterDoorClient(
		func(evt codec.OnLockStateChangedData) { lockCh <- evt },
		func(evt codec.OnDoorStateChangedData) { stateCh <- evt },
	)

	evt := codec.OnLockStateChangedData{DoorID: codec.PositionRL, NewLockState: codec.LockStateLocked}
	h := codec.Header{ServiceID: uint16(catalog.ServiceDoor), MethodOrEventID: catalog.EventLockStateChanged, MessageType: codec.MessageTypeNotification, ReturnCode: codec.ReturnCodeOK}
	wire := codec.EncodeMessage(h, evt.Encode())
	_, err := provider.conn.WriteToUDP(wire, &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: int(cl.RT.Endpoint.LocalPort())})
	require.NoError(t, err)

	select {
	case got := <-lockCh:
		assert.Equal(t, evt, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for OnLockStateChanged dispatch")
	}
}

// Package client implements the client engine described in spec §4.5: the
// gateway's half of each SOME/IP service — typed request/response
// operations over a future, availability-driven (re)subscription, and
// notification dispatch into user callbacks.
package client

import (
	"context"
	"net"
	"sync"

	"github.com/apex/log"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

// Client is the shared transport/availability wiring every service's typed
// operation set (door.go, window.go, light.go, seat.go) is built on.
type Client struct {
	RT       *someip.Runtime
	Avail    *someip.ClientAvailability
	clientID uint16

	mu          sync.Mutex
	onAvailable map[someip.ServiceKey][]func()
}

// New builds a Client bound to rt and avail. clientID identifies this
// gateway instance in every request header it issues.
func New(rt *someip.Runtime, avail *someip.ClientAvailability, clientID uint16) *Client {
	return &Client{
		RT:          rt,
		Avail:       avail,
		clientID:    clientID,
		onAvailable: make(map[someip.ServiceKey][]func()),
	}
}

// OnAvailable registers a callback invoked every time svc transitions to
// LIVE, per spec §4.5's "invoke user service-available callbacks".
func (c *Client) OnAvailable(svc someip.ServiceKey, cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAvailable[svc] = append(c.onAvailable[svc], cb)
}

// HandleAvailabilityChange is wired as the someip.AvailabilityCallback for
// this client's someip.ClientAvailability.
func (c *Client) HandleAvailabilityChange(svc someip.ServiceKey, state someip.ClientState) {
	if state != someip.ClientLive {
		return
	}
	c.mu.Lock()
	cbs := append([]func(){}, c.onAvailable[svc]...)
	c.mu.Unlock()
	for _, cb := range cbs {
		cb()
	}
}

// IsLive reports whether svc is currently available, for the gateway's
// mock-fallback decision.
func (c *Client) IsLive(svc someip.ServiceKey) bool {
	return c.Avail.State(svc) == someip.ClientLive
}

// call issues one method request and blocks until it resolves, the caller's
// context is cancelled, or the in-flight table's own timeout fires —
// whichever happens first, per spec §4.5's "issue request" and §5's
// "the HTTP deadline cancels the client-engine future" cancellation model.
func (c *Client) call(ctx context.Context, svc someip.ServiceKey, methodID uint16, payload []byte) (codec.Header, []byte, error) {
	ep, ok := c.Avail.Endpoint(svc)
	if !ok || c.Avail.State(svc) != someip.ClientLive {
		return codec.Header{}, nil, taxonomy.New(taxonomy.KindServiceUnavailable, "service is not live")
	}

	resultCh, cancel := c.RT.SendRequest(ep, svc, methodID, c.clientID, payload)
	select {
	case res, ok := <-resultCh:
		if !ok {
			return codec.Header{}, nil, taxonomy.New(taxonomy.KindTransportDown, "request channel closed without a result")
		}
		if res.Err != nil {
			return codec.Header{}, nil, res.Err
		}
		if res.Header.MessageType == codec.MessageTypeError {
			return res.Header, nil, taxonomy.New(taxonomy.FromReturnCode(res.Header.ReturnCode), "provider returned an error response")
		}
		return res.Header, res.Payload, nil
	case <-ctx.Done():
		cancel()
		return codec.Header{}, nil, taxonomy.New(taxonomy.KindTimeout, "request cancelled by caller deadline")
	}
}

// resolveResponse is registered against both MessageTypeResponse and
// MessageTypeError for every method this client calls; it matches the
// inbound frame to its in-flight record by (service, session id) and
// resolves it, per spec §4.5's "match response" responsibility.
func (c *Client) resolveResponse(_ *net.UDPAddr, h codec.Header, payload []byte) {
	svc := someip.ServiceKey{ServiceID: catalog.Service(h.ServiceID), InstanceID: catalog.InstanceID}
	if !c.RT.InFlight.Resolve(svc, h.SessionID, someip.PendingResult{Header: h, Payload: payload}) {
		log.WithField("service", svc.String()).WithField("session", h.SessionID).Debug("dropped response with no matching in-flight record")
	}
}

// registerCall wires the response/error dispatch for one method.
func (c *Client) registerCall(svc someip.ServiceKey, methodID uint16) {
	c.RT.On(svc, methodID, codec.MessageTypeResponse, c.resolveResponse)
	c.RT.On(svc, methodID, codec.MessageTypeError, c.resolveResponse)
}

package someip

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
)

// dispatchKey routes one inbound message type to its handler.
type dispatchKey struct {
	svc  ServiceKey
	id   uint16
	kind codec.MessageType
}

// DispatchHandler processes one decoded inbound message.
type DispatchHandler func(src *net.UDPAddr, h codec.Header, payload []byte)

// Runtime is the shared transport core both the provider and client engines
// build their role-specific behavior on top of: one UDP endpoint, a session
// counter, an in-flight request table, and a dispatch table routing inbound
// messages by (service_key, method_or_event_id, message_type), per spec
// §4.3.
type Runtime struct {
	Name     string
	Endpoint *Endpoint
	Sessions *SessionCounter
	InFlight *InFlightTable

	mu       sync.RWMutex
	handlers map[dispatchKey]DispatchHandler

	// DiscoveryHandler processes offer/subscribe pseudo-frames; the
	// provider and client runtimes each install their own (provider cares
	// about Subscribe, client cares about Offer/StopOffer).
	DiscoveryHandler func(src *net.UDPAddr, kind uint16, payload []byte)

	group  *errgroup.Group
	cancel context.CancelFunc
}

// NewRuntime builds a Runtime bound to a UDP endpoint on the given port (0
// for an ephemeral client-side port).
func NewRuntime(name string, port uint16, inFlightTimeout time.Duration) (*Runtime, error) {
	ep, err := ListenEndpoint(name, port)
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Name:     name,
		Endpoint: ep,
		Sessions: NewSessionCounter(),
		InFlight: NewInFlightTable(inFlightTimeout),
		handlers: make(map[dispatchKey]DispatchHandler),
	}, nil
}

// On registers the handler invoked for inbound messages matching
// (svc, id, kind). Re-registering the same key replaces the handler.
func (r *Runtime) On(svc ServiceKey, id uint16, kind codec.MessageType, h DispatchHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[dispatchKey{svc: svc, id: id, kind: kind}] = h
}

// Start begins the receive loop in a managed goroutine; Stop cancels it and
// waits for it to exit.
func (r *Runtime) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	r.group = g
	g.Go(func() error {
		return r.Endpoint.Serve(gctx, r.dispatch)
	})
}

// Stop halts the receive loop, fails every outstanding in-flight request
// with TransportDown, and releases the socket.
func (r *Runtime) Stop() error {
	if r.cancel != nil {
		r.cancel()
	}
	r.InFlight.FailAll()
	var err error
	if r.group != nil {
		err = r.group.Wait()
	}
	return err
}

func (r *Runtime) dispatch(src *net.UDPAddr, data []byte) {
	h, payload, err := codec.DecodeMessage(data)
	if err != nil {
		log.WithField("runtime", r.Name).WithError(err).Debug("dropped malformed inbound frame")
		return
	}

	if kind, ok := isDiscoveryFrame(h); ok {
		if r.DiscoveryHandler != nil {
			r.DiscoveryHandler(src, kind, payload)
		}
		return
	}

	svc := ServiceKey{ServiceID: serviceIDFromWire(h.ServiceID), InstanceID: catalog.InstanceID}

	r.mu.RLock()
	handler, ok := r.handlers[dispatchKey{svc: svc, id: h.MethodOrEventID, kind: h.MessageType}]
	r.mu.RUnlock()
	if !ok {
		log.WithField("runtime", r.Name).
			WithField("service", svc.String()).
			WithField("id", h.MethodOrEventID).
			Debug("no handler registered for inbound message")
		return
	}
	handler(src, h, payload)
}


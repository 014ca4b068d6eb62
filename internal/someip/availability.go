package someip

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/cenkalti/backoff/v4"
	cache "github.com/patrickmn/go-cache"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
)

// AvailabilityCallback is invoked whenever a service's ClientState changes.
type AvailabilityCallback func(svc ServiceKey, state ClientState)

// ClientAvailability tracks, per service, whether offers are still arriving
// within the TTL window (spec §4.3: "if no offer within TTL the service is
// marked unavailable"), and the provider's advertised endpoint address.
type ClientAvailability struct {
	rt   *Runtime
	subs map[ServiceKey][]EventGroupKey // desired subscriptions, sent when an offer moves a service out of UNKNOWN

	mu       sync.RWMutex
	state    map[ServiceKey]ClientState
	endpoint map[ServiceKey]*net.UDPAddr

	offers   *cache.Cache
	onChange AvailabilityCallback

	localPort uint16
}

// NewClientAvailability builds a tracker for the given desired services.
// localPort is advertised to the provider in Subscribe frames so it knows
// where to send notifications back.
func NewClientAvailability(rt *Runtime, localPort uint16, desired map[ServiceKey][]EventGroupKey, onChange AvailabilityCallback) *ClientAvailability {
	a := &ClientAvailability{
		rt:        rt,
		subs:      desired,
		state:     make(map[ServiceKey]ClientState),
		endpoint:  make(map[ServiceKey]*net.UDPAddr),
		offers:    cache.New(catalog.OfferTTL, catalog.OfferTTL/2),
		onChange:  onChange,
		localPort: localPort,
	}
	for svc := range desired {
		a.state[svc] = ClientUnknown
	}
	a.offers.OnEvicted(func(key string, v interface{}) {
		svc := v.(ServiceKey)
		a.transition(svc, ClientUnknown)
	})
	rt.DiscoveryHandler = a.handleDiscovery
	return a
}

// State returns the current availability of svc.
func (a *ClientAvailability) State(svc ServiceKey) ClientState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state[svc]
}

// Endpoint returns the provider address last advertised for svc, if known.
func (a *ClientAvailability) Endpoint(svc ServiceKey) (*net.UDPAddr, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ep, ok := a.endpoint[svc]
	return ep, ok
}

func (a *ClientAvailability) transition(svc ServiceKey, to ClientState) {
	a.mu.Lock()
	from := a.state[svc]
	if from == to {
		a.mu.Unlock()
		return
	}
	a.state[svc] = to
	a.mu.Unlock()

	log.WithField("service", svc.String()).WithField("from", from.String()).WithField("to", to.String()).Info("client availability transition")
	if a.onChange != nil {
		a.onChange(svc, to)
	}
}

func (a *ClientAvailability) handleDiscovery(src *net.UDPAddr, kind uint16, payload []byte) {
	switch kind {
	case discoveryOffer:
		o, err := decodeOffer(payload)
		if err != nil {
			return
		}
		if _, wanted := a.subs[o.Service]; !wanted {
			return
		}
		a.mu.Lock()
		a.endpoint[o.Service] = &net.UDPAddr{IP: src.IP, Port: int(o.Port)}
		a.mu.Unlock()
		a.offers.SetDefault(o.Service.String(), o.Service)

		if a.State(o.Service) == ClientUnknown {
			a.transition(o.Service, ClientDiscovered)
			a.subscribeAll(o.Service)
		}
	case discoveryStopOffer:
		o, err := decodeOffer(payload)
		if err != nil {
			return
		}
		a.offers.Delete(o.Service.String())
		a.transition(o.Service, ClientUnknown)
	case discoverySubscribeAck:
		sub, err := decodeSubscribe(payload)
		if err != nil {
			return
		}
		a.transition(sub.Group.ServiceKey, ClientLive)
	}
}

func (a *ClientAvailability) subscribeAll(svc ServiceKey) {
	ep, ok := a.Endpoint(svc)
	if !ok {
		return
	}
	for _, group := range a.subs[svc] {
		frame := encodeSubscribe(SubscribeFrame{Group: group, ClientPort: a.localPort}, false)
		if err := a.rt.Endpoint.Send(ep, frame); err != nil {
			log.WithField("group", group.GroupID).WithError(err).Warn("failed to send subscribe")
		}
	}
}

// RetryDiscovery resends Subscribe for any service stuck DISCOVERED (offer
// seen but no SubscribeAck yet) using an exponential backoff, so a dropped
// Subscribe datagram doesn't strand the service below LIVE forever.
func (a *ClientAvailability) RetryDiscovery(ctx context.Context) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = catalog.ServiceDiscoveryTimeout
	ticker := backoff.NewTicker(bo)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			for svc := range a.subs {
				if a.State(svc) == ClientDiscovered {
					a.subscribeAll(svc)
				}
			}
		}
	}
}

package someip

import (
	"context"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/go-co-op/gocron/v2"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
)

// OfferedService is one service a ServiceAnnouncer cyclically advertises.
type OfferedService struct {
	Key  ServiceKey
	Port uint16
}

// subscriberSet tracks, for one event-group, the addresses that have
// subscribed and are still considered live.
type subscriberSet struct {
	mu      sync.Mutex
	members map[string]*net.UDPAddr
}

func newSubscriberSet() *subscriberSet {
	return &subscriberSet{members: make(map[string]*net.UDPAddr)}
}

func (s *subscriberSet) add(addr *net.UDPAddr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[addr.String()] = addr
}

func (s *subscriberSet) remove(addr *net.UDPAddr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.members, addr.String())
}

func (s *subscriberSet) all() []*net.UDPAddr {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*net.UDPAddr, 0, len(s.members))
	for _, a := range s.members {
		out = append(out, a)
	}
	return out
}

// ServiceAnnouncer is the provider side of discovery: it cyclically offers
// a set of services and tracks their subscribers, per spec §4.3.
type ServiceAnnouncer struct {
	rt       *Runtime
	target   *net.UDPAddr
	services []OfferedService
	state    map[ServiceKey]ProviderState
	mu       sync.RWMutex
	subs     map[EventGroupKey]*subscriberSet
	sched    gocron.Scheduler
}

// NewServiceAnnouncer builds an announcer that broadcasts offers for
// services to discoveryTarget (typically a broadcast address on the
// service-discovery port, catalog.ServiceDiscoveryPort).
func NewServiceAnnouncer(rt *Runtime, discoveryTarget *net.UDPAddr, services []OfferedService) (*ServiceAnnouncer, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	a := &ServiceAnnouncer{
		rt:       rt,
		target:   discoveryTarget,
		services: services,
		state:    make(map[ServiceKey]ProviderState),
		subs:     make(map[EventGroupKey]*subscriberSet),
		sched:    sched,
	}
	for _, s := range services {
		a.state[s.Key] = ProviderInit
		a.subs[EventGroupKey{ServiceKey: s.Key, GroupID: catalog.EventGroup}] = newSubscriberSet()
	}
	rt.DiscoveryHandler = a.handleDiscovery
	return a, nil
}

// Start begins offering every configured service: an initial jittered
// announcement (10-100ms) followed by a cyclic one every
// catalog.OfferInterval, per spec §4.3.
func (a *ServiceAnnouncer) Start(ctx context.Context) error {
	for _, s := range a.services {
		a.mu.Lock()
		a.state[s.Key] = ProviderOffered
		a.mu.Unlock()

		s := s
		jitter := catalog.JitterMin + time.Duration(rand.Int63n(int64(catalog.JitterMax-catalog.JitterMin)))
		time.AfterFunc(jitter, func() { a.sendOffer(s) })

		_, err := a.sched.NewJob(
			gocron.DurationJob(catalog.OfferInterval),
			gocron.NewTask(func() { a.sendOffer(s) }),
		)
		if err != nil {
			return err
		}
	}
	a.sched.Start()
	go func() {
		<-ctx.Done()
		_ = a.Stop()
	}()
	return nil
}

// Stop sends a final empty/stop-offer for every service and shuts the
// scheduler down, per spec §4.3's "a final empty offer signals withdrawal".
func (a *ServiceAnnouncer) Stop() error {
	for _, s := range a.services {
		a.mu.Lock()
		a.state[s.Key] = ProviderWithdrawn
		a.mu.Unlock()
		a.sendStopOffer(s)
	}
	return a.sched.Shutdown()
}

func (a *ServiceAnnouncer) sendOffer(s OfferedService) {
	frame := encodeOffer(OfferFrame{Service: s.Key, Port: s.Port, TTL: uint16(catalog.OfferTTL / time.Second)}, discoveryOffer)
	if err := a.rt.Endpoint.Send(a.target, frame); err != nil {
		log.WithField("service", s.Key.String()).WithError(err).Warn("failed to send offer")
	}
}

func (a *ServiceAnnouncer) sendStopOffer(s OfferedService) {
	frame := encodeOffer(OfferFrame{Service: s.Key, Port: s.Port, TTL: 0}, discoveryStopOffer)
	_ = a.rt.Endpoint.Send(a.target, frame)
}

func (a *ServiceAnnouncer) handleDiscovery(src *net.UDPAddr, kind uint16, payload []byte) {
	if kind != discoverySubscribe {
		return
	}
	sub, err := decodeSubscribe(payload)
	if err != nil {
		log.WithError(err).Debug("dropped malformed subscribe frame")
		return
	}
	set, ok := a.subs[sub.Group]
	if !ok {
		return
	}
	subAddr := &net.UDPAddr{IP: src.IP, Port: int(sub.ClientPort)}
	set.add(subAddr)
	ack := encodeSubscribe(sub, true)
	_ = a.rt.Endpoint.Send(src, ack)
}

// Publish sends a notification payload to every live subscriber of group.
func (a *ServiceAnnouncer) Publish(group EventGroupKey, eventID uint16, payload []byte) {
	set, ok := a.subs[group]
	if !ok {
		return
	}
	h := codecNotificationHeader(group.ServiceKey, eventID)
	frame := frameMessage(h, payload)
	for _, addr := range set.all() {
		if err := a.rt.Endpoint.Send(addr, frame); err != nil {
			log.WithField("subscriber", addr.String()).WithError(err).Debug("notification write failed, dropping subscriber")
			set.remove(addr)
		}
	}
}

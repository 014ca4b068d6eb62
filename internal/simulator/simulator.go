// Package simulator drives the hardware simulator described in spec §4.7: a
// cooperative background task that periodically perturbs the provider's
// domain state and emits the matching notification, plus synchronous
// trigger entry points a method handler can call directly.
//
// It depends on internal/bodystate (to read current state before choosing a
// new value), the internal/codec and internal/catalog value types, and a
// narrow Publisher interface satisfied
// structurally by internal/provider.Engine — it does not import
// internal/provider, which is what lets internal/provider import
// internal/simulator without a cycle.
package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/bodycontrol/someip-gateway/internal/bodystate"
	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
)

// Publisher is the set of provider-side entry points the simulator needs to
// push a state change out as a SOME/IP notification. internal/provider.Engine
// implements this.
type Publisher interface {
	PublishDoorAjarChanged(id codec.Position, ajar codec.DoorState)
	PublishWindowPosition(id codec.Position, percent uint8)
	PublishLightChanged(lightType codec.LightType, newState uint8)
	PublishSeatPositionChanged(axis codec.SeatAxis, raw uint8)
	PublishMemorySaveConfirm(presetID uint8, result codec.Result)
}

// family enumerates the five event families spec §4.7 chooses uniformly
// among on each tick.
type family int

const (
	familyDoor family = iota
	familyWindow
	familyLight
	familySeatPosition
	familySeatMemory
	familyCount
)

// Config controls the simulator's background cadence, per spec §4.7.
type Config struct {
	EventInterval     time.Duration
	AutoEventsEnabled bool
	Seed              int64
}

// Simulator owns the PRNG and ticks, mutating bodystate.Store and publishing
// through Publisher. Per spec §5, the PRNG is single-producer
// single-consumer, confined to this task — no lock needed around it.
type Simulator struct {
	store   *bodystate.Store
	pub     Publisher
	rng     *rand.Rand
	cfg     Config
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New builds a Simulator over the given shared store and publisher.
func New(store *bodystate.Store, pub Publisher, cfg Config) *Simulator {
	return &Simulator{
		store: store,
		pub:   pub,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
		cfg:   cfg,
	}
}

// Start launches the tick loop as a long-lived task under group, per spec
// §5's "the simulator loop [is] a long-lived task" and its only suspension
// point, "sleeping between ticks". A no-op if AutoEventsEnabled is false.
func (s *Simulator) Start(ctx context.Context, group *errgroup.Group) {
	if !s.cfg.AutoEventsEnabled {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	group.Go(func() error {
		ticker := time.NewTicker(s.cfg.EventInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.tick()
			}
		}
	})
}

// Stop cancels the tick loop. Safe to call even if Start was never invoked.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && s.cancel != nil {
		s.cancel()
		s.running = false
	}
}

// tick chooses one event family uniformly and perturbs one randomly-chosen
// element within it, per spec §4.7.
func (s *Simulator) tick() {
	switch family(s.rng.Intn(int(familyCount))) {
	case familyDoor:
		s.TriggerDoorToggle(codec.Position(s.rng.Intn(4)))
	case familyWindow:
		s.TriggerWindowMove(codec.Position(s.rng.Intn(4)))
	case familyLight:
		s.triggerRandomLight()
	case familySeatPosition:
		s.triggerRandomSeatAxis()
	case familySeatMemory:
		s.TriggerMemorySaveConfirm(catalog.PresetIDs[s.rng.Intn(len(catalog.PresetIDs))])
	}
}

// TriggerDoorToggle flips one door's ajar state. Exposed as a synchronous
// trigger per spec §4.7 for a method handler to call directly, in addition
// to the background tick's own use of it.
func (s *Simulator) TriggerDoorToggle(id codec.Position) {
	cur := s.store.Door(id).Ajar
	next := codec.DoorStateClosed
	if cur == codec.DoorStateClosed {
		next = codec.DoorStateOpen
	}
	s.pub.PublishDoorAjarChanged(id, next)
	log.WithField("door_id", id).WithField("ajar", next).Debug("simulator toggled door")
}

// TriggerWindowMove draws a new window position within its domain.
func (s *Simulator) TriggerWindowMove(id codec.Position) {
	next := uint8(s.rng.Intn(101))
	s.pub.PublishWindowPosition(id, next)
	log.WithField("window_id", id).WithField("position", next).Debug("simulator moved window")
}

func (s *Simulator) triggerRandomLight() {
	switch s.rng.Intn(3) {
	case 0:
		cur := s.store.Headlight()
		next := codec.HeadlightOff
		if cur == codec.HeadlightOff {
			next = codec.HeadlightLow
		}
		s.pub.PublishLightChanged(codec.LightTypeHeadlight, uint8(next))
	case 1:
		cur := s.store.Indicator()
		next := codec.IndicatorOff
		if cur == codec.IndicatorOff {
			next = codec.IndicatorLeft
		}
		s.pub.PublishLightChanged(codec.LightTypeIndicator, uint8(next))
	default:
		cur := s.store.PositionLight()
		next := codec.PositionLightOff
		if cur == codec.PositionLightOff {
			next = codec.PositionLightOn
		}
		s.pub.PublishLightChanged(codec.LightTypePosition, uint8(next))
	}
}

func (s *Simulator) triggerRandomSeatAxis() {
	if s.rng.Intn(2) == 0 {
		next := bodystate.ClampForeAft(s.rng.Intn(201) - 100)
		s.pub.PublishSeatPositionChanged(codec.SeatAxisForeAft, uint8(next))
		return
	}
	next := bodystate.ClampRecline(s.rng.Intn(91))
	s.pub.PublishSeatPositionChanged(codec.SeatAxisRecline, next)
}

// TriggerMemorySaveConfirm spontaneously re-confirms a saved preset.
func (s *Simulator) TriggerMemorySaveConfirm(presetID uint8) {
	s.pub.PublishMemorySaveConfirm(presetID, codec.ResultSuccess)
}

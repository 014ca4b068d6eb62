// Package bodystate holds the in-memory domain entities §3 of the spec
// describes (door, window, light group, seat axes) and is shared by the
// provider's method handlers and the hardware simulator's background
// ticks — both mutate the same state, which is why it lives outside either
// package rather than being owned by one of them.
package bodystate

import (
	"sync"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

// Store owns every domain entity's current value behind one RWMutex shared
// by all entity families — exclusively, per spec §5: "any external mutation goes
// through a message/request."
type Store struct {
	mu sync.RWMutex

	doors   [4]DoorState
	windows [4]uint8 // percent, 0..100

	headlight    codec.HeadlightState
	indicator    codec.IndicatorState
	positionLight codec.PositionLightState

	seatForeAft int8 // -100..100
	seatRecline uint8 // 0..90
	presets     map[uint8]SeatPreset
}

// DoorState is one door's lock + ajar state.
type DoorState struct {
	Lock codec.LockState
	Ajar codec.DoorState
}

// SeatPreset is a saved (fore_aft, recline) pair for one memory preset.
type SeatPreset struct {
	ForeAft int8
	Recline uint8
}

// NewStore returns a Store initialized to the restart defaults from spec
// §6: windows 50%, doors unlocked/closed, lights off, seat fore_aft=0,
// recline=45, and presets 1..3 each holding (fore_aft=0, recline=45).
func NewStore() *Store {
	s := &Store{presets: make(map[uint8]SeatPreset)}
	for i := range s.windows {
		s.windows[i] = 50
	}
	for i := range s.doors {
		s.doors[i] = DoorState{Lock: codec.LockStateUnlocked, Ajar: codec.DoorStateClosed}
	}
	s.seatForeAft = 0
	s.seatRecline = 45
	for _, id := range [...]uint8{1, 2, 3} {
		s.presets[id] = SeatPreset{ForeAft: 0, Recline: 45}
	}
	return s
}

// --- doors ---

func (s *Store) Door(id codec.Position) DoorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doors[id]
}

func (s *Store) SetDoorLock(id codec.Position, lock codec.LockState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.doors[id]
	d.Lock = lock
	s.doors[id] = d
}

func (s *Store) SetDoorAjar(id codec.Position, ajar codec.DoorState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.doors[id]
	d.Ajar = ajar
	s.doors[id] = d
}

// --- windows ---

func (s *Store) Window(id codec.Position) uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.windows[id]
}

func (s *Store) SetWindow(id codec.Position, percent uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows[id] = percent
}

// --- lights ---

func (s *Store) Headlight() codec.HeadlightState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headlight
}

func (s *Store) SetHeadlight(v codec.HeadlightState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headlight = v
}

func (s *Store) Indicator() codec.IndicatorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indicator
}

func (s *Store) SetIndicator(v codec.IndicatorState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.indicator = v
}

func (s *Store) PositionLight() codec.PositionLightState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.positionLight
}

func (s *Store) SetPositionLight(v codec.PositionLightState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positionLight = v
}

// --- seat ---

func (s *Store) SeatForeAft() int8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seatForeAft
}

func (s *Store) SeatRecline() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seatRecline
}

func (s *Store) SetSeatForeAft(v int8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seatForeAft = v
}

func (s *Store) SetSeatRecline(v uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seatRecline = v
}

func (s *Store) SavePreset(id uint8) SeatPreset {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := SeatPreset{ForeAft: s.seatForeAft, Recline: s.seatRecline}
	s.presets[id] = p
	return p
}

func (s *Store) Preset(id uint8) (SeatPreset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.presets[id]
	return p, ok
}

// ClampForeAft bounds v to the [-100, 100] domain from spec §3.
func ClampForeAft(v int) int8 {
	if v < -100 {
		return -100
	}
	if v > 100 {
		return 100
	}
	return int8(v)
}

// ClampRecline bounds v to the [0, 90] domain from spec §3.
func ClampRecline(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 90 {
		return 90
	}
	return uint8(v)
}

// ClampPercent bounds v to the [0, 100] domain used by window position.
func ClampPercent(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return uint8(v)
}

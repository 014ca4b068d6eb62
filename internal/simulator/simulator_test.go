package simulator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/bodycontrol/someip-gateway/internal/bodystate"
	"github.com/bodycontrol/someip-gateway/internal/codec"
)

// fakePublisher records every Publish* call the simulator makes, so tests
// can assert on what was emitted without a real SOME/IP transport.
type fakePublisher struct {
	mu    sync.Mutex
	calls []string

	ajar            []codec.DoorState
	windowPositions []uint8
	saveResults     []codec.Result
}

func (f *fakePublisher) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakePublisher) PublishDoorAjarChanged(_ codec.Position, ajar codec.DoorState) {
	f.mu.Lock()
	f.ajar = append(f.ajar, ajar)
	f.mu.Unlock()
	f.record("door")
}

func (f *fakePublisher) PublishWindowPosition(_ codec.Position, percent uint8) {
	f.mu.Lock()
	f.windowPositions = append(f.windowPositions, percent)
	f.mu.Unlock()
	f.record("window")
}

func (f *fakePublisher) PublishLightChanged(codec.LightType, uint8)                { f.record("light") }
func (f *fakePublisher) PublishSeatPositionChanged(codec.SeatAxis, uint8)          { f.record("seat_position") }

func (f *fakePublisher) PublishMemorySaveConfirm(_ uint8, result codec.Result) {
	f.mu.Lock()
	f.saveResults = append(f.saveResults, result)
	f.mu.Unlock()
	f.record("seat_memory")
}

func TestTriggerDoorToggleFlipsAjarState(t *testing.T) {
	store := bodystate.NewStore()
	pub := &fakePublisher{}
	sim := New(store, pub, Config{Seed: 1})

	require.Equal(t, codec.DoorStateClosed, store.Door(codec.PositionFR).Ajar)
	sim.TriggerDoorToggle(codec.PositionFR)
	assert.Equal(t, 1, pub.count())
	assert.Equal(t, []codec.DoorState{codec.DoorStateOpen}, pub.ajar)
}

func TestTriggerWindowMoveStaysInDomain(t *testing.T) {
	store := bodystate.NewStore()
	pub := &fakePublisher{}
	sim := New(store, pub, Config{Seed: 2})

	for i := 0; i < 50; i++ {
		sim.TriggerWindowMove(codec.PositionFL)
	}
	assert.Equal(t, 50, pub.count())
	for _, p := range pub.windowPositions {
		assert.LessOrEqual(t, p, uint8(100))
	}
}

func TestTriggerMemorySaveConfirmAlwaysSucceeds(t *testing.T) {
	store := bodystate.NewStore()
	pub := &fakePublisher{}
	sim := New(store, pub, Config{Seed: 3})

	sim.TriggerMemorySaveConfirm(2)
	assert.Equal(t, 1, pub.count())
	assert.Equal(t, []codec.Result{codec.ResultSuccess}, pub.saveResults)
}

func TestTickChoosesAmongAllFamilies(t *testing.T) {
	store := bodystate.NewStore()
	pub := &fakePublisher{}
	sim := New(store, pub, Config{Seed: 42})

	for i := 0; i < 500; i++ {
		sim.tick()
	}
	// every tick publishes exactly one event, regardless of family chosen
	assert.Equal(t, 500, pub.count())

	families := make(map[string]bool)
	for _, name := range pub.calls {
		families[name] = true
	}
	assert.Len(t, families, 5)
}

func TestStartRespectsAutoEventsDisabled(t *testing.T) {
	store := bodystate.NewStore()
	pub := &fakePublisher{}
	sim := New(store, pub, Config{EventInterval: 5 * time.Millisecond, AutoEventsEnabled: false, Seed: 1})

	group, ctx := errgroup.WithContext(context.Background())
	sim.Start(ctx, group)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, pub.count())
}

func TestStartTicksUntilStop(t *testing.T) {
	store := bodystate.NewStore()
	pub := &fakePublisher{}
	sim := New(store, pub, Config{EventInterval: 5 * time.Millisecond, AutoEventsEnabled: true, Seed: 7})

	group, ctx := errgroup.WithContext(context.Background())
	sim.Start(ctx, group)

	require.Eventually(t, func() bool { return pub.count() > 0 }, time.Second, 10*time.Millisecond)

	sim.Stop()
	countAtStop := pub.count()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, countAtStop, pub.count(), "Stop should halt further ticks")
	require.NoError(t, group.Wait())
}

func TestStopIsSafeWithoutStart(t *testing.T) {
	store := bodystate.NewStore()
	pub := &fakePublisher{}
	sim := New(store, pub, Config{Seed: 1})
	assert.NotPanics(t, func() { sim.Stop() })
}

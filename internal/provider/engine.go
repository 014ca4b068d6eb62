// Package provider implements the service-provider engine: for each of the
// four body-domain services, it registers SOME/IP method handlers against a
// someip.Runtime, mutates the shared bodystate.Store, and schedules the
// settling-time notification every successful mutation must emit.
package provider

import (
	"math/rand"
	"net"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/gammazero/workerpool"

	"github.com/bodycontrol/someip-gateway/internal/bodystate"
	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/metrics"
	"github.com/bodycontrol/someip-gateway/internal/simulator"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

// Engine wires the transport runtime, domain state, and settling-time
// scheduler together. One Engine drives all four services — each service's
// handlers are installed by a Register* method in this package.
type Engine struct {
	RT         *someip.Runtime
	Announcer  *someip.ServiceAnnouncer
	Store      *bodystate.Store
	Simulator  *simulator.Simulator
	settlePool *workerpool.WorkerPool
	rng        *rand.Rand
	motion     *seatMotion
}

// NewEngine builds an Engine with its own settling-time worker pool and a
// seedable PRNG driving the 95% simulated-success-rate coin flip, per spec
// §4.4. The simulator is wired in afterward via SetSimulator, since building
// a *simulator.Simulator requires the Engine itself as its Publisher.
func NewEngine(rt *someip.Runtime, announcer *someip.ServiceAnnouncer, store *bodystate.Store, seed int64) *Engine {
	return &Engine{
		RT:         rt,
		Announcer:  announcer,
		Store:      store,
		settlePool: workerpool.New(8),
		rng:        rand.New(rand.NewSource(seed)),
		motion:     newSeatMotion(),
	}
}

// SetSimulator attaches the hardware simulator this engine hosts. Called
// once during startup, after the simulator has been constructed with this
// same Engine as its Publisher.
func (e *Engine) SetSimulator(sim *simulator.Simulator) {
	e.Simulator = sim
}

// Stop drains the settling-time worker pool: every settle task already
// submitted, queued or running, runs to completion (delay and notification
// included) before Stop returns; no task is cancelled.
func (e *Engine) Stop() {
	e.settlePool.StopWait()
}

// simulateResult flips the shared success-rate coin: 95% Result_SUCCESS,
// 5% Result_FAIL, per spec §4.4.
func (e *Engine) simulateResult() codec.Result {
	if e.rng.Float64() < catalog.SimulatedSuccessRate {
		return codec.ResultSuccess
	}
	return codec.ResultFail
}

// settleAfter schedules fn to run on the settling-time worker pool after
// delay, modelling hardware settling time without blocking the transport's
// dispatch goroutine, per spec §4.4's "any delay >1ms must be modelled by
// scheduling the response on a worker task".
func (e *Engine) settleAfter(delay time.Duration, fn func()) {
	e.settlePool.Submit(func() {
		time.Sleep(delay)
		fn()
	})
}

func (e *Engine) publish(group catalog.Service, eventID uint16, payload []byte) {
	key := someip.EventGroupKey{
		ServiceKey: someip.ServiceKey{ServiceID: group, InstanceID: catalog.InstanceID},
		GroupID:    catalog.EventGroup,
	}
	e.Announcer.Publish(key, eventID, payload)
	metrics.NotificationsTotal.WithLabelValues(group.String(), strconv.Itoa(int(eventID))).Inc()
}

func logRequest(service, method string, fields log.Fields) {
	entry := log.WithField("service", service).WithField("method", method)
	for k, v := range fields {
		entry = entry.WithField(k, v)
	}
	entry.Debug("handled request")
}

// errorRespond wraps rt.RespondError with logging consistent across every
// service's handlers.
func errorRespond(rt *someip.Runtime, src *net.UDPAddr, h codec.Header, rc codec.ReturnCode) {
	if err := rt.RespondError(src, h, rc); err != nil {
		log.WithError(err).Warn("failed to send error response")
	}
}

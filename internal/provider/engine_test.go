package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

func TestSimulateResultApproximatesConfiguredSuccessRate(t *testing.T) {
	engine, _ := testEngine(t)

	const trials = 20000
	successes := 0
	for i := 0; i < trials; i++ {
		if engine.simulateResult() == codec.ResultSuccess {
			successes++
		}
	}

	ratio := float64(successes) / float64(trials)
	assert.InDelta(t, 0.95, ratio, 0.02)
}

func TestNewEngineStopDrainsSettlePool(t *testing.T) {
	engine, _ := testEngine(t)

	done := make(chan struct{})
	engine.settleAfter(0, func() { close(done) })
	engine.Stop()

	select {
	case <-done:
	default:
		t.Fatal("Stop should wait for already-submitted settle tasks to finish")
	}
}

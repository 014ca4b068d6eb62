package someip

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

func testService() ServiceKey {
	return ServiceKey{ServiceID: catalog.ServiceDoor, InstanceID: catalog.InstanceID}
}

func TestInFlightResolveDeliversResult(t *testing.T) {
	table := NewInFlightTable(time.Second)
	svc := testService()
	method := MethodKey{ServiceKey: svc, MethodID: catalog.MethodSetLockState}

	ch, cancel := table.Register(svc, 1, method)
	defer cancel()

	ok := table.Resolve(svc, 1, PendingResult{Payload: []byte{0x01}})
	require.True(t, ok)

	result := <-ch
	assert.Equal(t, []byte{0x01}, result.Payload)
	assert.NoError(t, result.Err)
}

func TestInFlightResolveUnknownSessionReturnsFalse(t *testing.T) {
	table := NewInFlightTable(time.Second)
	svc := testService()

	ok := table.Resolve(svc, 999, PendingResult{})
	assert.False(t, ok)
}

func TestInFlightResolveTwiceOnlyDeliversOnce(t *testing.T) {
	table := NewInFlightTable(time.Second)
	svc := testService()
	method := MethodKey{ServiceKey: svc, MethodID: catalog.MethodSetLockState}

	ch, cancel := table.Register(svc, 2, method)
	defer cancel()

	first := table.Resolve(svc, 2, PendingResult{Payload: []byte{0x01}})
	second := table.Resolve(svc, 2, PendingResult{Payload: []byte{0x02}})

	assert.True(t, first)
	assert.False(t, second)
	<-ch
}

func TestInFlightCancelPreventsLateResolve(t *testing.T) {
	table := NewInFlightTable(time.Second)
	svc := testService()
	method := MethodKey{ServiceKey: svc, MethodID: catalog.MethodSetLockState}

	ch, cancel := table.Register(svc, 3, method)
	cancel()

	ok := table.Resolve(svc, 3, PendingResult{})
	assert.False(t, ok)

	_, open := <-ch
	assert.False(t, open)
}

func TestInFlightTimeoutDeliversTimeoutError(t *testing.T) {
	table := NewInFlightTable(20 * time.Millisecond)
	svc := testService()
	method := MethodKey{ServiceKey: svc, MethodID: catalog.MethodSetLockState}

	ch, cancel := table.Register(svc, 4, method)
	defer cancel()

	select {
	case result := <-ch:
		require.Error(t, result.Err)
		var terr *taxonomy.Error
		require.ErrorAs(t, result.Err, &terr)
		assert.Equal(t, taxonomy.KindTimeout, terr.Kind)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for in-flight record to expire")
	}
}

func TestInFlightFailAllDeliversTransportDown(t *testing.T) {
	table := NewInFlightTable(time.Second)
	svc := testService()
	method := MethodKey{ServiceKey: svc, MethodID: catalog.MethodSetLockState}

	ch, cancel := table.Register(svc, 5, method)
	defer cancel()

	table.FailAll()

	result := <-ch
	require.Error(t, result.Err)
	var terr *taxonomy.Error
	require.ErrorAs(t, result.Err, &terr)
	assert.Equal(t, taxonomy.KindTransportDown, terr.Kind)
}

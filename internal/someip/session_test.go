package someip

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
)

func TestSessionCounterIncrementsPerLineage(t *testing.T) {
	c := NewSessionCounter()
	svc := ServiceKey{ServiceID: catalog.ServiceDoor, InstanceID: catalog.InstanceID}

	assert.EqualValues(t, 1, c.Next(0x0002, svc))
	assert.EqualValues(t, 2, c.Next(0x0002, svc))
	assert.EqualValues(t, 3, c.Next(0x0002, svc))
}

func TestSessionCounterIsolatedPerClientAndService(t *testing.T) {
	c := NewSessionCounter()
	door := ServiceKey{ServiceID: catalog.ServiceDoor, InstanceID: catalog.InstanceID}
	window := ServiceKey{ServiceID: catalog.ServiceWindow, InstanceID: catalog.InstanceID}

	assert.EqualValues(t, 1, c.Next(0x0002, door))
	assert.EqualValues(t, 1, c.Next(0x0003, door))
	assert.EqualValues(t, 1, c.Next(0x0002, window))
	assert.EqualValues(t, 2, c.Next(0x0002, door))
}

func TestSessionCounterWrapsSkippingZero(t *testing.T) {
	c := NewSessionCounter()
	svc := ServiceKey{ServiceID: catalog.ServiceSeat, InstanceID: catalog.InstanceID}

	k := sessionKey{clientID: 0x0002, service: svc}
	c.current[k] = math.MaxUint16

	next := c.Next(0x0002, svc)
	assert.EqualValues(t, 1, next)
}

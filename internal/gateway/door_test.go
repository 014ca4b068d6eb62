package gateway

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

func TestPostDoorLockMockFallback(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/door/lock", []byte(`{"door_id":1,"command":0}`))

	g.PostDoorLock(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp codec.SetLockStateResp
	decodeSuccess(t, w.Body.Bytes(), &resp)
	assert.Equal(t, codec.Position(1), resp.DoorID)
	assert.Equal(t, codec.ResultSuccess, resp.Result)
}

func TestPostDoorLockAcceptsCamelCaseKeys(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/door/lock", []byte(`{"doorId":2,"command":1}`))

	g.PostDoorLock(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestPostDoorLockRejectsOutOfRangeDoorID(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/door/lock", []byte(`{"door_id":9,"command":0}`))

	g.PostDoorLock(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostDoorLockRejectsMalformedBody(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/door/lock", []byte(`not json`))

	g.PostDoorLock(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetDoorStatusMockFallback(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodGet, "/api/door/0/status", nil)
	c.Params = append(c.Params, paramPair("id", "0"))

	g.GetDoorStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetDoorStatusRejectsNonNumericID(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodGet, "/api/door/x/status", nil)
	c.Params = append(c.Params, paramPair("id", "x"))

	g.GetDoorStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOnDoorLockChangedPublishesToBroadcaster(t *testing.T) {
	g := testGateway(t)
	sub := newTestSubscriber(t, g.Bus)

	g.OnDoorLockChanged(codec.OnLockStateChangedData{DoorID: codec.PositionFR, NewLockState: codec.LockStateLocked})

	assertEventPublished(t, sub, EventDoorLockChanged)
}

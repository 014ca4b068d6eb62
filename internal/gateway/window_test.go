package gateway

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

func TestPostWindowPositionMockFallback(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/window/position", []byte(`{"window_id":2,"position":75}`))

	g.PostWindowPosition(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp codec.SetWindowPositionResp
	decodeSuccess(t, w.Body.Bytes(), &resp)
	assert.Equal(t, codec.Position(2), resp.WindowID)
}

func TestPostWindowPositionRejectsOutOfRangePercent(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/window/position", []byte(`{"window_id":0,"position":150}`))

	g.PostWindowPosition(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostWindowControlMockFallback(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/window/control", []byte(`{"window_id":0,"command":2}`))

	g.PostWindowControl(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp codec.ControlWindowResp
	decodeSuccess(t, w.Body.Bytes(), &resp)
	assert.Equal(t, codec.ResultSuccess, resp.Result)
}

func TestGetWindowPositionRejectsOutOfRangeID(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodGet, "/api/window/7/position", nil)
	c.Params = append(c.Params, paramPair("id", "7"))

	g.GetWindowPosition(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWindowPositionMockFallbackDefaultsToHalfOpen(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodGet, "/api/window/1/position", nil)
	c.Params = append(c.Params, paramPair("id", "1"))

	g.GetWindowPosition(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp codec.GetWindowPositionResp
	decodeSuccess(t, w.Body.Bytes(), &resp)
	assert.EqualValues(t, 50, resp.Position)
}

func TestOnWindowPositionChangedPublishesToBroadcaster(t *testing.T) {
	g := testGateway(t)
	sub := newTestSubscriber(t, g.Bus)

	g.OnWindowPositionChanged(codec.OnWindowPositionChangedData{WindowID: codec.PositionFL, NewPosition: 30})

	assertEventPublished(t, sub, EventWindowPositionChanged)
}

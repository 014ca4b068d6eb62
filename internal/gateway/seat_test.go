package gateway

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/codec"
)

func TestPostSeatAdjustMockFallback(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/seat/adjust", []byte(`{"axis":0,"direction":1}`))

	g.PostSeatAdjust(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp codec.AdjustSeatResp
	decodeSuccess(t, w.Body.Bytes(), &resp)
	assert.Equal(t, codec.ResultSuccess, resp.Result)
}

func TestPostSeatAdjustRejectsInvalidDirection(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/seat/adjust", []byte(`{"axis":0,"direction":9}`))

	g.PostSeatAdjust(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostSeatMemorySaveRejectsPresetZero(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/seat/memory/save", []byte(`{"preset_id":0}`))

	g.PostSeatMemorySave(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostSeatMemorySaveMockFallback(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/seat/memory/save", []byte(`{"preset_id":2}`))

	g.PostSeatMemorySave(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp codec.SaveMemoryPositionResp
	decodeSuccess(t, w.Body.Bytes(), &resp)
	assert.EqualValues(t, 2, resp.PresetID)
}

func TestPostSeatMemoryRecallMockFallback(t *testing.T) {
	g := testGateway(t)
	c, w := testContext(t, http.MethodPost, "/api/seat/memory/recall", []byte(`{"preset_id":3}`))

	g.PostSeatMemoryRecall(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp codec.RecallMemoryPositionResp
	decodeSuccess(t, w.Body.Bytes(), &resp)
	assert.EqualValues(t, 3, resp.PresetID)
}

func TestOnSeatPositionChangedPublishesToBroadcaster(t *testing.T) {
	g := testGateway(t)
	sub := newTestSubscriber(t, g.Bus)

	g.OnSeatPositionChanged(codec.OnSeatPositionChangedData{Axis: codec.SeatAxisForeAft, NewPosition: 10})

	assertEventPublished(t, sub, EventSeatPositionChanged)
}

func TestOnSeatMemorySaveConfirmPublishesToBroadcaster(t *testing.T) {
	g := testGateway(t)
	sub := newTestSubscriber(t, g.Bus)

	g.OnSeatMemorySaveConfirm(codec.OnMemorySaveConfirmData{PresetID: 1, SaveResult: codec.ResultSuccess})

	assertEventPublished(t, sub, EventSeatMemorySaveConfirm)
}

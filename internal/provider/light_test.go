package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
)

func TestHandleSetHeadlightStateSettlesOnSuccess(t *testing.T) {
	engine, conn := testEngine(t)
	engine.RegisterLightHandlers()
	src := clientAddr(t, conn)

	req := codec.SetHeadlightStateReq{Command: codec.HeadlightHigh}
	h := codec.Header{ServiceID: uint16(catalog.ServiceLight), MethodOrEventID: catalog.MethodSetHeadlightState, MessageType: codec.MessageTypeRequest}
	engine.handleSetHeadlightState(src, h, req.Encode())

	_, payload := readResponse(t, conn)
	resp, err := codec.DecodeSetHeadlightStateResp(payload)
	require.NoError(t, err)
	if resp.Result != codec.ResultSuccess {
		return
	}

	require.Eventually(t, func() bool {
		return engine.Store.Headlight() == codec.HeadlightHigh
	}, time.Second, 10*time.Millisecond)
}

func TestPublishLightChangedDispatchesBySubType(t *testing.T) {
	engine, _ := testEngine(t)

	engine.PublishLightChanged(codec.LightTypeIndicator, uint8(codec.IndicatorHazard))
	assert.Equal(t, codec.IndicatorHazard, engine.Store.Indicator())

	engine.PublishLightChanged(codec.LightTypePosition, uint8(codec.PositionLightOn))
	assert.Equal(t, codec.PositionLightOn, engine.Store.PositionLight())

	engine.PublishLightChanged(codec.LightTypeHeadlight, uint8(codec.HeadlightLow))
	assert.Equal(t, codec.HeadlightLow, engine.Store.Headlight())
}

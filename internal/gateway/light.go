package gateway

import (
	"github.com/gin-gonic/gin"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var lightServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceLight, InstanceID: catalog.InstanceID}

type lightCommandRequest struct {
	Command uint8 `json:"command" valid:"range(0|3)"`
}

func (g *Gateway) decodeLightCommand(c *gin.Context, maxCommand uint8) (uint8, bool) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	normalized, err := normalizeJSONKeys(body)
	if err != nil {
		respondError(c, err)
		return 0, false
	}
	var req lightCommandRequest
	if err := jsonUnmarshal(normalized, &req); err != nil {
		respondError(c, err)
		return 0, false
	}
	if req.Command > maxCommand {
		respondError(c, invalidPathArgument("command out of range for this light"))
		return 0, false
	}
	return req.Command, true
}

// PostHeadlight handles POST /api/light/headlight.
func (g *Gateway) PostHeadlight(c *gin.Context) {
	raw, ok := g.decodeLightCommand(c, uint8(codec.HeadlightHigh))
	if !ok {
		return
	}
	command := codec.HeadlightState(raw)

	if !g.Client.IsLive(lightServiceKey) {
		resp := mockSetHeadlightStateResp(command)
		g.Bus.Publish(EventLightStateChanged, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.SetHeadlightState(ctx, command)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// PostIndicator handles POST /api/light/indicator.
func (g *Gateway) PostIndicator(c *gin.Context) {
	raw, ok := g.decodeLightCommand(c, uint8(codec.IndicatorHazard))
	if !ok {
		return
	}
	command := codec.IndicatorState(raw)

	if !g.Client.IsLive(lightServiceKey) {
		resp := mockSetIndicatorStateResp(command)
		g.Bus.Publish(EventLightStateChanged, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.SetIndicatorState(ctx, command)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// PostPositionLight handles POST /api/light/position.
func (g *Gateway) PostPositionLight(c *gin.Context) {
	raw, ok := g.decodeLightCommand(c, uint8(codec.PositionLightOn))
	if !ok {
		return
	}
	command := codec.PositionLightState(raw)

	if !g.Client.IsLive(lightServiceKey) {
		resp := mockSetPositionLightStateResp(command)
		g.Bus.Publish(EventLightStateChanged, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.SetPositionLightState(ctx, command)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// OnLightStateChanged forwards a provider notification to the SSE
// broadcast.
func (g *Gateway) OnLightStateChanged(evt codec.OnLightStateChangedData) {
	g.Bus.Publish(EventLightStateChanged, evt)
}

package gateway

import (
	"github.com/gin-gonic/gin"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var seatServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceSeat, InstanceID: catalog.InstanceID}

type seatAdjustRequest struct {
	Axis      uint8 `json:"axis" valid:"range(0|1)"`
	Direction uint8 `json:"direction" valid:"range(0|2)"`
}

type seatMemoryRequest struct {
	PresetID uint8 `json:"preset_id" valid:"range(1|3),required"`
}

// PostSeatAdjust handles POST /api/seat/adjust.
func (g *Gateway) PostSeatAdjust(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, err)
		return
	}
	normalized, err := normalizeJSONKeys(body)
	if err != nil {
		respondError(c, err)
		return
	}
	var req seatAdjustRequest
	if err := jsonUnmarshal(normalized, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(c, err)
		return
	}

	axis := codec.SeatAxis(req.Axis)
	direction := codec.SeatDirection(req.Direction)

	if !g.Client.IsLive(seatServiceKey) {
		resp := mockAdjustSeatResp(axis)
		g.Bus.Publish(EventSeatPositionChanged, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.AdjustSeat(ctx, axis, direction)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

func (g *Gateway) decodeSeatMemoryRequest(c *gin.Context) (uint8, bool) {
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
	var req seatMemoryRequest
	if err := jsonUnmarshal(normalized, &req); err != nil {
		respondError(c, err)
		return 0, false
	}
	if err := validateStruct(req); err != nil {
		respondError(c, err)
		return 0, false
	}
	return req.PresetID, true
}

// PostSeatMemorySave handles POST /api/seat/memory/save.
func (g *Gateway) PostSeatMemorySave(c *gin.Context) {
	presetID, ok := g.decodeSeatMemoryRequest(c)
	if !ok {
		return
	}

	if !g.Client.IsLive(seatServiceKey) {
		resp := mockSaveMemoryPositionResp(presetID)
		g.Bus.Publish(EventSeatMemorySaveConfirm, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.SaveMemoryPosition(ctx, presetID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// PostSeatMemoryRecall handles POST /api/seat/memory/recall.
func (g *Gateway) PostSeatMemoryRecall(c *gin.Context) {
	presetID, ok := g.decodeSeatMemoryRequest(c)
	if !ok {
		return
	}

	if !g.Client.IsLive(seatServiceKey) {
		resp := mockRecallMemoryPositionResp(presetID)
		g.Bus.Publish(EventSeatPositionChanged, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.RecallMemoryPosition(ctx, presetID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// OnSeatPositionChanged forwards a provider notification to the SSE
// broadcast.
func (g *Gateway) OnSeatPositionChanged(evt codec.OnSeatPositionChangedData) {
	g.Bus.Publish(EventSeatPositionChanged, evt)
}

// OnSeatMemorySaveConfirm forwards a provider notification to the SSE
// broadcast.
func (g *Gateway) OnSeatMemorySaveConfirm(evt codec.OnMemorySaveConfirmData) {
	g.Bus.Publish(EventSeatMemorySaveConfirm, evt)
}

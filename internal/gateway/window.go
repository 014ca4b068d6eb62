package gateway

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var windowServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceWindow, InstanceID: catalog.InstanceID}

type windowPositionRequest struct {
	WindowID uint8 `json:"window_id" valid:"range(0|3)"`
	Position uint8 `json:"position" valid:"range(0|100)"`
}

type windowControlRequest struct {
	WindowID uint8 `json:"window_id" valid:"range(0|3)"`
	Command  uint8 `json:"command" valid:"range(0|2)"`
}

// PostWindowPosition handles POST /api/window/position.
func (g *Gateway) PostWindowPosition(c *gin.Context) {
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
	var req windowPositionRequest
	if err := jsonUnmarshal(normalized, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(c, err)
		return
	}

	windowID := codec.Position(req.WindowID)
	if !g.Client.IsLive(windowServiceKey) {
		resp := mockSetWindowPositionResp(windowID)
		g.Bus.Publish(EventWindowPositionChanged, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.SetWindowPosition(ctx, windowID, req.Position)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// PostWindowControl handles POST /api/window/control.
func (g *Gateway) PostWindowControl(c *gin.Context) {
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
	var req windowControlRequest
	if err := jsonUnmarshal(normalized, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(c, err)
		return
	}

	windowID := codec.Position(req.WindowID)
	command := codec.WindowCommand(req.Command)

	if !g.Client.IsLive(windowServiceKey) {
		resp := mockControlWindowResp(windowID)
		g.Bus.Publish(EventWindowPositionChanged, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.ControlWindow(ctx, windowID, command)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// GetWindowPosition handles GET /api/window/:id/position.
func (g *Gateway) GetWindowPosition(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 8)
	if err != nil || id > 3 {
		respondError(c, invalidPathArgument("window id must be 0..3"))
		return
	}
	windowID := codec.Position(id)

	if !g.Client.IsLive(windowServiceKey) {
		respondSuccess(c, mockGetWindowPositionResp(windowID))
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.GetWindowPosition(ctx, windowID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// OnWindowPositionChanged forwards a provider notification to the SSE
// broadcast.
func (g *Gateway) OnWindowPositionChanged(evt codec.OnWindowPositionChangedData) {
	g.Bus.Publish(EventWindowPositionChanged, evt)
}

package gateway

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var doorServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceDoor, InstanceID: catalog.InstanceID}

type doorLockRequest struct {
	DoorID  uint8 `json:"door_id" valid:"range(0|3)"`
	Command uint8 `json:"command" valid:"range(0|1)"`
}

// PostDoorLock handles POST /api/door/lock.
func (g *Gateway) PostDoorLock(c *gin.Context) {
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
	var req doorLockRequest
	if err := jsonUnmarshal(normalized, &req); err != nil {
		respondError(c, err)
		return
	}
	if err := validateStruct(req); err != nil {
		respondError(c, err)
		return
	}

	doorID := codec.Position(req.DoorID)
	command := codec.LockCommand(req.Command)

	if !g.Client.IsLive(doorServiceKey) {
		resp := mockSetLockStateResp(doorID)
		g.Bus.Publish(EventDoorLockChanged, resp)
		respondSuccess(c, resp)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.SetLockState(ctx, doorID, command)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// GetDoorStatus handles GET /api/door/:id/status.
func (g *Gateway) GetDoorStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 8)
	if err != nil || id > 3 {
		respondError(c, invalidPathArgument("door id must be 0..3"))
		return
	}
	doorID := codec.Position(id)

	if !g.Client.IsLive(doorServiceKey) {
		respondSuccess(c, mockGetLockStateResp(doorID))
		return
	}

	ctx, cancel := requestContext()
	defer cancel()
	resp, err := g.Client.GetLockState(ctx, doorID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, resp)
}

// OnDoorLockChanged forwards a provider notification to the SSE broadcast.
func (g *Gateway) OnDoorLockChanged(evt codec.OnLockStateChangedData) {
	g.Bus.Publish(EventDoorLockChanged, evt)
}

// OnDoorStateChanged forwards a provider ajar notification to the SSE
// broadcast.
func (g *Gateway) OnDoorStateChanged(evt codec.OnDoorStateChangedData) {
	g.Bus.Publish(EventDoorStateChanged, evt)
}

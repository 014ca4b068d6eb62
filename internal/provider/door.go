package provider

import (
	"net"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var doorServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceDoor, InstanceID: catalog.InstanceID}

// RegisterDoorHandlers installs the door service's method handlers, per
// spec §4.4's door semantics: LOCK/UNLOCK per-door, reporting
// OnLockStateChanged and independently OnDoorStateChanged.
func (e *Engine) RegisterDoorHandlers() {
	e.RT.On(doorServiceKey, catalog.MethodSetLockState, codec.MessageTypeRequest, e.handleSetLockState)
	e.RT.On(doorServiceKey, catalog.MethodGetLockState, codec.MessageTypeRequest, e.handleGetLockState)
}

func (e *Engine) handleSetLockState(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeSetLockStateReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}

	// An out-of-domain door id is a FAIL result, not a malformed message,
	// per spec §4.4's boundary behavior for indices.
	if req.DoorID > codec.PositionRR {
		resp := codec.SetLockStateResp{DoorID: req.DoorID, Result: codec.ResultFail}
		_ = e.RT.Respond(src, h, resp.Encode())
		return
	}

	result := e.simulateResult()
	resp := codec.SetLockStateResp{DoorID: req.DoorID, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	logRequest("door", "SetLockState", map[string]interface{}{"door_id": req.DoorID, "command": req.Command, "result": result})

	if result != codec.ResultSuccess {
		return
	}

	newLock := codec.LockStateLocked
	if req.Command == codec.LockCommandUnlock {
		newLock = codec.LockStateUnlocked
	}
	e.settleAfter(catalog.SettleDoorLock, func() {
		e.Store.SetDoorLock(req.DoorID, newLock)
		evt := codec.OnLockStateChangedData{DoorID: req.DoorID, NewLockState: newLock}
		e.publish(catalog.ServiceDoor, catalog.EventLockStateChanged, evt.Encode())
	})
}

func (e *Engine) handleGetLockState(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeGetLockStateReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}
	if req.DoorID > codec.PositionRR {
		resp := codec.GetLockStateResp{DoorID: req.DoorID, LockState: codec.LockStateUnlocked}
		_ = e.RT.Respond(src, h, resp.Encode())
		return
	}
	door := e.Store.Door(req.DoorID)
	resp := codec.GetLockStateResp{DoorID: req.DoorID, LockState: door.Lock}
	_ = e.RT.Respond(src, h, resp.Encode())
}

// PublishDoorAjarChanged is invoked by the simulator when it randomly flips
// a door's ajar state, per spec §4.7.
func (e *Engine) PublishDoorAjarChanged(id codec.Position, ajar codec.DoorState) {
	e.Store.SetDoorAjar(id, ajar)
	evt := codec.OnDoorStateChangedData{DoorID: id, NewDoorState: ajar}
	e.publish(catalog.ServiceDoor, catalog.EventDoorStateChanged, evt.Encode())
}

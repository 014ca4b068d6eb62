package provider

import (
	"net"

	"github.com/bodycontrol/someip-gateway/internal/bodystate"
	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var windowServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceWindow, InstanceID: catalog.InstanceID}

// defaultWindowPosition is reported for a GetWindowPosition on an
// out-of-domain window id, matching the original service's fallback.
const defaultWindowPosition uint8 = 50

// RegisterWindowHandlers installs the window service's method handlers, per
// spec §4.4.
func (e *Engine) RegisterWindowHandlers() {
	e.RT.On(windowServiceKey, catalog.MethodSetWindowPosition, codec.MessageTypeRequest, e.handleSetWindowPosition)
	e.RT.On(windowServiceKey, catalog.MethodControlWindow, codec.MessageTypeRequest, e.handleControlWindow)
	e.RT.On(windowServiceKey, catalog.MethodGetWindowPosition, codec.MessageTypeRequest, e.handleGetWindowPosition)
}

func (e *Engine) handleSetWindowPosition(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeSetWindowPositionReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}

	// Window id and percent are raw bytes, not bounded enums — out-of-domain
	// values are a FAIL, not a malformed message, per spec §4.4.
	if req.WindowID > codec.PositionRR || req.Position > 100 {
		resp := codec.SetWindowPositionResp{WindowID: req.WindowID, Result: codec.ResultFail}
		_ = e.RT.Respond(src, h, resp.Encode())
		return
	}

	result := e.simulateResult()
	resp := codec.SetWindowPositionResp{WindowID: req.WindowID, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	logRequest("window", "SetWindowPosition", map[string]interface{}{"window_id": req.WindowID, "target": req.Position, "result": result})

	if result != codec.ResultSuccess {
		return
	}
	target := req.Position
	e.settleAfter(catalog.SettleWindow, func() {
		e.Store.SetWindow(req.WindowID, target)
		evt := codec.OnWindowPositionChangedData{WindowID: req.WindowID, NewPosition: target}
		e.publish(catalog.ServiceWindow, catalog.EventWindowPositionChanged, evt.Encode())
	})
}

func (e *Engine) handleControlWindow(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeControlWindowReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}

	if req.WindowID > codec.PositionRR {
		resp := codec.ControlWindowResp{WindowID: req.WindowID, Result: codec.ResultFail}
		_ = e.RT.Respond(src, h, resp.Encode())
		return
	}

	result := e.simulateResult()
	resp := codec.ControlWindowResp{WindowID: req.WindowID, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	logRequest("window", "ControlWindow", map[string]interface{}{"window_id": req.WindowID, "command": req.Command, "result": result})

	if result != codec.ResultSuccess {
		return
	}

	var target uint8
	switch req.Command {
	case codec.WindowCommandMoveUp:
		target = 0
	case codec.WindowCommandMoveDown:
		target = 100
	case codec.WindowCommandStop:
		target = e.Store.Window(req.WindowID) // hold current
	}
	e.settleAfter(catalog.SettleWindow, func() {
		e.Store.SetWindow(req.WindowID, target)
		evt := codec.OnWindowPositionChangedData{WindowID: req.WindowID, NewPosition: target}
		e.publish(catalog.ServiceWindow, catalog.EventWindowPositionChanged, evt.Encode())
	})
}

func (e *Engine) handleGetWindowPosition(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeGetWindowPositionReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}
	if req.WindowID > codec.PositionRR {
		resp := codec.GetWindowPositionResp{WindowID: req.WindowID, Position: defaultWindowPosition}
		_ = e.RT.Respond(src, h, resp.Encode())
		return
	}
	resp := codec.GetWindowPositionResp{WindowID: req.WindowID, Position: e.Store.Window(req.WindowID)}
	_ = e.RT.Respond(src, h, resp.Encode())
}

// PublishWindowPosition is invoked by the simulator when it randomly
// changes a window's position, per spec §4.7.
func (e *Engine) PublishWindowPosition(id codec.Position, percent uint8) {
	e.Store.SetWindow(id, bodystate.ClampPercent(int(percent)))
	evt := codec.OnWindowPositionChangedData{WindowID: id, NewPosition: e.Store.Window(id)}
	e.publish(catalog.ServiceWindow, catalog.EventWindowPositionChanged, evt.Encode())
}

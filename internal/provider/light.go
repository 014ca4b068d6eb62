package provider

import (
	"net"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var lightServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceLight, InstanceID: catalog.InstanceID}

// RegisterLightHandlers installs the light service's method handlers, per
// spec §4.4: three independent sub-states, each request emits one
// OnLightStateChanged(type, new_value).
func (e *Engine) RegisterLightHandlers() {
	e.RT.On(lightServiceKey, catalog.MethodSetHeadlightState, codec.MessageTypeRequest, e.handleSetHeadlightState)
	e.RT.On(lightServiceKey, catalog.MethodSetIndicatorState, codec.MessageTypeRequest, e.handleSetIndicatorState)
	e.RT.On(lightServiceKey, catalog.MethodSetPositionLightState, codec.MessageTypeRequest, e.handleSetPositionLightState)
}

func (e *Engine) handleSetHeadlightState(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeSetHeadlightStateReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}
	result := e.simulateResult()
	resp := codec.SetHeadlightStateResp{NewState: req.Command, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	logRequest("light", "SetHeadlightState", map[string]interface{}{"command": req.Command, "result": result})
	if result != codec.ResultSuccess {
		return
	}
	e.settleAfter(catalog.SettleLight, func() {
		e.Store.SetHeadlight(req.Command)
		evt := codec.OnLightStateChangedData{LightType: codec.LightTypeHeadlight, NewState: uint8(req.Command)}
		e.publish(catalog.ServiceLight, catalog.EventLightStateChanged, evt.Encode())
	})
}

func (e *Engine) handleSetIndicatorState(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeSetIndicatorStateReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}
	result := e.simulateResult()
	resp := codec.SetIndicatorStateResp{NewState: req.Command, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	logRequest("light", "SetIndicatorState", map[string]interface{}{"command": req.Command, "result": result})
	if result != codec.ResultSuccess {
		return
	}
	e.settleAfter(catalog.SettleLight, func() {
		e.Store.SetIndicator(req.Command)
		evt := codec.OnLightStateChangedData{LightType: codec.LightTypeIndicator, NewState: uint8(req.Command)}
		e.publish(catalog.ServiceLight, catalog.EventLightStateChanged, evt.Encode())
	})
}

func (e *Engine) handleSetPositionLightState(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeSetPositionLightStateReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}
	result := e.simulateResult()
	resp := codec.SetPositionLightStateResp{NewState: req.Command, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	logRequest("light", "SetPositionLightState", map[string]interface{}{"command": req.Command, "result": result})
	if result != codec.ResultSuccess {
		return
	}
	e.settleAfter(catalog.SettleLight, func() {
		e.Store.SetPositionLight(req.Command)
		evt := codec.OnLightStateChangedData{LightType: codec.LightTypePosition, NewState: uint8(req.Command)}
		e.publish(catalog.ServiceLight, catalog.EventLightStateChanged, evt.Encode())
	})
}

// PublishLightChanged is invoked by the simulator when it randomly flips a
// light sub-state, per spec §4.7.
func (e *Engine) PublishLightChanged(lightType codec.LightType, newState uint8) {
	switch lightType {
	case codec.LightTypeHeadlight:
		e.Store.SetHeadlight(codec.HeadlightState(newState))
	case codec.LightTypeIndicator:
		e.Store.SetIndicator(codec.IndicatorState(newState))
	case codec.LightTypePosition:
		e.Store.SetPositionLight(codec.PositionLightState(newState))
	}
	evt := codec.OnLightStateChangedData{LightType: lightType, NewState: newState}
	e.publish(catalog.ServiceLight, catalog.EventLightStateChanged, evt.Encode())
}

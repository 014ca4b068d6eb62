package provider

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/bodycontrol/someip-gateway/internal/bodystate"
	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
	"github.com/bodycontrol/someip-gateway/system"
)

var seatServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceSeat, InstanceID: catalog.InstanceID}

const (
	foreAftStep = 10
	reclineStep = 5
)

// seatMotion tracks the one running step-loop per axis, keyed through
// system.ContextBag, so a later STOP (or a new adjust call) can cancel it,
// per spec §4.4: "steps the chosen axis ... until the next call with
// dir=STOP".
type seatMotion struct {
	bag *system.ContextBag
}

func newSeatMotion() *seatMotion {
	return &seatMotion{bag: system.NewContextBag(context.Background())}
}

func axisKey(axis codec.SeatAxis) string {
	return strconv.Itoa(int(axis))
}

func (m *seatMotion) stop(axis codec.SeatAxis) {
	m.bag.Cancel(axisKey(axis))
}

func (m *seatMotion) start(axis codec.SeatAxis) context.Context {
	key := axisKey(axis)
	m.bag.Cancel(key)
	return m.bag.Context(key)
}

// RegisterSeatHandlers installs the seat service's method handlers, per
// spec §4.4.
func (e *Engine) RegisterSeatHandlers() {
	e.RT.On(seatServiceKey, catalog.MethodAdjustSeat, codec.MessageTypeRequest, e.handleAdjustSeat)
	e.RT.On(seatServiceKey, catalog.MethodSaveMemoryPosition, codec.MessageTypeRequest, e.handleSaveMemoryPosition)
	e.RT.On(seatServiceKey, catalog.MethodRecallMemoryPosition, codec.MessageTypeRequest, e.handleRecallMemoryPosition)
}

func (e *Engine) handleAdjustSeat(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeAdjustSeatReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}

	result := e.simulateResult()
	resp := codec.AdjustSeatResp{Axis: req.Axis, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	logRequest("seat", "AdjustSeat", map[string]interface{}{"axis": req.Axis, "direction": req.Direction, "result": result})
	if result != codec.ResultSuccess {
		return
	}

	if req.Direction == codec.SeatDirectionStop {
		e.motion.stop(req.Axis)
		return
	}
	e.startAxisStep(req.Axis, req.Direction)
}

func (e *Engine) startAxisStep(axis codec.SeatAxis, dir codec.SeatDirection) {
	ctx := e.motion.start(axis)
	go func() {
		ticker := time.NewTicker(catalog.SettleSeatAxisStep)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !e.stepAxisOnce(axis, dir) {
					return
				}
			}
		}
	}()
}

// stepAxisOnce applies one increment and publishes the resulting position;
// returns false once the axis has reached its domain boundary, at which
// point the loop stops on its own (a further identical STOP is still
// accepted but becomes a no-op).
func (e *Engine) stepAxisOnce(axis codec.SeatAxis, dir codec.SeatDirection) bool {
	switch axis {
	case codec.SeatAxisForeAft:
		cur := e.Store.SeatForeAft()
		delta := foreAftStep
		if dir == codec.SeatDirectionDecrease {
			delta = -foreAftStep
		}
		next := bodystate.ClampForeAft(int(cur) + delta)
		e.Store.SetSeatForeAft(next)
		evt := codec.OnSeatPositionChangedData{Axis: axis, NewPosition: uint8(int8ToByte(next))}
		e.publish(catalog.ServiceSeat, catalog.EventSeatPositionChanged, evt.Encode())
		return next != cur
	case codec.SeatAxisRecline:
		cur := e.Store.SeatRecline()
		delta := reclineStep
		if dir == codec.SeatDirectionDecrease {
			delta = -reclineStep
		}
		next := bodystate.ClampRecline(int(cur) + delta)
		e.Store.SetSeatRecline(next)
		evt := codec.OnSeatPositionChangedData{Axis: axis, NewPosition: next}
		e.publish(catalog.ServiceSeat, catalog.EventSeatPositionChanged, evt.Encode())
		return next != cur
	default:
		return false
	}
}

// int8ToByte reinterprets a signed fore/aft value as the raw wire byte
// carried by OnSeatPositionChangedData — the wire format has no signed
// fields, so callers on the client side know to interpret this axis's byte
// as two's-complement.
func int8ToByte(v int8) uint8 { return uint8(v) }

// PublishSeatPositionChanged is invoked by the simulator when it randomly
// nudges a seat axis, per spec §4.7. It bypasses the motion stepper since
// the simulator moves the axis directly to a chosen value rather than
// stepping toward it.
func (e *Engine) PublishSeatPositionChanged(axis codec.SeatAxis, raw uint8) {
	switch axis {
	case codec.SeatAxisForeAft:
		e.Store.SetSeatForeAft(bodystate.ClampForeAft(int(int8(raw))))
	case codec.SeatAxisRecline:
		e.Store.SetSeatRecline(bodystate.ClampRecline(int(raw)))
	}
	evt := codec.OnSeatPositionChangedData{Axis: axis, NewPosition: raw}
	e.publish(catalog.ServiceSeat, catalog.EventSeatPositionChanged, evt.Encode())
}

// PublishMemorySaveConfirm is invoked by the simulator when it spontaneously
// re-confirms a memory preset save, per spec §4.7's fifth event family.
func (e *Engine) PublishMemorySaveConfirm(presetID uint8, result codec.Result) {
	confirm := codec.OnMemorySaveConfirmData{PresetID: presetID, SaveResult: result}
	e.publish(catalog.ServiceSeat, catalog.EventMemorySaveConfirm, confirm.Encode())
}

func (e *Engine) handleSaveMemoryPosition(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeSaveMemoryPositionReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}
	if !catalog.ValidPresetID(req.PresetID) {
		resp := codec.SaveMemoryPositionResp{PresetID: req.PresetID, Result: codec.ResultFail}
		_ = e.RT.Respond(src, h, resp.Encode())
		return
	}

	result := e.simulateResult()
	resp := codec.SaveMemoryPositionResp{PresetID: req.PresetID, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	if result == codec.ResultSuccess {
		e.Store.SavePreset(req.PresetID)
	}
	confirm := codec.OnMemorySaveConfirmData{PresetID: req.PresetID, SaveResult: result}
	e.publish(catalog.ServiceSeat, catalog.EventMemorySaveConfirm, confirm.Encode())
}

func (e *Engine) handleRecallMemoryPosition(src *net.UDPAddr, h codec.Header, payload []byte) {
	req, err := codec.DecodeRecallMemoryPositionReq(payload)
	if err != nil {
		errorRespond(e.RT, src, h, codec.ReturnCodeMalformedMessage)
		return
	}
	if !catalog.ValidPresetID(req.PresetID) {
		resp := codec.RecallMemoryPositionResp{PresetID: req.PresetID, Result: codec.ResultFail}
		_ = e.RT.Respond(src, h, resp.Encode())
		return
	}

	preset, _ := e.Store.Preset(req.PresetID)
	result := e.simulateResult()
	resp := codec.RecallMemoryPositionResp{PresetID: req.PresetID, Result: result}
	if err := e.RT.Respond(src, h, resp.Encode()); err != nil {
		return
	}
	if result != codec.ResultSuccess {
		return
	}
	e.driveTowardPreset(preset)
}

// driveTowardPreset steps both axes toward the saved tuple at the normal
// step cadence, per spec §4.4's RecallMemoryPosition semantics.
func (e *Engine) driveTowardPreset(preset bodystate.SeatPreset) {
	e.motion.stop(codec.SeatAxisForeAft)
	e.motion.stop(codec.SeatAxisRecline)

	go e.driveAxisToward(codec.SeatAxisForeAft, int(preset.ForeAft))
	go e.driveAxisToward(codec.SeatAxisRecline, int(preset.Recline))
}

func (e *Engine) driveAxisToward(axis codec.SeatAxis, target int) {
	ctx := e.motion.start(axis)
	ticker := time.NewTicker(catalog.SettleSeatAxisStep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var cur int
			switch axis {
			case codec.SeatAxisForeAft:
				cur = int(e.Store.SeatForeAft())
			case codec.SeatAxisRecline:
				cur = int(e.Store.SeatRecline())
			}
			if cur == target {
				return
			}
			dir := codec.SeatDirectionIncrease
			if cur > target {
				dir = codec.SeatDirectionDecrease
			}
			if !e.stepAxisOnce(axis, dir) {
				return
			}
			// Overshoot guard: snap to target if the fixed step passed it.
			var now int
			switch axis {
			case codec.SeatAxisForeAft:
				now = int(e.Store.SeatForeAft())
			case codec.SeatAxisRecline:
				now = int(e.Store.SeatRecline())
			}
			if (cur < target && now > target) || (cur > target && now < target) {
				switch axis {
				case codec.SeatAxisForeAft:
					e.Store.SetSeatForeAft(bodystate.ClampForeAft(target))
				case codec.SeatAxisRecline:
					e.Store.SetSeatRecline(bodystate.ClampRecline(target))
				}
				evt := codec.OnSeatPositionChangedData{Axis: axis, NewPosition: uint8(target)}
				e.publish(catalog.ServiceSeat, catalog.EventSeatPositionChanged, evt.Encode())
				return
			}
		}
	}
}

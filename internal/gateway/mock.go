package gateway

import "github.com/bodycontrol/someip-gateway/internal/codec"

// Mock fallback responses, per spec §4.6: "the handler synthesizes a
// successful response (result = SUCCESS, queried states = plausible
// defaults: lock LOCKED, window 50%)" when the target service is not LIVE.
// Chosen per request: a handler uses these whenever the service is not LIVE
// at that moment, including after a provider that was LIVE goes away.

func mockSetLockStateResp(doorID codec.Position) codec.SetLockStateResp {
	return codec.SetLockStateResp{DoorID: doorID, Result: codec.ResultSuccess}
}

func mockGetLockStateResp(doorID codec.Position) codec.GetLockStateResp {
	return codec.GetLockStateResp{DoorID: doorID, LockState: codec.LockStateLocked}
}

func mockSetWindowPositionResp(windowID codec.Position) codec.SetWindowPositionResp {
	return codec.SetWindowPositionResp{WindowID: windowID, Result: codec.ResultSuccess}
}

func mockControlWindowResp(windowID codec.Position) codec.ControlWindowResp {
	return codec.ControlWindowResp{WindowID: windowID, Result: codec.ResultSuccess}
}

func mockGetWindowPositionResp(windowID codec.Position) codec.GetWindowPositionResp {
	return codec.GetWindowPositionResp{WindowID: windowID, Position: 50}
}

func mockSetHeadlightStateResp(cmd codec.HeadlightState) codec.SetHeadlightStateResp {
	return codec.SetHeadlightStateResp{NewState: cmd, Result: codec.ResultSuccess}
}

func mockSetIndicatorStateResp(cmd codec.IndicatorState) codec.SetIndicatorStateResp {
	return codec.SetIndicatorStateResp{NewState: cmd, Result: codec.ResultSuccess}
}

func mockSetPositionLightStateResp(cmd codec.PositionLightState) codec.SetPositionLightStateResp {
	return codec.SetPositionLightStateResp{NewState: cmd, Result: codec.ResultSuccess}
}

func mockAdjustSeatResp(axis codec.SeatAxis) codec.AdjustSeatResp {
	return codec.AdjustSeatResp{Axis: axis, Result: codec.ResultSuccess}
}

func mockSaveMemoryPositionResp(presetID uint8) codec.SaveMemoryPositionResp {
	return codec.SaveMemoryPositionResp{PresetID: presetID, Result: codec.ResultSuccess}
}

func mockRecallMemoryPositionResp(presetID uint8) codec.RecallMemoryPositionResp {
	return codec.RecallMemoryPositionResp{PresetID: presetID, Result: codec.ResultSuccess}
}

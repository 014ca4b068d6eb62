package codec

// Every payload type below implements Encode() []byte and a matching
// Decode<Type>(buf []byte) (Type, error) free function. Field order is the
// declaration order from spec §6 / the original serializer, concatenated
// with no padding and no length prefix — the header's Length field already
// carries the payload size.

// ---- window service ----

type SetWindowPositionReq struct {
	WindowID Position `json:"windowID"`
	Position uint8    `json:"position"`
}

func (m SetWindowPositionReq) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.WindowID))
	w.byte(m.Position)
	return w.bytes()
}

func DecodeSetWindowPositionReq(buf []byte) (SetWindowPositionReq, error) {
	r := newReader(buf)
	id := r.rawPosition()
	pos := r.byte()
	if err := r.done(); err != nil {
		return SetWindowPositionReq{}, err
	}
	return SetWindowPositionReq{WindowID: id, Position: pos}, nil
}

type SetWindowPositionResp struct {
	WindowID Position `json:"windowID"`
	Result   Result   `json:"result"`
}

func (m SetWindowPositionResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.WindowID))
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeSetWindowPositionResp(buf []byte) (SetWindowPositionResp, error) {
	r := newReader(buf)
	id, _ := r.position()
	res := r.result()
	if err := r.done(); err != nil {
		return SetWindowPositionResp{}, err
	}
	return SetWindowPositionResp{WindowID: id, Result: res}, nil
}

type ControlWindowReq struct {
	WindowID Position      `json:"windowID"`
	Command  WindowCommand `json:"command"`
}

func (m ControlWindowReq) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.WindowID))
	w.byte(uint8(m.Command))
	return w.bytes()
}

func DecodeControlWindowReq(buf []byte) (ControlWindowReq, error) {
	r := newReader(buf)
	id := r.rawPosition()
	cmd := r.windowCommand()
	if err := r.done(); err != nil {
		return ControlWindowReq{}, err
	}
	return ControlWindowReq{WindowID: id, Command: cmd}, nil
}

type ControlWindowResp struct {
	WindowID Position `json:"windowID"`
	Result   Result   `json:"result"`
}

func (m ControlWindowResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.WindowID))
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeControlWindowResp(buf []byte) (ControlWindowResp, error) {
	r := newReader(buf)
	id, _ := r.position()
	res := r.result()
	if err := r.done(); err != nil {
		return ControlWindowResp{}, err
	}
	return ControlWindowResp{WindowID: id, Result: res}, nil
}

type GetWindowPositionReq struct {
	WindowID Position `json:"windowID"`
}

func (m GetWindowPositionReq) Encode() []byte {
	w := newWriter(1)
	w.byte(uint8(m.WindowID))
	return w.bytes()
}

func DecodeGetWindowPositionReq(buf []byte) (GetWindowPositionReq, error) {
	r := newReader(buf)
	id := r.rawPosition()
	if err := r.done(); err != nil {
		return GetWindowPositionReq{}, err
	}
	return GetWindowPositionReq{WindowID: id}, nil
}

type GetWindowPositionResp struct {
	WindowID Position `json:"windowID"`
	Position uint8    `json:"position"`
}

func (m GetWindowPositionResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.WindowID))
	w.byte(m.Position)
	return w.bytes()
}

func DecodeGetWindowPositionResp(buf []byte) (GetWindowPositionResp, error) {
	r := newReader(buf)
	id, _ := r.position()
	pos := r.byte()
	if err := r.done(); err != nil {
		return GetWindowPositionResp{}, err
	}
	return GetWindowPositionResp{WindowID: id, Position: pos}, nil
}

type OnWindowPositionChangedData struct {
	WindowID    Position `json:"windowID"`
	NewPosition uint8    `json:"position"`
}

func (m OnWindowPositionChangedData) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.WindowID))
	w.byte(m.NewPosition)
	return w.bytes()
}

func DecodeOnWindowPositionChangedData(buf []byte) (OnWindowPositionChangedData, error) {
	r := newReader(buf)
	id, _ := r.position()
	pos := r.byte()
	if err := r.done(); err != nil {
		return OnWindowPositionChangedData{}, err
	}
	return OnWindowPositionChangedData{WindowID: id, NewPosition: pos}, nil
}

// ---- door service ----

type SetLockStateReq struct {
	DoorID  Position    `json:"doorID"`
	Command LockCommand `json:"command"`
}

func (m SetLockStateReq) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.DoorID))
	w.byte(uint8(m.Command))
	return w.bytes()
}

func DecodeSetLockStateReq(buf []byte) (SetLockStateReq, error) {
	r := newReader(buf)
	id := r.rawPosition()
	cmd := r.lockCommand()
	if err := r.done(); err != nil {
		return SetLockStateReq{}, err
	}
	return SetLockStateReq{DoorID: id, Command: cmd}, nil
}

type SetLockStateResp struct {
	DoorID Position `json:"doorID"`
	Result Result   `json:"result"`
}

func (m SetLockStateResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.DoorID))
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeSetLockStateResp(buf []byte) (SetLockStateResp, error) {
	r := newReader(buf)
	id, _ := r.position()
	res := r.result()
	if err := r.done(); err != nil {
		return SetLockStateResp{}, err
	}
	return SetLockStateResp{DoorID: id, Result: res}, nil
}

type GetLockStateReq struct {
	DoorID Position `json:"doorID"`
}

func (m GetLockStateReq) Encode() []byte {
	w := newWriter(1)
	w.byte(uint8(m.DoorID))
	return w.bytes()
}

func DecodeGetLockStateReq(buf []byte) (GetLockStateReq, error) {
	r := newReader(buf)
	id := r.rawPosition()
	if err := r.done(); err != nil {
		return GetLockStateReq{}, err
	}
	return GetLockStateReq{DoorID: id}, nil
}

type GetLockStateResp struct {
	DoorID    Position  `json:"doorID"`
	LockState LockState `json:"lockState"`
}

func (m GetLockStateResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.DoorID))
	w.byte(uint8(m.LockState))
	return w.bytes()
}

func DecodeGetLockStateResp(buf []byte) (GetLockStateResp, error) {
	r := newReader(buf)
	id, _ := r.position()
	st := r.lockState()
	if err := r.done(); err != nil {
		return GetLockStateResp{}, err
	}
	return GetLockStateResp{DoorID: id, LockState: st}, nil
}

type OnLockStateChangedData struct {
	DoorID       Position  `json:"doorID"`
	NewLockState LockState `json:"lockState"`
}

func (m OnLockStateChangedData) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.DoorID))
	w.byte(uint8(m.NewLockState))
	return w.bytes()
}

func DecodeOnLockStateChangedData(buf []byte) (OnLockStateChangedData, error) {
	r := newReader(buf)
	id, _ := r.position()
	st := r.lockState()
	if err := r.done(); err != nil {
		return OnLockStateChangedData{}, err
	}
	return OnLockStateChangedData{DoorID: id, NewLockState: st}, nil
}

type OnDoorStateChangedData struct {
	DoorID       Position  `json:"doorID"`
	NewDoorState DoorState `json:"doorState"`
}

func (m OnDoorStateChangedData) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.DoorID))
	w.byte(uint8(m.NewDoorState))
	return w.bytes()
}

func DecodeOnDoorStateChangedData(buf []byte) (OnDoorStateChangedData, error) {
	r := newReader(buf)
	id, _ := r.position()
	st := r.doorState()
	if err := r.done(); err != nil {
		return OnDoorStateChangedData{}, err
	}
	return OnDoorStateChangedData{DoorID: id, NewDoorState: st}, nil
}

// ---- light service ----

type SetHeadlightStateReq struct {
	Command HeadlightState `json:"command"`
}

func (m SetHeadlightStateReq) Encode() []byte {
	w := newWriter(1)
	w.byte(uint8(m.Command))
	return w.bytes()
}

func DecodeSetHeadlightStateReq(buf []byte) (SetHeadlightStateReq, error) {
	r := newReader(buf)
	cmd := r.headlightState()
	if err := r.done(); err != nil {
		return SetHeadlightStateReq{}, err
	}
	return SetHeadlightStateReq{Command: cmd}, nil
}

type SetHeadlightStateResp struct {
	NewState HeadlightState `json:"state"`
	Result   Result         `json:"result"`
}

func (m SetHeadlightStateResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.NewState))
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeSetHeadlightStateResp(buf []byte) (SetHeadlightStateResp, error) {
	r := newReader(buf)
	st := r.headlightState()
	res := r.result()
	if err := r.done(); err != nil {
		return SetHeadlightStateResp{}, err
	}
	return SetHeadlightStateResp{NewState: st, Result: res}, nil
}

type SetIndicatorStateReq struct {
	Command IndicatorState `json:"command"`
}

func (m SetIndicatorStateReq) Encode() []byte {
	w := newWriter(1)
	w.byte(uint8(m.Command))
	return w.bytes()
}

func DecodeSetIndicatorStateReq(buf []byte) (SetIndicatorStateReq, error) {
	r := newReader(buf)
	cmd := r.indicatorState()
	if err := r.done(); err != nil {
		return SetIndicatorStateReq{}, err
	}
	return SetIndicatorStateReq{Command: cmd}, nil
}

type SetIndicatorStateResp struct {
	NewState IndicatorState `json:"state"`
	Result   Result         `json:"result"`
}

func (m SetIndicatorStateResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.NewState))
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeSetIndicatorStateResp(buf []byte) (SetIndicatorStateResp, error) {
	r := newReader(buf)
	st := r.indicatorState()
	res := r.result()
	if err := r.done(); err != nil {
		return SetIndicatorStateResp{}, err
	}
	return SetIndicatorStateResp{NewState: st, Result: res}, nil
}

type SetPositionLightStateReq struct {
	Command PositionLightState `json:"command"`
}

func (m SetPositionLightStateReq) Encode() []byte {
	w := newWriter(1)
	w.byte(uint8(m.Command))
	return w.bytes()
}

func DecodeSetPositionLightStateReq(buf []byte) (SetPositionLightStateReq, error) {
	r := newReader(buf)
	cmd := r.positionLightState()
	if err := r.done(); err != nil {
		return SetPositionLightStateReq{}, err
	}
	return SetPositionLightStateReq{Command: cmd}, nil
}

type SetPositionLightStateResp struct {
	NewState PositionLightState `json:"state"`
	Result   Result             `json:"result"`
}

func (m SetPositionLightStateResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.NewState))
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeSetPositionLightStateResp(buf []byte) (SetPositionLightStateResp, error) {
	r := newReader(buf)
	st := r.positionLightState()
	res := r.result()
	if err := r.done(); err != nil {
		return SetPositionLightStateResp{}, err
	}
	return SetPositionLightStateResp{NewState: st, Result: res}, nil
}

// OnLightStateChangedData carries the raw new value of whichever LightType
// changed (a HeadlightState, IndicatorState, or PositionLightState cast to
// byte, depending on LightType) — its domain is not independently checked
// since the meaning of the byte depends on LightType.
type OnLightStateChangedData struct {
	LightType LightType `json:"lightType"`
	NewState  uint8     `json:"state"`
}

func (m OnLightStateChangedData) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.LightType))
	w.byte(m.NewState)
	return w.bytes()
}

func DecodeOnLightStateChangedData(buf []byte) (OnLightStateChangedData, error) {
	r := newReader(buf)
	lt := r.lightType()
	st := r.byte()
	if err := r.done(); err != nil {
		return OnLightStateChangedData{}, err
	}
	return OnLightStateChangedData{LightType: lt, NewState: st}, nil
}

// ---- seat service ----

type AdjustSeatReq struct {
	Axis      SeatAxis      `json:"axis"`
	Direction SeatDirection `json:"direction"`
}

func (m AdjustSeatReq) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.Axis))
	w.byte(uint8(m.Direction))
	return w.bytes()
}

func DecodeAdjustSeatReq(buf []byte) (AdjustSeatReq, error) {
	r := newReader(buf)
	axis := r.seatAxis()
	dir := r.seatDirection()
	if err := r.done(); err != nil {
		return AdjustSeatReq{}, err
	}
	return AdjustSeatReq{Axis: axis, Direction: dir}, nil
}

type AdjustSeatResp struct {
	Axis   SeatAxis `json:"axis"`
	Result Result   `json:"result"`
}

func (m AdjustSeatResp) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.Axis))
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeAdjustSeatResp(buf []byte) (AdjustSeatResp, error) {
	r := newReader(buf)
	axis := r.seatAxis()
	res := r.result()
	if err := r.done(); err != nil {
		return AdjustSeatResp{}, err
	}
	return AdjustSeatResp{Axis: axis, Result: res}, nil
}

type RecallMemoryPositionReq struct {
	PresetID uint8 `json:"presetID"`
}

func (m RecallMemoryPositionReq) Encode() []byte {
	w := newWriter(1)
	w.byte(m.PresetID)
	return w.bytes()
}

func DecodeRecallMemoryPositionReq(buf []byte) (RecallMemoryPositionReq, error) {
	r := newReader(buf)
	id := r.byte()
	if err := r.done(); err != nil {
		return RecallMemoryPositionReq{}, err
	}
	return RecallMemoryPositionReq{PresetID: id}, nil
}

type RecallMemoryPositionResp struct {
	PresetID uint8  `json:"presetID"`
	Result   Result `json:"result"`
}

func (m RecallMemoryPositionResp) Encode() []byte {
	w := newWriter(2)
	w.byte(m.PresetID)
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeRecallMemoryPositionResp(buf []byte) (RecallMemoryPositionResp, error) {
	r := newReader(buf)
	id := r.byte()
	res := r.result()
	if err := r.done(); err != nil {
		return RecallMemoryPositionResp{}, err
	}
	return RecallMemoryPositionResp{PresetID: id, Result: res}, nil
}

type SaveMemoryPositionReq struct {
	PresetID uint8 `json:"presetID"`
}

func (m SaveMemoryPositionReq) Encode() []byte {
	w := newWriter(1)
	w.byte(m.PresetID)
	return w.bytes()
}

func DecodeSaveMemoryPositionReq(buf []byte) (SaveMemoryPositionReq, error) {
	r := newReader(buf)
	id := r.byte()
	if err := r.done(); err != nil {
		return SaveMemoryPositionReq{}, err
	}
	return SaveMemoryPositionReq{PresetID: id}, nil
}

type SaveMemoryPositionResp struct {
	PresetID uint8  `json:"presetID"`
	Result   Result `json:"result"`
}

func (m SaveMemoryPositionResp) Encode() []byte {
	w := newWriter(2)
	w.byte(m.PresetID)
	w.byte(uint8(m.Result))
	return w.bytes()
}

func DecodeSaveMemoryPositionResp(buf []byte) (SaveMemoryPositionResp, error) {
	r := newReader(buf)
	id := r.byte()
	res := r.result()
	if err := r.done(); err != nil {
		return SaveMemoryPositionResp{}, err
	}
	return SaveMemoryPositionResp{PresetID: id, Result: res}, nil
}

type OnSeatPositionChangedData struct {
	Axis        SeatAxis `json:"axis"`
	NewPosition uint8    `json:"position"`
}

func (m OnSeatPositionChangedData) Encode() []byte {
	w := newWriter(2)
	w.byte(uint8(m.Axis))
	w.byte(m.NewPosition)
	return w.bytes()
}

func DecodeOnSeatPositionChangedData(buf []byte) (OnSeatPositionChangedData, error) {
	r := newReader(buf)
	axis := r.seatAxis()
	pos := r.byte()
	if err := r.done(); err != nil {
		return OnSeatPositionChangedData{}, err
	}
	return OnSeatPositionChangedData{Axis: axis, NewPosition: pos}, nil
}

type OnMemorySaveConfirmData struct {
	PresetID   uint8  `json:"presetID"`
	SaveResult Result `json:"result"`
}

func (m OnMemorySaveConfirmData) Encode() []byte {
	w := newWriter(2)
	w.byte(m.PresetID)
	w.byte(uint8(m.SaveResult))
	return w.bytes()
}

func DecodeOnMemorySaveConfirmData(buf []byte) (OnMemorySaveConfirmData, error) {
	r := newReader(buf)
	id := r.byte()
	res := r.result()
	if err := r.done(); err != nil {
		return OnMemorySaveConfirmData{}, err
	}
	return OnMemorySaveConfirmData{PresetID: id, SaveResult: res}, nil
}

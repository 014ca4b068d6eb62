package codec

// writer accumulates a flat, unpadded little-endian payload.
type writer struct {
	buf []byte
}

func newWriter(sizeHint int) *writer {
	return &writer{buf: make([]byte, 0, sizeHint)}
}

func (w *writer) byte(b uint8) { w.buf = append(w.buf, b) }

func (w *writer) bytes() []byte { return w.buf }

// reader consumes a flat little-endian payload strictly: any read past the
// end, or any enum byte outside its domain, sets err and every subsequent
// read becomes a no-op so callers can chain reads and check err once.
type reader struct {
	buf []byte
	pos int
	err error
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) byte() uint8 {
	if r.err != nil {
		return 0
	}
	if r.pos >= len(r.buf) {
		r.err = ErrMalformedMessage
		return 0
	}
	b := r.buf[r.pos]
	r.pos++
	return b
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.pos != len(r.buf) {
		return ErrMalformedMessage
	}
	return nil
}

func (r *reader) position() (Position, bool) {
	p := Position(r.byte())
	if r.err != nil {
		return 0, false
	}
	if !p.valid() {
		r.err = ErrMalformedMessage
		return 0, false
	}
	return p, true
}

// rawPosition reads a door/window id byte without range-checking it. Request
// decoders for methods that take a door/window id use this instead of
// position(): an out-of-domain id is a handler-level FAIL result, not a
// malformed message, matching the original service's index-then-range-check
// behavior.
func (r *reader) rawPosition() Position {
	return Position(r.byte())
}

func (r *reader) lockCommand() LockCommand {
	v := LockCommand(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) lockState() LockState {
	v := LockState(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) doorState() DoorState {
	v := DoorState(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) result() Result {
	v := Result(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) windowCommand() WindowCommand {
	v := WindowCommand(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) lightType() LightType {
	v := LightType(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) headlightState() HeadlightState {
	v := HeadlightState(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) indicatorState() IndicatorState {
	v := IndicatorState(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) positionLightState() PositionLightState {
	v := PositionLightState(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) seatAxis() SeatAxis {
	v := SeatAxis(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

func (r *reader) seatDirection() SeatDirection {
	v := SeatDirection(r.byte())
	if r.err == nil && !v.valid() {
		r.err = ErrMalformedMessage
	}
	return v
}

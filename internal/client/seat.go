package client

import (
	"context"
	"net"

	"github.com/apex/log"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

var seatServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceSeat, InstanceID: catalog.InstanceID}

// SeatPositionChangedHandler is invoked whenever the provider notifies a
// seat axis position change.
type SeatPositionChangedHandler func(codec.OnSeatPositionChangedData)

// MemorySaveConfirmHandler is invoked whenever the provider confirms a
// memory preset save.
type MemorySaveConfirmHandler func(codec.OnMemorySaveConfirmData)

// RegisterSeatClient wires response matching and notification dispatch for
// the seat service.
func (c *Client) RegisterSeatClient(onPosition SeatPositionChangedHandler, onSaveConfirm MemorySaveConfirmHandler) {
	c.registerCall(seatServiceKey, catalog.MethodAdjustSeat)
	c.registerCall(seatServiceKey, catalog.MethodSaveMemoryPosition)
	c.registerCall(seatServiceKey, catalog.MethodRecallMemoryPosition)

	c.RT.On(seatServiceKey, catalog.EventSeatPositionChanged, codec.MessageTypeNotification, func(_ *net.UDPAddr, _ codec.Header, payload []byte) {
		evt, err := codec.DecodeOnSeatPositionChangedData(payload)
		if err != nil {
			log.WithError(err).Debug("dropped malformed OnSeatPositionChanged notification")
			return
		}
		onPosition(evt)
	})
	c.RT.On(seatServiceKey, catalog.EventMemorySaveConfirm, codec.MessageTypeNotification, func(_ *net.UDPAddr, _ codec.Header, payload []byte) {
		evt, err := codec.DecodeOnMemorySaveConfirmData(payload)
		if err != nil {
			log.WithError(err).Debug("dropped malformed OnMemorySaveConfirm notification")
			return
		}
		onSaveConfirm(evt)
	})
}

// AdjustSeat steps one seat axis in the given direction (or stops it).
func (c *Client) AdjustSeat(ctx context.Context, axis codec.SeatAxis, direction codec.SeatDirection) (codec.AdjustSeatResp, error) {
	req := codec.AdjustSeatReq{Axis: axis, Direction: direction}
	_, payload, err := c.call(ctx, seatServiceKey, catalog.MethodAdjustSeat, req.Encode())
	if err != nil {
		return codec.AdjustSeatResp{}, err
	}
	return codec.DecodeAdjustSeatResp(payload)
}

// SaveMemoryPosition saves the current seat position under presetID.
// presetID is validated at the edge per spec §4.5: ids outside {1,2,3} are
// rejected before a byte is sent.
func (c *Client) SaveMemoryPosition(ctx context.Context, presetID uint8) (codec.SaveMemoryPositionResp, error) {
	if !catalog.ValidPresetID(presetID) {
		return codec.SaveMemoryPositionResp{}, taxonomy.New(taxonomy.KindInvalidArgument, "preset id out of range")
	}
	req := codec.SaveMemoryPositionReq{PresetID: presetID}
	_, payload, err := c.call(ctx, seatServiceKey, catalog.MethodSaveMemoryPosition, req.Encode())
	if err != nil {
		return codec.SaveMemoryPositionResp{}, err
	}
	return codec.DecodeSaveMemoryPositionResp(payload)
}

// RecallMemoryPosition drives the seat toward presetID's saved position.
func (c *Client) RecallMemoryPosition(ctx context.Context, presetID uint8) (codec.RecallMemoryPositionResp, error) {
	if !catalog.ValidPresetID(presetID) {
		return codec.RecallMemoryPositionResp{}, taxonomy.New(taxonomy.KindInvalidArgument, "preset id out of range")
	}
	req := codec.RecallMemoryPositionReq{PresetID: presetID}
	_, payload, err := c.call(ctx, seatServiceKey, catalog.MethodRecallMemoryPosition, req.Encode())
	if err != nil {
		return codec.RecallMemoryPositionResp{}, err
	}
	return codec.DecodeRecallMemoryPositionResp(payload)
}

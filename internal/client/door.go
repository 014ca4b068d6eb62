package client

import (
	"context"
	"net"

	"github.com/apex/log"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var doorServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceDoor, InstanceID: catalog.InstanceID}

// DoorLockChangedHandler is invoked whenever the provider notifies a lock
// state change.
type DoorLockChangedHandler func(codec.OnLockStateChangedData)

// DoorStateChangedHandler is invoked whenever the provider notifies an ajar
// state change.
type DoorStateChangedHandler func(codec.OnDoorStateChangedData)

// RegisterDoorClient wires response matching and notification dispatch for
// the door service's methods and events.
func (c *Client) RegisterDoorClient(onLock DoorLockChangedHandler, onState DoorStateChangedHandler) {
	c.registerCall(doorServiceKey, catalog.MethodSetLockState)
	c.registerCall(doorServiceKey, catalog.MethodGetLockState)

	c.RT.On(doorServiceKey, catalog.EventLockStateChanged, codec.MessageTypeNotification, func(_ *net.UDPAddr, _ codec.Header, payload []byte) {
		evt, err := codec.DecodeOnLockStateChangedData(payload)
		if err != nil {
			log.WithError(err).Debug("dropped malformed OnLockStateChanged notification")
			return
		}
		onLock(evt)
	})
	c.RT.On(doorServiceKey, catalog.EventDoorStateChanged, codec.MessageTypeNotification, func(_ *net.UDPAddr, _ codec.Header, payload []byte) {
		evt, err := codec.DecodeOnDoorStateChangedData(payload)
		if err != nil {
			log.WithError(err).Debug("dropped malformed OnDoorStateChanged notification")
			return
		}
		onState(evt)
	})
}

// SetLockState issues a lock/unlock request for one door.
func (c *Client) SetLockState(ctx context.Context, doorID codec.Position, command codec.LockCommand) (codec.SetLockStateResp, error) {
	req := codec.SetLockStateReq{DoorID: doorID, Command: command}
	_, payload, err := c.call(ctx, doorServiceKey, catalog.MethodSetLockState, req.Encode())
	if err != nil {
		return codec.SetLockStateResp{}, err
	}
	return codec.DecodeSetLockStateResp(payload)
}

// GetLockState queries one door's current lock state.
func (c *Client) GetLockState(ctx context.Context, doorID codec.Position) (codec.GetLockStateResp, error) {
	req := codec.GetLockStateReq{DoorID: doorID}
	_, payload, err := c.call(ctx, doorServiceKey, catalog.MethodGetLockState, req.Encode())
	if err != nil {
		return codec.GetLockStateResp{}, err
	}
	return codec.DecodeGetLockStateResp(payload)
}

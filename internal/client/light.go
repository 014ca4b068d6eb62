package client

import (
	"context"
	"net"

	"github.com/apex/log"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var lightServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceLight, InstanceID: catalog.InstanceID}

// LightStateChangedHandler is invoked whenever the provider notifies a
// sub-state change for one of the three light types.
type LightStateChangedHandler func(codec.OnLightStateChangedData)

// RegisterLightClient wires response matching and notification dispatch for
// the light service.
func (c *Client) RegisterLightClient(onChanged LightStateChangedHandler) {
	c.registerCall(lightServiceKey, catalog.MethodSetHeadlightState)
	c.registerCall(lightServiceKey, catalog.MethodSetIndicatorState)
	c.registerCall(lightServiceKey, catalog.MethodSetPositionLightState)

	c.RT.On(lightServiceKey, catalog.EventLightStateChanged, codec.MessageTypeNotification, func(_ *net.UDPAddr, _ codec.Header, payload []byte) {
		evt, err := codec.DecodeOnLightStateChangedData(payload)
		if err != nil {
			log.WithError(err).Debug("dropped malformed OnLightStateChanged notification")
			return
		}
		onChanged(evt)
	})
}

// SetHeadlightState issues a headlight command.
func (c *Client) SetHeadlightState(ctx context.Context, command codec.HeadlightState) (codec.SetHeadlightStateResp, error) {
	req := codec.SetHeadlightStateReq{Command: command}
	_, payload, err := c.call(ctx, lightServiceKey, catalog.MethodSetHeadlightState, req.Encode())
	if err != nil {
		return codec.SetHeadlightStateResp{}, err
	}
	return codec.DecodeSetHeadlightStateResp(payload)
}

// SetIndicatorState issues a turn-indicator command.
func (c *Client) SetIndicatorState(ctx context.Context, command codec.IndicatorState) (codec.SetIndicatorStateResp, error) {
	req := codec.SetIndicatorStateReq{Command: command}
	_, payload, err := c.call(ctx, lightServiceKey, catalog.MethodSetIndicatorState, req.Encode())
	if err != nil {
		return codec.SetIndicatorStateResp{}, err
	}
	return codec.DecodeSetIndicatorStateResp(payload)
}

// SetPositionLightState issues a position/parking light command.
func (c *Client) SetPositionLightState(ctx context.Context, command codec.PositionLightState) (codec.SetPositionLightStateResp, error) {
	req := codec.SetPositionLightStateReq{Command: command}
	_, payload, err := c.call(ctx, lightServiceKey, catalog.MethodSetPositionLightState, req.Encode())
	if err != nil {
		return codec.SetPositionLightStateResp{}, err
	}
	return codec.DecodeSetPositionLightStateResp(payload)
}

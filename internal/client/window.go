package client

import (
	"context"
	"net"

	"github.com/apex/log"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

var windowServiceKey = someip.ServiceKey{ServiceID: catalog.ServiceWindow, InstanceID: catalog.InstanceID}

// WindowPositionChangedHandler is invoked whenever the provider notifies a
// window position change.
type WindowPositionChangedHandler func(codec.OnWindowPositionChangedData)

// RegisterWindowClient wires response matching and notification dispatch
// for the window service.
func (c *Client) RegisterWindowClient(onChanged WindowPositionChangedHandler) {
	c.registerCall(windowServiceKey, catalog.MethodSetWindowPosition)
	c.registerCall(windowServiceKey, catalog.MethodControlWindow)
	c.registerCall(windowServiceKey, catalog.MethodGetWindowPosition)

	c.RT.On(windowServiceKey, catalog.EventWindowPositionChanged, codec.MessageTypeNotification, func(_ *net.UDPAddr, _ codec.Header, payload []byte) {
		evt, err := codec.DecodeOnWindowPositionChangedData(payload)
		if err != nil {
			log.WithError(err).Debug("dropped malformed OnWindowPositionChanged notification")
			return
		}
		onChanged(evt)
	})
}

// SetWindowPosition requests a window move to an absolute target percent.
func (c *Client) SetWindowPosition(ctx context.Context, windowID codec.Position, target uint8) (codec.SetWindowPositionResp, error) {
	req := codec.SetWindowPositionReq{WindowID: windowID, Position: target}
	_, payload, err := c.call(ctx, windowServiceKey, catalog.MethodSetWindowPosition, req.Encode())
	if err != nil {
		return codec.SetWindowPositionResp{}, err
	}
	return codec.DecodeSetWindowPositionResp(payload)
}

// ControlWindow issues a MOVE_UP/MOVE_DOWN/STOP command.
func (c *Client) ControlWindow(ctx context.Context, windowID codec.Position, command codec.WindowCommand) (codec.ControlWindowResp, error) {
	req := codec.ControlWindowReq{WindowID: windowID, Command: command}
	_, payload, err := c.call(ctx, windowServiceKey, catalog.MethodControlWindow, req.Encode())
	if err != nil {
		return codec.ControlWindowResp{}, err
	}
	return codec.DecodeControlWindowResp(payload)
}

// GetWindowPosition queries one window's current position.
func (c *Client) GetWindowPosition(ctx context.Context, windowID codec.Position) (codec.GetWindowPositionResp, error) {
	req := codec.GetWindowPositionReq{WindowID: windowID}
	_, payload, err := c.call(ctx, windowServiceKey, catalog.MethodGetWindowPosition, req.Encode())
	if err != nil {
		return codec.GetWindowPositionResp{}, err
	}
	return codec.DecodeGetWindowPositionResp(payload)
}

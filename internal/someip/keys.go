// Package someip owns the SOME/IP transport runtime: message framing over
// UDP, service discovery (offer/stop-offer), session correlation, event-group
// subscription, and inbound dispatch. It is shared by the provider engine
// (internal/provider) and the client engine (internal/client) — each builds
// a Runtime and registers handlers/availability callbacks against it.
package someip

import (
	"fmt"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
)

// ServiceKey is the routing identity of one service instance.
type ServiceKey struct {
	ServiceID  catalog.Service
	InstanceID uint16
}

func (k ServiceKey) String() string {
	return fmt.Sprintf("%s/%#04x", k.ServiceID, k.InstanceID)
}

// MethodKey identifies one method on one service instance.
type MethodKey struct {
	ServiceKey
	MethodID uint16
}

// EventKey identifies one event on one service instance.
type EventKey struct {
	ServiceKey
	EventID uint16
}

// EventGroupKey identifies one event-group on one service instance.
type EventGroupKey struct {
	ServiceKey
	GroupID uint16
}

// Package gateway implements the HTTP/JSON REST + SSE surface described in
// spec §4.6: one handler per operation, translating between the client
// engine's typed futures and the bounded synchronous HTTP request/response
// cycle, with a mock fallback whenever the target SOME/IP service is not
// currently LIVE and an SSE broadcaster for asynchronous state changes.
package gateway

import (
	"context"
	"time"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/client"
)

// Gateway wires the client engine and the SSE broadcaster together for every
// REST handler in this package.
type Gateway struct {
	Client *client.Client
	Bus    *Broadcaster
}

// New builds a Gateway over an already-running client engine and
// broadcaster.
func New(c *client.Client, bus *Broadcaster) *Gateway {
	return &Gateway{Client: c, Bus: bus}
}

// requestContext bounds a client-engine call to the method-call timeout plus
// a 500 ms margin, so the in-flight table's own timeout fires before the
// HTTP deadline does.
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), catalog.MethodCallTimeout+500*time.Millisecond)
}

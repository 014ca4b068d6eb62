package gateway

import (
	"github.com/gin-gonic/gin"
)

// GetEvents handles GET /api/events: the SSE stream, per spec §4.6.
func (g *Gateway) GetEvents(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.Flush()

	id, closed := g.Bus.Subscribe(c.Writer)
	defer g.Bus.Unsubscribe(id)

	select {
	case <-c.Request.Context().Done():
	case <-closed:
	}
}

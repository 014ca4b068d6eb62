package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goccyjson "github.com/goccy/go-json"

	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

// successEnvelope is the response shape for every successful handler, per
// spec §4.6.
type successEnvelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// writeJSON marshals v with goccy/go-json and writes it directly, bypassing
// gin's own (stdlib-backed) c.JSON so every REST body goes through the same
// encoder as request-body decoding.
func writeJSON(c *gin.Context, status int, v interface{}) {
	body, err := goccyjson.Marshal(v)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", body)
}

func respondSuccess(c *gin.Context, data interface{}) {
	writeJSON(c, http.StatusOK, successEnvelope{Success: true, Data: data, Timestamp: time.Now().Unix()})
}

// respondError translates a taxonomy error (or a plain decode error) into
// the HTTP status and body spec §4.6 requires: 408 with a REQUEST_TIMEOUT
// body on timeout, 400 on decode error, the taxonomy's own mapping
// otherwise.
func respondError(c *gin.Context, err error) {
	te, ok := taxonomy.As(err)
	if !ok {
		writeJSON(c, http.StatusBadRequest, gin.H{"error": "MALFORMED_MESSAGE", "message": err.Error()})
		return
	}
	if te.Kind == taxonomy.KindTimeout {
		writeJSON(c, http.StatusRequestTimeout, gin.H{"error": "REQUEST_TIMEOUT", "message": te.Error()})
		return
	}
	writeJSON(c, taxonomy.HTTPStatus(te.Kind), gin.H{"error": string(te.Kind), "message": te.Error()})
}

// respondServiceUnhandled is used when no API handler is wired for a route
// the gateway otherwise recognizes — spec §4.6's "absent API handler → 503".
func respondServiceUnhandled(c *gin.Context) {
	writeJSON(c, http.StatusServiceUnavailable, gin.H{"error": "SERVICE_UNAVAILABLE", "message": "no handler registered for this operation"})
}

package gateway

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/client"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testGateway builds a Gateway whose client engine never sees its services
// go LIVE, so every handler takes the mock-fallback path — the same
// transport-free setup the original_source http_server.cpp tests run
// against before any SOME/IP provider is reachable.
func testGateway(t *testing.T) *Gateway {
	t.Helper()
	rt, err := someip.NewRuntime("test-gateway-http", 0, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Endpoint.Close() })

	cl := client.New(rt, nil, 0x0003)
	desired := map[someip.ServiceKey][]someip.EventGroupKey{
		doorServiceKey:   nil,
		windowServiceKey: nil,
		lightServiceKey:  nil,
		seatServiceKey:   nil,
	}
	avail := someip.NewClientAvailability(rt, rt.Endpoint.LocalPort(), desired, cl.HandleAvailabilityChange)
	cl.Avail = avail

	return New(cl, NewBroadcaster(10*time.Minute))
}

// testContext builds a gin.Context/ResponseRecorder pair for driving one
// handler call directly, without a real HTTP listener.
func testContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func paramPair(key, value string) gin.Param {
	return gin.Param{Key: key, Value: value}
}

type rawEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// decodeSuccess asserts the body is a successEnvelope with success=true and
// decodes its data field into out.
func decodeSuccess(t *testing.T, body []byte, out interface{}) {
	t.Helper()
	var env rawEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// testSubscriber wraps a recorded SSE connection for assertions on what the
// broadcaster wrote to it.
type testSubscriber struct {
	w      *httptest.ResponseRecorder
	id     string
	closed <-chan struct{}
}

func newTestSubscriber(t *testing.T, bus *Broadcaster) *testSubscriber {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	id, closed := bus.Subscribe(c.Writer)
	return &testSubscriber{w: w, id: id, closed: closed}
}

func assertEventPublished(t *testing.T, sub *testSubscriber, eventType string) {
	t.Helper()
	assert.Contains(t, sub.w.Body.String(), "event: "+eventType)
}

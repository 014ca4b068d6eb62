package gateway

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	goccyjson "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/metrics"
)

// SSE event type names, per spec §4.6.
const (
	EventDoorLockChanged       = "door_lock_changed"
	EventDoorStateChanged      = "door_state_changed"
	EventWindowPositionChanged = "window_position_changed"
	EventLightStateChanged     = "light_state_changed"
	EventSeatPositionChanged   = "seat_position_changed"
	EventSeatMemorySaveConfirm = "seat_memory_save_confirm"
	EventHeartbeat             = "heartbeat"
	EventWelcome               = "welcome"
)

// frame is the envelope every broadcast event is wrapped in before it's
// written to a subscriber, per spec §4.6's exact wire shape.
type frame struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// subscriber is one open SSE connection the Broadcaster writes to directly.
type subscriber struct {
	id        string
	w         gin.ResponseWriter
	lastWrite time.Time
	closed    chan struct{}
}

// Broadcaster is the gateway's SSE fan-out: subscribers register their
// response writer, and every Publish call writes the frame to all of them
// under one mutex, removing any that fail to write or have gone idle, per
// spec §5's "SSE subscriber table is protected by a mutex; critical
// sections perform the write to each sink — acceptable because the sinks
// are buffered and non-blocking (write-fail → reap)".
type Broadcaster struct {
	mu        sync.Mutex
	subs      map[string]*subscriber
	startedAt time.Time
	idleLimit time.Duration
}

// NewBroadcaster builds an empty Broadcaster. idleLimit is the duration a
// subscriber may go without a successful write before being reaped (spec
// §4.6 default: 10 minutes).
func NewBroadcaster(idleLimit time.Duration) *Broadcaster {
	return &Broadcaster{
		subs:      make(map[string]*subscriber),
		startedAt: time.Now(),
		idleLimit: idleLimit,
	}
}

// Subscribe registers w as a new subscriber, sends the welcome frame, and
// returns a handle whose closed channel fires once the subscriber is
// removed (by write failure, idle reap, or explicit Unsubscribe).
func (b *Broadcaster) Subscribe(w gin.ResponseWriter) (id string, closed <-chan struct{}) {
	sub := &subscriber{id: uuid.NewString(), w: w, lastWrite: time.Now(), closed: make(chan struct{})}

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.mu.Unlock()
	metrics.SSESubscribers.Inc()

	b.writeTo(sub, EventWelcome, gin.H{"message": "connected"})
	return sub.id, sub.closed
}

// Unsubscribe removes a subscriber explicitly (e.g. the HTTP handler
// returning because the client disconnected).
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(id)
}

func (b *Broadcaster) removeLocked(id string) {
	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.closed)
	metrics.SSESubscribers.Dec()
}

// Publish writes eventType/data to every live subscriber, removing any
// whose write fails.
func (b *Broadcaster) Publish(eventType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		if !b.writeToLocked(sub, eventType, data) {
			b.removeLocked(id)
		}
	}
}

// Heartbeat sends a heartbeat frame to every subscriber and reaps anyone
// idle past idleLimit, per spec §4.6's 30s heartbeat and §4.6's 10-minute
// idle reap ("no successful write" rather than "since last heartbeat
// attempt" — see DESIGN.md's SSE idle timeout decision).
func (b *Broadcaster) Heartbeat() {
	now := time.Now()
	payload := gin.H{"epoch": now.Unix(), "uptime_seconds": int64(now.Sub(b.startedAt).Seconds())}

	b.mu.Lock()
	defer b.mu.Unlock()
	for id, sub := range b.subs {
		if now.Sub(sub.lastWrite) > b.idleLimit {
			b.removeLocked(id)
			continue
		}
		if !b.writeToLocked(sub, EventHeartbeat, payload) {
			b.removeLocked(id)
		}
	}
}

// writeTo acquires the lock and writes, for the initial welcome frame sent
// outside Publish's own locked iteration.
func (b *Broadcaster) writeTo(sub *subscriber, eventType string, data interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.writeToLocked(sub, eventType, data) {
		b.removeLocked(sub.id)
	}
}

func (b *Broadcaster) writeToLocked(sub *subscriber, eventType string, data interface{}) bool {
	payload, err := goccyjson.Marshal(frame{Type: eventType, Data: data, Timestamp: time.Now().Unix()})
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(sub.w, "event: %s\ndata: %s\n\n", eventType, payload); err != nil {
		return false
	}
	sub.w.Flush()
	sub.lastWrite = time.Now()
	return true
}

// ServiceCatalogEntry describes one service for GET /api/info, per
// original_source's http_server.cpp `/api/info` shape.
type ServiceCatalogEntry struct {
	Name       string `json:"name"`
	ServiceID  uint16 `json:"service_id"`
	InstanceID uint16 `json:"instance_id"`
	Port       uint16 `json:"port"`
}

// Catalog lists every service this gateway fronts, for GET /api/info.
func Catalog() []ServiceCatalogEntry {
	out := make([]ServiceCatalogEntry, 0, len(catalog.Services))
	for _, s := range catalog.Services {
		out = append(out, ServiceCatalogEntry{
			Name:       s.String(),
			ServiceID:  uint16(s),
			InstanceID: catalog.InstanceID,
			Port:       catalog.DefaultPort(s),
		})
	}
	return out
}

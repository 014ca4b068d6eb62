package someip

import (
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/bodycontrol/someip-gateway/internal/codec"
	"github.com/bodycontrol/someip-gateway/internal/metrics"
	"github.com/bodycontrol/someip-gateway/internal/taxonomy"
)

// PendingResult is what an in-flight request record eventually resolves to:
// either a decoded response header/payload, or a taxonomy error (Timeout,
// TransportDown, ...).
type PendingResult struct {
	Header  codec.Header
	Payload []byte
	Err     error
}

type inFlightRecord struct {
	method    MethodKey
	service   string
	issuedAt  time.Time
	resultCh  chan PendingResult
	delivered atomic.Bool
}

// InFlightTable tracks outstanding method calls awaiting a response,
// correlated by session id, per spec §3/§4.3. Entries expire automatically
// after the method-call timeout via go-cache's janitor; a response arriving
// after expiry finds no record and is silently dropped, per spec §4.3
// Cancellation.
type InFlightTable struct {
	c *cache.Cache
}

// NewInFlightTable builds a table whose entries expire after timeout unless
// resolved or cancelled first.
func NewInFlightTable(timeout time.Duration) *InFlightTable {
	t := &InFlightTable{c: cache.New(timeout, timeout/2)}
	t.c.OnEvicted(func(_ string, v interface{}) {
		rec := v.(*inFlightRecord)
		if rec.delivered.CompareAndSwap(false, true) {
			rec.resultCh <- PendingResult{Err: taxonomy.New(taxonomy.KindTimeout, "method call timed out")}
			close(rec.resultCh)
			metrics.InFlightRequests.WithLabelValues(rec.service).Dec()
		}
	})
	return t
}

func inFlightKey(svc ServiceKey, sessionID uint16) string {
	return fmt.Sprintf("%s/%d", svc, sessionID)
}

// Register creates an in-flight record for a newly-sent request, returning
// the channel its eventual result (response or timeout) will be delivered
// on, and a cancel func that removes the record without delivering anything
// further — a late response is then silently dropped, and so is the timeout.
func (t *InFlightTable) Register(svc ServiceKey, sessionID uint16, method MethodKey) (<-chan PendingResult, func()) {
	rec := &inFlightRecord{method: method, service: svc.ServiceID.String(), issuedAt: time.Now(), resultCh: make(chan PendingResult, 1)}
	key := inFlightKey(svc, sessionID)
	t.c.SetDefault(key, rec)
	metrics.InFlightRequests.WithLabelValues(rec.service).Inc()

	cancel := func() {
		if rec.delivered.CompareAndSwap(false, true) {
			close(rec.resultCh)
			metrics.InFlightRequests.WithLabelValues(rec.service).Dec()
		}
		t.c.Delete(key)
	}
	return rec.resultCh, cancel
}

// Resolve delivers a response to the in-flight record matching (svc,
// sessionID), if one still exists. Returns false if there was no such
// record (already timed out, cancelled, or never existed) — the caller
// should silently drop the message in that case.
func (t *InFlightTable) Resolve(svc ServiceKey, sessionID uint16, result PendingResult) bool {
	key := inFlightKey(svc, sessionID)
	v, ok := t.c.Get(key)
	if !ok {
		return false
	}
	rec := v.(*inFlightRecord)
	if !rec.delivered.CompareAndSwap(false, true) {
		return false
	}
	rec.resultCh <- result
	close(rec.resultCh)
	t.c.Delete(key)
	metrics.InFlightRequests.WithLabelValues(rec.service).Dec()
	return true
}

// FailAll resolves every outstanding record with TransportDown, used when
// the underlying socket drops — pending futures fail rather than leak, per
// spec §7.
func (t *InFlightTable) FailAll() {
	for key, v := range t.c.Items() {
		rec := v.Object.(*inFlightRecord)
		if rec.delivered.CompareAndSwap(false, true) {
			rec.resultCh <- PendingResult{Err: taxonomy.New(taxonomy.KindTransportDown, "transport went down while request was in flight")}
			close(rec.resultCh)
			metrics.InFlightRequests.WithLabelValues(rec.service).Dec()
		}
		t.c.Delete(key)
	}
}

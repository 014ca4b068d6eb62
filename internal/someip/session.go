package someip

import "sync"

// sessionKey identifies one (client, service) session counter lineage.
type sessionKey struct {
	clientID uint16
	service  ServiceKey
}

// SessionCounter hands out the monotonic per-(client_id, service) u16
// session ids used to correlate responses, per spec §4.3. It wraps to 1
// (never 0) on overflow — 0 is reserved and never issued.
type SessionCounter struct {
	mu      sync.Mutex
	current map[sessionKey]uint16
}

// NewSessionCounter returns a ready-to-use, empty counter.
func NewSessionCounter() *SessionCounter {
	return &SessionCounter{current: make(map[sessionKey]uint16)}
}

// Next returns the next session id for (clientID, svc), advancing the
// lineage and skipping 0 on wraparound.
func (c *SessionCounter) Next(clientID uint16, svc ServiceKey) uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := sessionKey{clientID: clientID, service: svc}
	n := c.current[k] + 1
	if n == 0 {
		n = 1
	}
	c.current[k] = n
	return n
}

package gateway

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bodycontrol/someip-gateway/internal/someip"
	"github.com/bodycontrol/someip-gateway/system"
)

var allServiceKeys = []someip.ServiceKey{doorServiceKey, windowServiceKey, lightServiceKey, seatServiceKey}

// availabilityEntry is one service's row in the GET /api/health snapshot.
type availabilityEntry struct {
	Service string `json:"service"`
	State   string `json:"state"`
}

type healthResponse struct {
	Services       []availabilityEntry `json:"services"`
	ProcessUptime  uint64              `json:"process_uptime_seconds"`
	GatewayStarted int64               `json:"gateway_started"`
	Host           *system.Utilization `json:"host,omitempty"`
}

// GetHealth handles GET /api/health, reporting a service availability
// snapshot plus light host stats, per spec §4.6 and its supplemented
// GET /api/info-adjacent host enrichment (not itself a spec.md requirement,
// additive per SPEC_FULL.md's domain stack wiring for gopsutil).
func (g *Gateway) GetHealth(startedAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := make([]availabilityEntry, 0, len(allServiceKeys))
		for _, key := range allServiceKeys {
			entries = append(entries, availabilityEntry{Service: key.ServiceID.String(), State: g.Client.Avail.State(key).String()})
		}

		util, _ := system.GetUtilization()
		respondSuccess(c, healthResponse{
			Services:       entries,
			ProcessUptime:  uint64(time.Since(startedAt).Seconds()),
			GatewayStarted: startedAt.Unix(),
			Host:           util,
		})
	}
}

// infoResponse is the static catalog shape for GET /api/info, grounded on
// original_source's http_server.cpp `/api/info` handler listing services
// and endpoints.
type infoResponse struct {
	Services  []ServiceCatalogEntry `json:"services"`
	Endpoints []string              `json:"endpoints"`
}

// GetInfo handles GET /api/info.
func (g *Gateway) GetInfo(c *gin.Context) {
	respondSuccess(c, infoResponse{
		Services: Catalog(),
		Endpoints: []string{
			"POST /api/door/lock",
			"GET /api/door/:id/status",
			"POST /api/window/position",
			"POST /api/window/control",
			"GET /api/window/:id/position",
			"POST /api/light/headlight",
			"POST /api/light/indicator",
			"POST /api/light/position",
			"POST /api/seat/adjust",
			"POST /api/seat/memory/save",
			"POST /api/seat/memory/recall",
			"GET /api/health",
			"GET /api/info",
			"GET /api/events",
		},
	})
}

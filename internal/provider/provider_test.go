package provider

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bodycontrol/someip-gateway/internal/bodystate"
	"github.com/bodycontrol/someip-gateway/internal/catalog"
	"github.com/bodycontrol/someip-gateway/internal/someip"
)

// testEngine builds an Engine wired to a real loopback-bound runtime and
// announcer, with no live subscribers, mirroring how cmd/provider wires one
// at startup but on ephemeral ports.
func testEngine(t *testing.T) (*Engine, *net.UDPConn) {
	t.Helper()

	rt, err := someip.NewRuntime("test-provider", 0, 200*time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Endpoint.Close() })

	offered := []someip.OfferedService{
		{Key: doorServiceKey, Port: rt.Endpoint.LocalPort()},
		{Key: windowServiceKey, Port: rt.Endpoint.LocalPort()},
		{Key: lightServiceKey, Port: rt.Endpoint.LocalPort()},
		{Key: seatServiceKey, Port: rt.Endpoint.LocalPort()},
	}
	target := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: int(catalog.ServiceDiscoveryPort)}
	announcer, err := someip.NewServiceAnnouncer(rt, target, offered)
	require.NoError(t, err)

	store := bodystate.NewStore()
	engine := NewEngine(rt, announcer, store, 1)

	clientConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 0})
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientConn.Close() })

	return engine, clientConn
}

func clientAddr(t *testing.T, conn *net.UDPConn) *net.UDPAddr {
	t.Helper()
	return conn.LocalAddr().(*net.UDPAddr)
}

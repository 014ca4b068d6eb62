package someip

import (
	"context"
	"net"

	"emperror.dev/errors"
	"github.com/apex/log"
)

// InboundHandler is invoked once per datagram an Endpoint receives.
type InboundHandler func(src *net.UDPAddr, data []byte)

// Endpoint owns one UDP socket: the unit of network ownership per provider
// instance or per client application, per spec §4.3. Method calls,
// notifications, and discovery traffic all flow over the same kind of
// endpoint — only the bound port differs (a service's own port vs. the
// shared discovery port).
type Endpoint struct {
	name string
	conn *net.UDPConn
}

// ListenEndpoint binds a UDP socket on the given port (0 lets the OS pick an
// ephemeral port, used by clients that only originate traffic).
func ListenEndpoint(name string, port uint16) (*Endpoint, error) {
	addr := &net.UDPAddr{Port: int(port)}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "someip/endpoint: could not bind udp socket")
	}
	return &Endpoint{name: name, conn: conn}, nil
}

// LocalPort returns the actual bound port (useful when Listen was given 0).
func (e *Endpoint) LocalPort() uint16 {
	return uint16(e.conn.LocalAddr().(*net.UDPAddr).Port)
}

// Send writes a single datagram to dst.
func (e *Endpoint) Send(dst *net.UDPAddr, data []byte) error {
	_, err := e.conn.WriteToUDP(data, dst)
	return errors.Wrap(err, "someip/endpoint: write failed")
}

// Serve runs the receive loop until ctx is cancelled, invoking handler for
// every datagram read. It never blocks the caller past ctx cancellation:
// Close is called to unblock the read once ctx is done.
func (e *Endpoint) Serve(ctx context.Context, handler InboundHandler) error {
	go func() {
		<-ctx.Done()
		_ = e.conn.Close()
	}()

	buf := make([]byte, 64*1024)
	for {
		n, src, err := e.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.WithField("endpoint", e.name).WithError(err).Warn("someip endpoint read failed")
			return errors.Wrap(err, "someip/endpoint: read failed")
		}
		frame := make([]byte, n)
		copy(frame, buf[:n])
		handler(src, frame)
	}
}

// Close releases the underlying socket.
func (e *Endpoint) Close() error {
	return e.conn.Close()
}

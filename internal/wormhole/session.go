// Package wormhole implements the control-plane state machine: dial the
// rendezvous server, register a name, and route every stream the server
// opens afterward to the component that handles it.
package wormhole

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/xtaci/smux"

	"github.com/dyastin0/wormhole-client/internal/framing"
	"github.com/dyastin0/wormhole-client/internal/metrics"
	"github.com/dyastin0/wormhole-client/internal/transport"
	"github.com/dyastin0/wormhole-client/internal/ui"
	"github.com/dyastin0/wormhole-client/internal/wire"
)

// Config is everything Run needs to dial, register, and forward.
type Config struct {
	Proto          wire.Proto
	Name           string
	TargetAddr     string // local address traffic is forwarded to
	RendezvousAddr string // host:port of the rendezvous server
	WithMetrics    bool   // request a metrics stream on registration
	WithTLS        bool   // dial TargetAddr over TLS (skip verify: it's loopback-adjacent)

	// InsecureSkipVerify disables certificate verification when dialing
	// RendezvousAddr. Only meant for pointing the client at a self-hosted
	// or test rendezvous server; the CLI never sets this by default.
	InsecureSkipVerify bool

	// DialTimeout bounds how long forward() waits to connect to TargetAddr.
	// Zero means the 10s default.
	DialTimeout time.Duration
}

// Session owns one tunnel's lifetime: one control registration and every
// Access/Metrics stream the server opens against it afterward.
type Session struct {
	cfg     Config
	metrics *metrics.Publisher

	mu        sync.RWMutex
	conn      *tls.Conn
	transport *transport.Transport
	domain    string
	expiresAt time.Time
}

// New builds a Session. pub may be nil, in which case metrics samples are
// logged directly instead of published to a dashboard channel.
func New(cfg Config, pub *metrics.Publisher) *Session {
	return &Session{cfg: cfg, metrics: pub}
}

// Domain returns the domain assigned by the server, once registration
// succeeds. Empty before then.
func (s *Session) Domain() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.domain
}

// ExpiresAt returns the tunnel's expiry, once registration succeeds.
func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Run dials the rendezvous server, registers the tunnel, and then blocks
// dispatching inbound streams until the context is cancelled or the
// transport ends. It returns a non-nil error only for DialError,
// ProtocolError and ServerError conditions; NameTaken, UnsupportedProto,
// TransportClosed and ShutdownSignalled are all reported via logging and
// resolve Run with a nil error, matching the CLI's exit-code contract.
func (s *Session) Run(ctx context.Context) error {
	host, _, err := net.SplitHostPort(s.cfg.RendezvousAddr)
	if err != nil {
		return fmt.Errorf("%w: invalid rendezvous address %q: %v", ErrDial, s.cfg.RendezvousAddr, err)
	}

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: host, InsecureSkipVerify: s.cfg.InsecureSkipVerify}}
	rawConn, err := dialer.DialContext(ctx, "tcp", s.cfg.RendezvousAddr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDial, err)
	}
	conn := rawConn.(*tls.Conn)

	tr, err := transport.NewClient(conn)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: %v", ErrDial, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.transport = tr
	s.mu.Unlock()

	progress := ui.CreateProgress("registering "+s.cfg.Name, 1)
	err = s.register(tr)
	progress.Done()
	if err != nil {
		rejected := new(RegistrationRejected)
		if asRegistrationRejected(err, rejected) {
			ui.LogStatus("err", rejected.Error())
			tr.Close()
			return nil
		}
		tr.Close()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- tr.Serve(func(stream *smux.Stream) { s.dispatch(ctx, stream) })
	}()

	select {
	case <-ctx.Done():
		tr.Close()
		<-errCh
		ui.LogStatus("warn", ErrShutdown.Error())
		return nil
	case err := <-errCh:
		if err != nil && !isPeerClosed(err) {
			ui.LogStatus("warn", fmt.Sprintf("%s: %v", ErrTransportClosed, err))
		} else {
			ui.LogStatus("warn", ErrTransportClosed.Error())
		}
		return nil
	}
}

// register performs the handshake: open the control stream, send the
// Request, and interpret whatever the server sends back.
func (s *Session) register(tr *transport.Transport) error {
	ctrl, err := tr.OpenStream()
	if err != nil {
		return fmt.Errorf("%w: opening control stream: %v", ErrDial, err)
	}
	defer ctrl.Close()

	req := wire.NewRequest(s.cfg.Proto, s.cfg.Name)
	body, err := wire.SerializeRequest(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	var flags uint8
	if s.cfg.WithMetrics {
		flags = wire.FlagMetrics
	}
	hdr := wire.Header{
		Version: wire.ProtocolVersion,
		Type:    wire.TypeRequest,
		Flags:   flags,
		Length:  uint64(len(body)),
	}
	hdrBuf, err := wire.SerializeHeader(hdr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	if _, err := ctrl.Write(hdrBuf); err != nil {
		return fmt.Errorf("%w: writing request header: %v", ErrDial, err)
	}
	if _, err := ctrl.Write(body); err != nil {
		return fmt.Errorf("%w: writing request body: %v", ErrDial, err)
	}

	respHdrBuf, err := framing.ReadN(ctrl, wire.HeaderSize)
	if err != nil {
		return fmt.Errorf("%w: reading response header: %v", ErrDial, err)
	}
	respHdr, err := wire.DeserializeHeader(respHdrBuf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocol, err)
	}

	payload, err := framing.ReadN(ctrl, int(respHdr.Length))
	if err != nil {
		return fmt.Errorf("%w: reading response body: %v", ErrProtocol, err)
	}

	switch respHdr.Type {
	case wire.TypeError:
		return &ServerError{Message: string(payload)}
	case wire.TypeResponse:
		resp, err := wire.DeserializeResponse(payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		return s.applyResponse(resp)
	default:
		return fmt.Errorf("%w: unexpected message type %d on control stream", ErrProtocol, respHdr.Type)
	}
}

func (s *Session) applyResponse(resp wire.Response) error {
	switch resp.Status {
	case wire.StatusOK:
		s.mu.Lock()
		s.domain = resp.Domain
		// TTLHours is carried on the wire in nanoseconds, despite the name;
		// time.Duration's zero value is already nanoseconds so no
		// conversion is needed.
		s.expiresAt = time.Now().Add(time.Duration(resp.TTLHours))
		s.mu.Unlock()

		url := schemeForProto(s.cfg.Proto) + resp.Domain
		ui.LogStatus("inf", "tunnel established at "+ui.FormatURLWithStyle(url, url))
		return nil
	case wire.StatusNameTaken, wire.StatusUnsupportedProto:
		return &RegistrationRejected{Status: resp.Status, Name: s.cfg.Name}
	default:
		return fmt.Errorf("%w: unknown response status %d", ErrProtocol, resp.Status)
	}
}

// schemeForProto returns the URL scheme a registered domain is displayed
// with: "https://" for HTTP tunnels, "tcp:" (no slashes) for TCP ones.
func schemeForProto(p wire.Proto) string {
	if p == wire.ProtoTCP {
		return "tcp:"
	}
	return "https://"
}

// asRegistrationRejected is a small errors.As helper kept local so
// session.go doesn't need the errors package just for this one call site.
func asRegistrationRejected(err error, target *RegistrationRejected) bool {
	rejected, ok := err.(*RegistrationRejected)
	if !ok {
		return false
	}
	*target = *rejected
	return true
}

package wormhole

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xtaci/smux"

	"github.com/dyastin0/wormhole-client/internal/framing"
	"github.com/dyastin0/wormhole-client/internal/metrics"
	"github.com/dyastin0/wormhole-client/internal/wire"
)

// selfSignedCert builds a throwaway certificate valid for loopback tests.
func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

// fakeRendezvous speaks just enough of the wire protocol to stand in for the
// real server: it answers one control handshake per connection and lets the
// test script drive whatever happens next on the resulting smux session.
type fakeRendezvous struct {
	ln net.Listener
}

func newFakeRendezvous(t *testing.T) *fakeRendezvous {
	t.Helper()
	cert := selfSignedCert(t)
	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: []tls.Certificate{cert}})
	require.NoError(t, err)
	return &fakeRendezvous{ln: ln}
}

func (f *fakeRendezvous) addr() string { return f.ln.Addr().String() }
func (f *fakeRendezvous) close()       { f.ln.Close() }

// accept accepts one connection, wraps it as an smux server session, and
// hands the first (control) stream to script for the handshake exchange.
func (f *fakeRendezvous) accept(t *testing.T, script func(ctrl *smux.Stream, sess *smux.Session)) {
	t.Helper()
	conn, err := f.ln.Accept()
	require.NoError(t, err)

	sess, err := smux.Server(conn, smux.DefaultConfig())
	require.NoError(t, err)

	ctrl, err := sess.AcceptStream()
	require.NoError(t, err)

	script(ctrl, sess)
}

func readHeader(t *testing.T, s *smux.Stream) wire.Header {
	t.Helper()
	buf, err := framing.ReadN(s, wire.HeaderSize)
	require.NoError(t, err)
	h, err := wire.DeserializeHeader(buf)
	require.NoError(t, err)
	return h
}

func writeFrame(t *testing.T, s *smux.Stream, hdr wire.Header, body []byte) {
	t.Helper()
	hdr.Length = uint64(len(body))
	hdrBuf, err := wire.SerializeHeader(hdr)
	require.NoError(t, err)
	_, err = s.Write(hdrBuf)
	require.NoError(t, err)
	if len(body) > 0 {
		_, err = s.Write(body)
		require.NoError(t, err)
	}
}

func respondOK(t *testing.T, ctrl *smux.Stream, domain string, ttl time.Duration) {
	t.Helper()
	resp := wire.Response{Status: wire.StatusOK, TTLHours: uint64(ttl), DomainLength: uint32(len(domain)), Domain: domain}
	body, err := wire.SerializeResponse(resp)
	require.NoError(t, err)
	writeFrame(t, ctrl, wire.Header{Version: wire.ProtocolVersion, Type: wire.TypeResponse}, body)
}

func TestSchemeForProto(t *testing.T) {
	assert.Equal(t, "https://", schemeForProto(wire.ProtoHTTP))
	assert.Equal(t, "tcp:", schemeForProto(wire.ProtoTCP))
}

func TestRunHappyHTTPForwardsAccessStream(t *testing.T) {
	rdv := newFakeRendezvous(t)
	defer rdv.close()

	// local target: a one-shot echo server.
	localLn, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer localLn.Close()
	go func() {
		c, err := localLn.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		buf := make([]byte, 64)
		n, _ := c.Read(buf)
		c.Write(buf[:n])
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		rdv.accept(t, func(ctrl *smux.Stream, sess *smux.Session) {
			hdr := readHeader(t, ctrl)
			require.Equal(t, wire.TypeRequest, hdr.Type)
			body, err := framing.ReadN(ctrl, int(hdr.Length))
			require.NoError(t, err)
			req, err := wire.DeserializeRequest(body)
			require.NoError(t, err)
			assert.Equal(t, "alpha", req.Name)

			respondOK(t, ctrl, "alpha.example", time.Hour)

			stream, err := sess.OpenStream()
			require.NoError(t, err)
			writeFrame(t, stream, wire.Header{Version: wire.ProtocolVersion, Type: wire.TypeAccess}, nil)

			ackHdr := readHeader(t, stream)
			assert.Equal(t, wire.TypeAck, ackHdr.Type)

			_, err = stream.Write([]byte("ping"))
			require.NoError(t, err)
			reply := make([]byte, 4)
			_, err = stream.Read(reply)
			require.NoError(t, err)
			assert.Equal(t, "ping", string(reply))
			stream.Close()
		})
	}()

	cfg := Config{
		Proto:              wire.ProtoHTTP,
		Name:               "alpha",
		TargetAddr:         localLn.Addr().String(),
		RendezvousAddr:     rdv.addr(),
		InsecureSkipVerify: true,
	}
	sess := New(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- sess.Run(ctx) }()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("fake rendezvous script did not complete")
	}

	assert.Equal(t, "alpha.example", sess.Domain())
	cancel()
	assert.NoError(t, <-runErr)
}

func TestRunNameTakenResolvesWithoutError(t *testing.T) {
	rdv := newFakeRendezvous(t)
	defer rdv.close()

	go rdv.accept(t, func(ctrl *smux.Stream, sess *smux.Session) {
		readHeader(t, ctrl)
		resp := wire.Response{Status: wire.StatusNameTaken}
		body, err := wire.SerializeResponse(resp)
		require.NoError(t, err)
		writeFrame(t, ctrl, wire.Header{Version: wire.ProtocolVersion, Type: wire.TypeResponse}, body)
	})

	cfg := Config{
		Proto:              wire.ProtoHTTP,
		Name:               "taken",
		TargetAddr:         "127.0.0.1:0",
		RendezvousAddr:     rdv.addr(),
		InsecureSkipVerify: true,
	}
	sess := New(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := sess.Run(ctx)
	assert.NoError(t, err)
	assert.Empty(t, sess.Domain())
}

func TestRunServerErrorReturnsServerError(t *testing.T) {
	rdv := newFakeRendezvous(t)
	defer rdv.close()

	go rdv.accept(t, func(ctrl *smux.Stream, sess *smux.Session) {
		readHeader(t, ctrl)
		writeFrame(t, ctrl, wire.Header{Version: wire.ProtocolVersion, Type: wire.TypeError}, []byte("capacity exceeded"))
	})

	cfg := Config{
		Proto:              wire.ProtoHTTP,
		Name:               "beta",
		TargetAddr:         "127.0.0.1:0",
		RendezvousAddr:     rdv.addr(),
		InsecureSkipVerify: true,
	}
	sess := New(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := sess.Run(ctx)
	require.Error(t, err)
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "capacity exceeded", serverErr.Message)
}

func TestRunEndMessageClosesSession(t *testing.T) {
	rdv := newFakeRendezvous(t)
	defer rdv.close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		rdv.accept(t, func(ctrl *smux.Stream, sess *smux.Session) {
			readHeader(t, ctrl)
			respondOK(t, ctrl, "gamma.example", time.Hour)

			stream, err := sess.OpenStream()
			require.NoError(t, err)
			writeFrame(t, stream, wire.Header{Version: wire.ProtocolVersion, Type: wire.TypeEnd}, nil)
			stream.Close()
		})
	}()

	cfg := Config{
		Proto:              wire.ProtoHTTP,
		Name:               "gamma",
		TargetAddr:         "127.0.0.1:0",
		RendezvousAddr:     rdv.addr(),
		InsecureSkipVerify: true,
	}
	sess := New(cfg, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := sess.Run(ctx)
	assert.NoError(t, err)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fake rendezvous script did not complete")
	}
}

func TestRunMetricsStreamPublishesEvents(t *testing.T) {
	rdv := newFakeRendezvous(t)
	defer rdv.close()

	// Three back-to-back frames on one stream: the first is read inline by
	// dispatch.go, the rest must be picked up by metrics_consumer.go's loop.
	sent := []wire.Metrics{
		{Ingress: 10, Egress: 20, Uptime: 30, ConnectionCount: 1, ActiveConnections: 1},
		{Ingress: 110, Egress: 220, Uptime: 330, ConnectionCount: 4, ActiveConnections: 2},
		{Ingress: 1100, Egress: 2200, Uptime: 3300, ConnectionCount: 9, ActiveConnections: 3},
	}

	go rdv.accept(t, func(ctrl *smux.Stream, sess *smux.Session) {
		hdr := readHeader(t, ctrl)
		assert.True(t, hdr.HasFlag(wire.FlagMetrics))
		respondOK(t, ctrl, "delta.example", time.Hour)

		stream, err := sess.OpenStream()
		require.NoError(t, err)
		for _, m := range sent {
			body, err := wire.SerializeMetrics(m)
			require.NoError(t, err)
			writeFrame(t, stream, wire.Header{Version: wire.ProtocolVersion, Type: wire.TypeMetrics}, body)
		}
		stream.Close()
	})

	pub := metrics.NewPublisher()
	cfg := Config{
		Proto:              wire.ProtoHTTP,
		Name:               "delta",
		TargetAddr:         "127.0.0.1:0",
		RendezvousAddr:     rdv.addr(),
		WithMetrics:        true,
		InsecureSkipVerify: true,
	}
	sess := New(cfg, pub)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	go sess.Run(ctx)

	for i, want := range sent {
		select {
		case ev := <-pub.Events():
			assert.Equalf(t, want.Ingress, ev.Ingress, "event %d ingress", i)
			assert.Equalf(t, want.Egress, ev.Egress, "event %d egress", i)
			assert.Equalf(t, time.Duration(want.Uptime), ev.Uptime, "event %d uptime", i)
			assert.Equalf(t, want.ConnectionCount, ev.ConnectionCount, "event %d connection count", i)
			assert.Equalf(t, uint32(want.ActiveConnections), ev.ActiveConnections, "event %d active connections", i)
		case <-time.After(2 * time.Second):
			t.Fatalf("no metrics event published for frame %d", i)
		}
	}
}

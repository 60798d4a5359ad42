package wormhole

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/xtaci/smux"

	"github.com/dyastin0/wormhole-client/internal/metrics"
	"github.com/dyastin0/wormhole-client/internal/ui"
	"github.com/dyastin0/wormhole-client/internal/wire"
)

// forward answers an Access stream with an Ack, dials the local target, and
// splices the two until either side closes.
func (s *Session) forward(ctx context.Context, stream *smux.Stream) {
	ackBuf, err := wire.SerializeHeader(wire.Header{Version: wire.ProtocolVersion, Type: wire.TypeAck})
	if err != nil {
		ui.LogStatus("err", "forward: "+err.Error())
		stream.Close()
		return
	}
	if _, err := stream.Write(ackBuf); err != nil {
		stream.Close()
		return
	}

	dialTimeout := s.cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 10 * time.Second
	}
	dialer := &net.Dialer{Timeout: dialTimeout}

	var local net.Conn
	if s.cfg.WithTLS {
		local, err = tls.DialWithDialer(dialer, "tcp", s.cfg.TargetAddr, &tls.Config{InsecureSkipVerify: true})
	} else {
		local, err = dialer.DialContext(ctx, "tcp", s.cfg.TargetAddr)
	}
	if err != nil {
		metrics.DialFailed()
		ui.LogStatus("err", "forward: local target unreachable: "+err.Error())
		stream.Close()
		return
	}

	metrics.ForwardOpened()
	defer metrics.ForwardClosed()

	up, down := pipe(stream, local)
	ui.LogRelay(stream.ID(), s.cfg.TargetAddr, up, down)
}

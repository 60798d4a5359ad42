package wormhole

import (
	"context"

	"github.com/xtaci/smux"

	"github.com/dyastin0/wormhole-client/internal/framing"
	"github.com/dyastin0/wormhole-client/internal/ui"
	"github.com/dyastin0/wormhole-client/internal/wire"
)

// dispatch reads the one Header every peer-opened stream begins with and
// routes it to whichever component owns that message type. Unknown types
// are closed silently: a future message type this client doesn't
// understand yet shouldn't be treated as a protocol error.
func (s *Session) dispatch(ctx context.Context, stream *smux.Stream) {
	hdrBuf, err := framing.ReadN(stream, wire.HeaderSize)
	if err != nil {
		if !isPeerClosed(err) {
			ui.LogStatus("err", "dispatch: "+err.Error())
		}
		stream.Close()
		return
	}

	hdr, err := wire.DeserializeHeader(hdrBuf)
	if err != nil {
		ui.LogStatus("err", "dispatch: "+err.Error())
		stream.Close()
		return
	}

	switch hdr.Type {
	case wire.TypeAccess:
		s.forward(ctx, stream)
	case wire.TypeMetrics:
		body, err := framing.ReadN(stream, int(hdr.Length))
		if err != nil {
			if !isPeerClosed(err) {
				ui.LogStatus("err", "metrics: "+err.Error())
			}
			stream.Close()
			return
		}
		m, err := wire.DeserializeMetrics(body)
		if err != nil {
			ui.LogStatus("err", "metrics: "+err.Error())
			stream.Close()
			return
		}
		s.publishMetrics(m)
		s.consumeMetrics(stream)
	case wire.TypeEnd:
		stream.Close()
		ui.LogStatus("warn", "tunnel timed out")
		s.mu.RLock()
		tr := s.transport
		s.mu.RUnlock()
		if tr != nil {
			tr.Close()
		}
	default:
		stream.Close()
	}
}

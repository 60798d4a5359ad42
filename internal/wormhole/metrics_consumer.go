package wormhole

import (
	"github.com/xtaci/smux"

	"github.com/dyastin0/wormhole-client/internal/framing"
	"github.com/dyastin0/wormhole-client/internal/ui"
	"github.com/dyastin0/wormhole-client/internal/wire"
)

// consumeMetrics keeps reading Metrics frames off stream until it ends,
// publishing each sample. The stream is always closed on exit, whether it
// ended cleanly or on error.
func (s *Session) consumeMetrics(stream *smux.Stream) {
	defer stream.Close()

	for {
		hdrBuf, err := framing.ReadN(stream, wire.HeaderSize)
		if err != nil {
			if !isPeerClosed(err) {
				ui.LogStatus("err", "metrics: "+err.Error())
			}
			return
		}

		hdr, err := wire.DeserializeHeader(hdrBuf)
		if err != nil {
			ui.LogStatus("err", "metrics: "+err.Error())
			return
		}
		if hdr.Type != wire.TypeMetrics {
			return
		}

		body, err := framing.ReadN(stream, int(hdr.Length))
		if err != nil {
			if !isPeerClosed(err) {
				ui.LogStatus("err", "metrics: "+err.Error())
			}
			return
		}

		m, err := wire.DeserializeMetrics(body)
		if err != nil {
			ui.LogStatus("err", "metrics: "+err.Error())
			continue
		}

		s.publishMetrics(m)
	}
}

func (s *Session) publishMetrics(m wire.Metrics) {
	if s.metrics != nil {
		s.metrics.Publish(m)
		return
	}
	ui.LogMetric("ingress", m.Ingress, "B")
	ui.LogMetric("egress", m.Egress, "B")
}

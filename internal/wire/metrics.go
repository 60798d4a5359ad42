package wire

import "encoding/binary"

// MetricsSize is the fixed on-wire size of a Metrics frame.
const MetricsSize = 36

// Metrics is one sample pushed by the server on the metrics stream.
type Metrics struct {
	Ingress           uint64 // bytes received from the public side
	Egress            uint64 // bytes sent to the public side
	Uptime            uint64 // nanoseconds since tunnel start
	ConnectionCount   uint64 // total lifetime forwarded connections
	ActiveConnections uint32 // currently open forwarded connections
}

// SerializeMetrics encodes m into a MetricsSize-byte buffer. Metrics has no
// variable-length fields, so there is nothing to validate beyond the size.
func SerializeMetrics(m Metrics) ([]byte, error) {
	buf := make([]byte, MetricsSize)
	binary.BigEndian.PutUint64(buf[0:8], m.Ingress)
	binary.BigEndian.PutUint64(buf[8:16], m.Egress)
	binary.BigEndian.PutUint64(buf[16:24], m.Uptime)
	binary.BigEndian.PutUint64(buf[24:32], m.ConnectionCount)
	binary.BigEndian.PutUint32(buf[32:36], m.ActiveConnections)
	return buf, nil
}

// DeserializeMetrics decodes a MetricsSize-byte buffer.
func DeserializeMetrics(buf []byte) (Metrics, error) {
	if len(buf) < MetricsSize {
		return Metrics{}, ErrTruncated
	}
	return Metrics{
		Ingress:           binary.BigEndian.Uint64(buf[0:8]),
		Egress:            binary.BigEndian.Uint64(buf[8:16]),
		Uptime:            binary.BigEndian.Uint64(buf[16:24]),
		ConnectionCount:   binary.BigEndian.Uint64(buf[24:32]),
		ActiveConnections: binary.BigEndian.Uint32(buf[32:36]),
	}, nil
}

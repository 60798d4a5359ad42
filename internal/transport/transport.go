// Package transport satisfies the core's multiplexed-transport contract
// (many logical streams over one physical connection, keep-alive, bounded
// accept backlog) on top of github.com/xtaci/smux, the way smux's own
// session type is used by kcptun and other stream multiplexers in the wild.
package transport

import (
	"io"
	"time"

	"github.com/xtaci/smux"
)

// KeepAliveInterval and AcceptBacklog are the contract's fixed knobs; the
// spec pins both, so they are constants rather than config fields.
const (
	KeepAliveInterval = time.Second
	AcceptBacklog      = 1000
)

// Transport wraps a single smux.Session dialed over an already-established
// connection (TLS to the rendezvous server, in practice).
type Transport struct {
	sess *smux.Session
}

func config() *smux.Config {
	cfg := smux.DefaultConfig()
	cfg.KeepAliveInterval = KeepAliveInterval
	cfg.AcceptBacklog = AcceptBacklog
	return cfg
}

// NewClient opens a client-side multiplexed session over conn. The caller
// retains ownership of conn's lifetime only indirectly: closing the
// Transport closes conn too.
func NewClient(conn io.ReadWriteCloser) (*Transport, error) {
	cfg := config()
	if err := smux.VerifyConfig(cfg); err != nil {
		return nil, err
	}
	sess, err := smux.Client(conn, cfg)
	if err != nil {
		return nil, err
	}
	return &Transport{sess: sess}, nil
}

// OpenStream opens a new client-initiated logical stream.
func (t *Transport) OpenStream() (*smux.Stream, error) {
	return t.sess.OpenStream()
}

// Serve blocks accepting peer-opened streams, invoking handle for each on
// its own goroutine, until the session closes or errors. The backlog is
// enforced by smux itself: a peer that opens more than AcceptBacklog
// streams without the client accepting them causes the session to error.
func (t *Transport) Serve(handle func(*smux.Stream)) error {
	for {
		stream, err := t.sess.AcceptStream()
		if err != nil {
			return err
		}
		go handle(stream)
	}
}

// Close tears down the session (and the underlying connection).
func (t *Transport) Close() error {
	return t.sess.Close()
}

// IsClosed reports whether the session has already been torn down.
func (t *Transport) IsClosed() bool {
	return t.sess.IsClosed()
}

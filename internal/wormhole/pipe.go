package wormhole

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/dyastin0/wormhole-client/internal/framing"
)

// pipe splices a and b bidirectionally until either side's copy ends, then
// closes both exactly once, regardless of which side finished first or
// whether both copies return errors. It reports the byte count moved in
// each direction.
func pipe(a, b io.ReadWriteCloser) (upBytes, downBytes int64) {
	var closeOnce sync.Once
	done := make(chan struct{})
	teardown := func() {
		closeOnce.Do(func() {
			a.Close()
			b.Close()
			close(done)
		})
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		n, _ := io.Copy(b, a)
		upBytes = n
		teardown()
	}()
	go func() {
		defer wg.Done()
		n, _ := io.Copy(a, b)
		downBytes = n
		teardown()
	}()

	<-done
	wg.Wait()
	return
}

// isPeerClosed reports whether err is the ordinary end of a stream or
// connection rather than a failure worth logging.
func isPeerClosed(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, framing.ErrUnexpectedEOF) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "closed") || strings.Contains(msg, "shutdown") || strings.Contains(msg, "EOF")
}

package bridge

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strings"
	"sync/atomic"

	"voz/log"
)

// Listener accepts producer connections on a local stream socket and
// forwards every well-formed command line to the dispatch function.
// Each connection gets its own goroutine; a dying connection takes only
// its own buffered partial line with it.
type Listener struct {
	path     string
	ln       net.Listener
	dispatch func(Command)
	closed   atomic.Bool
}

// Listen binds the rendezvous socket at path. Any stale socket file is
// removed first, and the socket is created under umask 0077 so there is
// no window where another local user could connect before permissions
// are tightened.
func Listen(path string, dispatch func(Command)) (*Listener, error) {
	_ = os.Remove(path)

	old := setUmask(0077)
	ln, err := net.Listen("unix", path)
	setUmask(old)
	if err != nil {
		return nil, fmt.Errorf("bind %s: %w", path, err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		ln.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("chmod %s: %w", path, err)
	}

	return &Listener{path: path, ln: ln, dispatch: dispatch}, nil
}

// Path returns the bound socket path.
func (l *Listener) Path() string { return l.path }

// Serve accepts connections until Close. Accept errors on a live
// listener are logged and skipped; producers are expected to reconnect.
func (l *Listener) Serve() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if l.closed.Load() {
				return
			}
			log.Warnf("accept: %v", err)
			continue
		}
		go l.handleConn(conn)
	}
}

// handleConn reads newline-terminated commands until the peer hangs up.
// A partial line at close is discarded silently; there is no
// acknowledgement channel in this protocol, so there is nobody to tell.
func (l *Listener) handleConn(conn net.Conn) {
	defer conn.Close()

	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		if cmd, ok := Parse(line); ok {
			l.dispatch(cmd)
		}
	}
}

// Close stops accepting and removes the socket file.
func (l *Listener) Close() {
	l.closed.Store(true)
	l.ln.Close()
	_ = os.Remove(l.path)
}

package bridge

import (
	"fmt"
	"net"
	"strings"
	"sync"
)

// Client is the producer side of the wire protocol: fire-and-forget
// newline-terminated commands over the rendezvous socket. No replies are
// ever read — the protocol has none.
type Client struct {
	path string

	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// DialClient connects to the engine's rendezvous socket.
func DialClient(path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return &Client{path: path, conn: conn}, nil
}

// Preedit shows text as the streaming preview; empty text clears it.
func (c *Client) Preedit(text string) { c.send("preedit:" + sanitize(text)) }

// Commit atomically replaces the preview with final text.
func (c *Client) Commit(text string) { c.send("commit:" + sanitize(text)) }

// Delete removes count characters before the cursor.
func (c *Client) Delete(count int) { c.send(fmt.Sprintf("delete:%d", count)) }

// Replace deletes count characters, then commits text.
func (c *Client) Replace(count int, text string) {
	c.send(fmt.Sprintf("replace:%d:%s", count, sanitize(text)))
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// send writes one command line. On a write error the connection is
// redialed once (the engine may have restarted) and the command is
// dropped if that also fails. Best effort, like everything on this wire.
func (c *Client) send(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.conn != nil {
		if _, err := fmt.Fprintln(c.conn, line); err == nil {
			return
		}
		c.conn.Close()
		c.conn = nil
	}
	conn, err := net.Dial("unix", c.path)
	if err != nil {
		return
	}
	c.conn = conn
	fmt.Fprintln(c.conn, line)
}

// sanitize keeps payload text on a single protocol line.
func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}

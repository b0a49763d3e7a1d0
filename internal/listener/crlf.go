package listener

import (
	"bytes"
	"io"
)

// crlfConn adapts a terminal connection to plain newlines. Reads turn "\r\n"
// and a lone "\r" into "\n"; writes turn "\n" into "\r\n".
type crlfConn struct {
	rw io.ReadWriter

	// The last byte read was a '\r', so a leading '\n' belongs to it.
	afterCR bool
}

func newCRLFReadWriter(rw io.ReadWriter) io.ReadWriter {
	return &crlfConn{rw: rw}
}

func (c *crlfConn) Read(p []byte) (int, error) {
	n, err := c.rw.Read(p)

	out := 0
	for i := 0; i < n; i++ {
		b := p[i]
		switch {
		case b == '\n' && c.afterCR:
			c.afterCR = false
			continue
		case b == '\r':
			c.afterCR = true
			b = '\n'
		default:
			c.afterCR = false
		}
		p[out] = b
		out++
	}

	return out, err
}

func (c *crlfConn) Write(p []byte) (int, error) {
	_, err := c.rw.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

package telnet

import (
	"net"
	"time"

	"github.com/sirupsen/logrus"
)

// Listener accepts TCP connections and hands each one to a handler as a
// negotiated Conn. A session failing never stops the listener: per-socket
// errors are logged and that connection alone is torn down.
type Listener struct {
	ln           net.Listener
	readyTimeout time.Duration
}

// Listen binds addr (host:port) and returns a Listener ready to Accept.
func Listen(addr string, readyTimeout time.Duration) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, readyTimeout: readyTimeout}, nil
}

// Serve accepts connections until the listener is closed, invoking handle
// for each in its own goroutine. It returns when Accept fails (normally
// because Close was called).
func (l *Listener) Serve(handle func(*Conn)) error {
	for {
		raw, err := l.ln.Accept()
		if err != nil {
			return err
		}
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithFields(logrus.Fields{
						"function": "Serve",
						"package":  "telnet",
						"panic":    r,
					}).Error("recovered from panic in connection handler")
				}
			}()
			conn := NewConn(raw, l.readyTimeout)
			handle(conn)
		}()
	}
}

// Addr returns the listener's bound network address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Close stops accepting new connections.
func (l *Listener) Close() error {
	return l.ln.Close()
}

package telnet

import (
	"bufio"
	"compress/flate"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// lineOrErr carries one decoded line or the terminal read error, passed
// from the background reader goroutine to ReadLine.
type lineOrErr struct {
	line string
	err  error
}

// Conn wraps an accepted socket with option negotiation, line framing, and
// optional outbound compression. One Conn is owned by exactly one session;
// Conn never touches session or world state, only bytes. A single
// background goroutine owns all reads from the raw socket (including IAC
// processing), so the negotiator and the line accumulator are never
// touched from more than one goroutine at a time.
type Conn struct {
	raw net.Conn
	neg *Negotiator
	r   *bufio.Reader

	lines chan lineOrErr

	writeMu  sync.Mutex
	compress *flate.Writer // nil until compression is negotiated and enabled
	w        io.Writer     // raw or compressed, whichever is active

	readyOnce sync.Once
	ready     chan struct{}
}

// NewConn wraps an accepted connection, begins option negotiation, and
// starts the background read loop. The returned Conn's Ready channel
// closes once negotiation settles or readyTimeout elapses, per the
// transport's connection-ready precondition: compression must be decided
// before the first greeting byte.
func NewConn(raw net.Conn, readyTimeout time.Duration) *Conn {
	c := &Conn{
		raw:   raw,
		neg:   NewNegotiator(),
		r:     bufio.NewReader(raw),
		w:     raw,
		lines: make(chan lineOrErr, 16),
		ready: make(chan struct{}),
	}

	go c.readLoop()
	time.AfterFunc(readyTimeout, c.closeReady)
	return c
}

// Ready returns a channel closed once negotiation has reached a terminal
// state for every initiated option, or the bounded timeout elapsed,
// whichever comes first. The session layer must not send the login
// greeting before this fires.
func (c *Conn) Ready() <-chan struct{} {
	return c.ready
}

func (c *Conn) closeReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

// ReadLine blocks for the next CR/LF-delimited line, stripping the
// delimiter and any bare carriage return. Empty lines are returned as
// empty strings rather than an error; callers (prompts in particular)
// depend on seeing them. Telnet IAC sequences, including subnegotiation
// payloads, are consumed transparently by the background reader and never
// appear in the returned line.
func (c *Conn) ReadLine() (string, error) {
	m, ok := <-c.lines
	if !ok {
		return "", io.EOF
	}
	return m.line, m.err
}

// readLoop is the sole reader of the raw socket: it decodes IAC sequences,
// updates negotiation state, and pushes completed lines to the lines
// channel. It exits (closing the channel) on the first read error.
func (c *Conn) readLoop() {
	defer close(c.lines)

	var initial []byte
	for _, seq := range c.neg.Initiate() {
		initial = append(initial, seq...)
	}
	if len(initial) > 0 {
		if _, err := c.rawWrite(initial); err != nil {
			c.lines <- lineOrErr{err: err}
			return
		}
	}
	if c.neg.AllTerminal() {
		c.closeReady()
	}

	var line []byte
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			c.lines <- lineOrErr{err: err}
			return
		}
		if b == iac {
			if err := c.handleIAC(); err != nil {
				c.lines <- lineOrErr{err: err}
				return
			}
			if c.neg.AllTerminal() {
				c.closeReady()
			}
			continue
		}
		if b == '\r' {
			continue
		}
		if b == '\n' {
			c.lines <- lineOrErr{line: string(line)}
			line = line[:0]
			continue
		}
		line = append(line, b)
	}
}

func (c *Conn) handleIAC() error {
	verb, err := c.r.ReadByte()
	if err != nil {
		return err
	}
	switch verb {
	case iac:
		return nil
	case sb:
		return c.consumeSubnegotiation()
	case do, dont, will, wont:
		opt, err := c.r.ReadByte()
		if err != nil {
			return err
		}
		if reply := c.neg.Reply(verb, Option(opt)); reply != nil {
			_, _ = c.rawWrite(reply)
		}
		return nil
	case ga:
		return nil
	default:
		logrus.WithFields(logrus.Fields{
			"function": "handleIAC",
			"package":  "telnet",
			"verb":     verb,
		}).Debug("ignoring unrecognized telnet command")
		return nil
	}
}

// consumeSubnegotiation discards bytes up to the closing IAC SE, per the
// transport's "malformed option streams are ignored" error handling: a
// truncated subnegotiation simply surfaces as the underlying read error.
func (c *Conn) consumeSubnegotiation() error {
	prevIAC := false
	for {
		b, err := c.r.ReadByte()
		if err != nil {
			return err
		}
		if prevIAC && b == se {
			return nil
		}
		prevIAC = b == iac
	}
}

// rawWrite sends bytes directly on the socket, bypassing compression,
// serialized against WriteLine/Write/BeginCompression so negotiation replies
// never interleave mid-sequence with application output.
func (c *Conn) rawWrite(b []byte) (int, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.raw.Write(b)
}

// WriteLine renders style codes per colorEnabled, appends the CR/LF
// delimiter, and writes through the active compressor if one is active,
// flushing synchronously so the client sees it immediately.
func (c *Conn) WriteLine(s string, colorEnabled bool) error {
	return c.Write(RenderStyle(s, colorEnabled) + "\r\n")
}

// Write sends raw bytes through the active output path (compressed if
// negotiated), flushing synchronously after every logical write per the
// transport's compression discipline.
func (c *Conn) Write(s string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := io.WriteString(c.w, s); err != nil {
		return err
	}
	if c.compress != nil {
		return c.compress.Flush()
	}
	return nil
}

// BeginCompression announces the compression start via an uncompressed
// subnegotiation, then routes every subsequent outbound byte through a
// deflate stream. Must be called, if at all, before the greeting is sent.
func (c *Conn) BeginCompression() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.raw.Write([]byte{iac, sb, byte(OptCompressMCCP2), iac, se}); err != nil {
		return err
	}
	fw, err := flate.NewWriter(c.raw, flate.DefaultCompression)
	if err != nil {
		return err
	}
	c.compress = fw
	c.w = fw
	return nil
}

// Close tears down any active compressor before closing the socket, per
// the transport's disconnect discipline.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	if c.compress != nil {
		_ = c.compress.Close()
		c.compress = nil
	}
	c.writeMu.Unlock()
	return c.raw.Close()
}

// RemoteAddr exposes the underlying socket's remote address for logging.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

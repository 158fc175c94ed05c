// Package session implements the per-connection state machine that sits
// between the terminal transport and the command pipeline: login flow,
// the single-shot ask/yes-no prompt contract, prompt rendering, echo mode,
// and idle/shutdown handling.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"mudforge/pkg/telnet"
	"mudforge/pkg/world"

	"github.com/sirupsen/logrus"
)

// inboundLinesPerSecond and inboundLineBurst bound how fast a session may
// feed lines into the command pipeline, so a scripted or misbehaving
// client can't flood the world lane with work. A human typist never comes
// close to this rate; it exists for automation, not for ordinary play.
const (
	inboundLinesPerSecond rate.Limit = 8
	inboundLineBurst      int        = 16
)

// State is one node of the session lifecycle state machine.
type State int

const (
	StateConnecting State = iota
	StateGreeting
	StateAwaitingUsername
	StateAwaitingPassword
	StateConfirmingNewPassword
	StateAwaitingCharacterApproval
	StatePlaying
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateGreeting:
		return "greeting"
	case StateAwaitingUsername:
		return "awaiting-username"
	case StateAwaitingPassword:
		return "awaiting-password"
	case StateConfirmingNewPassword:
		return "confirming-new-password"
	case StateAwaitingCharacterApproval:
		return "awaiting-character-approval"
	case StatePlaying:
		return "playing"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// askCallback is a single-shot handler for the next inbound line, used by
// the "ask"/"yes-no" contract: while one is registered, lines are routed
// to it instead of the command pipeline.
type askCallback func(line string)

// Session owns one player's connection end to end: its transport, its
// authenticated character once logged in, and the state machine that gates
// what an inbound line means.
type Session struct {
	mu sync.Mutex

	conn      *telnet.Conn
	state     State
	character *world.Character

	ask askCallback

	idleTimeout time.Duration
	idleTimer   *time.Timer

	limiter *rate.Limiter

	pendingUsername string
	newAccount      bool

	closed bool
}

// New wraps conn in a session starting in StateConnecting with the given
// inactivity window.
func New(conn *telnet.Conn, idleTimeout time.Duration) *Session {
	s := &Session{
		conn:        conn,
		state:       StateConnecting,
		idleTimeout: idleTimeout,
		limiter:     rate.NewLimiter(inboundLinesPerSecond, inboundLineBurst),
	}
	s.resetIdleTimer()
	return s
}

// State returns the session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetState transitions the session to state.
func (s *Session) SetState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Character returns the session's authenticated character, nil before
// login completes.
func (s *Session) Character() *world.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.character
}

// SetCharacter attaches the authenticated character to the session.
func (s *Session) SetCharacter(c *world.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.character = c
}

// Ask registers a single-shot callback for the next inbound line,
// bypassing the command pipeline. Registration is not reentrant: calling
// Ask again before a pending ask resolves replaces it, since the contract
// requires a pending ask to resolve before the next registration — callers
// must not register concurrently.
func (s *Session) Ask(cb func(line string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ask = cb
}

// AskYesNo registers a single-shot yes/no prompt. Any input other than a
// recognized affirmative is treated as "no". Recognized affirmatives:
// y, yes (case-insensitive, leading/trailing space trimmed).
func (s *Session) AskYesNo(onAnswer func(yes bool)) {
	s.Ask(func(line string) {
		answer := strings.ToLower(strings.TrimSpace(line))
		onAnswer(answer == "y" || answer == "yes")
	})
}

// Dispatch routes one inbound line to the pending ask callback if one is
// registered, otherwise to handler (normally the command pipeline). It
// also resets the idle timer, since any input counts as activity.
//
// A line arriving faster than the session's inbound rate limit allows is
// dropped before reaching either the ask callback or handler, with a
// one-line warning sent back instead; the idle timer still resets, since
// the client is plainly not idle.
func (s *Session) Dispatch(line string, handler func(line string)) {
	s.resetIdleTimer()

	if !s.limiter.Allow() {
		_ = s.Send("You are sending commands too quickly.")
		return
	}

	s.mu.Lock()
	cb := s.ask
	s.ask = nil
	s.mu.Unlock()

	if cb != nil {
		cb(line)
		return
	}
	handler(line)
}

// Send writes one line to the session, rendering style codes per the
// character's color setting (or colors-on if no character is attached
// yet, e.g. during login).
func (s *Session) Send(line string) error {
	colorEnabled := true
	if c := s.Character(); c != nil {
		colorEnabled = c.Settings.ColorEnabled
	}
	return s.conn.WriteLine(line, colorEnabled)
}

// SendPrompt renders and sends the character's configured prompt template.
// A no-op before a character is attached.
func (s *Session) SendPrompt() error {
	c := s.Character()
	if c == nil {
		return nil
	}
	return s.Send(RenderPrompt(c.Settings.Prompt, c.Mob))
}

// EchoLine writes back the line the client just sent, honoring echo mode:
// EchoClient assumes the client already echoes locally and sends nothing;
// EchoServer echoes explicitly (used while suppress-go-ahead is active and
// local echo has been suppressed, e.g. password entry); EchoOff never
// echoes.
func (s *Session) EchoLine(line string) error {
	c := s.Character()
	if c == nil || c.Settings.EchoMode != world.EchoServer {
		return nil
	}
	return s.conn.WriteLine(line, false)
}

// Close transitions the session to disconnected and tears down the
// transport. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.state = StateDisconnected
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.mu.Unlock()
	return s.conn.Close()
}

// Shutdown sends a warning line before Close, per the server's shutdown
// discipline: every playing session is warned before its stream is torn
// down.
func (s *Session) Shutdown(message string) error {
	_ = s.Send(message)
	return s.Close()
}

func (s *Session) resetIdleTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.idleTimer != nil {
		s.idleTimer.Stop()
	}
	s.idleTimer = time.AfterFunc(s.idleTimeout, func() {
		logrus.WithFields(logrus.Fields{
			"function": "resetIdleTimer",
			"package":  "session",
		}).Info("closing session after inactivity timeout")
		_ = s.Shutdown("You have been idle too long. Disconnecting.")
	})
}

// RenderPrompt substitutes the placeholders %hh %mm %ee %HH %MM %xp %XX
// (current/max health, current/max mana, exhaustion, experience, and
// experience needed for the next level) into template.
func RenderPrompt(template string, m *world.Mob) string {
	if m == nil {
		return template
	}
	d := m.Derive()
	xpForNext := (m.Level + 1) * 1000

	r := strings.NewReplacer(
		"%hh", fmt.Sprintf("%d", m.Current.Health),
		"%HH", fmt.Sprintf("%d", d.MaxHealth),
		"%mm", fmt.Sprintf("%d", m.Current.Mana),
		"%MM", fmt.Sprintf("%d", d.MaxMana),
		"%ee", fmt.Sprintf("%d", m.Current.Exhaustion),
		"%xp", fmt.Sprintf("%d", m.Experience),
		"%XX", fmt.Sprintf("%d", xpForNext),
	)
	return r.Replace(template)
}

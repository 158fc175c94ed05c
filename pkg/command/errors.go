package command

import (
	"fmt"
	"unicode"
)

// ErrorKind classifies an error surfaced to the actor by the command
// pipeline, so callers can decide how to log and present it without string
// matching.
type ErrorKind int

const (
	// ErrKindParse: the line matched no registered pattern, or a required
	// argument's regex group failed to bind.
	ErrKindParse ErrorKind = iota
	// ErrKindResolution: a matched argument's raw text could not be
	// resolved against live world state (e.g. no such mob in the room).
	ErrKindResolution
	// ErrKindPermission: the actor lacks the privilege the command
	// requires.
	ErrKindPermission
	// ErrKindState: the actor's current state forbids the action (e.g.
	// dead, rooted).
	ErrKindState
	// ErrKindResource: a load failed (logged and skipped) or a save failed
	// (logged, retained in memory for the next auto-save attempt). Never
	// surfaced verbatim to an actor; callers report a generic line instead.
	ErrKindResource
	// ErrKindProtocol: the transport received bytes or an option
	// negotiation it cannot honor. The offending session is closed; no
	// other session is affected.
	ErrKindProtocol
	// ErrKindInternal: a precondition the caller believed invariant did
	// not hold. Logged with full context and defused locally; never
	// allowed to crash the process.
	ErrKindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindParse:
		return "parse-error"
	case ErrKindResolution:
		return "resolution-error"
	case ErrKindPermission:
		return "permission-error"
	case ErrKindState:
		return "state-error"
	case ErrKindResource:
		return "resource-error"
	case ErrKindProtocol:
		return "protocol-error"
	case ErrKindInternal:
		return "internal-error"
	default:
		return "unknown-error"
	}
}

// Error is a typed, actor-facing command error: Message is the single line
// reported to the actor, Kind classifies it for logging, and Err (if set)
// is the underlying cause for %w-based wrapping.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func parseError(message string) *Error {
	return &Error{Kind: ErrKindParse, Message: message}
}

func resolutionError(message string) *Error {
	return &Error{Kind: ErrKindResolution, Message: message}
}

// PermissionError constructs a permission-error for use by command
// Execute/OnError handlers.
func PermissionError(message string) *Error {
	return &Error{Kind: ErrKindPermission, Message: message}
}

// StateError constructs a state-error for use by command Execute handlers.
func StateError(message string) *Error {
	return &Error{Kind: ErrKindState, Message: message}
}

// ResourceError wraps a persistence load/save failure. cause is the
// underlying I/O or decode error; message is a short actor-safe summary
// used only where a resource error must be reported at all (most are
// logged and never reach an actor).
func ResourceError(message string, cause error) *Error {
	return &Error{Kind: ErrKindResource, Message: message, Err: cause}
}

// ProtocolError wraps a transport-level failure that terminates the
// offending session.
func ProtocolError(message string, cause error) *Error {
	return &Error{Kind: ErrKindProtocol, Message: message, Err: cause}
}

// InternalError wraps a broken invariant, logged with full context and
// defused locally rather than propagated as a crash.
func InternalError(message string, cause error) *Error {
	return &Error{Kind: ErrKindInternal, Message: message, Err: cause}
}

// capitalizeFirst upper-cases the first rune of s, leaving the rest
// unchanged, so internally-lowercase error messages read as the
// capitalized sentences the transport shows actors.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

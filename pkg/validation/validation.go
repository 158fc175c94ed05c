// Package validation checks the handful of free-form strings the server
// accepts directly from a telnet line before they reach the world or an
// account record: account usernames, passwords, and the raw command line
// itself.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// MaxLineLength bounds a single inbound telnet line. pkg/telnet frames
// lines without a length limit of its own, so this check is the only
// bound on line length.
const MaxLineLength = 1024

var usernameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]{2,19}$`)

// Username reports whether name is an acceptable account username:
// 3-20 characters, starting with a letter, letters and digits only.
func Username(name string) error {
	if !usernameRe.MatchString(name) {
		return fmt.Errorf("usernames must be 3-20 letters or digits, starting with a letter")
	}
	return nil
}

// Password reports whether raw is an acceptable account password: long
// enough to be worth hashing, short enough not to be an abuse vector
// through bcrypt's cost curve.
func Password(raw string) error {
	if len(raw) < 5 {
		return fmt.Errorf("passwords must be at least 5 characters")
	}
	if len(raw) > 72 {
		return fmt.Errorf("passwords must be at most 72 characters")
	}
	return nil
}

// Line reports whether an inbound telnet line is safe to hand to the
// command pipeline: valid UTF-8 and under MaxLineLength.
func Line(raw string) error {
	if len(raw) > MaxLineLength {
		return fmt.Errorf("line exceeds maximum length of %d bytes", MaxLineLength)
	}
	if !utf8.ValidString(raw) {
		return fmt.Errorf("line contains invalid UTF-8")
	}
	return nil
}

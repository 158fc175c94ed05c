// Package validation checks the free-form strings accepted directly off
// the wire: account usernames at registration, passwords at registration,
// and every inbound telnet line before it reaches a session's dispatch.
//
// # Usage
//
//	if err := validation.Username(name); err != nil {
//	    return err
//	}
//	if err := validation.Password(raw); err != nil {
//	    return err
//	}
//	if err := validation.Line(line); err != nil {
//	    return err
//	}
package validation

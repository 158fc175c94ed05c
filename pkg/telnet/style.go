package telnet

import "strings"

// style escape syntax: `{` introduces a code, `{{` is a literal `{`, and
// `{x`/`{X` resets. A single following character names a foreground color
// (lowercase dark, uppercase bright), a digit 0-7 names a background, and
// a handful of letters name text attributes.
const styleEscape = '{'

var foreground = map[byte]string{
	'k': "30", 'r': "31", 'g': "32", 'y': "33", 'b': "34", 'm': "35", 'c': "36", 'w': "37",
	'K': "90", 'R': "91", 'G': "92", 'Y': "93", 'B': "94", 'M': "95", 'C': "96", 'W': "97",
}

var attribute = map[byte]string{
	'o': "1", // bold
	'i': "3", // italic
	'u': "4", // underline
	'l': "5", // blink
	'v': "7", // reverse
	's': "9", // strikethrough
}

// RenderStyle converts in-band style codes to ANSI SGR escape sequences
// when colorEnabled is true, or strips them entirely otherwise. A "sticky
// color" rewrite replaces internal resets (`{x`/`{X`) with the outermost
// active color instead of a bare reset, and a final reset is appended, so a
// colored segment survives nested styling without bleeding into whatever
// follows it in the same message.
func RenderStyle(s string, colorEnabled bool) string {
	var out strings.Builder
	var sticky string // outermost (first set) foreground/background SGR code, re-applied on inner reset
	opened := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != styleEscape {
			out.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			out.WriteByte(c)
			break
		}
		code := s[i+1]
		i++

		if code == styleEscape {
			out.WriteByte(styleEscape)
			continue
		}
		if !colorEnabled {
			continue
		}

		switch {
		case code == 'x' || code == 'X':
			if sticky != "" {
				out.WriteString("\x1b[0m\x1b[" + sticky + "m")
			} else {
				out.WriteString("\x1b[0m")
			}
		case code >= '0' && code <= '7':
			sgr := "4" + string(code)
			out.WriteString("\x1b[" + sgr + "m")
			if sticky == "" {
				sticky = sgr
			}
			opened = true
		default:
			if sgr, ok := foreground[code]; ok {
				out.WriteString("\x1b[" + sgr + "m")
				if sticky == "" {
					sticky = sgr
				}
				opened = true
			} else if sgr, ok := attribute[code]; ok {
				// attributes compound with the current sticky color but do
				// not themselves become the color a later reset restores
				out.WriteString("\x1b[" + sgr + "m")
				opened = true
			}
			// unrecognized style letters are silently dropped
		}
	}

	if colorEnabled && opened {
		out.WriteString("\x1b[0m")
	}
	return out.String()
}

// StripColors removes every style code without interpreting it, for
// contexts that never render color (log lines, board persistence).
func StripColors(s string) string {
	var out strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != styleEscape {
			out.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			break
		}
		if s[i+1] == styleEscape {
			out.WriteByte(styleEscape)
		}
		i++
	}
	return out.String()
}

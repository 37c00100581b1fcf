// Package sanitizer rewrites text before it is embedded in rendered records
// or diagnostic lines.
package sanitizer

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Policy selects how text is rewritten
type Policy uint8

const (
	// Raw passes text through unchanged
	Raw Policy = iota
	// Quoted backslash-escapes '"', '\' and control characters. The result is
	// valid between double quotes in JSON and YAML.
	Quoted
	// Line keeps free text on one diagnostic line: CR and LF become spaces,
	// other non-printable runes are written as their UTF-8 bytes "<XXYY>".
	Line
)

// String returns the policy name
func (p Policy) String() string {
	switch p {
	case Raw:
		return "raw"
	case Quoted:
		return "quoted"
	case Line:
		return "line"
	default:
		return "Policy(" + strconv.Itoa(int(p)) + ")"
	}
}

// Sanitize returns s rewritten under p. Text that needs no rewriting is
// returned without copying.
func Sanitize(p Policy, s string) string {
	i := firstRewrite(p, s)
	if i < 0 {
		return s
	}
	buf := make([]byte, 0, len(s)+16)
	buf = append(buf, s[:i]...)
	return string(appendFrom(buf, p, s[i:]))
}

// Append appends s rewritten under p to dst
func Append(dst []byte, p Policy, s string) []byte {
	i := firstRewrite(p, s)
	if i < 0 {
		return append(dst, s...)
	}
	dst = append(dst, s[:i]...)
	return appendFrom(dst, p, s[i:])
}

// firstRewrite returns the byte offset of the first rune p rewrites, or -1
func firstRewrite(p Policy, s string) int {
	if p == Raw {
		return -1
	}
	for i, r := range s {
		if needsRewrite(p, r) {
			return i
		}
	}
	return -1
}

func needsRewrite(p Policy, r rune) bool {
	switch p {
	case Quoted:
		return r == '"' || r == '\\' || unicode.IsControl(r)
	case Line:
		return r == '\n' || r == '\r' || !strconv.IsPrint(r)
	default:
		return false
	}
}

func appendFrom(dst []byte, p Policy, s string) []byte {
	for _, r := range s {
		if !needsRewrite(p, r) {
			dst = utf8.AppendRune(dst, r)
			continue
		}
		if p == Quoted {
			dst = appendEscaped(dst, r)
		} else {
			dst = appendLine(dst, r)
		}
	}
	return dst
}

func appendEscaped(dst []byte, r rune) []byte {
	switch r {
	case '\n':
		return append(dst, '\\', 'n')
	case '\r':
		return append(dst, '\\', 'r')
	case '\t':
		return append(dst, '\\', 't')
	case '\b':
		return append(dst, '\\', 'b')
	case '\f':
		return append(dst, '\\', 'f')
	case '"', '\\':
		return append(dst, '\\', byte(r))
	}

	// Remaining C0 and C1 controls
	const hexDigits = "0123456789abcdef"
	return append(dst, '\\', 'u', '0', '0', hexDigits[r>>4&0xF], hexDigits[r&0xF])
}

func appendLine(dst []byte, r rune) []byte {
	if r == '\n' || r == '\r' {
		return append(dst, ' ')
	}

	const hexDigits = "0123456789abcdef"
	var enc [utf8.UTFMax]byte
	n := utf8.EncodeRune(enc[:], r)
	dst = append(dst, '<')
	for _, b := range enc[:n] {
		dst = append(dst, hexDigits[b>>4], hexDigits[b&0xF])
	}
	return append(dst, '>')
}

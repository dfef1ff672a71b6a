package scripts

import (
	"strings"
	"unicode/utf8"

	"github.com/wasilibs/go-re2"
	"golang.org/x/text/unicode/norm"
)

const redacted = "[REDACTED]"

// Script output ends up in a log file readable by operators, so terminal
// control sequences and obvious credentials are scrubbed first.
var (
	ansiEscape = re2.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

	secretPatterns = []*re2.Regexp{
		re2.MustCompile(`(?i)((?:password|passwd|pwd|secret|token|api[_-]?key)\s*[=:]\s*)("[^"]*"|'[^']*'|\S+)`),
		re2.MustCompile(`(?i)(authorization:\s*(?:basic|bearer)\s+)\S+`),
		re2.MustCompile(`(?i)(-(?:password|credential)\s+)("[^"]*"|'[^']*'|\S+)`),
	}
)

// maxOutputLen caps one logged stream.
const maxOutputLen = 16 * 1024

// Sanitize prepares captured output for the log: NFC normalization, ANSI
// escapes and control characters stripped, secret values redacted, length
// capped.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	out := norm.NFC.String(s)
	out = ansiEscape.ReplaceAllString(out, "")
	out = stripControl(out)
	for _, p := range secretPatterns {
		out = p.ReplaceAllString(out, "${1}"+redacted)
	}
	out = strings.TrimSpace(out)

	if len(out) > maxOutputLen {
		out = truncateRunes(out, maxOutputLen) + "...(truncated)"
	}
	return out
}

// truncateRunes cuts s to at most n bytes without splitting a rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func stripControl(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

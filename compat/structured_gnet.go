package compat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lixenwraith/eventlog"
)

// Matches "key=%v" or "key: %v" verbs in printf-style formats
var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcU]`)

// parseFormat extracts key/value fields from a printf-style format string.
// Text outside the matched pairs becomes the "msg" field.
func parseFormat(format string, args []any) []any {
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 || len(matches) > len(args) {
		return []any{"msg", fmt.Sprintf(format, args...)}
	}

	var msg []string
	fields := make([]any, 0, len(matches)*2+2)
	lastEnd := 0

	for i, match := range matches {
		if prefix := strings.TrimSpace(format[lastEnd:match[0]]); prefix != "" {
			msg = append(msg, prefix)
		}
		fields = append(fields, format[match[2]:match[3]], args[i])
		lastEnd = match[1]
	}

	if lastEnd < len(format) {
		remaining := strings.TrimSpace(fmt.Sprintf(format[lastEnd:], args[len(matches):]...))
		if remaining != "" {
			msg = append(msg, remaining)
		}
	}

	return append([]any{"msg", strings.Join(msg, " ")}, fields...)
}

// StructuredGnetAdapter is a GnetAdapter that writes "key=%v" pairs of the
// format as separate fields
type StructuredGnetAdapter struct {
	*GnetAdapter
}

// NewStructuredGnetAdapter creates a gnet adapter with structured field extraction
func NewStructuredGnetAdapter(logger *eventlog.Logger, opts ...GnetOption) *StructuredGnetAdapter {
	adapter := NewGnetAdapter(logger, opts...)
	adapter.fields = parseFormat
	return &StructuredGnetAdapter{GnetAdapter: adapter}
}

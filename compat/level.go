package compat

import (
	"strings"

	"github.com/lixenwraith/eventlog"
)

// Level classifies messages of the wrapped libraries
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the level name
func (lv Level) String() string {
	switch lv {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// emit writes fields to the diagnostic channel of lv:
// debug to TraceDebug, info to DebugInfo, warn and error to TraceError
func emit(l *eventlog.Logger, lv Level, fields ...any) {
	switch lv {
	case LevelDebug:
		l.TraceDebug(fields...)
	case LevelWarn:
		l.TraceError(append(fields, "level", lv.String())...)
	case LevelError:
		l.TraceError(fields...)
	default:
		l.DebugInfo(fields...)
	}
}

// DetectLogLevel attempts to detect log level from message content
func DetectLogLevel(msg string) Level {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") {
		return LevelError
	}

	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return LevelWarn
	}

	if strings.Contains(msgLower, "debug") ||
		strings.Contains(msgLower, "trace") {
		return LevelDebug
	}

	return LevelInfo
}

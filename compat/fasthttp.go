package compat

import (
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/eventlog"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter routes fasthttp's Printf logging into the diagnostic channels
type FastHTTPAdapter struct {
	logger        *eventlog.Logger
	levelDetector func(string) Level // Detects the level from message content
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger *eventlog.Logger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		levelDetector: DetectLogLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithLevelDetector sets a custom function to detect log level from message content
func WithLevelDetector(detector func(string) Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// WithFixedLevel routes every message to the channel of level
func WithFixedLevel(level Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = func(string) Level { return level }
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := LevelInfo
	if a.levelDetector != nil {
		level = a.levelDetector(msg)
	}

	emit(a.logger, level, "msg", msg, "source", "fasthttp")
}

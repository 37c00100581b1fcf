package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/eventlog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter routes gnet's internal logging into the diagnostic channels.
// Every line ends with "source gnet".
type GnetAdapter struct {
	logger       *eventlog.Logger
	fields       func(format string, args []any) []any // Builds the leading fields of a line
	fatalHandler func(msg string)
}

// NewGnetAdapter creates an adapter writing each message as one "msg" field
func NewGnetAdapter(logger *eventlog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fields: messageFields,
		fatalHandler: func(string) {
			os.Exit(1)
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption customizes a GnetAdapter
type GnetOption func(*GnetAdapter)

// WithFatalHandler replaces the default os.Exit(1) after Fatalf
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// Debugf writes to TraceDebug
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.log(LevelDebug, format, args)
}

// Infof writes to DebugInfo
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.log(LevelInfo, format, args)
}

// Warnf writes to TraceError, marked as a warning
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.log(LevelWarn, format, args)
}

// Errorf writes to TraceError
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.log(LevelError, format, args)
}

// Fatalf writes to TraceError, flushes buffered records and calls the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	a.log(LevelError, format, args, "fatal", true)

	if err := a.logger.Flush(); err != nil {
		a.logger.TraceError("msg", "flush before exit failed", "error", err)
	}

	if a.fatalHandler != nil {
		a.fatalHandler(fmt.Sprintf(format, args...))
	}
}

func (a *GnetAdapter) log(lv Level, format string, args []any, extra ...any) {
	fields := append(a.fields(format, args), "source", "gnet")
	emit(a.logger, lv, append(fields, extra...)...)
}

func messageFields(format string, args []any) []any {
	return []any{"msg", fmt.Sprintf(format, args...)}
}

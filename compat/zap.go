package compat

import (
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lixenwraith/eventlog"
)

var _ zapcore.Core = (*ZapCore)(nil)

// ZapCore is a zapcore.Core that writes zap entries into the diagnostic channels.
// Fields are written as "key value" pairs sorted by key after the message.
type ZapCore struct {
	zapcore.LevelEnabler
	logger *eventlog.Logger
	fields []zapcore.Field // Context added with With
}

// NewZapCore creates a core for entries enabled by enab
func NewZapCore(logger *eventlog.Logger, enab zapcore.LevelEnabler) *ZapCore {
	return &ZapCore{LevelEnabler: enab, logger: logger}
}

// NewZapLogger creates a *zap.Logger at debug level backed by logger
func NewZapLogger(logger *eventlog.Logger, opts ...zap.Option) *zap.Logger {
	return zap.New(NewZapCore(logger, zapcore.DebugLevel), opts...)
}

// With returns a core carrying fields in addition to the current context
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = make([]zapcore.Field, 0, len(c.fields)+len(fields))
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return &clone
}

// Check adds the core to ce when the entry level is enabled
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write emits the entry to the channel of its level
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, 2*len(keys)+6)
	args = append(args, "msg", ent.Message)
	if ent.LoggerName != "" {
		args = append(args, "logger", ent.LoggerName)
	}
	for _, k := range keys {
		args = append(args, k, enc.Fields[k])
	}
	args = append(args, "source", "zap")

	emit(c.logger, zapLevel(ent.Level), args...)
	return nil
}

// Sync is a no-op, channel writes are synced as they happen
func (c *ZapCore) Sync() error {
	return nil
}

func zapLevel(lv zapcore.Level) Level {
	switch {
	case lv <= zapcore.DebugLevel:
		return LevelDebug
	case lv == zapcore.InfoLevel:
		return LevelInfo
	case lv == zapcore.WarnLevel:
		return LevelWarn
	default:
		return LevelError
	}
}

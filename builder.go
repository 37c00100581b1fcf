package eventlog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a new Logger instance with the specified configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	logger := NewLogger()

	// ApplyConfig handles all initialization and validation
	if err := logger.ApplyConfig(b.cfg); err != nil {
		return nil, err
	}

	return logger, nil
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// AppEventName sets the prefix of the per-month event files.
func (b *Builder) AppEventName(name string) *Builder {
	b.cfg.AppEventName = name
	return b
}

// HistoryName sets the history file name.
func (b *Builder) HistoryName(name string) *Builder {
	b.cfg.HistoryName = name
	return b
}

// Extension sets the file extension.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// Encoding sets the file encoding, utf-16le or utf-8.
func (b *Builder) Encoding(enc string) *Builder {
	b.cfg.Encoding = enc
	return b
}

// WriteMode sets the event store write mode.
func (b *Builder) WriteMode(mode WriteMode) *Builder {
	b.cfg.WriteMode = mode.String()
	return b
}

// WriteModeString sets the event store write mode from a string.
func (b *Builder) WriteModeString(mode string) *Builder {
	if b.err != nil {
		return b
	}
	m, err := ParseWriteMode(mode)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.WriteMode = m.String()
	return b
}

// HistoryWriteMode sets the history store write mode.
func (b *Builder) HistoryWriteMode(mode WriteMode) *Builder {
	b.cfg.HistoryWriteMode = mode.String()
	return b
}

// MaxRecords sets the buffered record capacity, Unbounded for none.
func (b *Builder) MaxRecords(n int64) *Builder {
	b.cfg.MaxRecords = n
	return b
}

// DiagMaxSizeKB sets the diagnostic file rotation threshold in KB.
func (b *Builder) DiagMaxSizeKB(size int64) *Builder {
	b.cfg.DiagMaxSizeKB = size
	return b
}

// DiagMaxSizeMB sets the diagnostic file rotation threshold in MB. Convenience.
func (b *Builder) DiagMaxSizeMB(size int64) *Builder {
	b.cfg.DiagMaxSizeKB = size * sizeMultiplier
	return b
}

// BackupSlots sets the number of numbered backups per channel.
func (b *Builder) BackupSlots(n int64) *Builder {
	b.cfg.BackupSlots = n
	return b
}

// EnableTraceError toggles the TraceError channel.
func (b *Builder) EnableTraceError(enable bool) *Builder {
	b.cfg.EnableTraceError = enable
	return b
}

// EnableTraceDebug toggles the TraceDebug channel.
func (b *Builder) EnableTraceDebug(enable bool) *Builder {
	b.cfg.EnableTraceDebug = enable
	return b
}

// EnableDebugInfo toggles the DebugInfo channel.
func (b *Builder) EnableDebugInfo(enable bool) *Builder {
	b.cfg.EnableDebugInfo = enable
	return b
}

// DebugTarget sets where DebugOut goes: default, file or viewer.
func (b *Builder) DebugTarget(target string) *Builder {
	if b.err != nil {
		return b
	}
	if _, err := ParseDebugTarget(target); err != nil {
		b.err = err
		return b
	}
	b.cfg.DebugTarget = target
	return b
}

// ErrorQueueSize sets the capacity of the Errors() channel.
func (b *Builder) ErrorQueueSize(n int64) *Builder {
	b.cfg.ErrorQueueSize = n
	return b
}

// InternalErrorsToStderr enables internal diagnostics on stderr.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
// logger, err := eventlog.NewBuilder().
//
//	Directory("/var/log/app").
//	Encoding("utf-8").
//	WriteMode(eventlog.WriteModeInstantly).
//	DiagMaxSizeKB(512).
//	Build()
//
// if err == nil {
//
//	 defer logger.Close()
//	 logger.TraceDebug("logger initialized")
//
// }

package eventlog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/eventlog/formatter"
	"github.com/lixenwraith/eventlog/record"
)

// ErrNotInitialized is returned for record output before ApplyConfig or after Close
var ErrNotInitialized = errors.New("eventlog: logger not initialized")

// Logger owns the application-event store, the history store and the
// diagnostic channels of one process
type Logger struct {
	currentConfig atomic.Value // stores *Config
	state         State
	initMu        sync.Mutex

	events  *Store
	history *Store
	diag    atomic.Value // stores *Diagnostics
	errCh   atomic.Value // stores chan error

	routeMu       sync.Mutex
	routeFmt      *formatter.Formatter
	debugOut      atomic.Value // stores *sink
	viewer        atomic.Value // stores *sink
	viewerVisible atomic.Bool
}

// NewLogger creates a Logger with default settings. Nothing touches the disk
// until ApplyConfig.
func NewLogger() *Logger {
	cfg := DefaultConfig()
	l := &Logger{routeFmt: formatter.New()}
	l.currentConfig.Store(cfg)

	l.state.IsInitialized.Store(false)
	l.state.CloseCalled.Store(false)
	l.state.StartTime.Store(time.Now())

	l.diag.Store((*Diagnostics)(nil))
	l.errCh.Store(make(chan error, cfg.ErrorQueueSize))
	l.debugOut.Store(&sink{w: os.Stderr})
	l.viewer.Store(&sink{})

	l.events = l.newOwnedStore()
	l.history = l.newOwnedStore()
	// Default config is valid, errors are impossible here
	_ = l.events.configure(eventStoreConfig(cfg))
	_ = l.history.configure(historyStoreConfig(cfg))
	l.events.SetWriteMode(WriteModeReadOnly)
	l.history.SetWriteMode(WriteModeReadOnly)

	return l
}

// Open creates a Logger and applies cfg
func Open(cfg *Config) (*Logger, error) {
	l := NewLogger()
	if err := l.ApplyConfig(cfg); err != nil {
		return nil, err
	}
	return l, nil
}

// ApplyConfig validates and applies cfg. Buffered records survive a
// reconfiguration; diagnostic channels are reopened at their new paths.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}

	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	return l.applyConfig(cfg.Clone())
}

// GetConfig returns a copy of current configuration
func (l *Logger) GetConfig() *Config {
	return l.getConfig().Clone()
}

// Close flushes buffered stores, makes them read-only and releases the
// diagnostic files. Records a failed flush left behind stay buffered.
func (l *Logger) Close() error {
	if !l.state.CloseCalled.CompareAndSwap(false, true) {
		return nil
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if !l.state.IsInitialized.Load() {
		return nil
	}

	finalErr := l.flushStores()
	l.events.SetWriteMode(WriteModeReadOnly)
	l.history.SetWriteMode(WriteModeReadOnly)

	if d := l.getDiagnostics(); d != nil {
		finalErr = combineErrors(finalErr, d.Close())
	}
	l.diag.Store((*Diagnostics)(nil))
	l.state.IsInitialized.Store(false)

	return finalErr
}

// Flush writes the records buffered by on_call stores
func (l *Logger) Flush() error {
	if !l.state.IsInitialized.Load() {
		return fmt.Errorf("%w, call ApplyConfig first", ErrNotInitialized)
	}
	return l.flushStores()
}

// Events returns the per-month application-event store
func (l *Logger) Events() *Store {
	return l.events
}

// History returns the single-file history store
func (l *Logger) History() *Store {
	return l.history
}

// Diagnostics returns the diagnostic channels, nil before ApplyConfig or after Close
func (l *Logger) Diagnostics() *Diagnostics {
	return l.getDiagnostics()
}

// Errors delivers store I/O failures. Sends never block; failures arriving
// while the channel is full are counted and dropped. The channel is sized by
// the first ApplyConfig; obtain it after that call.
func (l *Logger) Errors() <-chan error {
	return l.errCh.Load().(chan error)
}

// OutputEvent hands rec to the application-event store
func (l *Logger) OutputEvent(rec record.Record) error {
	if !l.state.IsInitialized.Load() {
		return ErrNotInitialized
	}
	return l.events.OutputRecord(rec)
}

// OutputHistory hands rec to the history store
func (l *Logger) OutputHistory(rec record.Record) error {
	if !l.state.IsInitialized.Load() {
		return ErrNotInitialized
	}
	return l.history.OutputRecord(rec)
}

// TraceError writes a line to the TraceError channel
func (l *Logger) TraceError(args ...any) {
	if d := l.getDiagnostics(); d != nil {
		_ = d.Error.Write(args...)
	}
}

// TraceErrorf writes a printf-style line to the TraceError channel
func (l *Logger) TraceErrorf(format string, args ...any) {
	if d := l.getDiagnostics(); d != nil {
		_ = d.Error.Writef(format, args...)
	}
}

// TraceDebug writes a line to the TraceDebug channel
func (l *Logger) TraceDebug(args ...any) {
	if d := l.getDiagnostics(); d != nil {
		_ = d.Debug.Write(args...)
	}
}

// TraceDebugf writes a printf-style line to the TraceDebug channel
func (l *Logger) TraceDebugf(format string, args ...any) {
	if d := l.getDiagnostics(); d != nil {
		_ = d.Debug.Writef(format, args...)
	}
}

// DebugInfo writes a line to the DebugInfo channel
func (l *Logger) DebugInfo(args ...any) {
	if d := l.getDiagnostics(); d != nil {
		_ = d.Info.Write(args...)
	}
}

// DebugInfof writes a printf-style line to the DebugInfo channel
func (l *Logger) DebugInfof(format string, args ...any) {
	if d := l.getDiagnostics(); d != nil {
		_ = d.Info.Writef(format, args...)
	}
}

// DebugDump writes a typed dump of v to the DebugInfo channel
func (l *Logger) DebugDump(v any) {
	if d := l.getDiagnostics(); d != nil {
		_ = d.Info.Write(formatter.Dump(v))
	}
}

// getConfig returns the current configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.currentConfig.Load().(*Config)
}

func (l *Logger) getDiagnostics() *Diagnostics {
	d, _ := l.diag.Load().(*Diagnostics)
	return d
}

// applyConfig is the internal implementation for applying configuration, assuming initMu is held
func (l *Logger) applyConfig(cfg *Config) error {
	if err := os.MkdirAll(cfg.Directory, 0755); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", cfg.Directory, err)
	}

	diag, err := newDiagnostics(cfg)
	if err != nil {
		return err
	}
	for _, ch := range diag.Channels() {
		ch.state = &l.state
		ch.internalLog = l.internalLog
	}

	if err := l.events.configure(eventStoreConfig(cfg)); err != nil {
		return err
	}
	if err := l.history.configure(historyStoreConfig(cfg)); err != nil {
		return err
	}

	pid := os.Getpid()
	if _, ok := l.events.DefaultTemplate(); !ok {
		l.events.SetDefaultTemplate(record.Record{PID: pid, Category: record.CategoryAppEvent})
	}
	if _, ok := l.history.DefaultTemplate(); !ok {
		l.history.SetDefaultTemplate(record.Record{PID: pid, Category: record.CategoryHistory})
	}

	if old := l.getDiagnostics(); old != nil {
		if err := old.Close(); err != nil {
			l.internalLog("warning - failed to close diagnostic files: %v\n", err)
		}
	}
	l.diag.Store(diag)

	if !l.state.IsInitialized.Load() {
		l.errCh.Store(make(chan error, cfg.ErrorQueueSize))
	}

	l.currentConfig.Store(cfg)
	l.state.IsInitialized.Store(true)
	l.state.CloseCalled.Store(false)

	return nil
}

func (l *Logger) newOwnedStore() *Store {
	return &Store{
		state:      &l.state,
		traceError: l.TraceErrorf,
		notify:     l.postError,
	}
}

func (l *Logger) flushStores() error {
	var finalErr error
	for _, s := range []*Store{l.events, l.history} {
		if s.WriteMode() != WriteModeOnCall || s.LogCount() == 0 {
			continue
		}
		finalErr = combineErrors(finalErr, s.Flush())
	}
	return finalErr
}

// postError sends err to Errors() without blocking
func (l *Logger) postError(err error) {
	select {
	case l.errCh.Load().(chan error) <- err:
	default:
		l.state.NotificationsDropped.Add(1)
	}
}

// internalLog handles writing internal logger diagnostics to stderr, if enabled.
func (l *Logger) internalLog(format string, args ...any) {
	if !l.getConfig().InternalErrorsToStderr {
		return
	}

	if !strings.HasPrefix(format, "eventlog: ") {
		format = "eventlog: " + format
	}

	fmt.Fprintf(os.Stderr, format, args...)
}

func eventStoreConfig(cfg *Config) StoreConfig {
	mode, _ := ParseWriteMode(cfg.WriteMode)
	return StoreConfig{
		Type:      LogTypeAppEvent,
		Directory: cfg.Directory,
		Name:      cfg.AppEventName,
		Extension: cfg.Extension,
		Encoding:  cfg.Encoding,
		WriteMode: mode,
		MaxSize:   int(cfg.MaxRecords),
	}
}

func historyStoreConfig(cfg *Config) StoreConfig {
	mode, _ := ParseWriteMode(cfg.HistoryWriteMode)
	return StoreConfig{
		Type:      LogTypeHistory,
		Directory: cfg.Directory,
		Name:      cfg.HistoryName,
		Extension: cfg.Extension,
		Encoding:  cfg.Encoding,
		WriteMode: mode,
		MaxSize:   int(cfg.MaxRecords),
	}
}

package eventlog

import (
	"io"
	"strings"
	"time"

	"github.com/lixenwraith/eventlog/formatter"
)

// SetDebugOutput replaces the default debug output, stderr unless set.
// A nil writer discards default output.
func (l *Logger) SetDebugOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	l.debugOut.Store(&sink{w: w})
}

// SetViewer attaches an external debug viewer. A nil writer detaches it.
func (l *Logger) SetViewer(w io.Writer) {
	l.viewer.Store(&sink{w: w})
}

// SetViewerVisible marks the viewer as visible. A visible viewer receives
// DebugOut regardless of the configured target.
func (l *Logger) SetViewerVisible(visible bool) {
	l.viewerVisible.Store(visible)
}

// ViewerVisible reports whether the viewer is marked visible
func (l *Logger) ViewerVisible() bool {
	return l.viewerVisible.Load()
}

// DebugOut routes a debug line to the default output, the DebugInfo channel
// or the viewer. File output is dropped while the logger is not initialized.
func (l *Logger) DebugOut(format string, args ...any) {
	switch l.resolveDebugTarget() {
	case DebugTargetFile:
		if !l.state.IsInitialized.Load() {
			return
		}
		l.DebugInfof(format, args...)
	case DebugTargetViewer:
		l.writeRoute(l.viewer.Load().(*sink).w, format, args...)
	default:
		l.writeRoute(l.debugOut.Load().(*sink).w, format, args...)
	}
}

// DebugWriter returns an io.Writer whose lines go through DebugOut
func (l *Logger) DebugWriter() io.Writer {
	return &debugWriter{l: l}
}

// resolveDebugTarget applies the viewer override; a viewer target without
// an attached viewer falls back to the default output
func (l *Logger) resolveDebugTarget() DebugTarget {
	hasViewer := l.viewer.Load().(*sink).w != nil
	if l.viewerVisible.Load() && hasViewer {
		return DebugTargetViewer
	}

	target, err := ParseDebugTarget(l.getConfig().DebugTarget)
	if err != nil || (target == DebugTargetViewer && !hasViewer) {
		return DebugTargetDefault
	}
	return target
}

func (l *Logger) writeRoute(w io.Writer, format string, args ...any) {
	l.routeMu.Lock()
	defer l.routeMu.Unlock()

	line := l.routeFmt.Formatf(formatter.TagDebug, time.Now(), format, args...)
	if _, err := w.Write(line); err != nil {
		l.internalLog("failed to write debug output: %v\n", err)
	}
}

// debugWriter adapts DebugOut to io.Writer, one DebugOut call per line
type debugWriter struct {
	l *Logger
}

var _ io.Writer = (*debugWriter)(nil)

func (w *debugWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			w.l.DebugOut("%s", line)
		}
	}
	return len(p), nil
}

package eventlog

import (
	"fmt"
	"runtime"
	"time"
)

// Stats is a snapshot of the logger counters
type Stats struct {
	Uptime               time.Duration
	BufferedEvents       int // Records currently held by the event store
	BufferedHistory      int // Records currently held by the history store
	RecordsBuffered      uint64
	RecordsDropped       uint64
	RecordsFlushed       uint64
	InstantWrites        uint64
	Rotations            uint64
	RotationFailures     uint64
	IOErrors             uint64
	NotificationsDropped uint64
}

// Stats returns the current counters
func (l *Logger) Stats() Stats {
	var uptime time.Duration
	if startTime, ok := l.state.StartTime.Load().(time.Time); ok && !startTime.IsZero() {
		uptime = time.Since(startTime)
	}

	return Stats{
		Uptime:               uptime,
		BufferedEvents:       l.events.LogCount(),
		BufferedHistory:      l.history.LogCount(),
		RecordsBuffered:      l.state.RecordsBuffered.Load(),
		RecordsDropped:       l.state.RecordsDropped.Load(),
		RecordsFlushed:       l.state.RecordsFlushed.Load(),
		InstantWrites:        l.state.InstantWrites.Load(),
		Rotations:            l.state.Rotations.Load(),
		RotationFailures:     l.state.RotationFailures.Load(),
		IOErrors:             l.state.IOErrors.Load(),
		NotificationsDropped: l.state.NotificationsDropped.Load(),
	}
}

// LogStats writes the counters and runtime figures as one DebugInfo line
func (l *Logger) LogStats() {
	if !l.state.IsInitialized.Load() {
		return
	}

	st := l.Stats()
	sequence := l.state.StatsSequence.Add(1)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	args := []any{
		"type", "stats",
		"sequence", sequence,
		"uptime_hours", fmt.Sprintf("%.2f", st.Uptime.Hours()),
		"buffered_events", st.BufferedEvents,
		"buffered_history", st.BufferedHistory,
		"records_flushed", st.RecordsFlushed,
		"instant_writes", st.InstantWrites,
		"rotations", st.Rotations,
		"io_errors", st.IOErrors,
		"alloc_mb", fmt.Sprintf("%.2f", float64(memStats.Alloc)/(1000*1000)),
		"num_goroutine", runtime.NumGoroutine(),
	}

	// Loss counters only when non-zero
	if st.RecordsDropped > 0 {
		args = append(args, "records_dropped", st.RecordsDropped)
	}
	if st.RotationFailures > 0 {
		args = append(args, "rotation_failures", st.RotationFailures)
	}
	if st.NotificationsDropped > 0 {
		args = append(args, "notifications_dropped", st.NotificationsDropped)
	}

	l.DebugInfo(args...)
}

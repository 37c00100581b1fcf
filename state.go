package eventlog

import (
	"io"
	"sync/atomic"
)

// State holds the lifecycle flags and counters shared by a Logger, its stores
// and its diagnostic channels
type State struct {
	IsInitialized atomic.Bool
	CloseCalled   atomic.Bool
	StartTime     atomic.Value // stores time.Time

	// Stats statistics
	StatsSequence        atomic.Uint64 // Counter for LogStats lines
	RecordsBuffered      atomic.Uint64 // Records accepted into a buffered store
	RecordsDropped       atomic.Uint64 // Records rejected by a full buffer
	RecordsFlushed       atomic.Uint64 // Buffered records written by Flush
	InstantWrites        atomic.Uint64 // Records written in instant mode
	Rotations            atomic.Uint64 // Diagnostic files moved to a backup slot
	RotationFailures     atomic.Uint64 // Rotations skipped, all slots taken or rename failed
	IOErrors             atomic.Uint64 // Failed record or diagnostic writes
	NotificationsDropped atomic.Uint64 // Errors not delivered, Errors() channel full
}

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	w io.Writer
}

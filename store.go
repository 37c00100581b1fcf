package eventlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/lixenwraith/eventlog/record"
)

var (
	ErrReadOnly      = errors.New("eventlog: store is read-only")
	ErrBufferFull    = errors.New("eventlog: record buffer full")
	ErrNoTemplate    = errors.New("eventlog: no template record")
	ErrFlushRejected = errors.New("eventlog: flush requires on_call write mode")
)

// StoreConfig describes one record store
type StoreConfig struct {
	Type       LogType
	Directory  string
	Name       string // File name prefix (per month) or fixed file name (history)
	Extension  string
	Encoding   string
	WriteMode  WriteMode
	MaxSize    int // Buffered record capacity, Unbounded for none
	Dictionary *record.Dictionary
}

// Store buffers or writes log records to per-month or single history files
type Store struct {
	mu sync.Mutex

	logType   LogType
	directory string
	name      string
	extension string
	enc       textEncoding
	writeMode WriteMode
	maxSize   int
	dict      *record.Dictionary

	records     []record.Record
	template    record.Record
	hasTemplate bool

	state      *State
	traceError func(format string, args ...any)
	notify     func(err error)
}

// NewStore creates a standalone store. Stores owned by a Logger also trace
// failures into its error channel and post them to Logger.Errors().
func NewStore(cfg StoreConfig) (*Store, error) {
	s := &Store{state: &State{}}
	if err := s.configure(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// configure applies cfg, keeping buffered records and the template
func (s *Store) configure(cfg StoreConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmtErrorf("store name cannot be empty")
	}
	if cfg.MaxSize < Unbounded {
		return fmtErrorf("invalid store capacity: %d", cfg.MaxSize)
	}
	te, err := lookupEncoding(cfg.Encoding)
	if err != nil {
		return err
	}

	dict := cfg.Dictionary
	if dict == nil {
		dict = record.DefaultDictionary()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.logType = cfg.Type
	s.directory = cfg.Directory
	s.name = cfg.Name
	s.extension = strings.TrimPrefix(cfg.Extension, ".")
	s.enc = te
	s.writeMode = cfg.WriteMode
	s.maxSize = cfg.MaxSize
	s.dict = dict
	return nil
}

// SetWriteMode changes the write policy. Buffered records stay in memory.
func (s *Store) SetWriteMode(mode WriteMode) {
	s.mu.Lock()
	s.writeMode = mode
	s.mu.Unlock()
}

// WriteMode returns the write policy
func (s *Store) WriteMode() WriteMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeMode
}

// SetMaxSize sets the buffered record capacity. Records already buffered
// beyond a lowered capacity are kept; new records are rejected.
func (s *Store) SetMaxSize(n int) {
	if n < Unbounded {
		n = Unbounded
	}
	s.mu.Lock()
	s.maxSize = n
	s.mu.Unlock()
}

// MaxSize returns the buffered record capacity
func (s *Store) MaxSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxSize
}

// SetDefaultTemplate sets the record copied by OutputString
func (s *Store) SetDefaultTemplate(rec record.Record) {
	s.mu.Lock()
	s.template = rec.Clone()
	s.hasTemplate = true
	s.mu.Unlock()
}

// DefaultTemplate returns a copy of the template, if one is set
func (s *Store) DefaultTemplate() (record.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.template.Clone(), s.hasTemplate
}

// LogCount returns the number of buffered records
func (s *Store) LogCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// LogItem returns a copy of the buffered record at index, clamped to the
// valid range. An empty store returns the zero Record.
func (s *Store) LogItem(index int) record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return record.Record{}
	}
	index = max(0, min(index, len(s.records)-1))
	return s.records[index].Clone()
}

// Records returns copies of all buffered records in output order
func (s *Store) Records() []record.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]record.Record, len(s.records))
	for i := range s.records {
		out[i] = s.records[i].Clone()
	}
	return out
}

// Clear discards buffered records
func (s *Store) Clear() {
	s.mu.Lock()
	s.records = nil
	s.mu.Unlock()
}

// FilePath returns the file a record stamped t is written to
func (s *Store) FilePath(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filePathLocked(t)
}

func (s *Store) filePathLocked(t time.Time) string {
	base := s.name
	if s.logType == LogTypeAppEvent {
		base = fmt.Sprintf("%s-%04d-%02d", s.name, t.Year(), int(t.Month()))
	}
	if s.extension != "" {
		base += "." + s.extension
	}
	return filepath.Join(s.directory, base)
}

// OutputRecord writes rec immediately in instant mode, otherwise buffers a copy
func (s *Store) OutputRecord(rec record.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputLocked(rec)
}

func (s *Store) outputLocked(rec record.Record) error {
	switch s.writeMode {
	case WriteModeReadOnly:
		return ErrReadOnly
	case WriteModeInstantly:
		return s.writeInstantLocked(rec)
	}

	if s.maxSize != Unbounded && len(s.records) >= s.maxSize {
		s.state.RecordsDropped.Add(1)
		s.trace("%s: record dropped, buffer full (%d records)", s.name, s.maxSize)
		return ErrBufferFull
	}

	s.records = append(s.records, rec.Clone())
	s.state.RecordsBuffered.Add(1)
	return nil
}

// OutputString emits text as the message of a copied record stamped now.
// Buffered mode copies the last buffered record when useLastAsTemplate is set
// and one exists, else the default template. Instant mode copies the default
// template or falls back to a bare record of this process.
func (s *Store) OutputString(text string, useLastAsTemplate bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rec record.Record
	switch {
	case s.writeMode == WriteModeReadOnly:
		return ErrReadOnly
	case s.writeMode == WriteModeOnCall && useLastAsTemplate && len(s.records) > 0:
		rec = s.records[len(s.records)-1].Clone()
	case s.hasTemplate:
		rec = s.template.Clone()
	case s.writeMode == WriteModeInstantly:
		rec = record.Record{PID: os.Getpid()}
	default:
		s.trace("%s: no template record for '%s'", s.name, text)
		return ErrNoTemplate
	}

	rec.Time = time.Now()
	rec.Message = text
	return s.outputLocked(rec)
}

// Flush writes buffered records to their files, grouping consecutive records
// that share a file, then clears the buffer. On failure the records not yet
// written stay buffered.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.writeMode != WriteModeOnCall {
		return ErrFlushRejected
	}

	var (
		sb      strings.Builder
		curPath string
		start   int // First record of the pending group
	)

	for i := range s.records {
		path := s.filePathLocked(s.records[i].Time)
		if path != curPath && sb.Len() > 0 {
			if err := appendText(curPath, sb.String(), s.enc); err != nil {
				s.records = s.records[start:]
				return s.fail(err)
			}
			s.state.RecordsFlushed.Add(uint64(i - start))
			sb.Reset()
			start = i
		}
		curPath = path
		sb.WriteString(s.records[i].FormatOutputWith(s.dict))
	}

	if sb.Len() > 0 {
		if err := appendText(curPath, sb.String(), s.enc); err != nil {
			s.records = s.records[start:]
			return s.fail(err)
		}
		s.state.RecordsFlushed.Add(uint64(len(s.records) - start))
	}

	s.records = nil
	return nil
}

func (s *Store) writeInstantLocked(rec record.Record) error {
	path := s.filePathLocked(rec.Time)
	if err := appendText(path, rec.FormatOutputWith(s.dict), s.enc); err != nil {
		return s.fail(err)
	}
	s.state.InstantWrites.Add(1)
	return nil
}

// fail records an I/O error, traces it and posts it to the owner
func (s *Store) fail(err error) error {
	s.state.IOErrors.Add(1)
	s.trace("%v", err)
	if s.notify != nil {
		s.notify(err)
	}
	return err
}

func (s *Store) trace(format string, args ...any) {
	if s.traceError != nil {
		s.traceError(format, args...)
	}
}

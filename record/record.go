package record

import (
	"strconv"
	"time"

	"github.com/lixenwraith/eventlog/document"
)

// TimeLayout is the fixed timestamp layout of rendered records
const TimeLayout = "2006-01-02 15:04:05.000 PM"

// Rendered property keys
const (
	KeyTime        = "Time"
	KeyPID         = "PID"
	KeyCategory    = "LogCategory"
	KeyDescription = "Description"
	KeyDetails     = "Details"
	KeyInt         = "Int"
	KeyString      = "String"
)

var defaultDictionary = DefaultDictionary()

// Record is one timestamped, categorized log entry
type Record struct {
	Time     time.Time
	PID      int
	Category uint16
	Message  string
	Details  []Cell
}

// New creates a record stamped with the current time
func New(pid int, category uint16, message string, details ...Cell) Record {
	r := Record{
		Time:     time.Now(),
		PID:      pid,
		Category: category,
		Message:  message,
	}
	for _, c := range details {
		r.AddDetail(c)
	}
	return r
}

// AddDetail appends a copy of c
func (r *Record) AddDetail(c Cell) {
	r.Details = append(r.Details, c.Clone())
}

// Format returns the timestamp as "YYYY-MM-DD HH:MM:SS.mmm AM|PM".
// The hour keeps its 24h form, the suffix is PM from 12:00 on.
func (r Record) Format() string {
	return r.Time.Format(TimeLayout)
}

// Document builds the structured form of r using dict for labels
func (r Record) Document(dict *Dictionary) *document.Document {
	if dict == nil {
		dict = defaultDictionary
	}

	doc := document.New("")
	doc.AddString(KeyTime, r.Format())
	doc.AddString(KeyPID, strconv.Itoa(r.PID))
	doc.AddString(KeyCategory, dict.Category(r.Category))
	doc.AddString(KeyDescription, r.Message)

	if len(r.Details) == 0 {
		return doc
	}

	details := document.New(KeyDetails)
	for _, c := range r.Details {
		writeCell(details, dict, c)
	}
	doc.AddChild(details)
	return doc
}

// writeCell adds c to details following the flag priority
func writeCell(details *document.Document, dict *Dictionary, c Cell) {
	flag := c.Flag
	if flag&FlagReadOnly != 0 {
		return
	}
	if flag == FlagNull {
		flag = FlagWriteInt
	}

	key := dict.Detail(c.Category)
	switch {
	case flag&FlagWriteInt != 0:
		details.AddInt(key, c.Int)
	case flag&FlagLookUpDict != 0:
		details.AddString(key, dict.Value(c.Category, c.Int))
	case flag&FlagWriteString != 0:
		details.AddString(key, c.Str)
	case flag&(FlagWriteInt&FlagWriteString) != 0:
		// Unreachable: the operand is the intersection of two distinct bits.
		// Kept as the dual rendering path of a cell until its trigger is defined.
		both := document.New(key)
		both.AddInt(KeyInt, c.Int)
		both.AddString(KeyString, c.Str)
		details.AddChild(both)
	}
}

// FormatOutput renders r as a YAML block with the default dictionary
func (r Record) FormatOutput() string {
	return r.FormatOutputWith(nil)
}

// FormatOutputWith renders r as a YAML block ending in one newline
func (r Record) FormatOutputWith(dict *Dictionary) string {
	out := r.Document(dict).RenderYAML()
	for len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return out + "\n"
}

// Equal compares all fields and every detail in order
func (r Record) Equal(other Record) bool {
	if !r.Time.Equal(other.Time) || r.PID != other.PID ||
		r.Category != other.Category || r.Message != other.Message ||
		len(r.Details) != len(other.Details) {
		return false
	}
	for i := range r.Details {
		if !r.Details[i].Equal(other.Details[i]) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether r equals a zero Record
func (r Record) IsEmpty() bool {
	return r.Equal(Record{})
}

// Clone returns a deep copy
func (r Record) Clone() Record {
	if r.Details != nil {
		details := make([]Cell, len(r.Details))
		for i, c := range r.Details {
			details[i] = c.Clone()
		}
		r.Details = details
	}
	return r
}

// Package formatter builds the fixed-width, timestamp-prefixed lines written
// to the diagnostic log channels.
package formatter

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/lixenwraith/eventlog/sanitizer"
)

// DefaultTimestampFormat is fixed width: every field is zero padded
const DefaultTimestampFormat = "2006/01/02 15:04:05.000"

// Channel tags
const (
	TagError = "ERROR"
	TagDebug = "DEBUG"
	TagInfo  = "INFO "
)

var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Formatter renders diagnostic lines. Not safe for concurrent use.
type Formatter struct {
	policy          sanitizer.Policy
	timestampFormat string
	showTag         bool
	buf             []byte
}

// New creates a formatter that keeps every value on one line
func New() *Formatter {
	return &Formatter{
		policy:          sanitizer.Line,
		timestampFormat: DefaultTimestampFormat,
		showTag:         true,
		buf:             make([]byte, 0, 256),
	}
}

// Policy sets how text values are sanitized
func (f *Formatter) Policy(p sanitizer.Policy) *Formatter {
	f.policy = p
	return f
}

// TimestampFormat sets the timestamp layout
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
	}
	return f
}

// ShowTag sets whether the channel tag follows the timestamp
func (f *Formatter) ShowTag(show bool) *Formatter {
	f.showTag = show
	return f
}

// Format renders "timestamp [TAG] arg1 arg2 ...\n". The returned slice is
// reused by the next call.
func (f *Formatter) Format(tag string, timestamp time.Time, args ...any) []byte {
	f.buf = f.buf[:0]
	f.buf = timestamp.AppendFormat(f.buf, f.timestampFormat)

	if f.showTag && tag != "" {
		f.buf = append(f.buf, " ["...)
		f.buf = append(f.buf, tag...)
		f.buf = append(f.buf, ']')
	}

	for _, arg := range args {
		f.buf = append(f.buf, ' ')
		f.convertValue(arg)
	}

	f.buf = append(f.buf, '\n')
	return f.buf
}

// Formatf renders a printf-style message as one line
func (f *Formatter) Formatf(tag string, timestamp time.Time, format string, args ...any) []byte {
	return f.Format(tag, timestamp, fmt.Sprintf(format, args...))
}

// Dump renders v with type information, for multi-field values
func Dump(v any) string {
	var b bytes.Buffer
	dumper.Fdump(&b, v)
	return string(bytes.TrimSpace(b.Bytes()))
}

func (f *Formatter) convertValue(v any) {
	switch val := v.(type) {
	case string:
		f.buf = sanitizer.Append(f.buf, f.policy, val)
	case []byte:
		f.buf = sanitizer.Append(f.buf, f.policy, string(val))
	case int:
		f.buf = strconv.AppendInt(f.buf, int64(val), 10)
	case int64:
		f.buf = strconv.AppendInt(f.buf, val, 10)
	case int32:
		f.buf = strconv.AppendInt(f.buf, int64(val), 10)
	case uint:
		f.buf = strconv.AppendUint(f.buf, uint64(val), 10)
	case uint16:
		f.buf = strconv.AppendUint(f.buf, uint64(val), 10)
	case uint32:
		f.buf = strconv.AppendUint(f.buf, uint64(val), 10)
	case uint64:
		f.buf = strconv.AppendUint(f.buf, val, 10)
	case float32:
		f.buf = strconv.AppendFloat(f.buf, float64(val), 'f', -1, 32)
	case float64:
		f.buf = strconv.AppendFloat(f.buf, val, 'f', -1, 64)
	case bool:
		f.buf = strconv.AppendBool(f.buf, val)
	case nil:
		f.buf = append(f.buf, "nil"...)
	case time.Time:
		f.buf = val.AppendFormat(f.buf, f.timestampFormat)
	case error:
		f.buf = sanitizer.Append(f.buf, f.policy, val.Error())
	case fmt.Stringer:
		f.buf = sanitizer.Append(f.buf, f.policy, val.String())
	default:
		f.buf = sanitizer.Append(f.buf, f.policy, Dump(val))
	}
}

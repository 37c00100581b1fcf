// Package record holds the typed values and timestamped entries that make up
// the application event log.
package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"time"
)

// Flag controls how a Cell is written when its record is rendered
type Flag uint32

// Cell write flags
const (
	FlagNull        Flag = 0
	FlagReadOnly    Flag = 0b0001 // Kept in memory only, never rendered
	FlagWriteInt    Flag = 0b0010
	FlagWriteString Flag = 0b0100
	FlagLookUpDict  Flag = 0b1000 // Render Int through the category value table
)

// DataType identifies the layout of a typed payload
type DataType uint8

// Payload data types
const (
	TypeVoid DataType = iota
	TypeUnspecified
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat8
	TypeFloat16
	TypeFloat32
	TypeFloat64
	TypeBool
	TypeClockTime
	TypeDateTime
)

// Payload errors
var (
	ErrVoidType    = errors.New("record: payload type is void")
	ErrUnknownSize = errors.New("record: payload size cannot be derived")
	ErrShortBuffer = errors.New("record: payload buffer shorter than size")
)

// ClockTime is the fixed layout of a TypeClockTime payload
type ClockTime struct {
	Hour        uint16
	Minute      uint16
	Second      uint16
	Millisecond uint16
}

// DateTime is the fixed layout of a TypeDateTime payload
type DateTime struct {
	Year        uint16
	Month       uint16
	DayOfWeek   uint16
	Day         uint16
	Hour        uint16
	Minute      uint16
	Second      uint16
	Millisecond uint16
}

var typeSizes = map[DataType]int{
	TypeUint8:     1,
	TypeUint16:    2,
	TypeUint32:    4,
	TypeUint64:    8,
	TypeInt8:      1,
	TypeInt16:     2,
	TypeInt32:     4,
	TypeInt64:     8,
	TypeFloat8:    1,
	TypeFloat16:   2,
	TypeFloat32:   4,
	TypeFloat64:   8,
	TypeBool:      1,
	TypeClockTime: binary.Size(ClockTime{}),
	TypeDateTime:  binary.Size(DateTime{}),
}

// TypeSize returns the byte width of a fixed-size data type
func TypeSize(t DataType) (int, bool) {
	size, ok := typeSizes[t]
	return size, ok
}

// Cell is one typed detail value attached to a Record
type Cell struct {
	Category uint16
	Flag     Flag
	Int      int64
	Str      string

	payload     []byte
	payloadType DataType
	payloadSize int
}

// IntCell returns a cell rendered as a decimal integer
func IntCell(category uint16, v int64) Cell {
	return Cell{Category: category, Flag: FlagWriteInt, Int: v}
}

// StringCell returns a cell rendered as its string value
func StringCell(category uint16, s string) Cell {
	return Cell{Category: category, Flag: FlagWriteString, Str: s}
}

// DictCell returns a cell whose integer is translated through the value table
func DictCell(category uint16, v int64) Cell {
	return Cell{Category: category, Flag: FlagLookUpDict, Int: v}
}

// ReadOnlyCell returns a cell that is never rendered
func ReadOnlyCell(category uint16, v int64, s string) Cell {
	return Cell{Category: category, Flag: FlagReadOnly, Int: v, Str: s}
}

// SetPayload copies size bytes of buf as a payload of type t.
// A zero size is derived from t. The cell is left untouched on error.
func (c *Cell) SetPayload(buf []byte, t DataType, size int) error {
	if t == TypeVoid {
		return ErrVoidType
	}
	if size == 0 {
		if t == TypeUnspecified {
			return ErrUnknownSize
		}
		derived, ok := TypeSize(t)
		if !ok {
			return ErrUnknownSize
		}
		size = derived
	}
	if size < 0 || len(buf) < size {
		return ErrShortBuffer
	}

	c.payload = append(make([]byte, 0, size), buf[:size]...)
	c.payloadType = t
	c.payloadSize = size
	return nil
}

// Payload returns a copy of the payload bytes with their type and size
func (c *Cell) Payload() ([]byte, DataType, int) {
	if c.payloadSize == 0 {
		return nil, c.payloadType, 0
	}
	return bytes.Clone(c.payload), c.payloadType, c.payloadSize
}

// ClearPayload drops the typed payload
func (c *Cell) ClearPayload() {
	c.payload = nil
	c.payloadType = TypeVoid
	c.payloadSize = 0
}

// Equal compares every field including payload content
func (c Cell) Equal(other Cell) bool {
	if c.Category != other.Category || c.Flag != other.Flag ||
		c.Int != other.Int || c.Str != other.Str {
		return false
	}
	if c.payloadType != other.payloadType || c.payloadSize != other.payloadSize {
		return false
	}
	return bytes.Equal(c.payload[:c.payloadSize], other.payload[:other.payloadSize])
}

// IsEmpty reports whether the cell equals a zero Cell
func (c Cell) IsEmpty() bool {
	return c.Equal(Cell{})
}

// Clone returns a deep copy
func (c Cell) Clone() Cell {
	if c.payloadSize > 0 {
		c.payload = bytes.Clone(c.payload)
	}
	return c
}

// EncodeClockTime returns the TypeClockTime payload for the time of day of t
func EncodeClockTime(t time.Time) []byte {
	ct := ClockTime{
		Hour:        uint16(t.Hour()),
		Minute:      uint16(t.Minute()),
		Second:      uint16(t.Second()),
		Millisecond: uint16(t.Nanosecond() / int(time.Millisecond)),
	}
	buf := make([]byte, 0, binary.Size(ct))
	buf, _ = binary.Append(buf, binary.LittleEndian, ct)
	return buf
}

// DecodeClockTime reads a TypeClockTime payload
func DecodeClockTime(buf []byte) (ClockTime, error) {
	var ct ClockTime
	if _, err := binary.Decode(buf, binary.LittleEndian, &ct); err != nil {
		return ClockTime{}, ErrShortBuffer
	}
	return ct, nil
}

// EncodeDateTime returns the TypeDateTime payload for t
func EncodeDateTime(t time.Time) []byte {
	dt := DateTime{
		Year:        uint16(t.Year()),
		Month:       uint16(t.Month()),
		DayOfWeek:   uint16(t.Weekday()),
		Day:         uint16(t.Day()),
		Hour:        uint16(t.Hour()),
		Minute:      uint16(t.Minute()),
		Second:      uint16(t.Second()),
		Millisecond: uint16(t.Nanosecond() / int(time.Millisecond)),
	}
	buf := make([]byte, 0, binary.Size(dt))
	buf, _ = binary.Append(buf, binary.LittleEndian, dt)
	return buf
}

// DecodeDateTime reads a TypeDateTime payload
func DecodeDateTime(buf []byte) (DateTime, error) {
	var dt DateTime
	if _, err := binary.Decode(buf, binary.LittleEndian, &dt); err != nil {
		return DateTime{}, ErrShortBuffer
	}
	return dt, nil
}

// Time converts the DateTime to a time.Time in loc
func (dt DateTime) Time(loc *time.Location) time.Time {
	return time.Date(int(dt.Year), time.Month(dt.Month), int(dt.Day),
		int(dt.Hour), int(dt.Minute), int(dt.Second), int(dt.Millisecond)*int(time.Millisecond), loc)
}

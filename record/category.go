package record

import (
	"maps"
	"strconv"
)

// Log categories. The high byte groups them by event class.
const (
	CategoryAppEvent   uint16 = 0x0100
	CategoryUIEvent    uint16 = 0x0200
	CategoryDataChange uint16 = 0x0300
	CategoryHistory    uint16 = 0x0400
)

// Application events
const (
	EventAppStart uint16 = CategoryAppEvent + iota + 1
	EventAppExit
	EventConfigLoad
	EventConfigSave
	EventScheduleTrigger
)

// UI events
const (
	EventDlgInit uint16 = CategoryUIEvent + iota + 1
	EventDlgClose
	EventButtonClick
	EventCheckboxChange
	EventGridEdit
	EventMenuSelect
)

// Data change events
const (
	EventDataChange uint16 = CategoryDataChange + iota + 1
	EventScheduleAdd
	EventScheduleRemove
	EventScheduleEdit
)

// History events
const (
	EventHistoryPowerAction uint16 = CategoryHistory + iota + 1
	EventHistoryReminder
	EventHistoryScheduleRun
)

// Detail categories
const (
	DetailNone uint16 = iota
	DetailTime
	DetailPID
	DetailResourceID
	DetailControlID
	DetailCheckState
	DetailActionType
	DetailScheduleID
	DetailOldValue
	DetailNewValue
	DetailMessage
	DetailErrorCode
	DetailFilePath
)

// Dictionary resolves numeric tags to the labels used in rendered output
type Dictionary struct {
	Categories map[uint16]string           // Log category -> label
	Details    map[uint16]string           // Detail category -> key
	Values     map[uint16]map[int64]string // Detail category -> value -> label
}

// DefaultDictionary returns a copy of the built-in tables
func DefaultDictionary() *Dictionary {
	d := &Dictionary{
		Categories: maps.Clone(categoryNames),
		Details:    maps.Clone(detailNames),
		Values:     make(map[uint16]map[int64]string, len(valueNames)),
	}
	for k, v := range valueNames {
		d.Values[k] = maps.Clone(v)
	}
	return d
}

// Category returns the label of a log category
func (d *Dictionary) Category(c uint16) string {
	if s, ok := d.Categories[c]; ok {
		return s
	}
	return "Category(" + strconv.FormatUint(uint64(c), 10) + ")"
}

// Detail returns the rendered key of a detail category
func (d *Dictionary) Detail(c uint16) string {
	if s, ok := d.Details[c]; ok {
		return s
	}
	return "Detail(" + strconv.FormatUint(uint64(c), 10) + ")"
}

// Value returns the label of v in the table of detail category c,
// falling back to the decimal value
func (d *Dictionary) Value(c uint16, v int64) string {
	if table, ok := d.Values[c]; ok {
		if s, ok := table[v]; ok {
			return s
		}
	}
	return strconv.FormatInt(v, 10)
}

// LookupCategory finds a log category by its label
func (d *Dictionary) LookupCategory(label string) (uint16, bool) {
	for k, v := range d.Categories {
		if v == label {
			return k, true
		}
	}
	return 0, false
}

// LookupDetail finds a detail category by its key
func (d *Dictionary) LookupDetail(key string) (uint16, bool) {
	for k, v := range d.Details {
		if v == key {
			return k, true
		}
	}
	return 0, false
}

var categoryNames = map[uint16]string{
	CategoryAppEvent:        "Application Event",
	CategoryUIEvent:         "UI Event",
	CategoryDataChange:      "Data Change",
	CategoryHistory:         "History",
	EventAppStart:           "Application Start",
	EventAppExit:            "Application Exit",
	EventConfigLoad:         "Config Load",
	EventConfigSave:         "Config Save",
	EventScheduleTrigger:    "Schedule Trigger",
	EventDlgInit:            "Dialog Init",
	EventDlgClose:           "Dialog Close",
	EventButtonClick:        "Button Click",
	EventCheckboxChange:     "Checkbox Change",
	EventGridEdit:           "Grid Edit",
	EventMenuSelect:         "Menu Select",
	EventDataChange:         "Data Change",
	EventScheduleAdd:        "Schedule Add",
	EventScheduleRemove:     "Schedule Remove",
	EventScheduleEdit:       "Schedule Edit",
	EventHistoryPowerAction: "Power Action",
	EventHistoryReminder:    "Reminder",
	EventHistoryScheduleRun: "Schedule Run",
}

var detailNames = map[uint16]string{
	DetailTime:       "Time",
	DetailPID:        "PID",
	DetailResourceID: "ResourceID",
	DetailControlID:  "ControlID",
	DetailCheckState: "CheckState",
	DetailActionType: "ActionType",
	DetailScheduleID: "ScheduleID",
	DetailOldValue:   "OldValue",
	DetailNewValue:   "NewValue",
	DetailMessage:    "Message",
	DetailErrorCode:  "ErrorCode",
	DetailFilePath:   "FilePath",
}

var valueNames = map[uint16]map[int64]string{
	DetailCheckState: {
		0: "Unchecked",
		1: "Checked",
		2: "Indeterminate",
	},
	DetailActionType: {
		0: "None",
		1: "Display Off",
		2: "Sleep",
		3: "Shutdown",
		4: "Restart",
		5: "Sign Out",
		6: "Hibernate",
		7: "Alarm",
		8: "Reminder",
	},
}

package eventlog

import "strings"

// LogType selects the file naming scheme of a Store
type LogType int

const (
	LogTypeAppEvent LogType = iota // One file per month
	LogTypeHistory                 // One fixed file
)

// WriteMode is the write policy of a Store
type WriteMode int

const (
	WriteModeReadOnly  WriteMode = iota // Rejects output and flush
	WriteModeOnCall                     // Buffers records until Flush
	WriteModeInstantly                  // Writes every record on arrival
)

// String returns the config name of the mode
func (m WriteMode) String() string {
	switch m {
	case WriteModeReadOnly:
		return "read_only"
	case WriteModeOnCall:
		return "on_call"
	case WriteModeInstantly:
		return "instantly"
	default:
		return "unknown"
	}
}

// ParseWriteMode converts a config name to a WriteMode
func ParseWriteMode(s string) (WriteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "read_only", "readonly":
		return WriteModeReadOnly, nil
	case "on_call", "oncall", "buffered":
		return WriteModeOnCall, nil
	case "instantly", "instant":
		return WriteModeInstantly, nil
	default:
		return 0, fmtErrorf("invalid write mode: '%s' (use read_only, on_call, or instantly)", s)
	}
}

// DebugTarget is the configured destination of DebugOut
type DebugTarget int

const (
	DebugTargetDefault DebugTarget = iota // Process debug output, stderr unless replaced
	DebugTargetFile                       // DebugInfo channel
	DebugTargetViewer                     // External debug viewer writer
)

// ParseDebugTarget converts a config name to a DebugTarget
func ParseDebugTarget(s string) (DebugTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return DebugTargetDefault, nil
	case "file":
		return DebugTargetFile, nil
	case "viewer":
		return DebugTargetViewer, nil
	default:
		return 0, fmtErrorf("invalid debug_target: '%s' (use default, file, or viewer)", s)
	}
}

// Unbounded disables the record capacity of a Store
const Unbounded = -1

// Diagnostic channel names, also the base of their file names
const (
	ChannelTraceError = "TraceError"
	ChannelTraceDebug = "TraceDebug"
	ChannelDebugInfo  = "DebugInfo"
)

// Text encodings
const (
	EncodingUTF16LE = "utf-16le"
	EncodingUTF8    = "utf-8"
)

const (
	// Size multiplier for KB
	sizeMultiplier = 1000
	// Backup file suffix, "<name>.<N>.bak"
	backupExtension = "bak"

	// ArchiveExtension is appended to the name of a compressed record file
	ArchiveExtension = ".zst"
)

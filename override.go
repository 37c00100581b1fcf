package eventlog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
//
// Example:
//
//	logger := eventlog.NewLogger()
//	err := logger.ApplyOverride(
//	    "directory=/var/log/app",
//	    "write_mode=instantly",
//	    "encoding=utf-8",
//	)
func (l *Logger) ApplyOverride(overrides ...string) error {
	cfg := l.getConfig().Clone()
	if err := cfg.ApplyOverrides(overrides...); err != nil {
		return err
	}
	return l.ApplyConfig(cfg)
}

// ApplyOverrides sets "key=value" overrides on c without validating the result.
// All overrides are attempted, failures are reported together.
func (c *Config) ApplyOverrides(overrides ...string) error {
	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(c, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	return combineConfigErrors(errors)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("eventlog: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "eventlog: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Files
	case "directory":
		cfg.Directory = value
	case "app_event_name":
		cfg.AppEventName = value
	case "history_name":
		cfg.HistoryName = value
	case "extension":
		cfg.Extension = value
	case "encoding":
		cfg.Encoding = strings.ToLower(value)

	// Stores
	case "write_mode":
		if _, err := ParseWriteMode(value); err != nil {
			return err
		}
		cfg.WriteMode = value
	case "history_write_mode":
		if _, err := ParseWriteMode(value); err != nil {
			return err
		}
		cfg.HistoryWriteMode = value
	case "max_records":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_records '%s': %w", value, err)
		}
		cfg.MaxRecords = intVal

	// Diagnostic channels
	case "diag_max_size_kb":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for diag_max_size_kb '%s': %w", value, err)
		}
		cfg.DiagMaxSizeKB = intVal
	case "backup_slots":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for backup_slots '%s': %w", value, err)
		}
		cfg.BackupSlots = intVal
	case "enable_trace_error":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_trace_error '%s': %w", value, err)
		}
		cfg.EnableTraceError = boolVal
	case "enable_trace_debug":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_trace_debug '%s': %w", value, err)
		}
		cfg.EnableTraceDebug = boolVal
	case "enable_debug_info":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for enable_debug_info '%s': %w", value, err)
		}
		cfg.EnableDebugInfo = boolVal

	// Debug output
	case "debug_target":
		if _, err := ParseDebugTarget(value); err != nil {
			return err
		}
		cfg.DebugTarget = value

	// Error reporting
	case "error_queue_size":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for error_queue_size '%s': %w", value, err)
		}
		cfg.ErrorQueueSize = intVal
	case "internal_errors_to_stderr":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for internal_errors_to_stderr '%s': %w", value, err)
		}
		cfg.InternalErrorsToStderr = boolVal

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

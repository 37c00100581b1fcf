package eventlog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds all event log configuration values
type Config struct {
	// Files
	Directory    string `toml:"directory"`
	AppEventName string `toml:"app_event_name"` // Prefix of the per-month event files
	HistoryName  string `toml:"history_name"`   // Name of the single history file
	Extension    string `toml:"extension"`
	Encoding     string `toml:"encoding"` // "utf-16le" or "utf-8"

	// Stores
	WriteMode        string `toml:"write_mode"`         // Event store: "read_only", "on_call", "instantly"
	HistoryWriteMode string `toml:"history_write_mode"` // History store
	MaxRecords       int64  `toml:"max_records"`        // Buffered record capacity, -1 for unbounded

	// Diagnostic channels
	DiagMaxSizeKB    int64 `toml:"diag_max_size_kb"` // Rotation threshold per channel file
	BackupSlots      int64 `toml:"backup_slots"`     // Number of "<name>.<N>.bak" slots
	EnableTraceError bool  `toml:"enable_trace_error"`
	EnableTraceDebug bool  `toml:"enable_trace_debug"`
	EnableDebugInfo  bool  `toml:"enable_debug_info"`

	// Debug output
	DebugTarget string `toml:"debug_target"` // "default", "file", or "viewer"

	// Error reporting
	ErrorQueueSize         int64 `toml:"error_queue_size"`          // Capacity of the Errors() channel
	InternalErrorsToStderr bool  `toml:"internal_errors_to_stderr"` // Write internal errors to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	// Files
	Directory:    "./log",
	AppEventName: "AppEvent",
	HistoryName:  "AppHistory",
	Extension:    "log",
	Encoding:     EncodingUTF16LE,

	// Stores
	WriteMode:        "on_call",
	HistoryWriteMode: "instantly",
	MaxRecords:       1000,

	// Diagnostic channels
	DiagMaxSizeKB:    5 * sizeMultiplier,
	BackupSlots:      5,
	EnableTraceError: true,
	EnableTraceDebug: true,
	EnableDebugInfo:  true,

	// Debug output
	DebugTarget: "default",

	// Error reporting
	ErrorQueueSize:         16,
	InternalErrorsToStderr: false,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct("eventlog.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	// Missing file keeps defaults
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "eventlog.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmt.Errorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides keyed by toml tag
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			// TOML decoders may surface integers as floats through any
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	// String validations
	if strings.TrimSpace(c.Directory) == "" {
		return fmtErrorf("directory cannot be empty")
	}

	if strings.TrimSpace(c.AppEventName) == "" || strings.TrimSpace(c.HistoryName) == "" {
		return fmtErrorf("app_event_name and history_name cannot be empty")
	}

	if strings.ContainsAny(c.AppEventName+c.HistoryName, `/\`) {
		return fmtErrorf("file names cannot contain path separators")
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("extension should not start with dot: %s", c.Extension)
	}

	if _, err := lookupEncoding(c.Encoding); err != nil {
		return err
	}

	if _, err := ParseWriteMode(c.WriteMode); err != nil {
		return err
	}

	if _, err := ParseWriteMode(c.HistoryWriteMode); err != nil {
		return fmtErrorf("history_write_mode: %w", err)
	}

	if _, err := ParseDebugTarget(c.DebugTarget); err != nil {
		return err
	}

	// Numeric validations
	if c.MaxRecords < Unbounded {
		return fmtErrorf("max_records must be -1 (unbounded) or non-negative: %d", c.MaxRecords)
	}

	if c.DiagMaxSizeKB <= 0 {
		return fmtErrorf("diag_max_size_kb must be positive: %d", c.DiagMaxSizeKB)
	}

	if c.BackupSlots < 0 || c.BackupSlots > 100 {
		return fmtErrorf("backup_slots must be between 0 and 100: %d", c.BackupSlots)
	}

	if c.ErrorQueueSize < 0 {
		return fmtErrorf("error_queue_size cannot be negative: %d", c.ErrorQueueSize)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// diagMaxSizeBytes converts the rotation threshold to bytes
func (c *Config) diagMaxSizeBytes() int64 {
	return c.DiagMaxSizeKB * sizeMultiplier
}

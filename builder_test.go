package eventlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	t.Run("successful build returns configured logger", func(t *testing.T) {
		tmpDir := t.TempDir()

		logger, err := NewBuilder().
			Directory(tmpDir).
			AppEventName("Events").
			HistoryName("History").
			Encoding(EncodingUTF8).
			WriteMode(WriteModeInstantly).
			HistoryWriteMode(WriteModeOnCall).
			MaxRecords(10).
			DiagMaxSizeMB(2).
			BackupSlots(3).
			EnableTraceDebug(false).
			DebugTarget("file").
			ErrorQueueSize(4).
			Build()

		if logger != nil {
			defer logger.Close()
		}

		require.NoError(t, err, "Builder.Build() should not return an error on valid config")
		require.NotNil(t, logger)

		cfg := logger.GetConfig()
		assert.Equal(t, tmpDir, cfg.Directory)
		assert.Equal(t, "instantly", cfg.WriteMode)
		assert.Equal(t, "on_call", cfg.HistoryWriteMode)
		assert.Equal(t, int64(2000), cfg.DiagMaxSizeKB)
		assert.Equal(t, int64(3), cfg.BackupSlots)
		assert.False(t, cfg.EnableTraceDebug)
		assert.Equal(t, "file", cfg.DebugTarget)
		assert.Equal(t, 4, cap(logger.Errors()))

		assert.Equal(t, WriteModeInstantly, logger.Events().WriteMode())
		assert.Equal(t, 10, logger.History().MaxSize())
		assert.Equal(t, filepath.Join(tmpDir, "History.log"), logger.History().FilePath(time.Now()))
	})

	t.Run("builder error is returned", func(t *testing.T) {
		logger, err := NewBuilder().WriteModeString("sometimes").DiagMaxSizeKB(1).Build()
		assert.Nil(t, logger)
		assert.ErrorContains(t, err, "invalid write mode")

		_, err = NewBuilder().DebugTarget("printer").Config()
		assert.ErrorContains(t, err, "invalid debug_target")
	})

	t.Run("validation error from apply", func(t *testing.T) {
		logger, err := NewBuilder().Directory(t.TempDir()).BackupSlots(-1).Build()
		assert.Nil(t, logger)
		assert.ErrorContains(t, err, "backup_slots")
	})

	t.Run("config snapshot", func(t *testing.T) {
		b := NewBuilder().WriteModeString("read_only").InternalErrorsToStderr(true).EnableDebugInfo(false).EnableTraceError(false).Extension("txt")
		cfg, err := b.Config()
		require.NoError(t, err)
		assert.Equal(t, "read_only", cfg.WriteMode)
		assert.True(t, cfg.InternalErrorsToStderr)
		assert.False(t, cfg.EnableDebugInfo)
		assert.False(t, cfg.EnableTraceError)
		assert.Equal(t, "txt", cfg.Extension)
	})
}

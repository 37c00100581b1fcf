package eventlog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/eventlog/record"
)

// createTestLogger creates logger in temp directory with UTF-8 files
func createTestLogger(t *testing.T) (*Logger, string) {
	tmpDir := t.TempDir()
	logger := NewLogger()

	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.Encoding = EncodingUTF8

	err := logger.ApplyConfig(cfg)
	require.NoError(t, err)

	return logger, tmpDir
}

// TestNewLogger verifies that a new logger is created with the correct initial state
func TestNewLogger(t *testing.T) {
	logger := NewLogger()

	assert.NotNil(t, logger)
	assert.False(t, logger.state.IsInitialized.Load())
	assert.Nil(t, logger.Diagnostics())
	assert.Equal(t, WriteModeReadOnly, logger.Events().WriteMode())
	assert.Equal(t, WriteModeReadOnly, logger.History().WriteMode())

	// Uninitialized logger ignores traces and rejects Flush
	logger.TraceError("ignored")
	assert.ErrorIs(t, logger.Flush(), ErrNotInitialized)
	assert.NoError(t, logger.Close())
}

func TestOutputBeforeApplyConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	logger := NewLogger()
	rec := record.New(1, record.EventAppStart, "early")

	assert.ErrorIs(t, logger.OutputHistory(rec), ErrNotInitialized)
	assert.ErrorIs(t, logger.OutputEvent(rec), ErrNotInitialized)
	assert.ErrorIs(t, logger.History().OutputRecord(rec), ErrReadOnly)
	assert.ErrorIs(t, logger.Events().OutputString("early", false), ErrReadOnly)
	assert.Equal(t, 0, logger.Events().LogCount())

	entries, err := os.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may be written before ApplyConfig")
}

func TestOutputAfterClose(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	rec := record.New(1, record.EventAppExit, "late")
	require.NoError(t, logger.OutputEvent(rec))
	require.NoError(t, logger.Close())
	assert.Equal(t, 0, logger.Events().LogCount())

	assert.ErrorIs(t, logger.OutputEvent(rec), ErrNotInitialized)
	assert.ErrorIs(t, logger.OutputHistory(rec), ErrNotInitialized)
	assert.ErrorIs(t, logger.Events().OutputRecord(rec), ErrReadOnly)
	assert.Equal(t, 0, logger.Events().LogCount())
	assert.False(t, fileExists(filepath.Join(tmpDir, "AppHistory.log")))

	// Reopening restores the configured write modes
	cfg := DefaultConfig()
	cfg.Directory = tmpDir
	cfg.Encoding = EncodingUTF8
	require.NoError(t, logger.ApplyConfig(cfg))
	defer logger.Close()
	assert.Equal(t, WriteModeOnCall, logger.Events().WriteMode())
	require.NoError(t, logger.OutputEvent(rec))
	assert.Equal(t, 1, logger.Events().LogCount())
}

func TestDebugOutBeforeApplyConfig(t *testing.T) {
	logger := NewLogger()

	var out bytes.Buffer
	logger.SetDebugOutput(&out)
	logger.DebugOut("early %d", 1)
	assert.Contains(t, out.String(), "[DEBUG] early 1\n")

	// File target has no channel yet and drops the line
	cfg := DefaultConfig()
	cfg.DebugTarget = "file"
	logger.currentConfig.Store(cfg)
	logger.DebugOut("dropped")
	assert.NotContains(t, out.String(), "dropped")
}

func TestApplyConfig(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()

	assert.True(t, logger.state.IsInitialized.Load())
	require.NotNil(t, logger.Diagnostics())

	tmpl, ok := logger.Events().DefaultTemplate()
	require.True(t, ok)
	assert.Equal(t, os.Getpid(), tmpl.PID)
	assert.Equal(t, record.CategoryAppEvent, tmpl.Category)

	assert.Equal(t, filepath.Join(tmpDir, "AppHistory.log"), logger.History().FilePath(time.Now()))
	assert.Equal(t, WriteModeInstantly, logger.History().WriteMode())

	assert.Error(t, logger.ApplyConfig(nil))
	bad := DefaultConfig()
	bad.Encoding = "latin1"
	assert.ErrorContains(t, logger.ApplyConfig(bad), "invalid configuration")
}

func TestOpenCreatesDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = filepath.Join(t.TempDir(), "nested", "log")

	logger, err := Open(cfg)
	require.NoError(t, err)
	defer logger.Close()

	info, err := os.Stat(cfg.Directory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestTraceFunctions(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()

	logger.TraceError("open failed", 5)
	logger.TraceErrorf("code=%d", 3)
	logger.TraceDebug("dbg")
	logger.TraceDebugf("dbg %s", "f")
	logger.DebugInfo("info")
	logger.DebugInfof("info %d", 2)
	logger.DebugDump(struct{ ID int }{ID: 9})

	errText := readText(t, filepath.Join(tmpDir, "TraceError.log"), EncodingUTF8)
	assert.Contains(t, errText, "[ERROR] open failed 5\n")
	assert.Contains(t, errText, "[ERROR] code=3\n")

	dbgText := readText(t, filepath.Join(tmpDir, "TraceDebug.log"), EncodingUTF8)
	assert.Contains(t, dbgText, "[DEBUG] dbg\n")
	assert.Contains(t, dbgText, "[DEBUG] dbg f\n")

	infoText := readText(t, filepath.Join(tmpDir, "DebugInfo.log"), EncodingUTF8)
	assert.Contains(t, infoText, "[INFO ] info\n")
	assert.Contains(t, infoText, "[INFO ] info 2\n")
	assert.Contains(t, infoText, "ID: (int) 9")
}

func TestDisabledChannelsWriteNothing(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()

	require.NoError(t, logger.ApplyOverride("enable_trace_debug=false", "enable_debug_info=false"))
	logger.TraceDebug("x")
	logger.DebugInfo("x")
	logger.TraceError("y")

	assert.False(t, fileExists(filepath.Join(tmpDir, "TraceDebug.log")))
	assert.False(t, fileExists(filepath.Join(tmpDir, "DebugInfo.log")))
	assert.True(t, fileExists(filepath.Join(tmpDir, "TraceError.log")))
}

func TestDebugOutRouting(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()

	var defaultOut, viewer bytes.Buffer
	logger.SetDebugOutput(&defaultOut)

	t.Run("default target", func(t *testing.T) {
		logger.DebugOut("hello %d", 1)
		assert.Contains(t, defaultOut.String(), "[DEBUG] hello 1\n")
	})

	t.Run("file target", func(t *testing.T) {
		require.NoError(t, logger.ApplyOverride("debug_target=file"))
		logger.DebugOut("to file")
		assert.Contains(t, readText(t, filepath.Join(tmpDir, "DebugInfo.log"), EncodingUTF8), "to file")
		assert.NotContains(t, defaultOut.String(), "to file")
	})

	t.Run("visible viewer overrides target", func(t *testing.T) {
		logger.SetViewer(&viewer)
		logger.SetViewerVisible(true)
		assert.True(t, logger.ViewerVisible())

		logger.DebugOut("to viewer")
		assert.Contains(t, viewer.String(), "[DEBUG] to viewer\n")
		assert.NotContains(t, readText(t, filepath.Join(tmpDir, "DebugInfo.log"), EncodingUTF8), "to viewer")
	})

	t.Run("hidden viewer follows target", func(t *testing.T) {
		logger.SetViewerVisible(false)
		logger.DebugOut("hidden")
		assert.NotContains(t, viewer.String(), "hidden")
	})

	t.Run("viewer target without viewer falls back", func(t *testing.T) {
		require.NoError(t, logger.ApplyOverride("debug_target=viewer"))
		logger.SetViewer(nil)
		logger.DebugOut("fallback")
		assert.Contains(t, defaultOut.String(), "fallback")
	})

	t.Run("debug writer splits lines", func(t *testing.T) {
		require.NoError(t, logger.ApplyOverride("debug_target=default"))
		n, err := logger.DebugWriter().Write([]byte("one\ntwo\n"))
		require.NoError(t, err)
		assert.Equal(t, 8, n)
		assert.Contains(t, defaultOut.String(), "[DEBUG] one\n")
		assert.Contains(t, defaultOut.String(), "[DEBUG] two\n")
	})
}

func TestStoreErrorsReachLogger(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()

	now := time.Now()
	require.NoError(t, os.MkdirAll(logger.History().FilePath(now), 0755))

	err := logger.OutputHistory(record.Record{Time: now, PID: 1, Category: record.EventHistoryReminder})
	require.Error(t, err)

	select {
	case posted := <-logger.Errors():
		assert.Equal(t, err, posted)
	default:
		t.Fatal("error was not posted")
	}

	assert.Contains(t, readText(t, filepath.Join(tmpDir, "TraceError.log"), EncodingUTF8), "AppHistory.log")
	assert.Equal(t, uint64(1), logger.Stats().IOErrors)
}

func TestErrorNotificationsNeverBlock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.Encoding = EncodingUTF8
	cfg.ErrorQueueSize = 1

	logger, err := Open(cfg)
	require.NoError(t, err)
	defer logger.Close()

	now := time.Now()
	require.NoError(t, os.MkdirAll(logger.History().FilePath(now), 0755))

	for i := 0; i < 3; i++ {
		assert.Error(t, logger.OutputHistory(record.Record{Time: now}))
	}

	assert.Len(t, logger.Errors(), 1)
	assert.Equal(t, uint64(2), logger.Stats().NotificationsDropped)
}

func TestBufferFullIsTraced(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()

	require.NoError(t, logger.ApplyOverride("max_records=1"))
	require.NoError(t, logger.OutputEvent(record.Record{Time: time.Now()}))
	assert.ErrorIs(t, logger.OutputEvent(record.Record{Time: time.Now()}), ErrBufferFull)

	assert.Contains(t, readText(t, filepath.Join(tmpDir, "TraceError.log"), EncodingUTF8), "buffer full")
	assert.Equal(t, uint64(1), logger.Stats().RecordsDropped)
}

func TestCloseFlushesBufferedRecords(t *testing.T) {
	logger, _ := createTestLogger(t)

	now := time.Now()
	require.NoError(t, logger.Events().OutputString("first", true))
	require.NoError(t, logger.Events().OutputString("second", true))
	assert.Equal(t, 2, logger.Stats().BufferedEvents)

	require.NoError(t, logger.Close())
	assert.Nil(t, logger.Diagnostics())
	assert.NoError(t, logger.Close())

	content := readText(t, logger.Events().FilePath(now), EncodingUTF8)
	assert.Contains(t, content, `Description: "first"`)
	assert.Contains(t, content, `Description: "second"`)
	assert.Equal(t, 0, logger.Events().LogCount())

	// Traces after Close are dropped
	logger.TraceError("late")
}

func TestReconfigureKeepsBuffer(t *testing.T) {
	logger, _ := createTestLogger(t)
	defer logger.Close()

	require.NoError(t, logger.Events().OutputString("pending", true))

	newDir := t.TempDir()
	require.NoError(t, logger.ApplyOverride("directory="+newDir))
	assert.Equal(t, 1, logger.Events().LogCount())

	require.NoError(t, logger.Flush())
	assert.True(t, fileExists(logger.Events().FilePath(time.Now())))
	assert.True(t, strings.HasPrefix(logger.Events().FilePath(time.Now()), newDir))

	logger.TraceError("moved")
	assert.True(t, fileExists(filepath.Join(newDir, "TraceError.log")))
}

func TestLogStats(t *testing.T) {
	logger, tmpDir := createTestLogger(t)
	defer logger.Close()

	require.NoError(t, logger.ApplyOverride("max_records=0"))
	assert.ErrorIs(t, logger.Events().OutputString("x", true), ErrBufferFull)

	logger.LogStats()
	logger.LogStats()

	info := readText(t, filepath.Join(tmpDir, "DebugInfo.log"), EncodingUTF8)
	assert.Contains(t, info, "type stats sequence 1 uptime_hours")
	assert.Contains(t, info, "type stats sequence 2")
	assert.Contains(t, info, "records_dropped 1")
	assert.NotContains(t, info, "rotation_failures")

	st := logger.Stats()
	assert.Equal(t, uint64(1), st.RecordsDropped)
	assert.Greater(t, st.Uptime, time.Duration(0))
}

package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/eventlog/formatter"
)

func newTestChannel(t *testing.T, maxSize int64, slots int) (*Channel, string) {
	t.Helper()
	dir := t.TempDir()
	ch, err := NewChannel(ChannelConfig{
		Name:        ChannelTraceError,
		Tag:         formatter.TagError,
		Directory:   dir,
		Extension:   "log",
		Encoding:    EncodingUTF8,
		MaxSize:     maxSize,
		BackupSlots: slots,
		Enabled:     true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })
	return ch, dir
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestNewChannelValidation(t *testing.T) {
	_, err := NewChannel(ChannelConfig{Name: "x", Encoding: EncodingUTF8, MaxSize: 0})
	assert.ErrorContains(t, err, "max size must be positive")

	_, err = NewChannel(ChannelConfig{Name: "", Encoding: EncodingUTF8, MaxSize: 1})
	assert.ErrorContains(t, err, "channel name cannot be empty")

	_, err = NewChannel(ChannelConfig{Name: "x", Encoding: EncodingUTF8, MaxSize: 1, BackupSlots: -1})
	assert.ErrorContains(t, err, "backup slots cannot be negative")
}

func TestChannelLineFormat(t *testing.T) {
	ch, dir := newTestChannel(t, 1<<20, 5)

	require.NoError(t, ch.Write("boom", 7))
	require.NoError(t, ch.Writef("code=%d", 2))

	assert.Equal(t, filepath.Join(dir, "TraceError.log"), ch.Path())
	content := readText(t, ch.Path(), EncodingUTF8)
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	require.Len(t, lines, 2)

	prefix := `^\d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}\.\d{3} \[ERROR\] `
	assert.Regexp(t, regexp.MustCompile(prefix+`boom 7$`), lines[0])
	assert.Regexp(t, regexp.MustCompile(prefix+`code=2$`), lines[1])
}

func TestChannelRotation(t *testing.T) {
	ch, dir := newTestChannel(t, 200, 3)

	backup := filepath.Join(dir, "TraceError.0.bak")
	assert.Equal(t, backup, ch.BackupPath(0))

	var written int
	for written = 0; written < 100 && !fileExists(backup); written++ {
		require.NoError(t, ch.Write(fmt.Sprintf("line-%02d", written)))
	}
	require.True(t, fileExists(backup), "no rotation after %d lines", written)

	// Active file released and renamed, not yet recreated
	assert.False(t, fileExists(ch.Path()))
	assert.Equal(t, uint64(1), ch.state.Rotations.Load())

	backupText := readText(t, backup, EncodingUTF8)
	assert.Equal(t, written, strings.Count(backupText, "\n"))
	assert.GreaterOrEqual(t, len(backupText), 200)

	require.NoError(t, ch.Write("after rotation"))
	active := readText(t, ch.Path(), EncodingUTF8)
	assert.Equal(t, 1, strings.Count(active, "\n"))
	assert.Contains(t, active, "after rotation")

	assert.False(t, fileExists(filepath.Join(dir, "TraceError.1.bak")))
}

func TestChannelRotationUsesFirstFreeSlot(t *testing.T) {
	ch, dir := newTestChannel(t, 50, 3)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TraceError.0.bak"), []byte("old"), 0644))

	require.NoError(t, ch.Write(strings.Repeat("x", 60)))

	assert.True(t, fileExists(filepath.Join(dir, "TraceError.1.bak")))
	assert.False(t, fileExists(filepath.Join(dir, "TraceError.2.bak")))

	old, err := os.ReadFile(filepath.Join(dir, "TraceError.0.bak"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(old))
}

func TestChannelAllSlotsTaken(t *testing.T) {
	ch, dir := newTestChannel(t, 50, 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "TraceError.0.bak"), []byte("old"), 0644))

	require.NoError(t, ch.Write(strings.Repeat("a", 60)))
	require.NoError(t, ch.Write(strings.Repeat("b", 60)))

	// File keeps growing, failures are silent to the caller
	content := readText(t, ch.Path(), EncodingUTF8)
	assert.Equal(t, 2, strings.Count(content, "\n"))
	assert.Equal(t, uint64(2), ch.state.RotationFailures.Load())
	assert.Equal(t, uint64(0), ch.state.Rotations.Load())
}

func TestChannelNoBackupSlots(t *testing.T) {
	ch, dir := newTestChannel(t, 10, 0)
	require.NoError(t, ch.Write("longer than ten bytes"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "TraceError.log", entries[0].Name())
}

func TestChannelDisabled(t *testing.T) {
	ch, dir := newTestChannel(t, 1<<20, 5)
	ch.SetEnabled(false)
	assert.False(t, ch.Enabled())

	require.NoError(t, ch.Write("dropped"))
	require.NoError(t, ch.Writef("dropped %d", 1))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	ch.SetEnabled(true)
	require.NoError(t, ch.Write("kept"))
	assert.Contains(t, readText(t, ch.Path(), EncodingUTF8), "kept")
}

func TestChannelWriteFailure(t *testing.T) {
	ch, _ := newTestChannel(t, 1<<20, 5)
	require.NoError(t, os.MkdirAll(ch.Path(), 0755))

	assert.Error(t, ch.Write("x"))
	assert.Equal(t, uint64(1), ch.state.IOErrors.Load())

	// Recovers once the path is usable
	require.NoError(t, os.Remove(ch.Path()))
	assert.NoError(t, ch.Write("y"))
}

func TestChannelUTF16ReopenWritesSingleBOM(t *testing.T) {
	dir := t.TempDir()
	ch, err := NewChannel(ChannelConfig{
		Name:      ChannelDebugInfo,
		Tag:       formatter.TagInfo,
		Directory: dir,
		Extension: "log",
		Encoding:  EncodingUTF16LE,
		MaxSize:   1 << 20,
		Enabled:   true,
	})
	require.NoError(t, err)

	require.NoError(t, ch.Write("first"))
	require.NoError(t, ch.Close())
	require.NoError(t, ch.Write("second"))
	require.NoError(t, ch.Close())

	raw, err := os.ReadFile(ch.Path())
	require.NoError(t, err)
	assert.Equal(t, utf16LEBOM, raw[:2])

	content := readText(t, ch.Path(), EncodingUTF16LE)
	assert.Equal(t, 2, strings.Count(content, "\n"))
	assert.Contains(t, content, "[INFO ] first")
	assert.NotContains(t, content, "\ufeff")
}

func TestDiagnosticsIndependent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.Encoding = EncodingUTF8

	d, err := newDiagnostics(cfg)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Error.Write("only error"))

	assert.True(t, fileExists(filepath.Join(cfg.Directory, "TraceError.log")))
	assert.False(t, fileExists(filepath.Join(cfg.Directory, "TraceDebug.log")))
	assert.False(t, fileExists(filepath.Join(cfg.Directory, "DebugInfo.log")))

	names := make([]string, 0, 3)
	for _, ch := range d.Channels() {
		names = append(names, ch.Name())
	}
	assert.Equal(t, []string{"TraceError", "TraceDebug", "DebugInfo"}, names)
}

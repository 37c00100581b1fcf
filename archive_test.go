package eventlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/eventlog/record"
)

func TestArchiveBefore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(StoreConfig{
		Type:      LogTypeAppEvent,
		Directory: dir,
		Name:      "AppEvent",
		Extension: "log",
		Encoding:  EncodingUTF16LE,
		WriteMode: WriteModeInstantly,
		MaxSize:   Unbounded,
	})
	require.NoError(t, err)

	jan := time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)
	feb := time.Date(2024, 2, 3, 9, 0, 0, 0, time.Local)
	for _, ts := range []time.Time{jan, jan.Add(time.Hour), feb} {
		require.NoError(t, s.OutputRecord(record.Record{Time: ts, PID: 1, Category: record.EventAppStart, Message: "m"}))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AppEvent-notes.log"), []byte("x"), 0644))

	archived, err := s.ArchiveBefore(feb, false)
	require.NoError(t, err)
	require.Equal(t, []string{s.FilePath(jan) + ArchiveExtension}, archived)

	assert.False(t, fileExists(s.FilePath(jan)))
	assert.True(t, fileExists(s.FilePath(feb)))
	assert.True(t, fileExists(filepath.Join(dir, "AppEvent-notes.log")))

	docs, err := ReadRecords(archived[0], EncodingUTF16LE)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	msg, _ := docs[0].Get(record.KeyDescription)
	assert.Equal(t, "m", msg)

	archived, err = s.ArchiveBefore(feb, false)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestArchiveBeforeKeep(t *testing.T) {
	s, _ := newTestStore(t, LogTypeAppEvent, WriteModeInstantly, Unbounded)

	old := time.Date(2023, 11, 2, 8, 0, 0, 0, time.Local)
	require.NoError(t, s.OutputRecord(record.Record{Time: old, PID: 2}))

	archived, err := s.ArchiveBefore(time.Now(), true)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.True(t, fileExists(s.FilePath(old)))

	// Existing archives are not rewritten
	archived, err = s.ArchiveBefore(time.Now(), true)
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestArchiveBeforeHistoryRejected(t *testing.T) {
	s, err := NewStore(StoreConfig{
		Type:      LogTypeHistory,
		Directory: t.TempDir(),
		Name:      "AppHistory",
		Encoding:  EncodingUTF8,
		MaxSize:   Unbounded,
	})
	require.NoError(t, err)

	_, err = s.ArchiveBefore(time.Now(), false)
	assert.ErrorContains(t, err, "no monthly files")
}

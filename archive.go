package eventlog

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ArchiveBefore compresses the per-month files of an application-event store
// whose month ends before the month of t. Each file becomes "<file>.zst";
// the original is removed unless keep is set. Months already archived are
// skipped. Returns the archive paths written.
func (s *Store) ArchiveBefore(t time.Time, keep bool) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.logType != LogTypeAppEvent {
		return nil, fmtErrorf("store '%s' has no monthly files to archive", s.name)
	}

	entries, err := os.ReadDir(s.directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmtErrorf("failed to read directory '%s': %w", s.directory, err)
	}

	cutoff := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())

	var candidates []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		month, ok := s.parseMonthFile(e.Name(), t.Location())
		if !ok || !month.Before(cutoff) {
			continue
		}
		path := filepath.Join(s.directory, e.Name())
		if _, err := os.Stat(path + ArchiveExtension); err == nil {
			continue
		}
		candidates = append(candidates, path)
	}
	sort.Strings(candidates)

	var archived []string
	for _, path := range candidates {
		dst, err := compressFile(path)
		if err != nil {
			return archived, s.fail(err)
		}
		if !keep {
			if err := os.Remove(path); err != nil {
				return archived, s.fail(fmtErrorf("failed to remove archived file '%s': %w", path, err))
			}
		}
		archived = append(archived, dst)
	}
	return archived, nil
}

// parseMonthFile returns the month of a "<name>-YYYY-MM.<ext>" file name
func (s *Store) parseMonthFile(filename string, loc *time.Location) (time.Time, bool) {
	rest, ok := strings.CutPrefix(filename, s.name+"-")
	if !ok {
		return time.Time{}, false
	}
	if s.extension != "" {
		if rest, ok = strings.CutSuffix(rest, "."+s.extension); !ok {
			return time.Time{}, false
		}
	}
	month, err := time.ParseInLocation("2006-01", rest, loc)
	if err != nil {
		return time.Time{}, false
	}
	return month, true
}

// compressFile writes a zstd copy of path next to it
func compressFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmtErrorf("failed to open '%s' for archiving: %w", path, err)
	}
	defer src.Close()

	dstPath := path + ArchiveExtension
	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmtErrorf("failed to create archive '%s': %w", dstPath, err)
	}

	abort := func(err error) (string, error) {
		dst.Close()
		os.Remove(dstPath)
		return "", err
	}

	enc, err := zstd.NewWriter(dst)
	if err != nil {
		return abort(fmtErrorf("failed to create zstd encoder: %w", err))
	}
	if _, err := io.Copy(enc, src); err != nil {
		enc.Close()
		return abort(fmtErrorf("failed to compress '%s': %w", path, err))
	}
	if err := enc.Close(); err != nil {
		return abort(fmtErrorf("failed to finish archive '%s': %w", dstPath, err))
	}
	if err := dst.Sync(); err != nil {
		return abort(fmtErrorf("failed to sync archive '%s': %w", dstPath, err))
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return "", fmtErrorf("failed to close archive '%s': %w", dstPath, err)
	}
	return dstPath, nil
}

package eventlog

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/text/transform"

	"github.com/lixenwraith/eventlog/document"
	"github.com/lixenwraith/eventlog/record"
)

// ReadRecords reads a record file back into one document per record.
// A record starts at every line beginning with the time key. Files ending
// in ArchiveExtension are decompressed first.
func ReadRecords(path, encodingName string) ([]*document.Document, error) {
	te, err := lookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmtErrorf("failed to open record file '%s': %w", path, err)
	}
	defer file.Close()

	var src io.Reader = file
	if strings.HasSuffix(path, ArchiveExtension) {
		dec, err := zstd.NewReader(file)
		if err != nil {
			return nil, fmtErrorf("failed to open archive '%s': %w", path, err)
		}
		defer dec.Close()
		src = dec
	}

	var (
		docs  []*document.Document
		block bytes.Buffer
	)

	emit := func() error {
		if block.Len() == 0 {
			return nil
		}
		doc, err := document.ParseYAML(block.Bytes())
		block.Reset()
		if err != nil {
			return fmtErrorf("failed to parse record %d in '%s': %w", len(docs)+1, path, err)
		}
		docs = append(docs, doc)
		return nil
	}

	startPrefix := record.KeyTime + ":"
	scanner := bufio.NewScanner(transform.NewReader(src, te.decoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, startPrefix) {
			if err := emit(); err != nil {
				return nil, err
			}
		}
		if strings.TrimSpace(line) == "" && block.Len() == 0 {
			continue
		}
		block.WriteString(line)
		block.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmtErrorf("failed to read record file '%s': %w", path, err)
	}

	if err := emit(); err != nil {
		return nil, err
	}
	return docs, nil
}

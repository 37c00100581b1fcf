package eventlog

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// textEncoding pairs an encoder with the byte-order mark written to new files
type textEncoding struct {
	name string
	enc  encoding.Encoding
	bom  []byte
}

var utf16LEBOM = []byte{0xFF, 0xFE}

// lookupEncoding resolves a config encoding name
func lookupEncoding(name string) (textEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EncodingUTF16LE, "utf16le", "utf-16":
		return textEncoding{
			name: EncodingUTF16LE,
			enc:  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
			bom:  utf16LEBOM,
		}, nil
	case EncodingUTF8, "utf8":
		return textEncoding{name: EncodingUTF8, enc: unicode.UTF8}, nil
	default:
		return textEncoding{}, fmtErrorf("invalid encoding: '%s' (use utf-16le or utf-8)", name)
	}
}

// encode converts UTF-8 text to the file encoding
func (te textEncoding) encode(s string) ([]byte, error) {
	// Encoders are stateful, one per call
	return te.enc.NewEncoder().Bytes([]byte(s))
}

// decoder returns a decoder that honors a leading BOM of either encoding
func (te textEncoding) decoder() *encoding.Decoder {
	if te.name == EncodingUTF16LE {
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	}
	return &encoding.Decoder{Transformer: unicode.BOMOverride(unicode.UTF8.NewDecoder())}
}

// openAppend opens path for appending, creating it and its directory as needed.
// The BOM is written when the file is empty.
func openAppend(path string, te textEncoding) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmtErrorf("failed to create directory for '%s': %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmtErrorf("failed to open/create file '%s': %w", path, err)
	}

	if len(te.bom) > 0 {
		fi, err := file.Stat()
		if err != nil {
			_ = file.Close()
			return nil, fmtErrorf("failed to stat file '%s': %w", path, err)
		}
		if fi.Size() == 0 {
			if _, err := file.Write(te.bom); err != nil {
				_ = file.Close()
				return nil, fmtErrorf("failed to write BOM to '%s': %w", path, err)
			}
		}
	}

	return file, nil
}

// appendText encodes text and appends it to path: open, write, sync, close
func appendText(path, text string, te textEncoding) error {
	data, err := te.encode(text)
	if err != nil {
		return fmtErrorf("failed to encode text for '%s': %w", path, err)
	}

	file, err := openAppend(path, te)
	if err != nil {
		return err
	}

	var finalErr error
	if _, err := file.Write(data); err != nil {
		finalErr = fmtErrorf("failed to write to '%s': %w", path, err)
	} else if err := file.Sync(); err != nil {
		finalErr = fmtErrorf("failed to sync '%s': %w", path, err)
	}

	if err := file.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to close '%s': %w", path, err))
	}

	return finalErr
}

// Package encoding detects a file's text encoding and transcodes it to
// UTF-8, standing in for the original implementation's libmagic +
// iconv pipeline (see read_file_utf8 in the original C sources):
// byte-order marks are checked directly, h2non/filetype recognizes
// binary content, and
// golang.org/x/text's htmlindex + transform do the actual conversion.
package encoding

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DetectAndDecode inspects raw for a known encoding and returns its
// content transcoded to UTF-8 alongside the label that was used ("utf-8"
// when no transcoding was necessary).
func DetectAndDecode(raw []byte) ([]byte, string, error) {
	if len(raw) == 0 {
		return raw, "utf-8", nil
	}
	label := sniff(raw)
	if label == "utf-8" {
		return raw, "utf-8", nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		// Unknown label: fall through as a no-op, matching the
		// original's fallback when iconv_open fails.
		return raw, "utf-8", nil
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, label, fmt.Errorf("encoding: transcode from %s: %w", label, err)
	}
	return out, label, nil
}

// Encode transcodes data from UTF-8 back to label, for round-tripping a
// buffer's save encoding. "utf-8" is a no-op.
func Encode(data []byte, label string) ([]byte, error) {
	if label == "" || label == "utf-8" {
		return data, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return data, nil
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), data)
	if err != nil {
		return nil, fmt.Errorf("encoding: encode to %s: %w", label, err)
	}
	return out, nil
}

// sniff returns a best-guess encoding label for raw. BOM-prefixed buffers
// are identified outright; filetype.Match distinguishes well-formed
// UTF-8 text from binary content it recognizes (so we don't try to
// transcode e.g. a PNG opened by mistake); anything else defaults to
// utf-8, matching the original's "copy without converting" fallback.
func sniff(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8"
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE, 0x00, 0x00}):
		return "utf-32le"
	case bytes.HasPrefix(raw, []byte{0x00, 0x00, 0xFE, 0xFF}):
		return "utf-32be"
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return "utf-16le"
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return "utf-16be"
	}
	if utf8.Valid(raw) {
		return "utf-8"
	}
	if kind, err := filetype.Match(raw); err == nil && kind != filetype.Unknown {
		// A recognized binary type: leave bytes untouched rather than
		// guess a text encoding for it.
		return "utf-8"
	}
	return "windows-1252"
}

package undo

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/jackwreid/purec/internal/text"
)

// HugeUndoThreshold is the line count at or above which a segment is
// spilled to the backing file instead of held in memory.
const HugeUndoThreshold = 8

// segment is one append-only slot in the SegmentStore: either the lines
// themselves (small) or a seek position into the spill file (huge).
type segment struct {
	lines   *text.Text // nil when spilled
	bytes   []byte     // used for REPLACE deltas instead of lines
	spilled bool
	fpos    int64
}

// SegmentStore is the append-only table backing every buffer's undo log.
// Segments at or above HugeUndoThreshold lines are written to a spill
// file and released from memory; Load pages them back in on demand.
type SegmentStore struct {
	segments []segment
	spill    *os.File
}

// NewSegmentStore creates a store that spills to spillPath, which is
// created (truncated) if it doesn't already exist. Pass "" to disable
// spilling (segments always stay in memory — used by tests and by
// buffer.New).
func NewSegmentStore(spillPath string) (*SegmentStore, error) {
	s := &SegmentStore{}
	if spillPath != "" {
		f, err := os.OpenFile(spillPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return nil, fmt.Errorf("undo: open spill file: %w", err)
		}
		s.spill = f
	}
	return s, nil
}

// Close releases the spill file, if any.
func (s *SegmentStore) Close() error {
	if s.spill != nil {
		return s.spill.Close()
	}
	return nil
}

// Put stores lines as a new segment, spilling it if it is huge, and
// returns the segment index.
func (s *SegmentStore) Put(t *text.Text) int {
	seg := segment{lines: t}
	if s.spill != nil && t.NumLines() >= HugeUndoThreshold {
		if pos, err := s.writeSpill(t); err == nil {
			seg = segment{spilled: true, fpos: pos}
		}
	}
	s.segments = append(s.segments, seg)
	return len(s.segments) - 1
}

// PutBytes stores a REPLACE delta as a new segment (never spilled; XOR
// deltas are bounded by the edit size, not the undo threshold).
func (s *SegmentStore) PutBytes(b []byte) int {
	s.segments = append(s.segments, segment{bytes: b})
	return len(s.segments) - 1
}

// Load returns a borrowed *text.Text for segment i, paging it in from
// the spill file if necessary. Callers must call Unload when done.
func (s *SegmentStore) Load(i int) *text.Text {
	seg := &s.segments[i]
	if !seg.spilled {
		return seg.lines
	}
	t, err := s.readSpill(seg.fpos)
	if err != nil {
		return text.New()
	}
	seg.lines = t
	return t
}

// Unload releases the in-memory borrow created by Load for a spilled
// segment; no-op for segments that were never spilled.
func (s *SegmentStore) Unload(i int) {
	seg := &s.segments[i]
	if seg.spilled {
		seg.lines = nil
	}
}

// LoadBytes returns the XOR delta for a REPLACE segment.
func (s *SegmentStore) LoadBytes(i int) []byte {
	return s.segments[i].bytes
}

// writeSpill appends the segment's lines to the spill file (length-
// prefixed lines after a line-count header) and returns the fpos to
// remember for later loads. Single-writer, append-for-new-content.
func (s *SegmentStore) writeSpill(t *text.Text) (int64, error) {
	pos, err := s.spill.Seek(0, os.SEEK_END)
	if err != nil {
		return 0, err
	}
	w := bufio.NewWriter(s.spill)
	lines := t.Lines()
	if err := binary.Write(w, binary.LittleEndian, int64(len(lines))); err != nil {
		return 0, err
	}
	for _, line := range lines {
		if err := binary.Write(w, binary.LittleEndian, int64(len(line))); err != nil {
			return 0, err
		}
		if _, err := w.Write(line); err != nil {
			return 0, err
		}
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	return pos, nil
}

// readSpill seeks to fpos and reads back the lines written by writeSpill.
func (s *SegmentStore) readSpill(fpos int64) (*text.Text, error) {
	if _, err := s.spill.Seek(fpos, os.SEEK_SET); err != nil {
		return nil, err
	}
	r := bufio.NewReader(s.spill)
	var count int64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	lines := make([][]byte, count)
	for i := range lines {
		var n int64
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := readFull(r, buf); err != nil {
			return nil, err
		}
		lines[i] = buf
	}
	return text.FromLines(lines), nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// Package session implements §6's session file format: a line-based text
// format used to restore the set of open buffers and the frame layout
// across process restarts (`-s|--load-session`).
//
// Grounded in original_source/src/session.c (save_session/load_session):
// the 3-byte header + epoch timestamp, `B<id>\0<path>\0 cur scroll` and
// `F<buf_id> x:y;wxh cur scroll` line shapes, and load_session's
// tolerant-of-missing-fields field-at-a-time scanning (load_number_zu/
// load_number_d/load_string skip non-numeric separators rather than
// failing the whole line). Hand-rolled per spec §6/SPEC_FULL.md — no
// YAML/TOML/JSON library models this positional custom format, and
// introducing one would not simplify the field-tolerant parsing the
// format requires anyway.
package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jackwreid/purec/internal/frame"
	"github.com/jackwreid/purec/internal/text"
)

// Header is the spec's 3-byte lead-in: 0x1E ("RS"), then "PC".
var Header = [3]byte{0x1E, 'P', 'C'}

// BufferRecord is one "B..." line: a buffer's id, path and the cursor and
// scroll position it had when last saved.
type BufferRecord struct {
	ID         int
	Path       string // "" for an unnamed buffer
	SavedCur   text.Position
	SavedScroll text.Position
}

// FrameRecord is one "F..." line: a frame's buffer id, screen rectangle,
// cursor and scroll.
type FrameRecord struct {
	BufID  int
	Rect   frame.Rect
	Cur    text.Position
	Scroll text.Position
}

// Session is a fully parsed (or about-to-be-written) session file.
type Session struct {
	Timestamp int64
	Selected  int // index into Frames of the previously-focused frame
	Buffers   []BufferRecord
	Frames    []FrameRecord
}

// Save writes s to w in the §6 format.
func Save(w io.Writer, s *Session) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(Header[:]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d %d selected\n", s.Timestamp, s.Selected); err != nil {
		return err
	}
	for _, b := range s.Buffers {
		if _, err := fmt.Fprintf(bw, "B%d \x00%s\x00 %d,%d %d,%d\n",
			b.ID, b.Path, b.SavedCur.Col, b.SavedCur.Line, b.SavedScroll.Col, b.SavedScroll.Line); err != nil {
			return err
		}
	}
	bw.WriteByte('\n')
	for _, f := range s.Frames {
		if _, err := fmt.Fprintf(bw, "F%d %d:%d;%dx%d %d,%d %d,%d\n",
			f.BufID, f.Rect.X, f.Rect.Y, f.Rect.W, f.Rect.H,
			f.Cur.Col, f.Cur.Line, f.Scroll.Col, f.Scroll.Line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads a session file, tolerating missing fields and unrecognized
// line prefixes, per §6. A bad or missing header is reported via ok=false
// (the caller falls back to a fresh, empty session) rather than an error,
// matching load_session's "no file yet" path (`FirstBuffer = create_buffer(NULL)`).
func Load(r io.Reader) (*Session, bool) {
	br := bufio.NewReader(r)
	var header [3]byte
	n, _ := io.ReadFull(br, header[:])
	if n != 3 || header != Header {
		return nil, false
	}

	s := &Session{}
	line, _ := br.ReadString('\n')
	fields := strings.Fields(line)
	if len(fields) > 0 {
		s.Timestamp, _ = strconv.ParseInt(fields[0], 10, 64)
	}
	if len(fields) > 1 {
		s.Selected, _ = strconv.Atoi(fields[1])
	}

	for {
		l, err := br.ReadString('\n')
		l = strings.TrimRight(l, "\n")
		if l != "" {
			switch l[0] {
			case 'B':
				if rec, ok := parseBufferLine(l[1:]); ok {
					s.Buffers = append(s.Buffers, rec)
				}
			case 'F':
				if rec, ok := parseFrameLine(l[1:]); ok {
					s.Frames = append(s.Frames, rec)
				}
				// Unknown prefixes are silently ignored, per §6.
			}
		}
		if err != nil {
			break
		}
	}
	return s, true
}

// parseBufferLine parses "<id> \0<path>\0 cur.col,cur.line scroll.col,scroll.line".
func parseBufferLine(rest string) (BufferRecord, bool) {
	rest = strings.TrimLeft(rest, " ")
	idEnd := strings.IndexByte(rest, ' ')
	if idEnd < 0 {
		idEnd = strings.IndexByte(rest, '\x00')
	}
	if idEnd < 0 {
		return BufferRecord{}, false
	}
	id, err := strconv.Atoi(rest[:idEnd])
	if err != nil {
		return BufferRecord{}, false
	}
	rec := BufferRecord{ID: id}

	nulStart := strings.IndexByte(rest, '\x00')
	if nulStart < 0 {
		return rec, true
	}
	nulEnd := strings.IndexByte(rest[nulStart+1:], '\x00')
	if nulEnd < 0 {
		return rec, true
	}
	rec.Path = rest[nulStart+1 : nulStart+1+nulEnd]

	tail := strings.Fields(rest[nulStart+2+nulEnd:])
	if len(tail) > 0 {
		rec.SavedCur = parsePair(tail[0])
	}
	if len(tail) > 1 {
		rec.SavedScroll = parsePair(tail[1])
	}
	return rec, true
}

// parseFrameLine parses "<bufid> x:y;wxh cur.col,cur.line scroll.col,scroll.line".
func parseFrameLine(rest string) (FrameRecord, bool) {
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return FrameRecord{}, false
	}
	bufID, err := strconv.Atoi(fields[0])
	if err != nil {
		return FrameRecord{}, false
	}
	rec := FrameRecord{BufID: bufID}
	if len(fields) > 1 {
		rec.Rect = parseRect(fields[1])
	}
	if len(fields) > 2 {
		rec.Cur = parsePair(fields[2])
	}
	if len(fields) > 3 {
		rec.Scroll = parsePair(fields[3])
	}
	if rec.Rect.W <= 0 {
		rec.Rect.W = 1
	}
	if rec.Rect.H <= 0 {
		rec.Rect.H = 1
	}
	return rec, true
}

// parsePair parses "a,b" into a text.Position{Col: a, Line: b}, ignoring
// unparsable components rather than failing, per the format's
// field-at-a-time tolerance.
func parsePair(s string) text.Position {
	parts := strings.SplitN(s, ",", 2)
	var pos text.Position
	if len(parts) > 0 {
		pos.Col, _ = strconv.Atoi(parts[0])
	}
	if len(parts) > 1 {
		pos.Line, _ = strconv.Atoi(parts[1])
	}
	return pos
}

// parseRect parses "x:y;wxh".
func parseRect(s string) frame.Rect {
	var r frame.Rect
	xy, wh, found := strings.Cut(s, ";")
	if xc, yc, ok := strings.Cut(xy, ":"); ok {
		r.X, _ = strconv.Atoi(xc)
		r.Y, _ = strconv.Atoi(yc)
	}
	if found {
		if wc, hc, ok := strings.Cut(wh, "x"); ok {
			r.W, _ = strconv.Atoi(wc)
			r.H, _ = strconv.Atoi(hc)
		}
	}
	return r
}

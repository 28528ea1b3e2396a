package regex

import "github.com/jackwreid/purec/internal/text"

// Match is one non-overlapping match result, a half-open [From, To) span.
type Match = text.Range

// source is the line-structured text a Program scans. A position one byte
// past a non-final line's last byte addresses the virtual '\n' that joins
// it to the next line; advancing past that virtual byte lands on (line+1,
// 0). The position one byte past the final line's last byte is true EOF.
type source struct {
	lines [][]byte
}

func (s *source) numLines() int { return len(s.lines) }

func (s *source) lineLen(i int) int {
	if i < 0 || i >= len(s.lines) {
		return 0
	}
	return len(s.lines[i])
}

// at returns the byte at pos and whether one exists (false only at true
// EOF, the one-past-end of the final line).
func (s *source) at(pos text.Position) (byte, bool) {
	if pos.Col < s.lineLen(pos.Line) {
		return s.lines[pos.Line][pos.Col], true
	}
	if pos.Line+1 < s.numLines() {
		return '\n', true
	}
	return 0, false
}

// prev returns the byte immediately before pos and whether one exists
// (false only at true beginning-of-text).
func (s *source) prev(pos text.Position) (byte, bool) {
	if pos.Col > 0 {
		return s.lines[pos.Line][pos.Col-1], true
	}
	if pos.Line > 0 {
		return '\n', true
	}
	return 0, false
}

// advance moves one byte forward from pos (including crossing a virtual
// newline into the next line).
func (s *source) advance(pos text.Position) text.Position {
	if pos.Col < s.lineLen(pos.Line) {
		return text.Position{Line: pos.Line, Col: pos.Col + 1}
	}
	if pos.Line+1 < s.numLines() {
		return text.Position{Line: pos.Line + 1, Col: 0}
	}
	return pos
}

// cont is the continuation a sub-match invokes with the position just
// past what it consumed; it returns true once the overall match succeeds.
type cont func(text.Position) bool

// matchNode attempts to match n starting at pos, trying (with
// backtracking) every way to satisfy k from the position n leaves off at.
func matchNode(s *source, n *node, pos text.Position, k cont) bool {
	switch n.kind {
	case nConcat:
		return matchSeq(s, n.items, 0, pos, k)
	case nAlt:
		for _, alt := range n.items {
			if matchNode(s, alt, pos, k) {
				return true
			}
		}
		return false
	case nGroup:
		return matchNode(s, n.sub, pos, k)
	case nRepeat:
		return matchRepeat(s, n, 0, pos, k)
	case nLit:
		b, ok := s.at(pos)
		if !ok || !n.set.Has(b) {
			return false
		}
		return k(s.advance(pos))
	case nWordStart:
		cur, hasCur := s.at(pos)
		if !hasCur || !isWordByte(cur) {
			return false
		}
		if prev, hasPrev := s.prev(pos); hasPrev && isWordByte(prev) {
			return false
		}
		return k(pos)
	case nWordEnd:
		prev, hasPrev := s.prev(pos)
		if !hasPrev || !isWordByte(prev) {
			return false
		}
		if cur, hasCur := s.at(pos); hasCur && isWordByte(cur) {
			return false
		}
		return k(pos)
	case nLineStart:
		if pos.Col != 0 {
			return false
		}
		return k(pos)
	case nLineEnd:
		if pos.Col != s.lineLen(pos.Line) {
			return false
		}
		return k(pos)
	}
	return false
}

// matchSeq matches items[i:] in order, each one's continuation chaining
// into the next.
func matchSeq(s *source, items []*node, i int, pos text.Position, k cont) bool {
	if i >= len(items) {
		return k(pos)
	}
	return matchNode(s, items[i], pos, func(next text.Position) bool {
		return matchSeq(s, items, i+1, next, k)
	})
}

// matchRepeat greedily tries one more repetition of n.sub before falling
// back to k, backtracking down to n.min repetitions. A repetition that
// consumes no input is matched at most once, to guarantee termination.
func matchRepeat(s *source, n *node, count int, pos text.Position, k cont) bool {
	if n.max < 0 || count < n.max {
		matched := matchNode(s, n.sub, pos, func(next text.Position) bool {
			if next == pos {
				if count+1 <= n.min {
					return k(next)
				}
				return false // zero-width repetition already counted once
			}
			return matchRepeat(s, n, count+1, next, k)
		})
		if matched {
			return true
		}
	}
	if count >= n.min {
		return k(pos)
	}
	return false
}

// matchAt reports whether p matches starting exactly at pos, returning the
// end position of the first (greedy-first) successful match.
func (p *Program) matchAt(s *source, pos text.Position) (text.Position, bool) {
	var end text.Position
	ok := matchNode(s, p.root, pos, func(final text.Position) bool {
		end = final
		return true
	})
	return end, ok
}

// Scan matches p against every line of t, returning zero or more
// non-overlapping matches in sorted order. The scan tries every start
// position through true end-of-text (the one-past-end of the final line)
// inclusive, so a pattern that only matches zero-width at EOF (e.g. "$")
// is still found.
func (p *Program) Scan(t *text.Text) []Match {
	s := &source{lines: t.Lines()}
	var matches []Match
	pos := text.Position{}
	lastLine := s.numLines() - 1
	for {
		atEOF := pos.Line == lastLine && pos.Col == s.lineLen(lastLine)
		if end, ok := p.matchAt(s, pos); ok {
			matches = append(matches, Match{From: pos, To: end})
			if end != pos {
				pos = end
				continue
			}
		}
		if atEOF {
			break
		}
		pos = s.advance(pos)
	}
	return matches
}

// Matches reports whether p matches the entirety of t as a single span
// starting at (0,0) and ending at the end of its last line (not part of
// the scan contract).
func (p *Program) Matches(t *text.Text) bool {
	s := &source{lines: t.Lines()}
	last := s.numLines() - 1
	eof := text.Position{Line: last, Col: s.lineLen(last)}
	return matchNode(s, p.root, text.Position{}, func(final text.Position) bool {
		return final == eof
	})
}

// Source returns the pattern string the Program was compiled from.
func (p *Program) Source() string { return p.source }

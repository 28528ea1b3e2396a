// Package undo implements a linear undo/redo event log: coalescing of
// adjacent edits, transient chains that undo together, XOR-delta REPLACE
// events, and spilling of large segments to a backing file.
package undo

import "github.com/jackwreid/purec/internal/text"

// Kind is the mutation family an event records.
type Kind uint8

const (
	Insertion Kind = iota
	Deletion
	Replace
)

// Flags augments Kind with two orthogonal bits.
type Flags uint8

const (
	FlagBlock Flags = 1 << iota
	FlagTransient
)

// Event is one undoable mutation record.
type Event struct {
	Kind         Kind
	Flags        Flags
	Time         int64
	Pos, End     text.Position
	CursorBefore text.Position
	CursorAfter  text.Position
	Segment      int // index into the owning Log's SegmentStore, or -1
}

func (e Event) transient() bool { return e.Flags&FlagTransient != 0 }
func (e Event) block() bool     { return e.Flags&FlagBlock != 0 }

// Mutator is the subset of *text.Text operations the log needs to
// reverse/reapply an event. Buffer implements it directly by embedding
// *text.Text.
type Mutator interface {
	InsertRange(pos text.Position, src *text.Text, repeat int) text.Range
	InsertBlock(pos text.Position, src *text.Text, repeat int) text.Range
	DeleteRange(from, to text.Position) (*text.Text, text.Range)
	DeleteBlock(from, to text.Position) (*text.Text, text.Range)
	ApplyXOR(from, to text.Position, delta []byte)
}

// Log is the per-buffer event vector plus its segment store. EventI is
// the index *after* the most recently applied event.
type Log struct {
	events  []Event
	EventI  int
	Store   *SegmentStore
	nowFunc func() int64 // overridable for deterministic tests
}

// NewLog creates an empty log backed by the given segment store. now, if
// non-nil, overrides the event timestamp source; nil (as passed by the
// tests and by buffer.New) stamps every event with 0.
func NewLog(store *SegmentStore, now func() int64) *Log {
	if now == nil {
		now = func() int64 { return 0 }
	}
	return &Log{Store: store, nowFunc: now}
}

// Len reports the number of events currently applied (i.e. EventI).
func (l *Log) Len() int { return l.EventI }

// shouldJoin implements the three fixed coalescing rules: adjacent
// inserts, same-point deletes, delete-then-insert at the same point.
// REPLACE events never join.
func shouldJoin(prev, next Event) bool {
	if prev.Kind == Replace || next.Kind == Replace {
		return false
	}
	if prev.Kind == Insertion && next.Kind == Insertion {
		return !next.Pos.Less(prev.Pos) && !prev.End.Less(next.Pos)
	}
	if prev.Kind == Deletion && next.Kind == Deletion {
		return prev.Pos == next.Pos
	}
	if prev.Kind == Deletion && next.Kind == Insertion {
		return prev.Pos == next.Pos
	}
	return false
}

// recordInsert pushes an INSERTION event carrying the inserted lines as a
// segment.
func (l *Log) recordInsert(pos, end, before, after text.Position, inserted *text.Text, block, transient bool) {
	l.truncate()
	seg := l.Store.Put(inserted)
	fl := Flags(0)
	if block {
		fl |= FlagBlock
	}
	if transient {
		fl |= FlagTransient
	}
	ev := Event{Kind: Insertion, Flags: fl, Pos: pos, End: end, CursorBefore: before, CursorAfter: after, Segment: seg, Time: l.nowFunc()}
	l.append(ev)
}

// recordDelete pushes a DELETION event carrying the deleted lines.
func (l *Log) recordDelete(pos, end, before, after text.Position, deleted *text.Text, block, transient bool) {
	l.truncate()
	seg := l.Store.Put(deleted)
	fl := Flags(0)
	if block {
		fl |= FlagBlock
	}
	if transient {
		fl |= FlagTransient
	}
	ev := Event{Kind: Deletion, Flags: fl, Pos: pos, End: end, CursorBefore: before, CursorAfter: after, Segment: seg, Time: l.nowFunc()}
	l.append(ev)
}

// recordReplace pushes a REPLACE event carrying the XOR delta.
func (l *Log) recordReplace(pos, end, before, after text.Position, delta []byte, block bool) {
	l.truncate()
	seg := l.Store.PutBytes(delta)
	fl := Flags(0)
	if block {
		fl |= FlagBlock
	}
	ev := Event{Kind: Replace, Flags: fl, Pos: pos, End: end, CursorBefore: before, CursorAfter: after, Segment: seg, Time: l.nowFunc()}
	l.append(ev)
}

// append records ev as the newest event. When shouldJoin reports that ev
// continues the previous event, the previous event is flagged TRANSIENT so
// the two undo/redo together as one chain (§4.2's "coalesced undo chains"),
// rather than becoming two separately undoable steps.
func (l *Log) append(ev Event) {
	if l.EventI > 0 && shouldJoin(l.events[l.EventI-1], ev) {
		l.events[l.EventI-1].Flags |= FlagTransient
	}
	l.events = append(l.events[:l.EventI], ev)
	l.EventI++
}

// truncate drops events at or beyond EventI: any new edit invalidates the
// redo tail.
func (l *Log) truncate() {
	l.events = l.events[:l.EventI]
}

// PushInsert records an insertion that already happened via m.InsertRange
// (or InsertBlock, if block is true); markTransient flags this event as
// part of a coalesced chain with whatever follows.
func (l *Log) PushInsert(pos text.Position, rng text.Range, before, after text.Position, inserted *text.Text, block, markTransient bool) {
	l.recordInsert(pos, rng.To, before, after, inserted, block, markTransient)
}

// PushDelete records a deletion that already happened.
func (l *Log) PushDelete(rng text.Range, before, after text.Position, deleted *text.Text, block, markTransient bool) {
	l.recordDelete(rng.From, rng.To, before, after, deleted, block, markTransient)
}

// PushReplace records a REPLACE event for a change already applied.
func (l *Log) PushReplace(rng text.Range, before, after text.Position, delta []byte, block bool) {
	l.recordReplace(rng.From, rng.To, before, after, delta, block)
}

// Undo reverses the event chain ending at EventI-1 (following TRANSIENT
// links backward), returning the cursor to restore and whether anything
// was undone.
func (l *Log) Undo(m Mutator) (text.Position, bool) {
	if l.EventI == 0 {
		return text.Position{}, false
	}
	// Walk back over a transient chain: the chain's first event is the
	// one whose predecessor is not marked transient (or event 0).
	last := l.EventI - 1
	first := last
	for first > 0 && l.events[first-1].transient() {
		first--
	}
	for i := last; i >= first; i-- {
		l.reverse(m, l.events[i])
	}
	l.EventI = first
	return l.events[first].CursorBefore, true
}

// Redo reapplies the event chain starting at EventI (following TRANSIENT
// links forward), returning the cursor to restore and whether anything
// was redone.
func (l *Log) Redo(m Mutator) (text.Position, bool) {
	if l.EventI >= len(l.events) {
		return text.Position{}, false
	}
	first := l.EventI
	last := first
	for l.events[last].transient() && last+1 < len(l.events) {
		last++
	}
	for i := first; i <= last; i++ {
		l.apply(m, l.events[i])
	}
	l.EventI = last + 1
	return l.events[last].CursorAfter, true
}

func (l *Log) reverse(m Mutator, ev Event) {
	switch ev.Kind {
	case Insertion:
		if ev.block() {
			m.DeleteBlock(ev.Pos, ev.End)
		} else {
			m.DeleteRange(ev.Pos, ev.End)
		}
	case Deletion:
		seg := l.Store.Load(ev.Segment)
		if ev.block() {
			m.InsertBlock(ev.Pos, seg, 1)
		} else {
			m.InsertRange(ev.Pos, seg, 1)
		}
		l.Store.Unload(ev.Segment)
	case Replace:
		delta := l.Store.LoadBytes(ev.Segment)
		m.ApplyXOR(ev.Pos, ev.End, delta)
	}
}

func (l *Log) apply(m Mutator, ev Event) {
	switch ev.Kind {
	case Insertion:
		seg := l.Store.Load(ev.Segment)
		if ev.block() {
			m.InsertBlock(ev.Pos, seg, 1)
		} else {
			m.InsertRange(ev.Pos, seg, 1)
		}
		l.Store.Unload(ev.Segment)
	case Deletion:
		if ev.block() {
			m.DeleteBlock(ev.Pos, ev.End)
		} else {
			m.DeleteRange(ev.Pos, ev.End)
		}
	case Replace:
		delta := l.Store.LoadBytes(ev.Segment)
		m.ApplyXOR(ev.Pos, ev.End, delta)
	}
}

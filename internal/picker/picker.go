// Package picker implements the fuzzy file-completion chooser (§1's
// `choose_file` collaborator, named as a non-goal interface but given a
// full implementation here per SPEC_FULL.md §6).
//
// Grounded in the teacher's picker.go (Show/Hide/MoveUp/MoveDown selection
// state machine), with ranking built on github.com/sajari/fuzzy — the same
// engine the teacher uses for spell-check (spellcheck.go) — repurposed
// here for filename ranking instead of dictionary lookup.
package picker

import (
	"sort"
	"strings"

	"github.com/sajari/fuzzy"
)

// Picker is the buffer/file-switching overlay's selection state.
type Picker struct {
	Active   bool
	Selected int
	Items    []string // the currently filtered candidate list
	Query    string
}

// Show activates the picker with an unfiltered candidate list and the
// given item pre-selected.
func (p *Picker) Show(candidates []string, currentIndex int) {
	p.Active = true
	p.Items = candidates
	p.Query = ""
	p.Selected = currentIndex
	if p.Selected >= len(p.Items) {
		p.Selected = len(p.Items) - 1
	}
	if p.Selected < 0 {
		p.Selected = 0
	}
}

// Hide deactivates the picker.
func (p *Picker) Hide() {
	p.Active = false
}

// MoveUp moves the selection up, clamping at 0.
func (p *Picker) MoveUp() {
	if p.Selected > 0 {
		p.Selected--
	}
}

// MoveDown moves the selection down, clamping at len(Items)-1.
func (p *Picker) MoveDown() {
	if p.Selected < len(p.Items)-1 {
		p.Selected++
	}
}

// Type appends r to the query and re-filters Items against candidates.
func (p *Picker) Type(candidates []string, r rune) {
	p.Query += string(r)
	p.Items = Filter(candidates, p.Query)
	p.Selected = 0
}

// Backspace removes the last query rune and re-filters.
func (p *Picker) Backspace(candidates []string) {
	if len(p.Query) == 0 {
		p.Items = candidates
		return
	}
	runes := []rune(p.Query)
	p.Query = string(runes[:len(runes)-1])
	p.Items = Filter(candidates, p.Query)
	p.Selected = 0
}

// Selection returns the currently highlighted item, or "" if none.
func (p *Picker) Selection() string {
	if p.Selected < 0 || p.Selected >= len(p.Items) {
		return ""
	}
	return p.Items[p.Selected]
}

// Filter ranks candidates against query (case-insensitively). A small
// sajari/fuzzy model trained on the candidates supplies one best-guess
// correction of the query (as the teacher's spell checker does for
// dictionary words); a candidate equal to that guess sorts first, then
// prefix matches, then substring matches, then subsequence matches.
// Within each group shorter paths sort first. Candidates that match in
// none of these ways are dropped.
func Filter(candidates []string, query string) []string {
	if query == "" {
		out := make([]string, len(candidates))
		copy(out, candidates)
		return out
	}
	q := strings.ToLower(query)

	model := fuzzy.NewModel()
	model.SetDepth(2)
	for _, c := range candidates {
		model.TrainWord(strings.ToLower(c))
	}
	guess := model.SpellCheck(q)

	type scored struct {
		name string
		rank int // lower is better
	}
	var matches []scored
	for _, c := range candidates {
		lc := strings.ToLower(c)
		switch {
		case lc == guess && guess != "":
			matches = append(matches, scored{c, 0})
		case strings.HasPrefix(lc, q):
			matches = append(matches, scored{c, 1})
		case strings.Contains(lc, q):
			matches = append(matches, scored{c, 2})
		case isSubsequence(q, lc):
			matches = append(matches, scored{c, 3})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return len(matches[i].name) < len(matches[j].name)
	})
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.name
	}
	return out
}

// isSubsequence reports whether every rune of q appears in s in order,
// not necessarily contiguously (a loose last-resort match).
func isSubsequence(q, s string) bool {
	i := 0
	qr := []rune(q)
	if len(qr) == 0 {
		return true
	}
	for _, r := range s {
		if r == qr[i] {
			i++
			if i == len(qr) {
				return true
			}
		}
	}
	return false
}

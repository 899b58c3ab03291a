package tui

import (
	"slices"
	"strconv"
	"strings"

	"proclean/pkg/ps"
	"proclean/pkg/terminate"
)

// Phase is the top-level state of a picker session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseEmpty
	PhaseList
	PhaseConfirm
	PhaseKilling
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseEmpty:
		return "empty"
	case PhaseList:
		return "list"
	case PhaseConfirm:
		return "confirm"
	case PhaseKilling:
		return "killing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// Session is the picker state. Every transition is a method returning the
// next Session; none of them performs I/O. The process slice is replaced
// wholesale on load and never modified.
type Session struct {
	Phase     Phase
	Procs     []ps.Process
	Err       error
	Cursor    int
	Selected  map[int]struct{}
	Searching bool
	Query     string
	Preview   bool
	Targets   []int
	Outcomes  terminate.Outcomes
}

// NewSession returns a session waiting for its first snapshot.
func NewSession() Session {
	return Session{Phase: PhaseLoading, Selected: map[int]struct{}{}}
}

// Visible returns the processes matching the search query, in snapshot
// order. Matching is a case-insensitive substring test on the command or
// the decimal pid.
func (s Session) Visible() []ps.Process {
	if s.Query == "" {
		return s.Procs
	}
	q := strings.ToLower(s.Query)
	var out []ps.Process
	for _, p := range s.Procs {
		if strings.Contains(strings.ToLower(p.Command), q) || strings.Contains(strconv.Itoa(p.PID), q) {
			out = append(out, p)
		}
	}
	return out
}

// Current returns the process under the cursor.
func (s Session) Current() (ps.Process, bool) {
	visible := s.Visible()
	if s.Cursor < 0 || s.Cursor >= len(visible) {
		return ps.Process{}, false
	}
	return visible[s.Cursor], true
}

// IsSelected reports whether pid is in the selection.
func (s Session) IsSelected(pid int) bool {
	_, ok := s.Selected[pid]
	return ok
}

func (s Session) withSelection(sel map[int]struct{}) Session {
	s.Selected = sel
	return s
}

func (s Session) copySelection() map[int]struct{} {
	sel := make(map[int]struct{}, len(s.Selected))
	for pid := range s.Selected {
		sel[pid] = struct{}{}
	}
	return sel
}

func (s Session) clamp() Session {
	n := len(s.Visible())
	if s.Cursor > n-1 {
		s.Cursor = n - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	return s
}

// Loaded applies the result of an enumeration.
func (s Session) Loaded(procs []ps.Process, err error) Session {
	if s.Phase != PhaseLoading {
		return s
	}
	s.Procs = procs
	s.Err = err
	switch {
	case err != nil:
		s.Phase = PhaseFailed
	case len(procs) == 0:
		s.Phase = PhaseEmpty
	default:
		s.Phase = PhaseList
	}
	return s.clamp()
}

// MoveUp moves the cursor one row up, stopping at the first row.
func (s Session) MoveUp() Session {
	if s.Phase != PhaseList {
		return s
	}
	s.Cursor--
	return s.clamp()
}

// MoveDown moves the cursor one row down, stopping at the last row.
func (s Session) MoveDown() Session {
	if s.Phase != PhaseList {
		return s
	}
	s.Cursor++
	return s.clamp()
}

// ToggleSelect adds or removes the process under the cursor.
func (s Session) ToggleSelect() Session {
	if s.Phase != PhaseList {
		return s
	}
	p, ok := s.Current()
	if !ok {
		return s
	}
	sel := s.copySelection()
	if _, on := sel[p.PID]; on {
		delete(sel, p.PID)
	} else {
		sel[p.PID] = struct{}{}
	}
	return s.withSelection(sel)
}

// SelectAll clears the selection when its size equals the number of
// visible rows, otherwise selects every visible pid.
func (s Session) SelectAll() Session {
	if s.Phase != PhaseList {
		return s
	}
	visible := s.Visible()
	if len(s.Selected) == len(visible) {
		return s.withSelection(map[int]struct{}{})
	}
	sel := make(map[int]struct{}, len(visible))
	for _, p := range visible {
		sel[p.PID] = struct{}{}
	}
	return s.withSelection(sel)
}

// StartSearch enters search mode.
func (s Session) StartSearch() Session {
	if s.Phase != PhaseList {
		return s
	}
	s.Searching = true
	return s
}

// SetQuery replaces the search query.
func (s Session) SetQuery(q string) Session {
	if !s.Searching {
		return s
	}
	s.Query = q
	return s.clamp()
}

// TypeRune appends r to the search query.
func (s Session) TypeRune(r rune) Session {
	return s.SetQuery(s.Query + string(r))
}

// Backspace removes the last rune of the search query.
func (s Session) Backspace() Session {
	if s.Query == "" {
		return s
	}
	q := []rune(s.Query)
	return s.SetQuery(string(q[:len(q)-1]))
}

// EndSearch leaves search mode and keeps the filter.
func (s Session) EndSearch() Session {
	s.Searching = false
	return s
}

// CancelSearch leaves search mode and drops the filter.
func (s Session) CancelSearch() Session {
	s.Searching = false
	s.Query = ""
	return s.clamp()
}

// TogglePreview shows or hides the detail pane.
func (s Session) TogglePreview() Session {
	s.Preview = !s.Preview
	return s
}

// KillTargets returns the pids a confirmation would act on: the selection
// when it is not empty, else the pid under the cursor.
func (s Session) KillTargets() []int {
	if len(s.Selected) > 0 {
		pids := make([]int, 0, len(s.Selected))
		for pid := range s.Selected {
			pids = append(pids, pid)
		}
		slices.Sort(pids)
		return pids
	}
	if p, ok := s.Current(); ok {
		return []int{p.PID}
	}
	return nil
}

// RequestConfirm moves to the confirmation prompt. Nothing happens when
// there is nothing to kill.
func (s Session) RequestConfirm() Session {
	if s.Phase != PhaseList {
		return s
	}
	targets := s.KillTargets()
	if len(targets) == 0 {
		return s
	}
	s.Targets = targets
	s.Searching = false
	s.Phase = PhaseConfirm
	return s
}

// Answer resolves the confirmation prompt.
func (s Session) Answer(yes bool) Session {
	if s.Phase != PhaseConfirm {
		return s
	}
	if yes {
		s.Phase = PhaseKilling
		return s
	}
	s.Targets = nil
	s.Phase = PhaseList
	return s
}

// Killed records the termination batch result.
func (s Session) Killed(outcomes terminate.Outcomes) Session {
	if s.Phase != PhaseKilling {
		return s
	}
	s.Outcomes = outcomes
	s.Phase = PhaseDone
	return s
}

// Refresh drops the selection and cursor and waits for a new snapshot.
func (s Session) Refresh() Session {
	if s.Phase != PhaseDone && s.Phase != PhaseList {
		return s
	}
	s.Phase = PhaseLoading
	s.Selected = map[int]struct{}{}
	s.Cursor = 0
	s.Targets = nil
	s.Searching = false
	return s
}

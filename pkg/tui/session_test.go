package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proclean/pkg/ps"
	"proclean/pkg/terminate"
)

func sampleProcs() []ps.Process {
	return []ps.Process{
		{PID: 100, PPID: 1, TTY: "??", CPU: 0.1, RSS: 2048, Elapsed: "01:00", Command: "node server.js"},
		{PID: 200, PPID: 1, TTY: "??", CPU: 7.5, RSS: 4096, Elapsed: "02:00", Command: "python3 -m http.server"},
		{PID: 300, PPID: 1, TTY: "??", CPU: 0.0, RSS: 1024, Elapsed: "03:00", Command: "npm run dev"},
	}
}

func listSession(t *testing.T) Session {
	t.Helper()
	s := NewSession().Loaded(sampleProcs(), nil)
	require.Equal(t, PhaseList, s.Phase)
	return s
}

func TestLoaded(t *testing.T) {
	t.Run("processes", func(t *testing.T) {
		s := NewSession().Loaded(sampleProcs(), nil)
		assert.Equal(t, PhaseList, s.Phase)
		assert.Len(t, s.Procs, 3)
		assert.Equal(t, 0, s.Cursor)
	})
	t.Run("empty", func(t *testing.T) {
		s := NewSession().Loaded(nil, nil)
		assert.Equal(t, PhaseEmpty, s.Phase)
	})
	t.Run("failed", func(t *testing.T) {
		s := NewSession().Loaded(nil, errors.New("ps exploded"))
		assert.Equal(t, PhaseFailed, s.Phase)
		assert.EqualError(t, s.Err, "ps exploded")
	})
	t.Run("ignored outside loading", func(t *testing.T) {
		s := listSession(t).Loaded(nil, nil)
		assert.Equal(t, PhaseList, s.Phase)
		assert.Len(t, s.Procs, 3)
	})
}

func TestCursorClamped(t *testing.T) {
	s := listSession(t)

	s = s.MoveUp()
	assert.Equal(t, 0, s.Cursor)

	s = s.MoveDown().MoveDown().MoveDown().MoveDown()
	assert.Equal(t, 2, s.Cursor)

	p, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 300, p.PID)
}

func TestToggleSelect(t *testing.T) {
	s := listSession(t)

	on := s.ToggleSelect()
	assert.True(t, on.IsSelected(100))
	assert.False(t, s.IsSelected(100), "previous session must not share the selection")

	off := on.ToggleSelect()
	assert.Empty(t, off.Selected)
}

func TestSelectAll_Twice(t *testing.T) {
	s := listSession(t)

	all := s.SelectAll()
	assert.Len(t, all.Selected, 3)

	none := all.SelectAll()
	assert.Empty(t, none.Selected)
}

func TestSelectAll_PartialSelectsEverything(t *testing.T) {
	s := listSession(t).ToggleSelect().SelectAll()
	assert.Len(t, s.Selected, 3)
}

func TestSearch(t *testing.T) {
	s := listSession(t).ToggleSelect()
	before := s.Procs

	s = s.StartSearch()
	for _, r := range "NOD" {
		s = s.TypeRune(r)
	}
	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, 100, visible[0].PID)

	s = s.CancelSearch()
	assert.False(t, s.Searching)
	assert.Empty(t, s.Query)
	assert.Len(t, s.Visible(), 3)
	assert.Equal(t, before, s.Procs)
	assert.True(t, s.IsSelected(100), "search must not touch the selection")
}

func TestSearch_ByPID(t *testing.T) {
	s := listSession(t).StartSearch().SetQuery("20")
	visible := s.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, 200, visible[0].PID)
}

func TestSearch_ClampsCursor(t *testing.T) {
	s := listSession(t).MoveDown().MoveDown()
	require.Equal(t, 2, s.Cursor)

	s = s.StartSearch().SetQuery("node")
	assert.Equal(t, 0, s.Cursor)

	s = s.Backspace().Backspace().Backspace().Backspace()
	assert.Empty(t, s.Query)
	assert.Equal(t, 0, s.Cursor)
}

func TestSearch_EndKeepsQuery(t *testing.T) {
	s := listSession(t).StartSearch().SetQuery("npm").EndSearch()
	assert.False(t, s.Searching)
	assert.Equal(t, "npm", s.Query)
	assert.Len(t, s.Visible(), 1)
}

func TestSetQuery_RequiresSearchMode(t *testing.T) {
	s := listSession(t).SetQuery("node")
	assert.Empty(t, s.Query)
}

func TestKillTargets(t *testing.T) {
	s := listSession(t).MoveDown()
	assert.Equal(t, []int{200}, s.KillTargets())

	s = s.MoveDown().ToggleSelect().MoveUp().MoveUp().ToggleSelect()
	assert.Equal(t, []int{100, 300}, s.KillTargets())
}

func TestRequestConfirm_NoTargets(t *testing.T) {
	s := listSession(t).StartSearch().SetQuery("nothing matches this")
	require.Empty(t, s.Visible())

	s = s.RequestConfirm()
	assert.Equal(t, PhaseList, s.Phase)
	assert.Nil(t, s.Targets)
}

func TestConfirmFlow(t *testing.T) {
	s := listSession(t).SelectAll().RequestConfirm()
	require.Equal(t, PhaseConfirm, s.Phase)
	assert.Equal(t, []int{100, 200, 300}, s.Targets)

	t.Run("no", func(t *testing.T) {
		n := s.Answer(false)
		assert.Equal(t, PhaseList, n.Phase)
		assert.Nil(t, n.Targets)
		assert.Len(t, n.Selected, 3)
	})

	t.Run("yes", func(t *testing.T) {
		y := s.Answer(true)
		require.Equal(t, PhaseKilling, y.Phase)

		outcomes := terminate.Outcomes{
			{PID: 100, Success: true},
			{PID: 200, Success: false, Err: errors.New("operation not permitted")},
			{PID: 300, Success: true},
		}
		done := y.Killed(outcomes)
		assert.Equal(t, PhaseDone, done.Phase)
		assert.Equal(t, []int{100, 300}, done.Outcomes.Succeeded())
	})
}

func TestKilled_IgnoredOutsideKilling(t *testing.T) {
	s := listSession(t).Killed(terminate.Outcomes{{PID: 1, Success: true}})
	assert.Equal(t, PhaseList, s.Phase)
	assert.Nil(t, s.Outcomes)
}

func TestRefresh(t *testing.T) {
	s := listSession(t).SelectAll().MoveDown().RequestConfirm().Answer(true).Killed(nil)
	require.Equal(t, PhaseDone, s.Phase)

	s = s.Refresh()
	assert.Equal(t, PhaseLoading, s.Phase)
	assert.Empty(t, s.Selected)
	assert.Equal(t, 0, s.Cursor)
	assert.Nil(t, s.Targets)

	s = s.Loaded(sampleProcs()[:1], nil)
	assert.Equal(t, PhaseList, s.Phase)
	assert.Len(t, s.Procs, 1)
}

func TestTransitions_IgnoredWhileLoading(t *testing.T) {
	s := NewSession()
	assert.Equal(t, s.Phase, s.MoveDown().ToggleSelect().SelectAll().RequestConfirm().Phase)
	assert.Equal(t, PhaseLoading, s.Refresh().Phase)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "confirm", PhaseConfirm.String())
	assert.Equal(t, "unknown", Phase(42).String())
}

// Package tui is the embedded full-screen orphan picker.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"proclean/pkg/filter"
	"proclean/pkg/ps"
	"proclean/pkg/terminate"
)

// Loader returns a fresh, classified snapshot.
type Loader func(ctx context.Context) ([]ps.Process, error)

// Killer terminates a batch of pids.
type Killer func(ctx context.Context, pids []int) terminate.Outcomes

// Inspector reads live details for the preview pane.
type Inspector func(ctx context.Context, pid int) (ps.Detail, error)

// Options wires the picker to the enumeration and termination core.
type Options struct {
	Mode    filter.Mode
	Load    Loader
	Kill    Killer
	Inspect Inspector
}

type loadedMsg struct {
	procs []ps.Process
	err   error
}

type killedMsg struct {
	outcomes terminate.Outcomes
}

type detailMsg struct {
	pid    int
	detail ps.Detail
	err    error
}

// Model is the bubbletea model of the picker. All decisions are taken by
// Session; Model turns keys into transitions and runs the I/O.
type Model struct {
	session Session
	opts    Options

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	search  textinput.Model

	detailPID int
	detail    *ps.Detail

	width  int
	height int
}

// New creates the picker model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.PromptStyle = styleSearch
	ti.Placeholder = "filter by command or pid"

	return Model{
		session: NewSession(),
		opts:    opts,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		search:  ti,
	}
}

// Session returns the current picker state.
func (m Model) Session() Session {
	return m.session
}

// Init starts the first enumeration.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	load := m.opts.Load
	return func() tea.Msg {
		procs, err := load(context.Background())
		return loadedMsg{procs: procs, err: err}
	}
}

func (m Model) killTargets(pids []int) tea.Cmd {
	kill := m.opts.Kill
	return func() tea.Msg {
		return killedMsg{outcomes: kill(context.Background(), pids)}
	}
}

// syncDetail requests live details when the preview shows a process other
// than the one already fetched.
func (m *Model) syncDetail() tea.Cmd {
	if !m.session.Preview || m.opts.Inspect == nil {
		return nil
	}
	p, ok := m.session.Current()
	if !ok || p.PID == m.detailPID {
		return nil
	}
	m.detailPID = p.PID
	m.detail = nil
	inspect := m.opts.Inspect
	pid := p.PID
	return func() tea.Msg {
		d, err := inspect(context.Background(), pid)
		return detailMsg{pid: pid, detail: d, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.session.Phase != PhaseLoading && m.session.Phase != PhaseKilling {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.session = m.session.Loaded(msg.procs, msg.err)
		logrus.WithFields(logrus.Fields{
			"mode":  m.opts.Mode,
			"count": len(msg.procs),
			"phase": m.session.Phase,
		}).Debug("snapshot loaded")
		return m, m.syncDetail()

	case killedMsg:
		m.session = m.session.Killed(msg.outcomes)
		return m, nil

	case detailMsg:
		if msg.pid == m.detailPID && msg.err == nil {
			d := msg.detail
			m.detail = &d
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.session.Phase {
		case PhaseList:
			if m.session.Searching {
				return m.updateSearch(msg)
			}
			return m.updateList(msg)
		case PhaseConfirm:
			return m.updateConfirm(msg)
		case PhaseDone:
			return m.updateDone(msg)
		default:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.session = m.session.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.session = m.session.MoveDown()
	case key.Matches(msg, m.keys.Toggle):
		m.session = m.session.ToggleSelect()
	case key.Matches(msg, m.keys.SelectAll):
		m.session = m.session.SelectAll()
	case key.Matches(msg, m.keys.Kill):
		m.session = m.session.RequestConfirm()
	case key.Matches(msg, m.keys.Search):
		m.session = m.session.StartSearch()
		m.search.SetValue(m.session.Query)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Preview):
		m.session = m.session.TogglePreview()
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case msg.Type == tea.KeyEsc && m.session.Query != "":
		m.session = m.session.CancelSearch()
		m.search.SetValue("")
	}
	return m, m.syncDetail()
}

// updateSearch feeds raw text into the query. Navigation keys are not
// bound here so that every printable key reaches the filter.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.session = m.session.EndSearch()
		m.search.Blur()
		return m, m.syncDetail()
	case tea.KeyEsc:
		m.session = m.session.CancelSearch()
		m.search.SetValue("")
		m.search.Blur()
		return m, m.syncDetail()
	case tea.KeyBackspace:
		m.session = m.session.Backspace()
	case tea.KeyRunes, tea.KeySpace:
		if msg.Alt {
			return m, nil
		}
		for _, r := range msg.Runes {
			m.session = m.session.TypeRune(r)
		}
	default:
		return m, nil
	}
	m.search.SetValue(m.session.Query)
	m.search.CursorEnd()
	return m, m.syncDetail()
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.session = m.session.Answer(true)
		logrus.WithField("pids", m.session.Targets).Debug("terminating")
		return m, tea.Batch(m.spinner.Tick, m.killTargets(m.session.Targets))
	case key.Matches(msg, m.keys.No):
		m.session = m.session.Answer(false)
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.refresh()
	case key.Matches(msg, m.keys.Quit), msg.Type == tea.KeyEnter:
		return m, tea.Quit
	}
	return m, nil
}

// refresh drops the selection and any live details, then reloads.
func (m Model) refresh() (tea.Model, tea.Cmd) {
	m.session = m.session.Refresh()
	m.detailPID = 0
	m.detail = nil
	return m, tea.Batch(m.spinner.Tick, m.load())
}

// Run starts the full-screen picker and blocks until the operator quits.
// An enumeration failure shown by the picker is returned once it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.session.Phase == PhaseFailed {
		return m.session.Err
	}
	return nil
}

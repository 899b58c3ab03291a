package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"proclean/pkg/filter"
	"proclean/pkg/ps"
	"proclean/pkg/render"
)

const (
	detailWidth  = 35
	commandWidth = 45
	ruleWidth    = 70

	// chromeHeight is the number of lines around the rows: title (2),
	// rules (2), column header (2) and footer (3).
	chromeHeight = 9
	minRows      = 3
)

func (m Model) View() string {
	s := m.session
	switch s.Phase {
	case PhaseLoading:
		return "\n " + m.spinner.View() + " Scanning orphan processes...\n"
	case PhaseFailed:
		return stylePad.Render(
			styleErr.Render("Error: "+s.Err.Error()) + "\n" +
				styleDim.Render("Press q to quit"),
		)
	case PhaseEmpty:
		return "\n" + stylePad.Render(
			styleOK.Render("No orphan processes found.")+"\n"+
				styleDim.Render(fmt.Sprintf("Mode: %s | Nothing to clean up", m.opts.Mode)),
		) + "\n"
	}

	rule := stylePad.Render(styleDim.Render(strings.Repeat("─", ruleWidth)))

	var b strings.Builder
	b.WriteString(m.viewHeader() + "\n")
	b.WriteString(rule + "\n")
	table := m.viewTable()
	if s.Preview {
		table = lipgloss.JoinHorizontal(lipgloss.Top, table, m.viewDetail())
	}
	b.WriteString(table + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(stylePad.Render(m.viewFooter()))
	return b.String()
}

func (m Model) viewHeader() string {
	s := m.session
	modeStyle := styleModeDev
	if m.opts.Mode == filter.ModeAll {
		modeStyle = styleModeAll
	}
	left := styleTitle.Render("proclean") + " " +
		modeStyle.Render("["+string(m.opts.Mode)+"]") + " " +
		styleDim.Render(fmt.Sprintf("%d processes", len(s.Visible())))

	right := styleDim.Render("q:quit")
	if n := len(s.Selected); n > 0 {
		right = styleSelected.Render(fmt.Sprintf("%d selected", n)) + " " + right
	}

	gap := ruleWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	title := stylePad.Render(left + strings.Repeat(" ", gap) + right)

	var second string
	if s.Searching {
		second = m.search.View()
	} else if s.Query != "" {
		second = styleSearch.Render("/"+s.Query) + "  " + styleDim.Render("esc:clear")
	} else {
		second = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return title + "\n" + stylePad.Render(second)
}

func (m Model) visibleRows() int {
	height := m.height
	if height == 0 {
		height = 24
	}
	return max(minRows, height-chromeHeight)
}

// window returns the slice bounds of the rows to draw, keeping the cursor
// near the middle once the list is taller than the screen.
func window(cursor, total, rows int) (int, int) {
	if total <= rows {
		return 0, total
	}
	start := cursor - rows/2
	start = max(0, min(start, total-rows))
	return start, start + rows
}

func (m Model) viewTable() string {
	s := m.session
	visible := s.Visible()

	var lines []string
	lines = append(lines, styleDim.Bold(true).Render(fmt.Sprintf("   %-8s%5s  %5s  %12s  COMMAND", "PID", "CPU%", "MEM", "ELAPSED")))
	lines = append(lines, styleDim.Render(strings.Repeat("─", ruleWidth)))

	rows := m.visibleRows()
	start, end := window(s.Cursor, len(visible), rows)
	for i := start; i < end; i++ {
		lines = append(lines, m.viewRow(visible[i], i == s.Cursor))
	}
	if len(visible) > rows {
		lines = append(lines, styleDim.Render(fmt.Sprintf("%d-%d/%d", start+1, end, len(visible))))
	}
	if len(visible) == 0 {
		lines = append(lines, styleDim.Render("  no match for /"+s.Query))
	}
	return stylePad.Render(strings.Join(lines, "\n"))
}

func (m Model) viewRow(p ps.Process, highlighted bool) string {
	cursor := " "
	if highlighted {
		cursor = ">"
	}
	indicator := "○"
	if m.session.IsSelected(p.PID) {
		indicator = "●"
	}

	pid := fmt.Sprintf("%-7d", p.PID)
	cpu := fmt.Sprintf("%5s", render.FormatCPU(p.CPU))
	mem := fmt.Sprintf("%5s", render.FormatMem(p.RSS))
	elapsed := fmt.Sprintf("%12s", p.Elapsed)
	cmd := render.Truncate(p.Command, commandWidth)

	if highlighted {
		return styleHighlight.Render(cursor + indicator + " " + pid + " " + cpu + "  " + mem + "  " + elapsed + "  " + cmd)
	}

	if m.session.IsSelected(p.PID) {
		indicator = styleSelected.Render(indicator)
	} else {
		indicator = styleDim.Render(indicator)
	}
	switch {
	case p.CPU > render.CPUHot:
		cpu = styleCPUHot.Render(cpu)
	case p.CPU > render.CPUWarm:
		cpu = styleCPUWarm.Render(cpu)
	}
	return cursor + indicator + " " + pid + " " + cpu + "  " + mem + "  " + styleDim.Render(elapsed) + "  " + cmd
}

func (m Model) viewDetail() string {
	p, ok := m.session.Current()
	if !ok {
		return styleDetailEmpty.Render(styleDim.Render("No process selected"))
	}

	label := func(l, v string) string { return styleLabel.Render(l+": ") + v }
	cpu := render.FormatCPU(p.CPU) + "%"
	if p.CPU > render.CPUHot {
		cpu = styleCPUHot.Render(cpu)
	}

	lines := []string{
		label("PID", lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(p.PID))),
		label("PPID", strconv.Itoa(p.PPID)),
		label("CPU", cpu),
		label("MEM", fmt.Sprintf("%dMB", (p.RSS+512)/1024)),
		label("Elapsed", p.Elapsed),
	}
	if d := m.detail; d != nil && d.PID == p.PID {
		if d.Status != "" {
			lines = append(lines, label("State", d.Status))
		}
		if !d.Started.IsZero() {
			lines = append(lines, label("Started", humanize.Time(d.Started)))
		}
		if d.OpenFiles > 0 {
			lines = append(lines, label("Files", strconv.Itoa(d.OpenFiles)))
		}
	}
	if rule, ok := filter.Explain(p.Command); ok {
		lines = append(lines, label("Rule", rule))
	}
	lines = append(lines, "", styleLabel.Render("Command:"))
	lines = append(lines, ansi.Hardwrap(p.Command, detailWidth-5, true))
	return styleDetail.Render(strings.Join(lines, "\n"))
}

func (m Model) viewFooter() string {
	s := m.session
	switch s.Phase {
	case PhaseConfirm:
		return styleWarn.Render(fmt.Sprintf("Kill %d process(es)? [y/N] ", len(s.Targets))) +
			styleDim.Render("PIDs: "+joinPIDs(s.Targets))
	case PhaseKilling:
		return m.spinner.View() + fmt.Sprintf(" Killing %d process(es)...", len(s.Targets))
	case PhaseDone:
		return viewOutcomes(s)
	}
	if n := len(s.Selected); n > 0 {
		return styleDim.Render(fmt.Sprintf("%d selected", n))
	}
	return styleDim.Render("No selection (enter kills highlighted)")
}

func viewOutcomes(s Session) string {
	var lines []string
	if ok := s.Outcomes.Succeeded(); len(ok) > 0 {
		lines = append(lines, styleOK.Render("Killed: "+joinPIDs(ok)))
	}
	for _, r := range s.Outcomes.Failed() {
		lines = append(lines, styleErr.Render(fmt.Sprintf("Failed PID %d: %v", r.PID, r.Err)))
	}
	lines = append(lines, styleDim.Render("Press r to refresh, q to quit"))
	return strings.Join(lines, "\n")
}

func joinPIDs(pids []int) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = strconv.Itoa(pid)
	}
	return strings.Join(parts, ", ")
}

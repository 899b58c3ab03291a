package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"proclean/pkg/ps"
)

const (
	// CommandWidth is the display width commands are truncated to.
	CommandWidth = 50

	// EmptyMessage is printed instead of rows when nothing matched.
	EmptyMessage = "  No orphan processes found."

	// TTYWarning labels the block of orphans still attached to a terminal.
	TTYWarning = "  ⚠ TTY-attached orphans (may still be active)"
)

// FormatMem renders a resident size in KB as whole megabytes, or as
// gigabytes with one decimal from 1024 MB up.
func FormatMem(rssKB int) string {
	mb := float64(rssKB) / 1024
	if mb >= 1024 {
		return fmt.Sprintf("%.1fG", mb/1024)
	}
	return fmt.Sprintf("%dM", int(math.Round(mb)))
}

// FormatCPU renders a CPU percentage with one decimal.
func FormatCPU(cpu float64) string {
	return strconv.FormatFloat(cpu, 'f', 1, 64)
}

// Truncate shortens cmd to width columns, ending with "...".
func Truncate(cmd string, width int) string {
	return ansi.Truncate(cmd, width, "...")
}

// Header returns the column header line.
func Header() string {
	return styleDim.Render(fmt.Sprintf("%-7s %5s  %6s  %14s  COMMAND", "PID", "CPU%", "MEM", "ELAPSED"))
}

// Line renders one process row. Rows of terminal-attached orphans are
// rendered entirely in yellow.
func Line(p ps.Process) string {
	pid := fmt.Sprintf("%-7d", p.PID)
	cpu := fmt.Sprintf("%5s", FormatCPU(p.CPU))
	mem := fmt.Sprintf("%6s", FormatMem(p.RSS))
	elapsed := fmt.Sprintf("%14s", p.Elapsed)
	cmd := Truncate(p.Command, CommandWidth)

	if p.HasTerminal() {
		return styleYellow.Render(pid + " " + cpu + "  " + mem + "  " + elapsed + "  " + cmd)
	}

	if s, ok := cpuStyle(p.CPU); ok {
		cpu = s.Render(cpu)
	}
	return styleBold.Render(pid) + " " + cpu + "  " + mem + "  " + styleDim.Render(elapsed) + "  " + cmd
}

// SplitByTTY separates detached orphans from the ones still holding a
// terminal, keeping the order within each group.
func SplitByTTY(procs []ps.Process) (detached, attached []ps.Process) {
	for _, p := range procs {
		if p.HasTerminal() {
			attached = append(attached, p)
		} else {
			detached = append(detached, p)
		}
	}
	return detached, attached
}

// Lines returns the header followed by one line per process. Terminal
// attached orphans come last, under a warning label.
func Lines(procs []ps.Process) []string {
	lines := []string{Header()}
	if len(procs) == 0 {
		return append(lines, styleDim.Render(EmptyMessage))
	}

	detached, attached := SplitByTTY(procs)
	for _, p := range detached {
		lines = append(lines, Line(p))
	}
	if len(attached) > 0 {
		lines = append(lines, styleWarning.Render(TTYWarning))
		for _, p := range attached {
			lines = append(lines, Line(p))
		}
	}
	return lines
}

// Table renders Lines as one newline-terminated block.
func Table(procs []ps.Process) string {
	return strings.Join(Lines(procs), "\n") + "\n"
}

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"proclean/pkg/filter"
	"proclean/pkg/ps"
)

// DefaultPreviewWidth is used when the picker does not report its width.
const DefaultPreviewWidth = 50

func section(title string, width int) string {
	head := "─── " + title + " "
	rest := width - 4 - ansi.StringWidth(head)
	if rest < 0 {
		rest = 0
	}
	return styleSection.Render("  " + head + strings.Repeat("─", rest))
}

func field(label, value string) string {
	return styleDim.Render(fmt.Sprintf("  %-10s", label)) + value
}

// Preview renders the details pane for a process. p comes from the
// snapshot; d holds the live details and may be nil when the process
// could not be inspected.
func Preview(p ps.Process, d *ps.Detail, width int) string {
	if width <= 8 {
		width = DefaultPreviewWidth
	}
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(section("Process", width) + "\n")
	b.WriteString(field("PID", styleBold.Render(strconv.Itoa(p.PID))) + "\n")
	b.WriteString(field("PPID", strconv.Itoa(p.PPID)+" (orphan)") + "\n")
	if d != nil && d.Status != "" {
		b.WriteString(field("State", d.Status) + "\n")
	}
	cpu := FormatCPU(p.CPU) + "%"
	if s, ok := cpuStyle(p.CPU); ok {
		cpu = s.Render(cpu)
	}
	b.WriteString(field("CPU", cpu) + "\n")
	mem := humanize.IBytes(uint64(p.RSS) * 1024)
	if d != nil && d.MemoryPercent > 0 {
		mem += fmt.Sprintf("  (%.1f%%)", d.MemoryPercent)
	}
	b.WriteString(field("Memory", mem) + "\n")
	if d != nil && !d.Started.IsZero() {
		b.WriteString(field("Started", d.Started.Format("Mon Jan 2 15:04:05 2006")+"  ("+humanize.Time(d.Started)+")") + "\n")
	}
	b.WriteString(field("Elapsed", p.Elapsed) + "\n")
	if rule, ok := filter.Explain(p.Command); ok {
		b.WriteString(field("Matched", rule) + "\n")
	}
	b.WriteString("\n")

	cmd := p.Command
	if d != nil && d.Command != "" {
		cmd = d.Command
	}
	b.WriteString(section("Command", width) + "\n")
	for _, line := range strings.Split(ansi.Wordwrap(cmd, width-4, "/ "), "\n") {
		b.WriteString("  " + line + "\n")
	}

	if d != nil && d.OpenFiles > 0 {
		b.WriteString("\n")
		b.WriteString(section(fmt.Sprintf("Open Files (%d)", d.OpenFiles), width) + "\n")
		for _, f := range d.Files {
			b.WriteString("  " + Truncate(f, width-4) + "\n")
		}
	}
	return b.String()
}

// Gone renders the preview shown when the process has already exited.
func Gone(pid int) string {
	return "\n" + styleRed.Render(fmt.Sprintf("  Process %d no longer exists", pid)) + "\n"
}

// NotAProcess renders the preview shown for header or label lines.
func NotAProcess() string {
	return "\n" + styleDim.Render("  Not a process line") + "\n"
}

// Package render formats orphan processes as colored text for the
// fuzzy pickers and the ls command.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// renderer always emits ANSI colors: the table is usually read by fzf
// through a pipe, where color detection would turn them off.
var renderer = newRenderer()

func newRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI)
	return r
}

var (
	styleBold    = renderer.NewStyle().Bold(true)
	styleDim     = renderer.NewStyle().Faint(true)
	styleRed     = renderer.NewStyle().Foreground(lipgloss.Color("1"))
	styleGreen   = renderer.NewStyle().Foreground(lipgloss.Color("2"))
	styleYellow  = renderer.NewStyle().Foreground(lipgloss.Color("3"))
	styleWarning = renderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	styleSection = renderer.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
)

// CPU thresholds, in percent, above which the value is highlighted.
const (
	CPUHot  = 5.0
	CPUWarm = 1.0
)

func cpuStyle(cpu float64) (lipgloss.Style, bool) {
	switch {
	case cpu > CPUHot:
		return styleRed, true
	case cpu > CPUWarm:
		return styleYellow, true
	}
	return lipgloss.Style{}, false
}

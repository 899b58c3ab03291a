package render

import (
	"fmt"
	"strconv"
	"strings"

	"proclean/pkg/terminate"
)

// Report renders a termination batch: one line for the killed pids, then
// one line per failure.
func Report(outcomes terminate.Outcomes) string {
	var b strings.Builder
	if ok := outcomes.Succeeded(); len(ok) > 0 {
		pids := make([]string, len(ok))
		for i, pid := range ok {
			pids[i] = strconv.Itoa(pid)
		}
		b.WriteString(styleGreen.Render("  Killed: "+strings.Join(pids, ", ")) + "\n")
	}
	for _, r := range outcomes.Failed() {
		b.WriteString(styleRed.Render(fmt.Sprintf("  Failed PID %d: %v", r.PID, r.Err)) + "\n")
	}
	return b.String()
}

// Summary renders outcomes as a single uncolored line.
func Summary(outcomes terminate.Outcomes) string {
	var parts []string
	if ok := outcomes.Succeeded(); len(ok) > 0 {
		pids := make([]string, len(ok))
		for i, pid := range ok {
			pids[i] = strconv.Itoa(pid)
		}
		parts = append(parts, "Killed: "+strings.Join(pids, ", "))
	}
	for _, r := range outcomes.Failed() {
		parts = append(parts, fmt.Sprintf("Failed PID %d: %v", r.PID, r.Err))
	}
	return strings.Join(parts, " | ")
}

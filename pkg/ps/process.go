package ps

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// ReaperPID is the pid orphaned processes are reparented to.
	ReaperPID = 1

	// NoTerminal is the tty token ps prints for a process without a
	// controlling terminal on macOS. Linux prints "?", which ParseLine
	// normalizes to this value.
	NoTerminal = "??"
)

// Process is one row of the process table at the time of the query.
// Values are never patched in place: every List call returns fresh ones.
type Process struct {
	PID     int     `yaml:"pid"`
	PPID    int     `yaml:"ppid"`
	TTY     string  `yaml:"tty"`
	CPU     float64 `yaml:"cpu"`
	RSS     int     `yaml:"rss_kb"` // resident memory in KB
	Elapsed string  `yaml:"elapsed"`
	Command string  `yaml:"command"`
}

// IsOrphan reports whether p was reparented to the reaper and has no
// controlling terminal. Both conditions are required.
func (p Process) IsOrphan() bool {
	return p.PPID == ReaperPID && p.TTY == NoTerminal
}

// HasTerminal reports whether p is still attached to a terminal device.
func (p Process) HasTerminal() bool {
	return p.TTY != NoTerminal
}

// lineRe matches "PID PPID TTY %CPU RSS ELAPSED COMMAND...". The command
// is the greedy rest of the line and may contain whitespace.
var lineRe = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s+(\S+)\s+([\d.]+)\s+(\d+)\s+(\S+)\s+(.+)$`)

var (
	controlRe    = regexp.MustCompile(`[\x00-\x1f]`)
	octalEscRe   = regexp.MustCompile(`\\0[0-7]{2}`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseLine parses one line of
// `ps -o pid=,ppid=,tty=,%cpu=,rss=,etime=,command=` output.
// It returns false for lines that do not have the expected shape.
func ParseLine(line string) (Process, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Process{}, false
	}

	pid, err := strconv.Atoi(m[1])
	if err != nil {
		return Process{}, false
	}
	ppid, err := strconv.Atoi(m[2])
	if err != nil {
		return Process{}, false
	}
	cpu, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return Process{}, false
	}
	rss, err := strconv.Atoi(m[5])
	if err != nil {
		return Process{}, false
	}

	tty := m[3]
	if tty == "?" {
		tty = NoTerminal
	}

	return Process{
		PID:     pid,
		PPID:    ppid,
		TTY:     tty,
		CPU:     cpu,
		RSS:     rss,
		Elapsed: m[6],
		Command: SanitizeCommand(m[7]),
	}, true
}

// SanitizeCommand replaces control bytes and their octal-escape renderings
// (e.g. `\012`) with spaces, collapses whitespace runs and trims the result.
func SanitizeCommand(cmd string) string {
	cmd = controlRe.ReplaceAllString(cmd, " ")
	cmd = octalEscRe.ReplaceAllString(cmd, " ")
	cmd = whitespaceRe.ReplaceAllString(cmd, " ")
	return strings.TrimSpace(cmd)
}

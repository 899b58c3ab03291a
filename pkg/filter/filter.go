package filter

import (
	"fmt"

	"proclean/pkg/ps"
)

// Mode selects the classification applied to the orphan list.
type Mode string

const (
	// ModeDev shows only processes matching DevRules.
	ModeDev Mode = "dev"
	// ModeAll shows everything not matching SystemPrefixes.
	ModeAll Mode = "all"
)

// ModeFor maps the --all flag to a Mode.
func ModeFor(all bool) Mode {
	if all {
		return ModeAll
	}
	return ModeDev
}

// Predicate decides whether a command line is shown.
type Predicate func(cmd string) bool

// Dev reports whether cmd looks like a developer tool.
func Dev(cmd string) bool {
	_, ok := firstMatch(DevRules, cmd)
	return ok
}

// All reports whether cmd is outside the OS-owned paths.
func All(cmd string) bool {
	_, ok := firstMatch(SystemPrefixes, cmd)
	return !ok
}

// Explain returns the name of the dev rule matching cmd, if any.
func Explain(cmd string) (string, bool) {
	r, ok := firstMatch(DevRules, cmd)
	return r.Name, ok
}

func firstMatch(rules []Rule, cmd string) (Rule, bool) {
	for _, r := range rules {
		if r.Match(cmd) {
			return r, true
		}
	}
	return Rule{}, false
}

// ForMode returns the predicate for mode.
func ForMode(mode Mode) (Predicate, error) {
	switch mode {
	case ModeDev:
		return Dev, nil
	case ModeAll:
		return All, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

// Apply returns the processes of procs accepted in mode, in their original
// order. procs is not modified.
func Apply(mode Mode, procs []ps.Process) []ps.Process {
	pred, err := ForMode(mode)
	if err != nil {
		return nil
	}
	out := make([]ps.Process, 0, len(procs))
	for _, p := range procs {
		if pred(p.Command) {
			out = append(out, p)
		}
	}
	return out
}
